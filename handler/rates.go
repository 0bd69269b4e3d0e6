package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
)

// RateHandler serves the vendor rate approval screen: INDENT stage 2.
// Each pending row carries the three quoted vendor/rate pairs; approval
// picks one and stamps the stage.
type RateHandler struct {
	deps *Deps
}

func NewRateHandler(deps *Deps) *RateHandler {
	return &RateHandler{deps: deps}
}

// List returns indents whose rate comparison is due or done.
func (h *RateHandler) List(c *gin.Context) {
	p := projection.Projector{
		Schema:    projection.IndentSchema(),
		Stage:     projection.StageRateApproval,
		SortField: "indentNumber",
	}
	result := p.Project(h.deps.Store.Rows(model.SheetIndent), firmOf(c))
	respondTabs(c, result, h.deps.Store.Loading(model.SheetIndent))
}

type approveRateRequest struct {
	ApprovedVendor string  `json:"approvedVendor" binding:"required"`
	ApprovedRate   float64 `json:"approvedRate" binding:"required"`
	Remark         string  `json:"remark"`
}

// Approve records the winning vendor and rate and completes stage 2.
func (h *RateHandler) Approve(c *gin.Context) {
	var req approveRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.deps.completeStage(c, model.SheetIndent, projection.IndentSchema(), projection.StageRateApproval, model.Row{
		"approvedVendor": req.ApprovedVendor,
		"approvedRate":   req.ApprovedRate,
		"remark":         req.Remark,
	})
}
