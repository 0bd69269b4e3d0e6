package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
)

// IssueHandler serves the stock-issue screen: ISSUE stage 1.
type IssueHandler struct {
	deps *Deps
}

func NewIssueHandler(deps *Deps) *IssueHandler {
	return &IssueHandler{deps: deps}
}

// List returns issue requests split into pending and history.
func (h *IssueHandler) List(c *gin.Context) {
	p := projection.Projector{
		Schema:    projection.IssueSchema(),
		Stage:     projection.StageIssueApproval,
		SortField: "issueNumber",
	}
	result := p.Project(h.deps.Store.Rows(model.SheetIssue), firmOf(c))
	respondTabs(c, result, h.deps.Store.Loading(model.SheetIssue))
}

type issueRequest struct {
	IssuedQty float64 `json:"issuedQty" binding:"required"`
	IssuedTo  string  `json:"issuedTo"`
	Remark    string  `json:"remark"`
}

// Issue records the quantity actually handed out and completes stage 1.
func (h *IssueHandler) Issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.IssuedQty <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issued quantity"})
		return
	}

	patch := model.Row{
		"issuedQty": req.IssuedQty,
		"status":    "Issued",
		"remark":    req.Remark,
	}
	if req.IssuedTo != "" {
		patch["issuedTo"] = req.IssuedTo
	}

	h.deps.completeStage(c, model.SheetIssue, projection.IssueSchema(), projection.StageIssueApproval, patch)
}
