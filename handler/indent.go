package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
)

// IndentHandler serves the purchase-indent approval screen: INDENT stage 1.
type IndentHandler struct {
	deps *Deps
}

func NewIndentHandler(deps *Deps) *IndentHandler {
	return &IndentHandler{deps: deps}
}

func (h *IndentHandler) projector() projection.Projector {
	return projection.Projector{
		Schema:    projection.IndentSchema(),
		Stage:     projection.StageIndentApproval,
		SortField: "indentNumber",
	}
}

// List returns the pending/history split of indents awaiting approval,
// scoped to the user's firm. ?tab=pending|history narrows to one tab.
func (h *IndentHandler) List(c *gin.Context) {
	result := h.projector().Project(h.deps.Store.Rows(model.SheetIndent), firmOf(c))
	for _, row := range append(result.Pending, result.History...) {
		row["date"] = projection.DisplayDate(row.Str("timestamp"))
	}

	respondTabs(c, result, h.deps.Store.Loading(model.SheetIndent))
}

type approveIndentRequest struct {
	Status string `json:"status" binding:"required"`
	Remark string `json:"remark"`
}

// Approve completes stage 1 for one indent row. Write failure leaves the
// row pending so the user can retry; no re-fetch is scheduled in that case.
func (h *IndentHandler) Approve(c *gin.Context) {
	var req approveIndentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.deps.completeStage(c, model.SheetIndent, projection.IndentSchema(), projection.StageIndentApproval, model.Row{
		"status": req.Status,
		"remark": req.Remark,
	})
}

// respondTabs renders a staged projection, honoring the ?tab= query.
func respondTabs(c *gin.Context, result projection.Result, loading bool) {
	switch c.Query("tab") {
	case "pending":
		c.JSON(http.StatusOK, gin.H{"rows": result.Pending, "loading": loading})
	case "history":
		c.JSON(http.StatusOK, gin.H{"rows": result.History, "loading": loading})
	default:
		c.JSON(http.StatusOK, gin.H{
			"pending": result.Pending,
			"history": result.History,
			"loading": loading,
		})
	}
}
