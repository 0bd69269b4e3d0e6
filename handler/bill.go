package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
)

// BillHandler serves the bill reconciliation screen: BILL ENTRY stage 1.
// Each bill row is annotated with the value of goods actually received
// against its PO and the variance from the billed amount.
type BillHandler struct {
	deps *Deps
}

func NewBillHandler(deps *Deps) *BillHandler {
	return &BillHandler{deps: deps}
}

// List returns bills split into pending and history, each annotated with
// receivedValue and variance (billed minus received, positive means the
// vendor billed more than was received).
func (h *BillHandler) List(c *gin.Context) {
	p := projection.Projector{
		Schema:    projection.BillSchema(),
		Stage:     projection.StageBillReconcile,
		SortField: "billNumber",
	}
	result := p.Project(h.deps.Store.Rows(model.SheetBillEntry), firmOf(c))

	storeInRows := h.deps.Store.Rows(model.SheetStoreIn)
	storeInSchema := projection.StoreInSchema()
	for _, row := range append(result.Pending, result.History...) {
		received := projection.ReceivedValue(storeInRows, storeInSchema, row.Str("poNumber"))
		billed := projection.ParseAmount(row["billAmount"])
		row["receivedValue"] = received.StringFixed(2)
		row["variance"] = billed.Sub(received).StringFixed(2)
	}

	respondTabs(c, result, h.deps.Store.Loading(model.SheetBillEntry))
}

type reconcileRequest struct {
	Status string `json:"status" binding:"required"`
	Remark string `json:"remark"`
}

// Reconcile closes a bill and completes stage 1.
func (h *BillHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.deps.completeStage(c, model.SheetBillEntry, projection.BillSchema(), projection.StageBillReconcile, model.Row{
		"status": req.Status,
		"remark": req.Remark,
	})
}
