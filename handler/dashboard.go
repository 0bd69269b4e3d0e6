package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
	"github.com/mispasmin-creator/Store-FMS-sub001/service"
)

// DashboardHandler serves the landing summary and the xlsx export of any
// projected view. Everything here is recomputed from the current snapshots
// on each request.
type DashboardHandler struct {
	deps *Deps
}

func NewDashboardHandler(deps *Deps) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

type stagedView struct {
	name      string
	sheet     model.SheetName
	schema    projection.Schema
	stage     int
	sortField string
}

func stagedViews() []stagedView {
	return []stagedView{
		{"indents", model.SheetIndent, projection.IndentSchema(), projection.StageIndentApproval, "indentNumber"},
		{"rates", model.SheetIndent, projection.IndentSchema(), projection.StageRateApproval, "indentNumber"},
		{"store-in", model.SheetStoreIn, projection.StoreInSchema(), projection.StageMaterialReceipt, "liftNumber"},
		{"issues", model.SheetIssue, projection.IssueSchema(), projection.StageIssueApproval, "issueNumber"},
		{"bills", model.SheetBillEntry, projection.BillSchema(), projection.StageBillReconcile, "billNumber"},
	}
}

// Summary returns per-view pending/history counts plus PO totals for the
// user's firm.
func (h *DashboardHandler) Summary(c *gin.Context) {
	firm := firmOf(c)

	views := gin.H{}
	for _, v := range stagedViews() {
		p := projection.Projector{Schema: v.schema, Stage: v.stage}
		result := p.Project(h.deps.Store.Rows(v.sheet), firm)
		views[v.name] = gin.H{
			"pending": len(result.Pending),
			"history": len(result.History),
			"loading": h.deps.Store.Loading(v.sheet),
		}
	}

	indentPOs := projection.CollectKeys(h.deps.Store.Rows(model.SheetIndent), projection.IndentSchema(), "poNumber")
	receivedPOs := projection.CollectKeys(h.deps.Store.Rows(model.SheetStoreIn), projection.StoreInSchema(), "poNumber")
	poProjector := projection.Projector{
		Schema:      projection.POSchema(),
		Status:      projection.POReceiptStatus(indentPOs, receivedPOs),
		StatusField: "receiptStatus",
		DedupeField: "poNumber",
	}
	poRows := poProjector.ProjectAll(h.deps.Store.Rows(model.SheetPOMaster), firm)

	statusCounts := map[string]int{}
	for _, row := range poRows {
		statusCounts[row.Str("receiptStatus")]++
	}

	c.JSON(http.StatusOK, gin.H{
		"views": views,
		"pos": gin.H{
			"count":       len(poRows),
			"byStatus":    statusCounts,
			"totalAmount": projection.SumField(poRows, "totalAmount").StringFixed(2),
			"loading":     h.deps.Store.Loading(model.SheetPOMaster),
		},
	})
}

// Export streams one projected view as an xlsx workbook.
func (h *DashboardHandler) Export(c *gin.Context) {
	firm := firmOf(c)
	view := c.Param("view")

	var (
		title   string
		columns []service.ExportColumn
		rows    []model.Row
	)

	switch view {
	case "pos":
		indentPOs := projection.CollectKeys(h.deps.Store.Rows(model.SheetIndent), projection.IndentSchema(), "poNumber")
		receivedPOs := projection.CollectKeys(h.deps.Store.Rows(model.SheetStoreIn), projection.StoreInSchema(), "poNumber")
		p := projection.Projector{
			Schema:      projection.POSchema(),
			Status:      projection.POReceiptStatus(indentPOs, receivedPOs),
			StatusField: "receiptStatus",
			SortField:   "poNumber",
			DedupeField: "poNumber",
		}
		title = "Purchase Orders"
		rows = p.ProjectAll(h.deps.Store.Rows(model.SheetPOMaster), firm)
		columns = []service.ExportColumn{
			{Header: "PO Number", Field: "poNumber"},
			{Header: "Indent Number", Field: "indentNumber"},
			{Header: "Firm", Field: "firm"},
			{Header: "Vendor", Field: "vendor"},
			{Header: "Product", Field: "product"},
			{Header: "Qty", Field: "qty"},
			{Header: "Rate", Field: "rate"},
			{Header: "Total Amount", Field: "totalAmount"},
			{Header: "Status", Field: "receiptStatus"},
		}
	default:
		found := false
		for _, v := range stagedViews() {
			if v.name != view {
				continue
			}
			p := projection.Projector{Schema: v.schema, Stage: v.stage, SortField: v.sortField}
			result := p.Project(h.deps.Store.Rows(v.sheet), firm)
			title = string(v.sheet)
			rows = append(result.Pending, result.History...)
			columns = exportColumnsFor(v.schema, v.stage)
			found = true
			break
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown view"})
			return
		}
	}

	f, err := service.BuildWorkbook(title, columns, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed: " + err.Error()})
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", view, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

// exportColumnsFor derives a column list from a schema, skipping the row
// key and the stage pair being exported (the partition already encodes it).
func exportColumnsFor(schema projection.Schema, stage int) []service.ExportColumn {
	skip := map[string]bool{
		model.RowKeyField:              true,
		projection.PlannedField(stage): true,
		projection.ActualField(stage):  true,
	}
	columns := make([]service.ExportColumn, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		if skip[f.Name] {
			continue
		}
		columns = append(columns, service.ExportColumn{Header: f.Name, Field: f.Name})
	}
	return columns
}
