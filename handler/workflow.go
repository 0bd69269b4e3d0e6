package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/middleware"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
	"github.com/mispasmin-creator/Store-FMS-sub001/service"
)

// Deps bundles the services every screen handler works against: the sheet
// snapshots, the write path to the endpoint, and the delayed post-write
// re-fetch.
type Deps struct {
	Store     *service.SheetStore
	Client    *service.SheetClient
	Refresher *service.Refresher
	// UploadFolderID is the endpoint-side folder documents are filed under.
	UploadFolderID string
}

func uploadFolderID(d *Deps) string {
	return d.UploadFolderID
}

// stamp formats the completion timestamp written into actual<N> columns.
var stamp = func() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// firmOf reads the authenticated user's firm scope.
func firmOf(c *gin.Context) string {
	return middleware.GetFirm(c)
}

// rowIndexParam parses the :rowIndex path segment.
func rowIndexParam(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("rowIndex"))
	if err != nil || idx <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid row index"})
		return 0, false
	}
	return idx, true
}

// findRow locates a row by its stable key within the user's scope. Rows
// outside the scope are reported as not found, same as absent rows.
func (d *Deps) findRow(sheet model.SheetName, schema projection.Schema, firm string, rowIndex int) (model.Row, bool) {
	for _, raw := range d.Store.Rows(sheet) {
		row := schema.Normalize(raw)
		if row.RowIndex() != rowIndex {
			continue
		}
		if schema.ScopeField != "" && !projection.InScope(firm, row.Str(schema.ScopeField)) {
			return nil, false
		}
		return row, true
	}
	return nil, false
}

// completeStage performs the one legal stage transition, PENDING -> DONE:
// it stamps actual<N>, merges the stage-specific outcome fields, posts the
// update, and on confirmed success schedules the delayed re-fetch. Stages
// are append-only; a second completion of the same stage is rejected. On
// write failure nothing is scheduled so the caller stays in the edit state
// and can retry.
func (d *Deps) completeStage(c *gin.Context, sheet model.SheetName, schema projection.Schema, stage int, patch model.Row) {
	rowIndex, ok := rowIndexParam(c)
	if !ok {
		return
	}
	firm := firmOf(c)

	row, found := d.findRow(sheet, schema, firm, rowIndex)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Row not found"})
		return
	}

	switch projection.StageStateOf(row, stage) {
	case projection.StageNotStarted:
		c.JSON(http.StatusConflict, gin.H{"error": "Stage has not been planned for this row"})
		return
	case projection.StageDone:
		c.JSON(http.StatusConflict, gin.H{"error": "Stage already completed"})
		return
	}

	update := model.Row{
		model.RowKeyField:             float64(rowIndex),
		projection.ActualField(stage): stamp(),
	}
	for k, v := range patch {
		update[k] = v
	}

	if err := d.Client.WriteRows(c.Request.Context(), service.ActionUpdate, sheet, []model.Row{update}); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	d.Refresher.Schedule(sheet)
	c.JSON(http.StatusOK, gin.H{
		"rowIndex": rowIndex,
		"sheet":    string(sheet),
		"stage":    stage,
	})
}

// refreshContext detaches the refresh from the request lifecycle; manual
// refreshes keep running even if the browser gives up.
func refreshContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), 60*time.Second)
}
