package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

// SheetHandler exposes raw snapshots and manual refresh. Screens normally
// use the projected views; this surface backs debugging and the generic
// grid screen.
type SheetHandler struct {
	deps *Deps
}

func NewSheetHandler(deps *Deps) *SheetHandler {
	return &SheetHandler{deps: deps}
}

// Get returns the raw snapshot and loading flag for one sheet.
func (h *SheetHandler) Get(c *gin.Context) {
	name, err := model.ParseSheetName(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown sheet"})
		return
	}

	resp := gin.H{
		"sheet":   string(name),
		"rows":    h.deps.Store.Rows(name),
		"loading": h.deps.Store.Loading(name),
	}
	if fetchedAt := h.deps.Store.FetchedAt(name); !fetchedAt.IsZero() {
		resp["fetched_at"] = fetchedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if name == model.SheetMaster {
		resp["options"] = h.deps.Store.Options()
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh re-fetches one sheet. The previous snapshot is kept when the
// fetch fails.
func (h *SheetHandler) Refresh(c *gin.Context) {
	name, err := model.ParseSheetName(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown sheet"})
		return
	}

	ctx, cancel := refreshContext(c)
	defer cancel()
	if err := h.deps.Store.Refresh(ctx, name); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Refresh failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheet": string(name), "rows": len(h.deps.Store.Rows(name))})
}

// RefreshAll re-fetches every sheet independently and reports per-sheet
// failures. Partial success is normal; callers must not assume cross-sheet
// consistency.
func (h *SheetHandler) RefreshAll(c *gin.Context) {
	ctx, cancel := refreshContext(c)
	defer cancel()

	failures := h.deps.Store.RefreshAll(ctx)
	failed := make(map[string]string, len(failures))
	for name, err := range failures {
		failed[string(name)] = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"refreshed": len(model.AllSheets()) - len(failed),
		"failed":    failed,
	})
}
