package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
	"github.com/mispasmin-creator/Store-FMS-sub001/service"
)

// POHandler serves the purchase-order tracking screen. A PO's display
// status is never stored: it is derived per request by joining PO MASTER
// against INDENT and STORE IN, so it reflects whatever snapshots currently
// exist.
type POHandler struct {
	deps *Deps
}

func NewPOHandler(deps *Deps) *POHandler {
	return &POHandler{deps: deps}
}

// List returns one row per PO number (first line wins), newest first, with
// the derived receipt status and the total PO value for the visible rows.
func (h *POHandler) List(c *gin.Context) {
	firm := firmOf(c)

	indentPOs := projection.CollectKeys(h.deps.Store.Rows(model.SheetIndent), projection.IndentSchema(), "poNumber")
	receivedPOs := projection.CollectKeys(h.deps.Store.Rows(model.SheetStoreIn), projection.StoreInSchema(), "poNumber")

	p := projection.Projector{
		Schema:      projection.POSchema(),
		Status:      projection.POReceiptStatus(indentPOs, receivedPOs),
		StatusField: "receiptStatus",
		SortField:   "poNumber",
		DedupeField: "poNumber",
	}
	rows := p.ProjectAll(h.deps.Store.Rows(model.SheetPOMaster), firm)

	c.JSON(http.StatusOK, gin.H{
		"rows":        rows,
		"totalAmount": projection.SumField(rows, "totalAmount").StringFixed(2),
		"loading":     h.deps.Store.Loading(model.SheetPOMaster),
	})
}

type updatePORequest struct {
	DeliveryDate string `json:"deliveryDate"`
	Remark       string `json:"remark"`
}

// Update patches mutable PO fields in place. POs have no stage pair; this
// is a plain keyed update followed by the usual delayed re-fetch.
func (h *POHandler) Update(c *gin.Context) {
	rowIndex, ok := rowIndexParam(c)
	if !ok {
		return
	}

	var req updatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, found := h.deps.findRow(model.SheetPOMaster, projection.POSchema(), firmOf(c), rowIndex); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Row not found"})
		return
	}

	update := model.Row{model.RowKeyField: float64(rowIndex)}
	if req.DeliveryDate != "" {
		update["deliveryDate"] = req.DeliveryDate
	}
	if req.Remark != "" {
		update["remark"] = req.Remark
	}

	if err := h.deps.Client.WriteRows(c.Request.Context(), service.ActionUpdate, model.SheetPOMaster, []model.Row{update}); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	h.deps.Refresher.Schedule(model.SheetPOMaster)
	c.JSON(http.StatusOK, gin.H{"rowIndex": rowIndex})
}

// Send emails the PO document to the vendor through the endpoint's upload
// action, then records the stored copy's URL on the row. The upload runs
// first; if it fails the submission aborts and no row is written.
func (h *POHandler) Send(c *gin.Context) {
	rowIndex, ok := rowIndexParam(c)
	if !ok {
		return
	}
	firm := firmOf(c)

	if _, found := h.deps.findRow(model.SheetPOMaster, projection.POSchema(), firm, rowIndex); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Row not found"})
		return
	}

	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vendor email required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	fileURL, err := h.deps.Client.UploadFile(c.Request.Context(), service.UploadRequest{
		FileName:     header.Filename,
		MimeType:     contentType,
		Data:         data,
		FolderID:     uploadFolderID(h.deps),
		Email:        email,
		EmailSubject: c.DefaultPostForm("subject", "Purchase Order"),
		EmailBody:    c.PostForm("body"),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upload failed: " + err.Error()})
		return
	}

	if fileURL != "" {
		update := model.Row{model.RowKeyField: float64(rowIndex), "poCopy": fileURL}
		if err := h.deps.Client.WriteRows(c.Request.Context(), service.ActionUpdate, model.SheetPOMaster, []model.Row{update}); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Update failed: " + err.Error()})
			return
		}
		h.deps.Refresher.Schedule(model.SheetPOMaster)
	}

	c.JSON(http.StatusOK, gin.H{"rowIndex": rowIndex, "fileUrl": fileURL})
}
