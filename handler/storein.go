package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/projection"
	"github.com/mispasmin-creator/Store-FMS-sub001/service"
)

// StoreInHandler serves the goods-receipt screen: STORE IN stage 1. A
// receipt may carry a bill photo, which is stored in object storage before
// the row is touched.
type StoreInHandler struct {
	deps        *Deps
	attachments *service.AttachmentService
}

func NewStoreInHandler(deps *Deps, attachments *service.AttachmentService) *StoreInHandler {
	return &StoreInHandler{deps: deps, attachments: attachments}
}

// List returns planned receipts split into pending and history.
func (h *StoreInHandler) List(c *gin.Context) {
	p := projection.Projector{
		Schema:    projection.StoreInSchema(),
		Stage:     projection.StageMaterialReceipt,
		SortField: "liftNumber",
	}
	result := p.Project(h.deps.Store.Rows(model.SheetStoreIn), firmOf(c))
	respondTabs(c, result, h.deps.Store.Loading(model.SheetStoreIn))
}

// Receive confirms a material receipt. Multipart form: receivedQty,
// billNumber, billAmount, remark, optional photo. The photo upload happens
// first; if it fails the whole submission aborts and the row stays pending
// (never reference a file that was not stored).
func (h *StoreInHandler) Receive(c *gin.Context) {
	receivedQty, err := strconv.ParseFloat(c.PostForm("receivedQty"), 64)
	if err != nil || receivedQty <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid received quantity"})
		return
	}

	patch := model.Row{
		"receivedQty": receivedQty,
		"billNumber":  c.PostForm("billNumber"),
		"remark":      c.PostForm("remark"),
		"status":      "Received",
	}
	if amount := c.PostForm("billAmount"); amount != "" {
		billAmount, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill amount"})
			return
		}
		patch["billAmount"] = billAmount
	}

	if file, header, err := c.Request.FormFile("photo"); err == nil {
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		objectName := h.attachments.ObjectName(firmOf(c), header.Filename)
		photoURL, err := h.attachments.Upload(c.Request.Context(), objectName, file, header.Size, contentType)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Photo upload failed: " + err.Error()})
			return
		}
		patch["billPhoto"] = photoURL
	}

	h.deps.completeStage(c, model.SheetStoreIn, projection.StoreInSchema(), projection.StageMaterialReceipt, patch)
}
