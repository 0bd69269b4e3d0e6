package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/mispasmin-creator/Store-FMS-sub001/config"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

// Write actions understood by the sheet endpoint.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionUpload = "upload"
)

// SheetClient talks to the spreadsheet-backed API that owns all persistent
// data. Reads are GET with a sheetName query; writes and uploads are
// multipart form POSTs to the same endpoint.
type SheetClient struct {
	config     *config.SheetsConfig
	httpClient *http.Client
}

// SheetData is the decoded read response. MASTER returns Options instead
// of Rows.
type SheetData struct {
	Rows    []model.Row    `json:"rows"`
	Options map[string]any `json:"options"`
}

type sheetResponse struct {
	Success bool           `json:"success"`
	Rows    []model.Row    `json:"rows"`
	Options map[string]any `json:"options"`
	Error   string         `json:"error"`
	FileURL string         `json:"fileUrl"`
}

func NewSheetClient(cfg *config.SheetsConfig) *SheetClient {
	return &SheetClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// FetchSheet reads the full snapshot of one sheet.
func (c *SheetClient) FetchSheet(ctx context.Context, name model.SheetName) (*SheetData, error) {
	reqURL := fmt.Sprintf("%s?sheetName=%s", c.config.Endpoint, url.QueryEscape(string(name)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	result, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return &SheetData{Rows: result.Rows, Options: result.Options}, nil
}

// WriteRows posts partial rows to a sheet. Updates and deletes must carry
// the stable rowIndex of the target row.
func (c *SheetClient) WriteRows(ctx context.Context, action string, name model.SheetName, rows []model.Row) error {
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}

	fields := map[string]string{
		"action":    action,
		"sheetName": string(name),
		"rows":      string(rowsJSON),
	}
	if _, err := c.postForm(ctx, fields); err != nil {
		return fmt.Errorf("%s %s: %w", action, name, err)
	}
	return nil
}

// UploadRequest is a file destined for the endpoint's document folder,
// optionally delivered by email instead of stored.
type UploadRequest struct {
	FileName     string
	MimeType     string
	Data         []byte
	FolderID     string
	Email        string
	EmailSubject string
	EmailBody    string
}

// UploadFile sends a file to the endpoint and returns the stored file URL.
// When Email is set the endpoint mails the file instead.
func (c *SheetClient) UploadFile(ctx context.Context, req UploadRequest) (string, error) {
	fields := map[string]string{
		"action":   ActionUpload,
		"fileName": req.FileName,
		"mimeType": req.MimeType,
		"fileData": base64.StdEncoding.EncodeToString(req.Data),
		"folderId": req.FolderID,
	}
	if req.Email != "" {
		fields["uploadType"] = "email"
		fields["email"] = req.Email
		fields["emailSubject"] = req.EmailSubject
		fields["emailBody"] = req.EmailBody
	}

	result, err := c.postForm(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", req.FileName, err)
	}
	return result.FileURL, nil
}

func (c *SheetClient) postForm(ctx context.Context, fields map[string]string) (*sheetResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *SheetClient) do(req *http.Request) (*sheetResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	var result sheetResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Success {
		if result.Error != "" {
			return nil, fmt.Errorf("endpoint error: %s", result.Error)
		}
		return nil, fmt.Errorf("endpoint reported failure")
	}
	return &result, nil
}
