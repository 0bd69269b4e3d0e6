package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mispasmin-creator/Store-FMS-sub001/config"
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

func newTestClient(handler http.HandlerFunc) (*SheetClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewSheetClient(&config.SheetsConfig{
		Endpoint:       server.URL,
		TimeoutSeconds: 5,
	})
	return client, server
}

func TestFetchSheet(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sheetName"); got != "PO MASTER" {
			t.Errorf("Expected sheetName 'PO MASTER', got %q", got)
		}
		fmt.Fprint(w, `{"success":true,"rows":[{"PO Number":"PO-1","rowIndex":2}]}`)
	})
	defer server.Close()

	data, err := client.FetchSheet(context.Background(), model.SheetPOMaster)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(data.Rows))
	}
	if data.Rows[0].Str("PO Number") != "PO-1" {
		t.Errorf("Expected PO-1, got %q", data.Rows[0].Str("PO Number"))
	}
}

func TestFetchSheetEndpointError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"error":"sheet not found"}`)
	})
	defer server.Close()

	_, err := client.FetchSheet(context.Background(), model.SheetIndent)
	if err == nil {
		t.Fatal("Expected error when endpoint reports failure")
	}
}

func TestFetchSheetHTTPError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.FetchSheet(context.Background(), model.SheetIndent)
	if err == nil {
		t.Fatal("Expected error on HTTP 500")
	}
}

func TestWriteRows(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart form: %v", err)
		}
		if got := r.FormValue("action"); got != ActionUpdate {
			t.Errorf("Expected action update, got %q", got)
		}
		if got := r.FormValue("sheetName"); got != "INDENT" {
			t.Errorf("Expected sheetName INDENT, got %q", got)
		}

		var rows []model.Row
		if err := json.Unmarshal([]byte(r.FormValue("rows")), &rows); err != nil {
			t.Fatalf("Expected rows to be JSON: %v", err)
		}
		if len(rows) != 1 || rows[0].RowIndex() != 7 {
			t.Errorf("Expected one row with rowIndex 7, got %v", rows)
		}
		fmt.Fprint(w, `{"success":true}`)
	})
	defer server.Close()

	err := client.WriteRows(context.Background(), ActionUpdate, model.SheetIndent, []model.Row{
		{"rowIndex": 7, "actual1": "2025-02-01 10:00:00"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestWriteRowsFailure(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"error":"row locked"}`)
	})
	defer server.Close()

	err := client.WriteRows(context.Background(), ActionUpdate, model.SheetIndent, []model.Row{{"rowIndex": 1}})
	if err == nil {
		t.Fatal("Expected error when endpoint rejects the write")
	}
}

func TestUploadFile(t *testing.T) {
	payload := []byte("pdf bytes")
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart form: %v", err)
		}
		if got := r.FormValue("action"); got != ActionUpload {
			t.Errorf("Expected action upload, got %q", got)
		}
		if got := r.FormValue("fileData"); got != base64.StdEncoding.EncodeToString(payload) {
			t.Errorf("Expected base64 file data, got %q", got)
		}
		if got := r.FormValue("uploadType"); got != "email" {
			t.Errorf("Expected uploadType email, got %q", got)
		}
		if got := r.FormValue("email"); got != "vendor@example.com" {
			t.Errorf("Expected email field, got %q", got)
		}
		fmt.Fprint(w, `{"success":true,"fileUrl":"https://files.example.com/po.pdf"}`)
	})
	defer server.Close()

	url, err := client.UploadFile(context.Background(), UploadRequest{
		FileName:     "po.pdf",
		MimeType:     "application/pdf",
		Data:         payload,
		FolderID:     "folder-1",
		Email:        "vendor@example.com",
		EmailSubject: "Purchase Order",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != "https://files.example.com/po.pdf" {
		t.Errorf("Expected file URL back, got %q", url)
	}
}
