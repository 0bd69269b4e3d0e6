package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SheetName identifies one remote dataset on the spreadsheet endpoint.
type SheetName string

const (
	SheetIndent    SheetName = "INDENT"
	SheetPOMaster  SheetName = "PO MASTER"
	SheetStoreIn   SheetName = "STORE IN"
	SheetIssue     SheetName = "ISSUE"
	SheetBillEntry SheetName = "BILL ENTRY"
	SheetMaster    SheetName = "MASTER"
)

// AllSheets lists every sheet the store keeps a snapshot of.
// MASTER is included; it carries the options block instead of rows.
func AllSheets() []SheetName {
	return []SheetName{
		SheetIndent,
		SheetPOMaster,
		SheetStoreIn,
		SheetIssue,
		SheetBillEntry,
		SheetMaster,
	}
}

// ParseSheetName resolves a URL path segment to a known sheet.
// Accepts both the exact sheet name and a lowercase dashed form
// ("po-master" -> "PO MASTER").
func ParseSheetName(s string) (SheetName, error) {
	candidate := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", " "))
	for _, name := range AllSheets() {
		if string(name) == candidate {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown sheet %q", s)
}

// TimestampAliases returns the spellings of the sheet's canonical timestamp
// column. Rows with an empty timestamp are filler rows in the backing
// spreadsheet and are dropped on ingest.
func TimestampAliases(name SheetName) []string {
	switch name {
	case SheetStoreIn:
		return []string{"Timestamp", "timestamp", "Receipt Date", "receiptDate"}
	case SheetBillEntry:
		return []string{"Timestamp", "timestamp", "Bill Date", "billDate"}
	default:
		return []string{"Timestamp", "timestamp", "Date", "date"}
	}
}

// Row is one record of a sheet: an open-ended mapping from column name to
// primitive value as decoded from the endpoint's JSON.
type Row map[string]any

// RowKeyField is the stable identifier column used to target in-place
// updates at the backing spreadsheet.
const RowKeyField = "rowIndex"

// Str coerces the value under key to a string. Numbers are formatted,
// nil and missing keys resolve to "".
func (r Row) Str(key string) string {
	return CoerceString(r[key])
}

// Num coerces the value under key to a float64, 0 when absent or
// unparseable.
func (r Row) Num(key string) float64 {
	f, _ := CoerceNumber(r[key])
	return f
}

// RowIndex returns the row's stable key, 0 when absent.
func (r Row) RowIndex() int {
	return int(r.Num(RowKeyField))
}

// Clone returns a shallow copy so projections never mutate a stored
// snapshot in place.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CoerceString renders any primitive JSON value as its display string.
func CoerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// CoerceNumber parses any primitive JSON value as a number. The bool result
// reports whether a numeric value was actually present.
func CoerceNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
