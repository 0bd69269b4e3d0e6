package projection

import (
	"errors"
	"testing"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

func stagedProjector() Projector {
	fields := []Field{
		{Name: "indentNumber", Aliases: []string{"Indent Number", "indentNumber"}},
		{Name: "firm", Aliases: []string{"firmNameMatch"}},
	}
	fields = append(fields, StageFields(5)...)
	return Projector{
		Schema: Schema{Sheet: model.SheetIndent, ScopeField: "firm", Fields: fields},
		Stage:  5,
	}
}

func TestScopeFilter(t *testing.T) {
	rows := []model.Row{
		{"indentNumber": "IN-1", "firmNameMatch": "AcmeCo", "planned5": "x"},
		{"indentNumber": "IN-2", "firmNameMatch": "acmeco", "planned5": "x"},
		{"indentNumber": "IN-3", "firmNameMatch": "Other", "planned5": "x"},
	}
	p := stagedProjector()

	// The "all" sentinel is case-insensitive and sees everything
	result := p.Project(rows, "ALL")
	if got := len(result.Pending); got != 3 {
		t.Errorf("Expected scope ALL to match all 3 rows, got %d", got)
	}

	// A concrete firm matches exactly, case-sensitively
	result = p.Project(rows, "AcmeCo")
	if got := len(result.Pending); got != 1 {
		t.Fatalf("Expected exactly 1 row for AcmeCo, got %d", got)
	}
	if result.Pending[0].Str("indentNumber") != "IN-1" {
		t.Errorf("Expected IN-1, got %s", result.Pending[0].Str("indentNumber"))
	}
}

func TestStagePartition(t *testing.T) {
	rows := []model.Row{
		{"indentNumber": "IN-1", "firmNameMatch": "A", "planned5": "2025-01-01"},
		{"indentNumber": "IN-2", "firmNameMatch": "A", "planned5": "2025-01-01", "actual5": "2025-01-03"},
		{"indentNumber": "IN-3", "firmNameMatch": "A"},
	}
	result := stagedProjector().Project(rows, "all")

	if len(result.Pending) != 1 || result.Pending[0].Str("indentNumber") != "IN-1" {
		t.Errorf("Expected only IN-1 pending, got %v", result.Pending)
	}
	if len(result.History) != 1 || result.History[0].Str("indentNumber") != "IN-2" {
		t.Errorf("Expected only IN-2 in history, got %v", result.History)
	}

	// Every planned row lands in exactly one partition
	total := len(result.Pending) + len(result.History)
	if total != 2 {
		t.Errorf("Expected 2 planned rows across partitions, got %d", total)
	}
}

func TestStageStateOf(t *testing.T) {
	schema := Schema{Fields: StageFields(2)}

	tests := []struct {
		name     string
		raw      model.Row
		expected StageState
	}{
		{"not started", model.Row{}, StageNotStarted},
		{"pending", model.Row{"planned2": "x"}, StagePending},
		{"done", model.Row{"planned2": "x", "actual2": "y"}, StageDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := schema.Normalize(tt.raw)
			if got := StageStateOf(row, 2); got != tt.expected {
				t.Errorf("Expected state %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestStatusFailureIsolation(t *testing.T) {
	rows := []model.Row{
		{"indentNumber": "IN-1", "firmNameMatch": "A", "planned5": "x"},
		{"indentNumber": "BAD", "firmNameMatch": "A", "planned5": "x"},
		{"indentNumber": "IN-3", "firmNameMatch": "A", "planned5": "x"},
	}

	p := stagedProjector()
	p.Status = func(row model.Row) (string, error) {
		if row.Str("indentNumber") == "BAD" {
			return "", errors.New("malformed key")
		}
		return "OK", nil
	}

	result := p.Project(rows, "all")
	if len(result.Pending) != 3 {
		t.Fatalf("Expected all 3 rows to survive one failing derivation, got %d", len(result.Pending))
	}
	if got := result.Pending[1].Str("status"); got != StatusUnknown {
		t.Errorf("Expected failing row status %q, got %q", StatusUnknown, got)
	}
	if result.Pending[0].Str("status") != "OK" || result.Pending[2].Str("status") != "OK" {
		t.Errorf("Expected neighbors unaffected, got %q and %q",
			result.Pending[0].Str("status"), result.Pending[2].Str("status"))
	}
}

func TestStatusPanicIsolation(t *testing.T) {
	rows := []model.Row{
		{"indentNumber": "IN-1", "firmNameMatch": "A", "planned5": "x"},
	}

	p := stagedProjector()
	p.Status = func(row model.Row) (string, error) {
		panic("boom")
	}

	result := p.Project(rows, "all")
	if len(result.Pending) != 1 {
		t.Fatalf("Expected the row to survive a panicking derivation, got %d rows", len(result.Pending))
	}
	if got := result.Pending[0].Str("status"); got != StatusUnknown {
		t.Errorf("Expected status %q after panic, got %q", StatusUnknown, got)
	}
}

func TestDedupeFirstWins(t *testing.T) {
	rows := []model.Row{
		{"PO Number": "A", "rowIndex": 1.0},
		{"PO Number": "B", "rowIndex": 2.0},
		{"PO Number": "A", "rowIndex": 3.0},
	}
	p := Projector{
		Schema: Schema{
			Fields: []Field{
				{Name: "poNumber", Aliases: []string{"PO Number"}},
			},
		},
		DedupeField: "poNumber",
	}

	out := p.ProjectAll(rows, "all")
	if len(out) != 2 {
		t.Fatalf("Expected 2 rows after dedupe, got %d", len(out))
	}
	if out[0].RowIndex() != 1 || out[0].Str("poNumber") != "A" {
		t.Errorf("Expected first A occurrence (rowIndex 1) kept, got rowIndex %d", out[0].RowIndex())
	}
	if out[1].RowIndex() != 2 || out[1].Str("poNumber") != "B" {
		t.Errorf("Expected B (rowIndex 2) kept, got rowIndex %d", out[1].RowIndex())
	}
}

func TestSortDescending(t *testing.T) {
	rows := []model.Row{
		{"Indent Number": "IN-001", "firmNameMatch": "A", "planned5": "x"},
		{"Indent Number": "IN-010", "firmNameMatch": "A", "planned5": "x"},
		{"Indent Number": "IN-005", "firmNameMatch": "A", "planned5": "x"},
	}
	p := stagedProjector()
	p.SortField = "indentNumber"

	result := p.Project(rows, "all")
	got := []string{
		result.Pending[0].Str("indentNumber"),
		result.Pending[1].Str("indentNumber"),
		result.Pending[2].Str("indentNumber"),
	}
	expected := []string{"IN-010", "IN-005", "IN-001"}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, got)
		}
	}
}

func TestSortNumeric(t *testing.T) {
	rows := []model.Row{
		{"rowIndex": 2.0},
		{"rowIndex": 10.0},
		{"rowIndex": 9.0},
	}
	p := Projector{
		Schema:    Schema{Fields: []Field{}},
		SortField: model.RowKeyField,
	}

	out := p.ProjectAll(rows, "all")
	// Numeric comparison: 10 > 9 > 2 (lexical would give 9 > 2 > 10)
	if out[0].RowIndex() != 10 || out[1].RowIndex() != 9 || out[2].RowIndex() != 2 {
		t.Errorf("Expected numeric descending 10,9,2; got %d,%d,%d",
			out[0].RowIndex(), out[1].RowIndex(), out[2].RowIndex())
	}
}

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"2025-03-15T10:30:00Z", "15/03/2025"},
		{"2025-03-15 10:30:00", "15/03/2025"},
		{"2025-03-15", "15/03/2025"},
		{"not a date", "not a date"}, // malformed falls back to the raw string
		{"", ""},
	}
	for _, tt := range tests {
		if got := DisplayDate(tt.in); got != tt.expected {
			t.Errorf("DisplayDate(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}
