package projection

import (
	"reflect"
	"testing"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

func testSchema() Schema {
	return Schema{
		Sheet:      model.SheetIndent,
		ScopeField: "firm",
		Fields: []Field{
			{Name: "indentNumber", Aliases: []string{"Indent Number", "indentNumber", "indentNo"}},
			{Name: "firm", Aliases: []string{"firmNameMatch", "Firm Name"}},
			{Name: "qty", Aliases: []string{"Qty", "Quantity"}, Kind: KindNumber},
		},
	}
}

func TestNormalizeAliasProbing(t *testing.T) {
	schema := testSchema()

	tests := []struct {
		name     string
		raw      model.Row
		expected string
	}{
		{
			name:     "first alias wins",
			raw:      model.Row{"Indent Number": "IN-001", "indentNo": "IN-999"},
			expected: "IN-001",
		},
		{
			name:     "falls through empty string",
			raw:      model.Row{"Indent Number": "  ", "indentNo": "IN-002"},
			expected: "IN-002",
		},
		{
			name:     "falls through nil",
			raw:      model.Row{"Indent Number": nil, "indentNumber": "IN-003"},
			expected: "IN-003",
		},
		{
			name:     "absent resolves to empty string",
			raw:      model.Row{"Something Else": "x"},
			expected: "",
		},
		{
			name:     "casing and spacing ignored",
			raw:      model.Row{"indent  number": "IN-004"},
			expected: "IN-004",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := schema.Normalize(tt.raw)
			if got := row.Str("indentNumber"); got != tt.expected {
				t.Errorf("Expected indentNumber %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeNumberDefaults(t *testing.T) {
	schema := testSchema()

	row := schema.Normalize(model.Row{"Qty": "12"})
	if got := row.Num("qty"); got != 12 {
		t.Errorf("Expected qty 12, got %v", got)
	}

	// Non-numeric value keeps probing and lands on the next alias
	row = schema.Normalize(model.Row{"Qty": "n/a", "Quantity": 7.0})
	if got := row.Num("qty"); got != 7 {
		t.Errorf("Expected qty 7 from fallback alias, got %v", got)
	}

	// Absent resolves to zero
	row = schema.Normalize(model.Row{})
	if got, ok := row["qty"].(float64); !ok || got != 0 {
		t.Errorf("Expected qty 0.0 default, got %v", row["qty"])
	}
}

func TestNormalizeIdempotence(t *testing.T) {
	schema := testSchema()
	raw := model.Row{
		"Indent Number": "IN-100",
		"firmNameMatch": "Acme Traders",
		"Qty":           5.0,
		"rowIndex":      9.0,
	}

	first := schema.Normalize(raw)
	second := schema.Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output on repeat normalization:\n%v\n%v", first, second)
	}
}

func TestNormalizeCarriesRowKey(t *testing.T) {
	schema := testSchema()
	row := schema.Normalize(model.Row{"rowIndex": 42.0, "Indent Number": "IN-1"})
	if row.RowIndex() != 42 {
		t.Errorf("Expected rowIndex 42, got %d", row.RowIndex())
	}
}

func TestNormalizeDoesNotMutateRaw(t *testing.T) {
	schema := testSchema()
	raw := model.Row{"Indent Number": "IN-1"}
	schema.Normalize(raw)
	if len(raw) != 1 {
		t.Errorf("Expected raw row untouched, got %v", raw)
	}
}

func TestStageFields(t *testing.T) {
	fields := StageFields(5)
	if len(fields) != 2 {
		t.Fatalf("Expected 2 fields for one stage, got %d", len(fields))
	}
	if fields[0].Name != "planned5" || fields[1].Name != "actual5" {
		t.Errorf("Expected planned5/actual5, got %s/%s", fields[0].Name, fields[1].Name)
	}

	schema := Schema{Fields: StageFields(5)}
	row := schema.Normalize(model.Row{"Planned 5": "2025-01-01", "actual_5": "2025-01-02"})
	if row.Str("planned5") != "2025-01-01" {
		t.Errorf("Expected planned5 resolved from spaced spelling, got %q", row.Str("planned5"))
	}
	if row.Str("actual5") != "2025-01-02" {
		t.Errorf("Expected actual5 resolved from underscore spelling, got %q", row.Str("actual5"))
	}
}
