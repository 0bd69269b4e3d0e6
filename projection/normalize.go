package projection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"golang.org/x/text/unicode/norm"
)

// Kind is the value type a canonical field resolves to. Absent values
// resolve to the type's zero display value: "" for strings, 0 for numbers.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

// Field maps one canonical output field to the ordered list of column
// spellings the backing spreadsheet has used for it over time. Probing
// order is significant: the first present, non-null, non-empty value wins.
type Field struct {
	Name    string
	Aliases []string
	Kind    Kind
}

// Schema is the full canonical row shape for one sheet.
type Schema struct {
	Sheet model.SheetName
	// ScopeField is the canonical field carrying the firm name; empty
	// means the sheet is not firm-scoped.
	ScopeField string
	Fields     []Field
}

// canonicalKey folds a column header to a comparable form: NFKC
// normalization, lowercase, surrounding and repeated whitespace collapsed.
// Historical sheet revisions disagree on casing and spacing, not on words.
func canonicalKey(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// Normalize resolves every schema field against the raw row and returns the
// canonical row. The raw row is never mutated. The row key column is always
// carried over so updates can target the backing row.
func (s Schema) Normalize(raw model.Row) model.Row {
	index := indexKeys(raw)
	out := make(model.Row, len(s.Fields)+1)
	for _, f := range s.Fields {
		out[f.Name] = resolveField(raw, index, f)
	}
	if _, ok := out[model.RowKeyField]; !ok {
		out[model.RowKeyField] = raw.Num(model.RowKeyField)
	}
	return out
}

// indexKeys maps each canonical header form to the raw key it came from.
// Raw keys are visited in sorted order so the winner is deterministic when
// two headers fold to the same form.
func indexKeys(raw model.Row) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	index := make(map[string]string, len(keys))
	for _, k := range keys {
		ck := canonicalKey(k)
		if _, exists := index[ck]; !exists {
			index[ck] = k
		}
	}
	return index
}

func resolveField(raw model.Row, index map[string]string, f Field) any {
	for _, alias := range f.Aliases {
		rawKey, ok := index[canonicalKey(alias)]
		if !ok {
			continue
		}
		v := raw[rawKey]
		if v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		if f.Kind == KindNumber {
			n, numeric := model.CoerceNumber(v)
			if !numeric {
				continue
			}
			return n
		}
		return model.CoerceString(v)
	}
	if f.Kind == KindNumber {
		return float64(0)
	}
	return ""
}

// PlannedField and ActualField name the timestamp pair of a workflow stage.
// planned<N> set with actual<N> empty marks the stage as pending; both set
// marks it complete.
func PlannedField(stage int) string { return fmt.Sprintf("planned%d", stage) }

// ActualField returns the canonical name of the stage completion column.
func ActualField(stage int) string { return fmt.Sprintf("actual%d", stage) }

// StageFields builds the planned/actual field pairs for the given stage
// indices, with the spellings observed across sheet revisions.
func StageFields(stages ...int) []Field {
	fields := make([]Field, 0, len(stages)*2)
	for _, n := range stages {
		fields = append(fields,
			Field{
				Name: PlannedField(n),
				Aliases: []string{
					fmt.Sprintf("planned%d", n),
					fmt.Sprintf("Planned %d", n),
					fmt.Sprintf("planned_%d", n),
				},
			},
			Field{
				Name: ActualField(n),
				Aliases: []string{
					fmt.Sprintf("actual%d", n),
					fmt.Sprintf("Actual %d", n),
					fmt.Sprintf("actual_%d", n),
				},
			},
		)
	}
	return fields
}
