package projection

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

// StatusFunc derives a display-only status for one normalized row, usually
// by set-membership checks against other sheets. It is recomputed on every
// projection and never persisted.
type StatusFunc func(model.Row) (string, error)

// StatusUnknown is the sentinel a row's status resolves to when derivation
// fails. One malformed row must never blank the whole table.
const StatusUnknown = "Unknown"

// ScopeAll is the firm value granting visibility into every firm's rows.
// The sentinel check is case-insensitive; a concrete firm match is exact.
const ScopeAll = "all"

// InScope reports whether a row with the given firm value is visible to a
// user with the given scope.
func InScope(scope, rowFirm string) bool {
	if strings.EqualFold(scope, ScopeAll) {
		return true
	}
	return rowFirm == scope
}

// StageState is the lifecycle of one planned/actual stage on a row.
type StageState int

const (
	StageNotStarted StageState = iota
	StagePending
	StageDone
)

// StageStateOf reads the stage state off a normalized row.
func StageStateOf(row model.Row, stage int) StageState {
	if row.Str(PlannedField(stage)) == "" {
		return StageNotStarted
	}
	if row.Str(ActualField(stage)) == "" {
		return StagePending
	}
	return StageDone
}

// Projector converts a raw sheet snapshot into the ordered, filtered,
// normalized row sequence one screen displays. It holds no state; the
// output is a pure function of the snapshot and the user's scope.
type Projector struct {
	Schema Schema
	// Stage selects the planned/actual pair the pending/history split is
	// computed from. Zero means the view is not staged.
	Stage int
	// Status, when set, is applied per row and written to StatusField
	// (default "status").
	Status      StatusFunc
	StatusField string
	// SortField orders rows descending (newest identifiers first) unless
	// Ascending is set. Numeric when both values parse as numbers.
	SortField string
	Ascending bool
	// DedupeField keeps only the first row per key, in pre-sort order.
	DedupeField string
}

// Result is a staged projection split into its two tabs.
type Result struct {
	Pending []model.Row `json:"pending"`
	History []model.Row `json:"history"`
}

// Project runs the full pipeline and partitions rows by the projector's
// stage. Rows whose stage was never planned are dropped.
func (p Projector) Project(rows []model.Row, scope string) Result {
	var res Result
	res.Pending = []model.Row{}
	res.History = []model.Row{}
	for _, row := range p.prepare(rows, scope) {
		switch StageStateOf(row, p.Stage) {
		case StagePending:
			res.Pending = append(res.Pending, row)
		case StageDone:
			res.History = append(res.History, row)
		}
	}
	return res
}

// ProjectAll runs the pipeline without a stage partition, for tracking
// views that list every row.
func (p Projector) ProjectAll(rows []model.Row, scope string) []model.Row {
	return p.prepare(rows, scope)
}

func (p Projector) prepare(rows []model.Row, scope string) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, raw := range rows {
		row := p.Schema.Normalize(raw)
		if p.Schema.ScopeField != "" && !InScope(scope, row.Str(p.Schema.ScopeField)) {
			continue
		}
		out = append(out, row)
	}

	if p.Status != nil {
		field := p.StatusField
		if field == "" {
			field = "status"
		}
		for _, row := range out {
			row[field] = p.deriveStatus(row)
		}
	}

	if p.DedupeField != "" {
		out = dedupeFirst(out, p.DedupeField)
	}

	if p.SortField != "" {
		p.sortRows(out)
	}
	return out
}

// deriveStatus guards a single row's derivation: errors and panics both
// downgrade to the Unknown sentinel instead of aborting the projection.
func (p Projector) deriveStatus(row model.Row) (status string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("status derivation panicked",
				"sheet", string(p.Schema.Sheet),
				"row_index", row.RowIndex(),
				"panic", r,
			)
			status = StatusUnknown
		}
	}()

	s, err := p.Status(row)
	if err != nil {
		slog.Warn("status derivation failed",
			"sheet", string(p.Schema.Sheet),
			"row_index", row.RowIndex(),
			"error", err,
		)
		return StatusUnknown
	}
	return s
}

// dedupeFirst keeps the first-encountered row per key. Rows with an empty
// key are kept as-is: they cannot collide with anything.
func dedupeFirst(rows []model.Row, field string) []model.Row {
	seen := make(map[string]bool, len(rows))
	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		key := row.Str(field)
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, row)
	}
	return out
}

func (p Projector) sortRows(rows []model.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a := rows[i].Str(p.SortField)
		b := rows[j].Str(p.SortField)

		an, aok := model.CoerceNumber(rows[i][p.SortField])
		bn, bok := model.CoerceNumber(rows[j][p.SortField])
		if aok && bok {
			if p.Ascending {
				return an < bn
			}
			return an > bn
		}
		if p.Ascending {
			return a < b
		}
		return a > b
	})
}

// dateLayouts are the formats the spreadsheet has emitted over time.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// DisplayDate renders a sheet timestamp as dd/mm/yyyy. Unparseable values
// fall back to the raw original string rather than erroring.
func DisplayDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}
