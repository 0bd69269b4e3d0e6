package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/mispasmin-creator/Store-FMS-sub001/pkg/logger"
)

// SheetStore owns the canonical in-memory snapshot of every sheet the
// dashboard can display. Snapshots are replaced wholesale on refresh and
// never mutated in place, so a reader always sees a consistent
// point-in-time copy even while a newer fetch is in flight. There is no
// transaction boundary across sheets: a screen joining two sheets may see
// one fresh and one stale.
type SheetStore struct {
	client *SheetClient

	mu     sync.RWMutex
	sheets map[model.SheetName]*snapshot
	opts   model.MasterOptions
}

type snapshot struct {
	rows      []model.Row
	loading   bool
	fetchedAt time.Time
}

// NewSheetStore creates a store with an empty snapshot per known sheet.
// The store is passed to handlers explicitly; there is no package-level
// instance.
func NewSheetStore(client *SheetClient) *SheetStore {
	sheets := make(map[model.SheetName]*snapshot, len(model.AllSheets()))
	for _, name := range model.AllSheets() {
		sheets[name] = &snapshot{rows: []model.Row{}}
	}
	return &SheetStore{client: client, sheets: sheets}
}

// Refresh re-fetches one sheet and atomically replaces its snapshot. On
// fetch failure the previous snapshot is retained unchanged and only the
// loading flag clears, keeping reads stale but consistent.
func (s *SheetStore) Refresh(ctx context.Context, name model.SheetName) error {
	s.mu.Lock()
	snap, ok := s.sheets[name]
	if !ok {
		snap = &snapshot{rows: []model.Row{}}
		s.sheets[name] = snap
	}
	snap.loading = true
	s.mu.Unlock()

	data, err := s.client.FetchSheet(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	snap.loading = false
	if err != nil {
		return err
	}

	if name == model.SheetMaster {
		s.opts = model.MasterOptionsFrom(data.Options)
	}
	snap.rows = dropBlankRows(name, data.Rows)
	snap.fetchedAt = time.Now()
	return nil
}

// RefreshAll refreshes every sheet independently, one goroutine each, and
// waits for all of them. Per-sheet failures are returned in the map; there
// is no all-or-nothing guarantee and callers must not assume cross-sheet
// consistency afterwards.
func (s *SheetStore) RefreshAll(ctx context.Context) map[model.SheetName]error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := make(map[model.SheetName]error)

	for _, name := range model.AllSheets() {
		wg.Add(1)
		go func(name model.SheetName) {
			defer wg.Done()
			if err := s.Refresh(ctx, name); err != nil {
				logger.Warn(ctx, "sheet refresh failed", "sheet", string(name), "error", err)
				mu.Lock()
				failures[name] = err
				mu.Unlock()
			}
		}(name)
	}
	wg.Wait()
	return failures
}

// Rows returns the current snapshot for a sheet. The returned slice is the
// snapshot itself; callers must treat it as read-only (projections clone
// rows before writing derived fields).
func (s *SheetStore) Rows(name model.SheetName) []model.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if snap, ok := s.sheets[name]; ok {
		return snap.rows
	}
	return nil
}

// Loading reports whether a refresh for the sheet is in flight.
func (s *SheetStore) Loading(name model.SheetName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if snap, ok := s.sheets[name]; ok {
		return snap.loading
	}
	return false
}

// FetchedAt returns when the sheet's snapshot was last replaced; zero if
// it has never been fetched.
func (s *SheetStore) FetchedAt(name model.SheetName) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if snap, ok := s.sheets[name]; ok {
		return snap.fetchedAt
	}
	return time.Time{}
}

// Options returns the MASTER sheet's configuration lookup tables.
func (s *SheetStore) Options() model.MasterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// dropBlankRows excludes filler rows: the backing spreadsheet pads sheets
// with empty rows whose timestamp column is blank.
func dropBlankRows(name model.SheetName, rows []model.Row) []model.Row {
	if rows == nil {
		return []model.Row{}
	}
	aliases := model.TimestampAliases(name)
	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		if hasTimestamp(row, aliases) {
			out = append(out, row)
		}
	}
	return out
}

func hasTimestamp(row model.Row, aliases []string) bool {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && strings.TrimSpace(model.CoerceString(v)) != "" {
			return true
		}
	}
	return false
}
