package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

// Refresher schedules the delayed re-fetch that follows every confirmed
// write. The backing store is eventually consistent, so reading back
// immediately would often return the pre-write state; the delay is a
// configured heuristic, not a guarantee. Scheduling a sheet that already
// has a pending re-fetch replaces the timer rather than stacking fetches.
type Refresher struct {
	store *SheetStore
	delay time.Duration

	mu     sync.Mutex
	timers map[model.SheetName]*time.Timer
	closed bool
}

func NewRefresher(store *SheetStore, delay time.Duration) *Refresher {
	return &Refresher{
		store:  store,
		delay:  delay,
		timers: make(map[model.SheetName]*time.Timer),
	}
}

// Schedule queues a re-fetch of each named sheet after the configured
// delay. Safe to call from request handlers; the fetch runs off the
// request goroutine with its own timeout.
func (r *Refresher) Schedule(names ...model.SheetName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	for _, name := range names {
		if t, ok := r.timers[name]; ok {
			t.Stop()
		}
		name := name
		r.timers[name] = time.AfterFunc(r.delay, func() {
			r.mu.Lock()
			delete(r.timers, name)
			r.mu.Unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := r.store.Refresh(ctx, name); err != nil {
				slog.Warn("post-write refresh failed", "sheet", string(name), "error", err)
			}
		})
	}
}

// Stop cancels all pending re-fetches. Used at shutdown.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for name, t := range r.timers {
		t.Stop()
		delete(r.timers, name)
	}
}
