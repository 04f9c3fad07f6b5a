package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dailybalance/internal/core"
	"dailybalance/internal/log"
)

// RecordsSnapshot is a copy of the records screen state at one instant.
type RecordsSnapshot struct {
	Records []core.ActionRecord

	// Home banner data. HasLastCigarette is false when no cigarette was
	// ever logged; the banner stays hidden in that case.
	LastCigarette    int64
	HasLastCigarette bool
	TodayCigarettes  int
	TodayBeers       int

	// Today's-records-by-type screen.
	TodayType    string
	TodayRecords []core.ActionRecord
}

// RecordsHolder backs the home, records-list and today's-records screens.
type RecordsHolder struct {
	store ActionStore
	now   func() time.Time

	mu   sync.Mutex
	snap RecordsSnapshot

	notifier notifier
}

func NewRecordsHolder(store ActionStore) *RecordsHolder {
	return &RecordsHolder{store: store, now: time.Now}
}

// Updates returns a coalescing channel signalled after every state change.
func (h *RecordsHolder) Updates() <-chan struct{} {
	return h.notifier.subscribe()
}

// Snapshot returns a copy of the current state.
func (h *RecordsHolder) Snapshot() RecordsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := h.snap
	snap.Records = append([]core.ActionRecord(nil), h.snap.Records...)
	snap.TodayRecords = append([]core.ActionRecord(nil), h.snap.TodayRecords...)
	return snap
}

// RegisterAction appends an action with the current wall-clock timestamp.
// Cigarette and beer registrations bump the home counters immediately so
// the banner does not wait for the next refresh.
func (h *RecordsHolder) RegisterAction(ctx context.Context, typ, description string) error {
	rec := core.ActionRecord{
		Type:        typ,
		Timestamp:   h.now().UnixMilli(),
		Description: description,
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	if _, err := h.store.InsertAction(ctx, rec); err != nil {
		return fmt.Errorf("register action: %w", err)
	}

	h.mu.Lock()
	switch typ {
	case core.ActionCigarette:
		h.snap.LastCigarette = rec.Timestamp
		h.snap.HasLastCigarette = true
		h.snap.TodayCigarettes++
	case core.ActionBeer:
		h.snap.TodayBeers++
	}
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}

// RefreshHomeStats reloads the last-cigarette timestamp and today's
// cigarette and beer counts. The three queries run in parallel.
func (h *RecordsHolder) RefreshHomeStats(ctx context.Context) error {
	from, to := core.TodayRange(h.now())

	var (
		lastTS     int64
		hasLast    bool
		cigarettes int
		beers      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lastTS, hasLast, err = h.store.LastTimestampByType(gctx, core.ActionCigarette)
		return err
	})
	g.Go(func() (err error) {
		cigarettes, err = h.store.CountByTypeBetween(gctx, core.ActionCigarette, from, to)
		return err
	})
	g.Go(func() (err error) {
		beers, err = h.store.CountByTypeBetween(gctx, core.ActionBeer, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh home stats: %w", err)
	}

	h.mu.Lock()
	h.snap.LastCigarette = lastTS
	h.snap.HasLastCigarette = hasLast
	h.snap.TodayCigarettes = cigarettes
	h.snap.TodayBeers = beers
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}

// RequestRecords reloads the full record list, newest first.
func (h *RecordsHolder) RequestRecords(ctx context.Context) error {
	records, err := h.store.Actions(ctx)
	if err != nil {
		return fmt.Errorf("request records: %w", err)
	}

	h.mu.Lock()
	h.snap.Records = records
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}

// DeleteAll wipes the action log and resets every cached counter to its
// zero or absent default.
func (h *RecordsHolder) DeleteAll(ctx context.Context) error {
	if err := h.store.DeleteAllActions(ctx); err != nil {
		return fmt.Errorf("delete all records: %w", err)
	}

	h.mu.Lock()
	h.snap.Records = nil
	h.snap.LastCigarette = 0
	h.snap.HasLastCigarette = false
	h.snap.TodayCigarettes = 0
	h.snap.TodayBeers = 0
	h.snap.TodayRecords = nil
	h.mu.Unlock()
	h.notifier.notify()

	slog.InfoContext(ctx, "All action records deleted from records screen",
		log.FieldComponent, log.ComponentState)
	return nil
}

// DeleteByID removes one record and re-reads the list.
func (h *RecordsHolder) DeleteByID(ctx context.Context, id int64) error {
	if err := h.store.DeleteActionByID(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return h.RequestRecords(ctx)
}

// RequestTodayByType loads today's records of one type for the
// today's-records screen.
func (h *RecordsHolder) RequestTodayByType(ctx context.Context, typ string) error {
	from, to := core.TodayRange(h.now())
	records, err := h.store.ActionsByTypeBetween(ctx, typ, from, to)
	if err != nil {
		return fmt.Errorf("request today records: %w", err)
	}

	h.mu.Lock()
	h.snap.TodayType = typ
	h.snap.TodayRecords = records
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}

// DeleteTodayByType removes all of today's records of one type, then
// refreshes both the today list and the home counters.
func (h *RecordsHolder) DeleteTodayByType(ctx context.Context, typ string) error {
	from, to := core.TodayRange(h.now())
	if err := h.store.DeleteActionsByTypeBetween(ctx, typ, from, to); err != nil {
		return fmt.Errorf("delete today records: %w", err)
	}

	if err := h.RequestTodayByType(ctx, typ); err != nil {
		return err
	}
	return h.RefreshHomeStats(ctx)
}
