package state

import (
	"context"
	"sync"

	"dailybalance/internal/core"
)

// fakeActionStore is an in-memory ActionStore for holder tests.
type fakeActionStore struct {
	mu      sync.Mutex
	records []core.ActionRecord
	nextID  int64

	insertErr error
}

func (f *fakeActionStore) InsertAction(_ context.Context, rec core.ActionRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, rec)
	return rec.ID, nil
}

func (f *fakeActionStore) Actions(context.Context) ([]core.ActionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := append([]core.ActionRecord(nil), f.records...)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Timestamp > out[i].Timestamp {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeActionStore) LastTimestampByType(_ context.Context, typ string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var max int64
	found := false
	for _, r := range f.records {
		if r.Type == typ && (!found || r.Timestamp > max) {
			max = r.Timestamp
			found = true
		}
	}
	return max, found, nil
}

func (f *fakeActionStore) CountByTypeBetween(_ context.Context, typ string, from, to int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, r := range f.records {
		if r.Type == typ && r.Timestamp >= from && r.Timestamp <= to {
			n++
		}
	}
	return n, nil
}

func (f *fakeActionStore) ActionsByTypeBetween(_ context.Context, typ string, from, to int64) ([]core.ActionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.ActionRecord
	for _, r := range f.records {
		if r.Type == typ && r.Timestamp >= from && r.Timestamp <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeActionStore) DeleteActionsByTypeBetween(_ context.Context, typ string, from, to int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.records[:0]
	for _, r := range f.records {
		if r.Type == typ && r.Timestamp >= from && r.Timestamp <= to {
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return nil
}

func (f *fakeActionStore) DeleteActionByID(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeActionStore) DeleteAllActions(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records = nil
	return nil
}

// fakeExpenseStore is an in-memory ExpenseStore for holder tests.
type fakeExpenseStore struct {
	mu       sync.Mutex
	expenses []core.DailyExpense
	nextID   int64

	insertErr  error
	insertGate chan struct{} // when set, InsertExpense blocks until closed
}

func (f *fakeExpenseStore) InsertExpense(_ context.Context, e core.DailyExpense) (int64, error) {
	f.mu.Lock()
	gate := f.insertGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	e.ID = f.nextID
	f.expenses = append(f.expenses, e)
	return e.ID, nil
}

func (f *fakeExpenseStore) UpdateExpense(_ context.Context, e core.DailyExpense) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, cur := range f.expenses {
		if cur.ID == e.ID {
			f.expenses[i] = e
			return nil
		}
	}
	// Missing id is a silent no-op.
	return nil
}

func (f *fakeExpenseStore) DeleteExpense(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.expenses[:0]
	for _, e := range f.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.expenses = kept
	return nil
}

func (f *fakeExpenseStore) Expenses(context.Context) ([]core.DailyExpense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := append([]core.DailyExpense(nil), f.expenses...)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Date > out[i].Date {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeExpenseStore) ExpenseByID(_ context.Context, id int64) (core.DailyExpense, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.expenses {
		if e.ID == id {
			return e, true, nil
		}
	}
	return core.DailyExpense{}, false, nil
}

func (f *fakeExpenseStore) DistinctCategories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, e := range f.expenses {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out, nil
}

func (f *fakeExpenseStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.expenses)
}
