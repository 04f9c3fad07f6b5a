package state

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dailybalance/internal/core"
)

// SortKey selects the display order of the expense list.
type SortKey string

const (
	SortByDate     SortKey = "date"     // newest first (default)
	SortByAmount   SortKey = "amount"   // largest first
	SortByCategory SortKey = "category" // alphabetical
)

// ExpenseRecordsSnapshot is a copy of the expense list screen state, with
// the rows already in display order.
type ExpenseRecordsSnapshot struct {
	Expenses []core.DailyExpense
	SortKey  SortKey
}

// ExpenseRecordsHolder backs the expense list screen.
type ExpenseRecordsHolder struct {
	store ExpenseStore

	mu       sync.Mutex
	expenses []core.DailyExpense
	sortKey  SortKey

	notifier notifier
}

func NewExpenseRecordsHolder(store ExpenseStore) *ExpenseRecordsHolder {
	return &ExpenseRecordsHolder{store: store, sortKey: SortByDate}
}

func (h *ExpenseRecordsHolder) Updates() <-chan struct{} {
	return h.notifier.subscribe()
}

func (h *ExpenseRecordsHolder) Snapshot() ExpenseRecordsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	expenses := append([]core.DailyExpense(nil), h.expenses...)
	sortExpenses(expenses, h.sortKey)
	return ExpenseRecordsSnapshot{Expenses: expenses, SortKey: h.sortKey}
}

// Request reloads the expense list from the store.
func (h *ExpenseRecordsHolder) Request(ctx context.Context) error {
	expenses, err := h.store.Expenses(ctx)
	if err != nil {
		return fmt.Errorf("request expenses: %w", err)
	}

	h.mu.Lock()
	h.expenses = expenses
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}

// Delete removes one expense, then re-reads the whole list.
func (h *ExpenseRecordsHolder) Delete(ctx context.Context, e core.DailyExpense) error {
	if err := h.store.DeleteExpense(ctx, e.ID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return h.Request(ctx)
}

// Update replaces one expense, then re-reads the whole list. Updating an
// id that no longer exists is a no-op, matching the store.
func (h *ExpenseRecordsHolder) Update(ctx context.Context, e core.DailyExpense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := h.store.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return h.Request(ctx)
}

// SetSortKey changes the display order. Unknown keys fall back to date.
func (h *ExpenseRecordsHolder) SetSortKey(key SortKey) {
	switch key {
	case SortByDate, SortByAmount, SortByCategory:
	default:
		key = SortByDate
	}

	h.mu.Lock()
	h.sortKey = key
	h.mu.Unlock()
	h.notifier.notify()
}

func sortExpenses(expenses []core.DailyExpense, key SortKey) {
	switch key {
	case SortByAmount:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Amount > expenses[j].Amount
		})
	case SortByCategory:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Category < expenses[j].Category
		})
	default:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Date > expenses[j].Date
		})
	}
}
