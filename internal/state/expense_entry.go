package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dailybalance/internal/cache"
	"dailybalance/internal/core"
	"dailybalance/internal/log"
)

// ExpenseEntrySnapshot is a copy of the expense entry screen state.
type ExpenseEntrySnapshot struct {
	AmountText string
	Category   string
	Origin     string

	AmountValid bool
	ShowError   bool
	Submitting  bool

	OriginOptions []string
	Suggestions   []string
}

// ExpenseEntryHolder backs the daily-expense entry screen.
type ExpenseEntryHolder struct {
	store         ExpenseStore
	originOptions []string
	suggestions   *cache.Memo[[]string]
	now           func() time.Time

	mu   sync.Mutex
	snap ExpenseEntrySnapshot

	notifier notifier
}

func NewExpenseEntryHolder(store ExpenseStore, originOptions []string, suggestionTTL time.Duration) *ExpenseEntryHolder {
	return &ExpenseEntryHolder{
		store:         store,
		originOptions: originOptions,
		suggestions:   cache.NewMemo[[]string](suggestionTTL),
		now:           time.Now,
		snap: ExpenseEntrySnapshot{
			AmountValid:   true,
			OriginOptions: originOptions,
		},
	}
}

func (h *ExpenseEntryHolder) Updates() <-chan struct{} {
	return h.notifier.subscribe()
}

func (h *ExpenseEntryHolder) Snapshot() ExpenseEntrySnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := h.snap
	snap.OriginOptions = append([]string(nil), h.snap.OriginOptions...)
	snap.Suggestions = append([]string(nil), h.snap.Suggestions...)
	return snap
}

// SetAmountText updates the amount field and revalidates it. Any visible
// error is cleared so the user can correct the input.
func (h *ExpenseEntryHolder) SetAmountText(text string) {
	h.mu.Lock()
	h.snap.AmountText = text
	h.snap.AmountValid = core.IsAmountValid(text)
	h.snap.ShowError = false
	h.mu.Unlock()
	h.notifier.notify()
}

func (h *ExpenseEntryHolder) SetCategory(category string) {
	h.mu.Lock()
	h.snap.Category = category
	h.snap.ShowError = false
	h.mu.Unlock()
	h.notifier.notify()
}

func (h *ExpenseEntryHolder) SetOrigin(origin string) {
	h.mu.Lock()
	h.snap.Origin = origin
	h.snap.ShowError = false
	h.mu.Unlock()
	h.notifier.notify()
}

// Reset clears the entry fields and error state.
func (h *ExpenseEntryHolder) Reset() {
	h.mu.Lock()
	h.snap.AmountText = ""
	h.snap.Category = ""
	h.snap.Origin = ""
	h.snap.ShowError = false
	h.snap.AmountValid = true
	h.mu.Unlock()
	h.notifier.notify()
}

// Register validates the entry fields and inserts the expense with the
// current wall-clock date. It reports whether a row was inserted: a
// validation failure raises the error flag instead, and a registration
// already in flight makes further ones no-ops until it finishes.
func (h *ExpenseEntryHolder) Register(ctx context.Context) (bool, error) {
	h.mu.Lock()
	if h.snap.Submitting {
		h.mu.Unlock()
		slog.DebugContext(ctx, "Expense registration ignored, one already in flight",
			log.FieldComponent, log.ComponentState)
		return false, nil
	}

	input := core.ExpenseInput{
		AmountText: h.snap.AmountText,
		Category:   h.snap.Category,
		Origin:     h.snap.Origin,
	}
	if err := input.Validate(); err != nil {
		h.snap.ShowError = true
		h.snap.AmountValid = core.IsAmountValid(input.AmountText)
		h.mu.Unlock()
		h.notifier.notify()
		return false, nil
	}

	h.snap.Submitting = true
	h.mu.Unlock()
	h.notifier.notify()

	amount, err := core.ParseAmount(input.AmountText)
	if err != nil {
		// Unreachable after Validate, kept as a guard.
		h.clearSubmitting()
		return false, err
	}

	expense := core.DailyExpense{
		Amount:   amount,
		Category: core.NormalizeCategory(input.Category),
		Date:     h.now().UnixMilli(),
		Origin:   input.Origin,
	}

	if _, err := h.store.InsertExpense(ctx, expense); err != nil {
		h.clearSubmitting()
		return false, fmt.Errorf("register expense: %w", err)
	}

	h.suggestions.Invalidate()

	h.mu.Lock()
	h.snap.AmountText = ""
	h.snap.Category = ""
	h.snap.Origin = ""
	h.snap.ShowError = false
	h.snap.AmountValid = true
	h.snap.Submitting = false
	h.mu.Unlock()
	h.notifier.notify()

	return true, nil
}

func (h *ExpenseEntryHolder) clearSubmitting() {
	h.mu.Lock()
	h.snap.Submitting = false
	h.mu.Unlock()
	h.notifier.notify()
}

// RefreshSuggestions loads the distinct categories already in use, serving
// them from a short-lived cache between writes.
func (h *ExpenseEntryHolder) RefreshSuggestions(ctx context.Context) error {
	categories, ok := h.suggestions.Get()
	if !ok {
		var err error
		categories, err = h.store.DistinctCategories(ctx)
		if err != nil {
			return fmt.Errorf("load category suggestions: %w", err)
		}
		h.suggestions.Set(categories)
	}

	h.mu.Lock()
	h.snap.Suggestions = categories
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}
