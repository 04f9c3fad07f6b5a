package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dailybalance/internal/core"
	"dailybalance/internal/export"
	"dailybalance/internal/log"
	"dailybalance/internal/prefs"
	"dailybalance/internal/state"
)

type stubSettings struct {
	values map[string]string
}

func (s *stubSettings) Setting(_ context.Context, key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubSettings) SetSetting(_ context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

type stubExpenseStore struct {
	rows []core.DailyExpense
}

func (s *stubExpenseStore) InsertExpense(_ context.Context, e core.DailyExpense) (int64, error) {
	e.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, e)
	return e.ID, nil
}

func (s *stubExpenseStore) UpdateExpense(context.Context, core.DailyExpense) error { return nil }
func (s *stubExpenseStore) DeleteExpense(context.Context, int64) error             { return nil }
func (s *stubExpenseStore) Expenses(context.Context) ([]core.DailyExpense, error) {
	return nil, nil
}
func (s *stubExpenseStore) ExpenseByID(context.Context, int64) (core.DailyExpense, bool, error) {
	return core.DailyExpense{}, false, nil
}
func (s *stubExpenseStore) DistinctCategories(context.Context) ([]string, error) {
	return nil, nil
}

func newTestModel(expenses *stubExpenseStore) Model {
	holders := Holders{
		App:            state.NewAppHolder(prefs.NewStore(&stubSettings{})),
		Records:        state.NewRecordsHolder(nil),
		ExpenseEntry:   state.NewExpenseEntryHolder(expenses, []string{"Efectivo", "Tarjeta"}, time.Minute),
		ExpenseRecords: state.NewExpenseRecordsHolder(expenses),
		Food:           state.NewFoodHolder(nil),
	}
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	return NewModel(context.Background(), holders, export.DirSaver{}, logger)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// Entering the expense screen must seed the holder with the origin the
// selector displays, so registering without ever touching the selector
// succeeds with that default.
func TestExpenseEntryRegistersWithDefaultOrigin(t *testing.T) {
	store := &stubExpenseStore{}
	m := newTestModel(store)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})

	snap := m.holders.ExpenseEntry.Snapshot()
	if snap.Origin != "Efectivo" {
		t.Fatalf("origin after opening screen = %q, want %q", snap.Origin, "Efectivo")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("comida")})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("enter on the expense screen should dispatch the registration")
	}

	result := cmd()
	msg, ok := result.(expenseRegisteredMsg)
	if !ok || !msg.inserted {
		t.Fatalf("registration result = %#v, want an inserted expenseRegisteredMsg", result)
	}

	if len(store.rows) != 1 {
		t.Fatalf("inserted rows = %d, want 1", len(store.rows))
	}
	if got := store.rows[0].Origin; got != "Efectivo" {
		t.Errorf("stored origin = %q, want %q", got, "Efectivo")
	}
	if m.holders.ExpenseEntry.Snapshot().ShowError {
		t.Error("error flag raised on a valid registration")
	}
}

func TestFormatSince(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{name: "seconds", elapsed: 42 * time.Second, want: "42s"},
		{name: "minutes", elapsed: 12 * time.Minute, want: "12m"},
		{name: "hours and minutes", elapsed: 3*time.Hour + 12*time.Minute, want: "3h 12m"},
		{name: "days and hours", elapsed: 50 * time.Hour, want: "2d 2h"},
		{name: "future timestamp clamps to zero", elapsed: -time.Minute, want: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			millis := now.Add(-tt.elapsed).UnixMilli()
			if got := formatSince(millis, now); got != tt.want {
				t.Errorf("formatSince() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextSortKey(t *testing.T) {
	tests := []struct {
		in   state.SortKey
		want state.SortKey
	}{
		{in: state.SortByDate, want: state.SortByAmount},
		{in: state.SortByAmount, want: state.SortByCategory},
		{in: state.SortByCategory, want: state.SortByDate},
		{in: state.SortKey("bogus"), want: state.SortByDate},
	}

	for _, tt := range tests {
		if got := nextSortKey(tt.in); got != tt.want {
			t.Errorf("nextSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi int
		want      int
	}{
		{name: "within range", v: 2, lo: 0, hi: 5, want: 2},
		{name: "below", v: -1, lo: 0, hi: 5, want: 0},
		{name: "above", v: 9, lo: 0, hi: 5, want: 5},
		{name: "empty range", v: 3, lo: 0, hi: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestTextField(t *testing.T) {
	var f textField

	f.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("caf")})
	f.handleKey(tea.KeyMsg{Type: tea.KeySpace})
	f.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("é")})
	if f.value != "caf é" {
		t.Fatalf("value = %q, want %q", f.value, "caf é")
	}

	f.handleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	if f.value != "caf " {
		t.Errorf("after backspace value = %q, want %q", f.value, "caf ")
	}

	if consumed := f.handleKey(tea.KeyMsg{Type: tea.KeyEnter}); consumed {
		t.Error("enter should not be consumed by the field")
	}

	f.value = ""
	f.handleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	if f.value != "" {
		t.Errorf("backspace on empty field changed value to %q", f.value)
	}
}
