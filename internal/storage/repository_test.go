package storage

import (
	"context"
	"path/filepath"
	"testing"

	"dailybalance/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInsertAndListActions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := []core.ActionRecord{
		{Type: core.ActionCigarette, Timestamp: 1000},
		{Type: core.ActionBeer, Timestamp: 3000},
		{Type: core.ActionFood, Timestamp: 2000, Description: "pizza"},
	}
	for _, rec := range records {
		if _, err := repo.InsertAction(ctx, rec); err != nil {
			t.Fatalf("InsertAction: %v", err)
		}
	}

	got, err := repo.Actions(ctx)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(Actions) = %d, want 3", len(got))
	}
	// Ordered by timestamp descending.
	if got[0].Type != core.ActionBeer || got[1].Type != core.ActionFood || got[2].Type != core.ActionCigarette {
		t.Errorf("unexpected order: %v, %v, %v", got[0].Type, got[1].Type, got[2].Type)
	}
	if got[1].Description != "pizza" {
		t.Errorf("description = %q, want %q", got[1].Description, "pizza")
	}
	if got[0].ID == 0 {
		t.Error("inserted record should have a non-zero id")
	}
}

func TestLastTimestampByType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.LastTimestampByType(ctx, core.ActionCigarette); err != nil || ok {
		t.Fatalf("empty table: got ok=%v err=%v, want absent with no error", ok, err)
	}

	for _, ts := range []int64{500, 1500, 900} {
		if _, err := repo.InsertAction(ctx, core.ActionRecord{Type: core.ActionCigarette, Timestamp: ts}); err != nil {
			t.Fatalf("InsertAction: %v", err)
		}
	}
	if _, err := repo.InsertAction(ctx, core.ActionRecord{Type: core.ActionBeer, Timestamp: 9999}); err != nil {
		t.Fatalf("InsertAction: %v", err)
	}

	ts, ok, err := repo.LastTimestampByType(ctx, core.ActionCigarette)
	if err != nil {
		t.Fatalf("LastTimestampByType: %v", err)
	}
	if !ok || ts != 1500 {
		t.Errorf("got ts=%d ok=%v, want 1500 present", ts, ok)
	}
}

func TestCountByTypeBetween(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const from, to = 1000, 2000
	timestamps := []int64{999, 1000, 1500, 2000, 2001}
	for _, ts := range timestamps {
		if _, err := repo.InsertAction(ctx, core.ActionRecord{Type: core.ActionCigarette, Timestamp: ts}); err != nil {
			t.Fatalf("InsertAction: %v", err)
		}
	}
	// Same range, different type: must not be counted.
	if _, err := repo.InsertAction(ctx, core.ActionRecord{Type: core.ActionBeer, Timestamp: 1500}); err != nil {
		t.Fatalf("InsertAction: %v", err)
	}

	n, err := repo.CountByTypeBetween(ctx, core.ActionCigarette, from, to)
	if err != nil {
		t.Fatalf("CountByTypeBetween: %v", err)
	}
	// Bounds are inclusive: 1000, 1500 and 2000 fall inside.
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestActionsByTypeBetween(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, ts := range []int64{100, 200, 300} {
		if _, err := repo.InsertAction(ctx, core.ActionRecord{Type: core.ActionFood, Timestamp: ts}); err != nil {
			t.Fatalf("InsertAction: %v", err)
		}
	}

	got, err := repo.ActionsByTypeBetween(ctx, core.ActionFood, 100, 200)
	if err != nil {
		t.Fatalf("ActionsByTypeBetween: %v", err)
	}
	if len(got) != 2 || got[0].Timestamp != 200 || got[1].Timestamp != 100 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestDeleteActions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var firstID int64
	for i, ts := range []int64{100, 200, 300} {
		id, err := repo.InsertAction(ctx, core.ActionRecord{Type: core.ActionCigarette, Timestamp: ts})
		if err != nil {
			t.Fatalf("InsertAction: %v", err)
		}
		if i == 0 {
			firstID = id
		}
	}

	t.Run("by id", func(t *testing.T) {
		if err := repo.DeleteActionByID(ctx, firstID); err != nil {
			t.Fatalf("DeleteActionByID: %v", err)
		}
		got, err := repo.Actions(ctx)
		if err != nil {
			t.Fatalf("Actions: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len(Actions) = %d, want 2", len(got))
		}
	})

	t.Run("by type and range", func(t *testing.T) {
		if err := repo.DeleteActionsByTypeBetween(ctx, core.ActionCigarette, 200, 200); err != nil {
			t.Fatalf("DeleteActionsByTypeBetween: %v", err)
		}
		n, err := repo.CountByTypeBetween(ctx, core.ActionCigarette, 0, 1000)
		if err != nil {
			t.Fatalf("CountByTypeBetween: %v", err)
		}
		if n != 1 {
			t.Errorf("count = %d, want 1", n)
		}
	})

	t.Run("all", func(t *testing.T) {
		if err := repo.DeleteAllActions(ctx); err != nil {
			t.Fatalf("DeleteAllActions: %v", err)
		}
		got, err := repo.Actions(ctx)
		if err != nil {
			t.Fatalf("Actions: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(Actions) = %d, want 0", len(got))
		}
		if _, ok, err := repo.LastTimestampByType(ctx, core.ActionCigarette); err != nil || ok {
			t.Errorf("after DeleteAllActions: ok=%v err=%v, want absent", ok, err)
		}
	})
}

func TestExpenseCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.InsertExpense(ctx, core.DailyExpense{
		Amount:   5,
		Category: "Comida",
		Date:     1700000000000,
		Origin:   "Efectivo",
	})
	if err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}
	if id == 0 {
		t.Fatal("InsertExpense should return a non-zero id")
	}

	t.Run("get by id", func(t *testing.T) {
		e, ok, err := repo.ExpenseByID(ctx, id)
		if err != nil {
			t.Fatalf("ExpenseByID: %v", err)
		}
		if !ok {
			t.Fatal("expense should exist")
		}
		if e.Amount != 5 || e.Category != "Comida" || e.Origin != "Efectivo" {
			t.Errorf("unexpected expense: %+v", e)
		}
	})

	t.Run("get missing id", func(t *testing.T) {
		_, ok, err := repo.ExpenseByID(ctx, id+1000)
		if err != nil {
			t.Fatalf("ExpenseByID: %v", err)
		}
		if ok {
			t.Error("missing id should report absent, not an error")
		}
	})

	t.Run("update", func(t *testing.T) {
		if err := repo.UpdateExpense(ctx, core.DailyExpense{
			ID:       id,
			Amount:   7.5,
			Category: "Casa",
			Date:     1700000000000,
			Note:     "updated",
			Origin:   "Tarjeta",
		}); err != nil {
			t.Fatalf("UpdateExpense: %v", err)
		}
		e, ok, err := repo.ExpenseByID(ctx, id)
		if err != nil || !ok {
			t.Fatalf("ExpenseByID after update: ok=%v err=%v", ok, err)
		}
		if e.Amount != 7.5 || e.Category != "Casa" || e.Note != "updated" {
			t.Errorf("unexpected expense after update: %+v", e)
		}
	})

	t.Run("update missing id is a no-op", func(t *testing.T) {
		if err := repo.UpdateExpense(ctx, core.DailyExpense{ID: id + 1000, Amount: 1, Category: "X", Date: 1}); err != nil {
			t.Errorf("UpdateExpense on missing id should be silent, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteExpense(ctx, id); err != nil {
			t.Fatalf("DeleteExpense: %v", err)
		}
		_, ok, err := repo.ExpenseByID(ctx, id)
		if err != nil {
			t.Fatalf("ExpenseByID after delete: %v", err)
		}
		if ok {
			t.Error("expense should be gone after delete")
		}
	})
}

func TestExpensesOrderedByDateDescending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []int64{100, 300, 200}
	for _, d := range dates {
		if _, err := repo.InsertExpense(ctx, core.DailyExpense{Amount: 1, Category: "C", Date: d}); err != nil {
			t.Fatalf("InsertExpense: %v", err)
		}
	}

	got, err := repo.Expenses(ctx)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(got) != 3 || got[0].Date != 300 || got[1].Date != 200 || got[2].Date != 100 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestDistinctCategories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, c := range []string{"Comida", "Casa", "Comida", "Transporte"} {
		if _, err := repo.InsertExpense(ctx, core.DailyExpense{Amount: 1, Category: c, Date: 1}); err != nil {
			t.Fatalf("InsertExpense: %v", err)
		}
	}

	got, err := repo.DistinctCategories(ctx)
	if err != nil {
		t.Fatalf("DistinctCategories: %v", err)
	}
	want := []string{"Casa", "Comida", "Transporte"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.Setting(ctx, "dark_mode"); err != nil || ok {
		t.Fatalf("unset key: ok=%v err=%v, want absent", ok, err)
	}

	if err := repo.SetSetting(ctx, "dark_mode", "true"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if v, ok, err := repo.Setting(ctx, "dark_mode"); err != nil || !ok || v != "true" {
		t.Fatalf("Setting = %q, %v, %v; want \"true\"", v, ok, err)
	}

	// Overwrite.
	if err := repo.SetSetting(ctx, "dark_mode", "false"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if v, _, _ := repo.Setting(ctx, "dark_mode"); v != "false" {
		t.Errorf("Setting after overwrite = %q, want \"false\"", v)
	}
}

func TestMigrationsAreIdempotentAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	ctx := context.Background()
	id, err := repo.InsertExpense(ctx, core.DailyExpense{Amount: 2, Category: "Casa", Date: 42, Origin: "Efectivo"})
	if err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}
	repo.Close()

	// Reopening must re-apply nothing and preserve all rows.
	repo2, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer repo2.Close()

	e, ok, err := repo2.ExpenseByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("ExpenseByID after reopen: ok=%v err=%v", ok, err)
	}
	if e.Category != "Casa" || e.Origin != "Efectivo" {
		t.Errorf("row not preserved across reopen: %+v", e)
	}
}
