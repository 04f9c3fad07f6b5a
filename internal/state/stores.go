// Package state holds the per-screen view state. Each holder guards its
// fields with a mutex, exposes snapshot accessors plus a coalescing update
// channel, and offers intent methods that validate synchronously and then
// call into the access layer. The UI dispatches intents off its render
// loop; holders themselves are synchronous so they stay testable.
package state

import (
	"context"

	"dailybalance/internal/core"
)

// ActionStore is the action-record slice of the repository.
type ActionStore interface {
	InsertAction(ctx context.Context, rec core.ActionRecord) (int64, error)
	Actions(ctx context.Context) ([]core.ActionRecord, error)
	LastTimestampByType(ctx context.Context, typ string) (ts int64, ok bool, err error)
	CountByTypeBetween(ctx context.Context, typ string, from, to int64) (int, error)
	ActionsByTypeBetween(ctx context.Context, typ string, from, to int64) ([]core.ActionRecord, error)
	DeleteActionsByTypeBetween(ctx context.Context, typ string, from, to int64) error
	DeleteActionByID(ctx context.Context, id int64) error
	DeleteAllActions(ctx context.Context) error
}

// ExpenseStore is the daily-expense slice of the repository.
type ExpenseStore interface {
	InsertExpense(ctx context.Context, e core.DailyExpense) (int64, error)
	UpdateExpense(ctx context.Context, e core.DailyExpense) error
	DeleteExpense(ctx context.Context, id int64) error
	Expenses(ctx context.Context) ([]core.DailyExpense, error)
	ExpenseByID(ctx context.Context, id int64) (e core.DailyExpense, ok bool, err error)
	DistinctCategories(ctx context.Context) ([]string, error)
}
