package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"dailybalance/internal/core"
	"dailybalance/internal/log"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// SQLiteRepository is the durable store for action records, daily expenses
// and settings. Construct it once at startup and pass it by reference;
// there is no ambient singleton.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := applySchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// applySchema brings the database up to the latest embedded migration.
// Migrations are forward-only and versioned; an already-current schema is
// not an error. The migrate driver takes ownership of the connection it is
// handed and closes it, so the schema runs on its own connection rather
// than the repository's.
func applySchema(dbPath string) error {
	source, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return fmt.Errorf("embedded migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open schema connection: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ─── Action records ─────────────────────────────────────────────────────────

// InsertAction appends an action record and returns its assigned id.
func (r *SQLiteRepository) InsertAction(ctx context.Context, rec core.ActionRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO action_record (type, timestamp, description)
		VALUES (?, ?, ?)
	`, rec.Type, rec.Timestamp, nullableString(rec.Description))
	if err != nil {
		return 0, fmt.Errorf("insert action record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("action record id: %w", err)
	}

	slog.InfoContext(ctx, "Action record saved",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpCreate,
		log.FieldID, id,
		log.FieldActionType, rec.Type,
		log.FieldTimestamp, rec.Timestamp)

	return id, nil
}

// Actions returns all action records ordered by timestamp descending.
func (r *SQLiteRepository) Actions(ctx context.Context) ([]core.ActionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, timestamp, description
		FROM action_record
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query action records: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

// LastTimestampByType returns the most recent timestamp among records of the
// given type. ok is false when no such record exists; that is a normal
// outcome, not an error.
func (r *SQLiteRepository) LastTimestampByType(ctx context.Context, typ string) (ts int64, ok bool, err error) {
	var v sql.NullInt64
	err = r.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM action_record WHERE type = ?
	`, typ).Scan(&v)
	if err != nil {
		return 0, false, fmt.Errorf("last timestamp by type: %w", err)
	}
	if !v.Valid {
		return 0, false, nil
	}
	return v.Int64, true, nil
}

// CountByTypeBetween counts records of the given type whose timestamp falls
// in the inclusive range [from, to].
func (r *SQLiteRepository) CountByTypeBetween(ctx context.Context, typ string, from, to int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM action_record
		WHERE type = ? AND timestamp >= ? AND timestamp <= ?
	`, typ, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by type between: %w", err)
	}
	return n, nil
}

// ActionsByTypeBetween returns records of the given type inside the inclusive
// range [from, to], newest first.
func (r *SQLiteRepository) ActionsByTypeBetween(ctx context.Context, typ string, from, to int64) ([]core.ActionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, timestamp, description
		FROM action_record
		WHERE type = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC
	`, typ, from, to)
	if err != nil {
		return nil, fmt.Errorf("query actions by type between: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

// DeleteActionsByTypeBetween removes records of the given type inside the
// inclusive range [from, to].
func (r *SQLiteRepository) DeleteActionsByTypeBetween(ctx context.Context, typ string, from, to int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM action_record
		WHERE type = ? AND timestamp >= ? AND timestamp <= ?
	`, typ, from, to)
	if err != nil {
		return fmt.Errorf("delete actions by type between: %w", err)
	}

	slog.InfoContext(ctx, "Action records deleted by type and range",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpDelete,
		log.FieldActionType, typ,
		"from", from, "to", to)
	return nil
}

// DeleteActionByID removes a single action record.
func (r *SQLiteRepository) DeleteActionByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM action_record WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete action by id: %w", err)
	}

	slog.InfoContext(ctx, "Action record deleted",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpDelete,
		log.FieldID, id)
	return nil
}

// DeleteAllActions removes every action record.
func (r *SQLiteRepository) DeleteAllActions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM action_record`)
	if err != nil {
		return fmt.Errorf("delete all actions: %w", err)
	}

	slog.InfoContext(ctx, "All action records deleted",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpDelete)
	return nil
}

// ─── Daily expenses ─────────────────────────────────────────────────────────

// InsertExpense appends a daily expense and returns its assigned id.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.DailyExpense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_expense (amount, category, date, note, origin)
		VALUES (?, ?, ?, ?, ?)
	`, e.Amount, e.Category, e.Date, nullableString(e.Note), nullableString(e.Origin))
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpCreate,
		log.FieldID, id,
		log.FieldAmount, e.Amount,
		log.FieldCategory, e.Category,
		log.FieldOrigin, e.Origin)

	return id, nil
}

// UpdateExpense replaces the row matching the expense's id. Updating an id
// that does not exist is a silent no-op.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.DailyExpense) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE daily_expense
		SET amount = ?, category = ?, date = ?, note = ?, origin = ?
		WHERE id = ?
	`, e.Amount, e.Category, e.Date, nullableString(e.Note), nullableString(e.Origin), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpUpdate,
		log.FieldID, e.ID)
	return nil
}

// DeleteExpense removes the expense with the given id.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM daily_expense WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpDelete,
		log.FieldID, id)
	return nil
}

// Expenses returns all daily expenses ordered by date descending.
func (r *SQLiteRepository) Expenses(ctx context.Context) ([]core.DailyExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, category, date, note, origin
		FROM daily_expense
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.DailyExpense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// ExpenseByID returns the expense with the given id. ok is false when the id
// does not exist.
func (r *SQLiteRepository) ExpenseByID(ctx context.Context, id int64) (e core.DailyExpense, ok bool, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount, category, date, note, origin
		FROM daily_expense
		WHERE id = ?
	`, id)

	e, err = scanExpense(row)
	if err == sql.ErrNoRows {
		return core.DailyExpense{}, false, nil
	}
	if err != nil {
		return core.DailyExpense{}, false, err
	}
	return e, true, nil
}

// DistinctCategories returns the sorted distinct category names in use.
func (r *SQLiteRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM daily_expense ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("query distinct categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// ─── Settings ───────────────────────────────────────────────────────────────

// Setting returns the value stored under key. ok is false when the key has
// never been written.
func (r *SQLiteRepository) Setting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

// ─── Scan helpers ───────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActions(rows *sql.Rows) ([]core.ActionRecord, error) {
	var records []core.ActionRecord
	for rows.Next() {
		var (
			rec  core.ActionRecord
			desc sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Timestamp, &desc); err != nil {
			return nil, fmt.Errorf("scan action record: %w", err)
		}
		rec.Description = desc.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action records: %w", err)
	}
	return records, nil
}

func scanExpense(row rowScanner) (core.DailyExpense, error) {
	var (
		e            core.DailyExpense
		note, origin sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Amount, &e.Category, &e.Date, &note, &origin); err != nil {
		if err == sql.ErrNoRows {
			return core.DailyExpense{}, err
		}
		return core.DailyExpense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Note = note.String
	e.Origin = origin.String
	return e, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
