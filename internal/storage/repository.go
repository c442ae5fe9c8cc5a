package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"intentos/internal/core"
	"intentos/internal/ledger"
	applog "intentos/internal/log"

	_ "modernc.org/sqlite"
)

var logger = applog.WithComponent(applog.ComponentStorage)

// SQLiteRepository is the ledger store backed by SQLite. Rows only live as
// long as their session: Purge runs when a session ends and PurgeAll at
// startup.
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
	// Writes are serialized by SQLite anyway; one connection avoids
	// SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.Store
func (r *SQLiteRepository) Append(ctx context.Context, sessionID string, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, session_id, description, amount_cents, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, sessionID, e.Description, e.Amount.Cents, e.Category, e.Date.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	logger.DebugContext(ctx, "Expense saved to SQLite",
		applog.FieldExpenseID, e.ID,
		applog.FieldSessionID, sessionID,
		applog.FieldAmountCents, e.Amount.Cents,
		applog.FieldCategory, e.Category)
	return nil
}

// Delete implements ledger.Store
func (r *SQLiteRepository) Delete(ctx context.Context, sessionID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE session_id = ? AND id = ?`, sessionID, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// List implements ledger.Store
func (r *SQLiteRepository) List(ctx context.Context, sessionID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, category, created_at
		   FROM expenses
		  WHERE session_id = ?
		  ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e       core.Expense
			cents   int64
			created string
		)
		if err := rows.Scan(&e.ID, &e.Description, &cents, &e.Category, &created); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = core.Money{Cents: cents}
		if e.Date, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Purge implements ledger.Store
func (r *SQLiteRepository) Purge(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("purge session %s: %w", sessionID, err)
	}
	return nil
}

// PurgeAll drops rows left behind by a previous process.
func (r *SQLiteRepository) PurgeAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("purge expenses: %w", err)
	}
	return res.RowsAffected()
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ ledger.Store = (*SQLiteRepository)(nil)
