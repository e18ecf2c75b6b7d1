// Package storage implements the durable ledger store on SQLite: an
// append-only transaction log, mutable goal records and the monthly-cost
// setting. Every mutation is a single statement committed synchronously
// before the call returns.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mygoal/internal/core"

	_ "modernc.org/sqlite"
)

const monthlyCostKey = "monthly_cost"

// monthKeyLayout matches strftime('%Y-%m', created_at) buckets.
const monthKeyLayout = "2006-01"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendTransaction writes a ledger entry with a server-assigned id and
// timestamp and returns the id.
func (r *Repository) AppendTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (description, amount_cents, kind, category) VALUES (?, ?, ?, ?)`,
		t.Description, t.Amount.Cents, string(t.Kind), t.Category)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction appended",
		"id", id,
		"kind", t.Kind,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)

	return id, nil
}

// CurrentMonthIncome returns this month's primary-income entries, oldest
// first. Corrections booked as income under other categories are excluded.
func (r *Repository) CurrentMonthIncome(ctx context.Context, now time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, created_at FROM transactions
		 WHERE kind = 'income' AND category = ? AND strftime('%Y-%m', created_at) = ?
		 ORDER BY id`,
		core.PrimaryIncomeCategory, now.UTC().Format(monthKeyLayout))
	if err != nil {
		return nil, fmt.Errorf("query current month income: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t := core.Transaction{Kind: core.Income, Category: core.PrimaryIncomeCategory}
		var created string
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount.Cents, &created); err != nil {
			return nil, fmt.Errorf("scan income row: %w", err)
		}
		if ts, perr := time.Parse(core.TimestampLayout, created); perr == nil {
			t.CreatedAt = ts
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate income rows: %w", err)
	}
	return out, nil
}

// SumByKind totals transaction values for one kind over the whole ledger.
func (r *Repository) SumByKind(ctx context.Context, kind core.Kind) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT IFNULL(SUM(amount_cents), 0) FROM transactions WHERE kind = ?`,
		string(kind)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum transactions by kind %s: %w", kind, err)
	}
	return core.Money{Cents: cents}, nil
}

// SumAllocated totals the current amounts across all goals.
func (r *Repository) SumAllocated(ctx context.Context) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT IFNULL(SUM(current_cents), 0) FROM goals`).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum allocated: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// AvgMonthlyIncome averages the per-month income sums over all months
// that have income entries. Zero when the ledger has none.
func (r *Repository) AvgMonthlyIncome(ctx context.Context) (core.Money, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx,
		`SELECT IFNULL(AVG(monthly), 0) FROM (
			SELECT SUM(amount_cents) AS monthly FROM transactions
			WHERE kind = 'income'
			GROUP BY strftime('%Y-%m', created_at))`).Scan(&avg)
	if err != nil {
		return core.Money{}, fmt.Errorf("average monthly income: %w", err)
	}
	return core.Money{Cents: int64(avg + 0.5)}, nil
}

// ActivityMonths counts distinct calendar months with any transaction.
func (r *Repository) ActivityMonths(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT strftime('%Y-%m', created_at)) FROM transactions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count activity months: %w", err)
	}
	return n, nil
}

// HasFixedCostForMonth reports whether the fixed monthly cost has already
// been booked for the month containing now.
func (r *Repository) HasFixedCostForMonth(ctx context.Context, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM transactions
			WHERE kind = 'expense' AND category = ? AND strftime('%Y-%m', created_at) = ?)`,
		core.FixedCostCategory, now.UTC().Format(monthKeyLayout)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check fixed cost for month: %w", err)
	}
	return exists, nil
}

// MonthlyCost returns the fixed monthly obligation, 0 when never set.
func (r *Repository) MonthlyCost(ctx context.Context) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT value_cents FROM settings WHERE key = ?`, monthlyCostKey).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("read monthly cost: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SetMonthlyCost replaces the monthly cost value, last-write-wins.
func (r *Repository) SetMonthlyCost(ctx context.Context, value core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value_cents) VALUES (?, ?)`,
		monthlyCostKey, value.Cents)
	if err != nil {
		return fmt.Errorf("set monthly cost: %w", err)
	}
	slog.InfoContext(ctx, "Monthly cost updated", "value_cents", value.Cents)
	return nil
}

// CreateGoal inserts a goal with a zero balance and a server-assigned
// creation timestamp, returning the id.
func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (name, target_cents, deadline, category, icon) VALUES (?, ?, ?, ?, ?)`,
		g.Name, g.Target.Cents, g.Deadline, g.Category, g.Icon)
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal id: %w", err)
	}

	slog.InfoContext(ctx, "Goal created",
		"id", id,
		"name", g.Name,
		"target_cents", g.Target.Cents,
		"deadline", g.Deadline)

	return id, nil
}

const goalColumns = `id, name, current_cents, target_cents, deadline, category, icon, created_at`

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var g core.Goal
	err := row.Scan(&g.ID, &g.Name, &g.Current.Cents, &g.Target.Cents,
		&g.Deadline, &g.Category, &g.Icon, &g.CreatedAt)
	return g, err
}

func (r *Repository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal row: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal rows: %w", err)
	}
	return out, nil
}

func (r *Repository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrGoalNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal %d: %w", id, err)
	}
	return g, nil
}

// AdjustGoalBalance applies a signed delta to a goal balance. Both balance
// invariants ride in the statement itself so the read-check-write cannot
// interleave with a concurrent writer: the goal balance may not go below
// zero, and a positive delta may not exceed the free balance
// (net position minus total allocated). Returns false when the update
// matched no row; the caller disambiguates why.
func (r *Repository) AdjustGoalBalance(ctx context.Context, id int64, delta core.Money) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = current_cents + ?
		 WHERE id = ?
		   AND current_cents + ? >= 0
		   AND (? <= 0 OR ? <= (
				SELECT IFNULL(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE -amount_cents END), 0)
				FROM transactions
			) - (SELECT IFNULL(SUM(current_cents), 0) FROM goals))`,
		delta.Cents, id, delta.Cents, delta.Cents, delta.Cents)
	if err != nil {
		return false, fmt.Errorf("adjust goal %d balance: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adjust goal %d balance result: %w", id, err)
	}
	if n == 0 {
		return false, nil
	}

	slog.InfoContext(ctx, "Goal balance adjusted", "id", id, "delta_cents", delta.Cents)
	return true, nil
}

// UpdateGoalDetails replaces name and target. The icon is never
// recomputed on edit.
func (r *Repository) UpdateGoalDetails(ctx context.Context, id int64, name string, target core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ? WHERE id = ?`,
		name, target.Cents, id)
	if err != nil {
		return fmt.Errorf("update goal %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update goal %d result: %w", id, err)
	} else if n == 0 {
		return core.ErrGoalNotFound
	}

	slog.InfoContext(ctx, "Goal details updated", "id", id, "name", name, "target_cents", target.Cents)
	return nil
}

// DeleteGoal removes the goal permanently. A nonzero balance is not
// transferred back; it simply leaves the allocated total.
func (r *Repository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete goal %d result: %w", id, err)
	} else if n == 0 {
		return core.ErrGoalNotFound
	}

	slog.InfoContext(ctx, "Goal deleted", "id", id)
	return nil
}
