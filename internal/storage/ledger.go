// Package storage implements the ledger store: SQLite-backed persistence
// for financial transactions with period-based aggregation and
// keyword-driven category inference.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"grana/internal/cache"
	"grana/internal/core"
	"grana/internal/sqlitedb"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const defaultListLimit = 10

// LedgerStore owns the transactions and category keyword tables. Every
// public operation runs in its own unit of work; there is no transaction
// spanning multiple calls. Concurrent updates to the same row are not
// serialized beyond SQLite's single-statement atomicity: last writer wins.
type LedgerStore struct {
	db       *sql.DB
	keywords *cache.LRU[[]keywordRule]
}

func NewLedgerStore(dbPath string) (*LedgerStore, error) {
	if err := sqlitedb.Migrate(dbPath, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("run ledger migrations: %w", err)
	}

	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	store := &LedgerStore{
		db:       db,
		keywords: cache.NewLRU[[]keywordRule](1, 5*time.Minute),
	}
	if err := store.seedKeywords(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed category keywords: %w", err)
	}

	return store, nil
}

func (s *LedgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddParams carries the input for a new ledger entry. Kind and Category
// may be left empty: when a description is present they are inferred from
// it, and an explicitly supplied kind always wins over the inferred one.
type AddParams struct {
	UserID        string
	Amount        decimal.Decimal
	Kind          core.Kind
	Category      string
	Description   string
	OccurredOn    core.Date // zero value means today
	CorrelationID string
}

// AddTransaction inserts a new transaction and returns its id. The amount
// is stored as an absolute magnitude regardless of the input sign.
func (s *LedgerStore) AddTransaction(ctx context.Context, p AddParams) (int64, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return 0, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if p.Kind != "" {
		if err := p.Kind.Validate(); err != nil {
			return 0, err
		}
	}

	if p.Category == "" && p.Description != "" {
		category, kind, err := s.Infer(ctx, p.Description)
		if err != nil {
			return 0, err
		}
		p.Category = category
		if p.Kind == "" {
			p.Kind = kind
		}
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Kind == "" {
		p.Kind = core.Expense
	}
	if p.OccurredOn.IsZero() {
		p.OccurredOn = core.Today()
	}

	amount := core.MoneyFromDecimal(p.Amount)

	var id int64
	err := sqlitedb.WithTx(ctx, s.db, "add transaction", func(tx *sql.Tx) error {
		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (user_id, amount_cents, kind, category, description, occurred_on, correlation_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.UserID, amount.Cents, string(p.Kind), p.Category, p.Description,
			p.OccurredOn.String(), p.CorrelationID, now, now)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	slog.DebugContext(ctx, "Transaction added",
		"id", id,
		"user_id", p.UserID,
		"kind", string(p.Kind),
		"category", p.Category,
		"amount_cents", amount.Cents)

	return id, nil
}

// BalanceReport summarizes income against expenses over a period. The
// balance is signed and may be negative.
type BalanceReport struct {
	Income    decimal.Decimal
	Expenses  decimal.Decimal
	Balance   decimal.Decimal
	Period    core.Period
	StartDate core.Date
}

// GetBalance sums income and expenses independently over transactions
// with occurred_on >= the period's start date, boundary included.
func (s *LedgerStore) GetBalance(ctx context.Context, userID string, period core.Period) (BalanceReport, error) {
	if strings.TrimSpace(userID) == "" {
		return BalanceReport{}, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	start, err := period.Start(time.Now())
	if err != nil {
		return BalanceReport{}, err
	}

	var incomeCents, expenseCents int64
	err = sqlitedb.WithTx(ctx, s.db, "get balance", func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			SELECT
				COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0)
			FROM transactions
			WHERE user_id = ? AND occurred_on >= ?`,
			userID, start.String()).Scan(&incomeCents, &expenseCents)
	})
	if err != nil {
		return BalanceReport{}, err
	}

	income := core.Money{Cents: incomeCents}.Decimal()
	expenses := core.Money{Cents: expenseCents}.Decimal()
	return BalanceReport{
		Income:    income,
		Expenses:  expenses,
		Balance:   income.Sub(expenses),
		Period:    period,
		StartDate: start,
	}, nil
}

// ListParams filters a transaction listing. Zero values mean "no filter";
// Limit defaults to 10.
type ListParams struct {
	UserID   string
	Limit    int
	Kind     core.Kind
	Period   core.Period
	Category string
}

// ListTransactions returns the user's transactions matching the filters,
// ordered by occurred_on descending, newest id first on equal dates.
func (s *LedgerStore) ListTransactions(ctx context.Context, p ListParams) ([]core.Transaction, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if p.Kind != "" {
		if err := p.Kind.Validate(); err != nil {
			return nil, err
		}
	}
	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}

	query := `
		SELECT id, user_id, amount_cents, kind, category, description, occurred_on, correlation_id, created_at, updated_at
		FROM transactions
		WHERE user_id = ?`
	args := []any{p.UserID}

	if p.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(p.Kind))
	}
	if p.Category != "" {
		query += " AND category = ?"
		args = append(args, p.Category)
	}
	if p.Period != "" {
		start, err := p.Period.Start(time.Now())
		if err != nil {
			return nil, err
		}
		query += " AND occurred_on >= ?"
		args = append(args, start.String())
	}
	query += " ORDER BY occurred_on DESC, id DESC LIMIT ?"
	args = append(args, p.Limit)

	var transactions []core.Transaction
	err := sqlitedb.WithTx(ctx, s.db, "list transactions", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTransaction(rows)
			if err != nil {
				return err
			}
			transactions = append(transactions, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// CategoryStats aggregates one (category, kind) group.
type CategoryStats struct {
	Total   decimal.Decimal
	Count   int64
	Average decimal.Decimal
}

// CategorySummary groups expense and income totals by category.
type CategorySummary struct {
	Expenses  map[string]CategoryStats
	Income    map[string]CategoryStats
	Period    core.Period
	StartDate core.Date
}

// GetCategorySummary aggregates the user's transactions per (category,
// kind) over the period. Periods are today, week, month or year; "all" is
// not offered here.
func (s *LedgerStore) GetCategorySummary(ctx context.Context, userID string, period core.Period) (CategorySummary, error) {
	if strings.TrimSpace(userID) == "" {
		return CategorySummary{}, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	switch period {
	case core.PeriodToday, core.PeriodWeek, core.PeriodMonth, core.PeriodYear:
	default:
		return CategorySummary{}, &core.ValidationError{Field: "period", Reason: fmt.Sprintf("summary period %q must be today, week, month or year", string(period))}
	}
	start, err := period.Start(time.Now())
	if err != nil {
		return CategorySummary{}, err
	}

	summary := CategorySummary{
		Expenses:  make(map[string]CategoryStats),
		Income:    make(map[string]CategoryStats),
		Period:    period,
		StartDate: start,
	}

	err = sqlitedb.WithTx(ctx, s.db, "get category summary", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT category, kind, SUM(amount_cents), COUNT(*)
			FROM transactions
			WHERE user_id = ? AND occurred_on >= ?
			GROUP BY category, kind`,
			userID, start.String())
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var category, kind string
			var totalCents, count int64
			if err := rows.Scan(&category, &kind, &totalCents, &count); err != nil {
				return err
			}
			stats := CategoryStats{
				Total: core.Money{Cents: totalCents}.Decimal(),
				Count: count,
			}
			if count > 0 {
				stats.Average = stats.Total.Div(decimal.NewFromInt(count)).Round(2)
			}
			if kind == string(core.Expense) {
				summary.Expenses[category] = stats
			} else {
				summary.Income[category] = stats
			}
		}
		return rows.Err()
	})
	if err != nil {
		return CategorySummary{}, err
	}

	return summary, nil
}

// UpdateParams carries a partial overwrite: only non-nil fields are
// applied, everything else is left untouched.
type UpdateParams struct {
	Amount        *decimal.Decimal
	Kind          *core.Kind
	Category      *string
	Description   *string
	OccurredOn    *core.Date
	CorrelationID *string
}

// UpdateTransaction overwrites the supplied fields of the row matching
// (id, userID). It returns false, not an error, when no such row exists.
func (s *LedgerStore) UpdateTransaction(ctx context.Context, userID string, id int64, p UpdateParams) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if p.Kind != nil {
		if err := p.Kind.Validate(); err != nil {
			return false, err
		}
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, core.MoneyFromDecimal(*p.Amount).Cents)
	}
	if p.Kind != nil {
		sets = append(sets, "kind = ?")
		args = append(args, string(*p.Kind))
	}
	if p.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.OccurredOn != nil {
		sets = append(sets, "occurred_on = ?")
		args = append(args, p.OccurredOn.String())
	}
	if p.CorrelationID != nil {
		sets = append(sets, "correlation_id = ?")
		args = append(args, *p.CorrelationID)
	}
	args = append(args, id, userID)

	var updated bool
	err := sqlitedb.WithTx(ctx, s.db, "update transaction", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
			args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		updated = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return updated, nil
}

// GetTransaction fetches a single row by (id, userID). Absence is a
// normal false result.
func (s *LedgerStore) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return core.Transaction{}, false, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}

	var t core.Transaction
	found := true
	err := sqlitedb.WithTx(ctx, s.db, "get transaction", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, user_id, amount_cents, kind, category, description, occurred_on, correlation_id, created_at, updated_at
			FROM transactions
			WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		if !rows.Next() {
			found = false
			return rows.Err()
		}
		t, err = scanTransaction(rows)
		return err
	})
	if err != nil {
		return core.Transaction{}, false, err
	}
	if !found {
		return core.Transaction{}, false, nil
	}

	return t, true, nil
}

// DeleteTransaction removes the row matching (id, userID), reporting
// false when it does not exist.
func (s *LedgerStore) DeleteTransaction(ctx context.Context, userID string, id int64) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}

	var deleted bool
	err := sqlitedb.WithTx(ctx, s.db, "delete transaction", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// ClearUserTransactions deletes every transaction owned by userID and
// returns the number removed. Zero is a valid result, and rows of other
// users are never touched.
func (s *LedgerStore) ClearUserTransactions(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, &core.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}

	var removed int64
	err := sqlitedb.WithTx(ctx, s.db, "clear user transactions", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM transactions WHERE user_id = ?", userID)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "User transactions cleared", "user_id", userID, "removed", removed)
	return removed, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var t core.Transaction
	var cents int64
	var kind, occurredOn string
	if err := rows.Scan(&t.ID, &t.UserID, &cents, &kind, &t.Category,
		&t.Description, &occurredOn, &t.CorrelationID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.Money{Cents: cents}
	t.Kind = core.Kind(kind)
	date, err := core.ParseDate(occurredOn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored occurred_on: %w", err)
	}
	t.OccurredOn = date
	return t, nil
}
