// Package worker reacts to ledger mutation events. Its single job today
// is the budget alert: whenever an expense lands, compare the month's
// spend in that category against the budget stored in the memory store
// and log when the cap is blown.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grana/internal/core"
	"grana/internal/events"
	"grana/internal/services"
	"grana/internal/storage"
)

// SummaryReader is the slice of the ledger store the worker needs.
type SummaryReader interface {
	GetCategorySummary(ctx context.Context, userID string, period core.Period) (storage.CategorySummary, error)
}

// BudgetReader is the slice of the budget service the worker needs.
type BudgetReader interface {
	Get(ctx context.Context, userID, category, period string) (services.Budget, bool, error)
}

type BudgetWorker struct {
	summaries SummaryReader
	budgets   BudgetReader
}

func NewBudgetWorker(summaries SummaryReader, budgets BudgetReader) *BudgetWorker {
	return &BudgetWorker{summaries: summaries, budgets: budgets}
}

// HandleTransactionAdded checks the event's category against its budget.
// Only expenses in the current month are considered; income and
// backdated events are ignored.
func (w *BudgetWorker) HandleTransactionAdded(ctx context.Context, msg *events.TransactionAdded) error {
	if msg.Kind != string(core.Expense) {
		return nil
	}

	month := time.Now().Format("2006-01")
	if len(msg.OccurredOn) < len(month) || msg.OccurredOn[:len(month)] != month {
		return nil
	}

	budget, ok, err := w.budgets.Get(ctx, msg.UserID, msg.Category, month)
	if err != nil {
		return fmt.Errorf("get budget: %w", err)
	}
	if !ok {
		return nil
	}

	summary, err := w.summaries.GetCategorySummary(ctx, msg.UserID, core.PeriodMonth)
	if err != nil {
		return fmt.Errorf("get category summary: %w", err)
	}

	stats, ok := summary.Expenses[msg.Category]
	if !ok {
		return nil
	}

	if stats.Total.GreaterThan(budget.Amount) {
		slog.WarnContext(ctx, "Budget exceeded",
			"user_id", msg.UserID,
			"category", msg.Category,
			"period", month,
			"spent", stats.Total.String(),
			"budget", budget.Amount.String(),
			"currency", budget.Currency)
	}

	return nil
}
