package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"grana/internal/core"
	"grana/internal/events"
	"grana/internal/services"
	"grana/internal/storage"
)

type fakeSummaries struct {
	summary storage.CategorySummary
	err     error
	calls   int
}

func (f *fakeSummaries) GetCategorySummary(_ context.Context, _ string, _ core.Period) (storage.CategorySummary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeBudgets struct {
	budget services.Budget
	found  bool
	err    error
}

func (f *fakeBudgets) Get(_ context.Context, _, _, _ string) (services.Budget, bool, error) {
	return f.budget, f.found, f.err
}

func expenseEvent(category string) *events.TransactionAdded {
	return &events.TransactionAdded{
		ID:          1,
		UserID:      "u1",
		Kind:        "expense",
		Category:    category,
		AmountCents: 5000,
		OccurredOn:  time.Now().Format("2006-01-02"),
		Timestamp:   time.Now(),
	}
}

func TestHandleTransactionAddedChecksBudget(t *testing.T) {
	summaries := &fakeSummaries{summary: storage.CategorySummary{
		Expenses: map[string]storage.CategoryStats{
			"Food": {Total: decimal.NewFromInt(350), Count: 7},
		},
	}}
	budgets := &fakeBudgets{
		budget: services.Budget{Category: "Food", Amount: decimal.NewFromInt(300), Currency: "BRL"},
		found:  true,
	}

	w := NewBudgetWorker(summaries, budgets)
	if err := w.HandleTransactionAdded(context.Background(), expenseEvent("Food")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if summaries.calls != 1 {
		t.Errorf("summary reads = %d, want 1", summaries.calls)
	}
}

func TestHandleTransactionAddedSkipsIncome(t *testing.T) {
	summaries := &fakeSummaries{}
	w := NewBudgetWorker(summaries, &fakeBudgets{})

	msg := expenseEvent("Salary")
	msg.Kind = "income"
	if err := w.HandleTransactionAdded(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if summaries.calls != 0 {
		t.Error("income events must not trigger a summary read")
	}
}

func TestHandleTransactionAddedSkipsBackdatedEvents(t *testing.T) {
	summaries := &fakeSummaries{}
	w := NewBudgetWorker(summaries, &fakeBudgets{found: true})

	msg := expenseEvent("Food")
	msg.OccurredOn = "2019-01-15"
	if err := w.HandleTransactionAdded(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if summaries.calls != 0 {
		t.Error("backdated events must not trigger a summary read")
	}
}

func TestHandleTransactionAddedNoBudgetConfigured(t *testing.T) {
	summaries := &fakeSummaries{}
	w := NewBudgetWorker(summaries, &fakeBudgets{found: false})

	if err := w.HandleTransactionAdded(context.Background(), expenseEvent("Food")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if summaries.calls != 0 {
		t.Error("no budget means no summary read")
	}
}

func TestHandleTransactionAddedPropagatesStorageFailure(t *testing.T) {
	summaries := &fakeSummaries{err: errors.New("disk gone")}
	w := NewBudgetWorker(summaries, &fakeBudgets{found: true})

	if err := w.HandleTransactionAdded(context.Background(), expenseEvent("Food")); err == nil {
		t.Fatal("expected error to propagate for redelivery")
	}
}
