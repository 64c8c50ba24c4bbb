package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"grana/internal/core"
	"grana/internal/memstore"
)

const (
	defaultCurrency    = "BRL"
	defaultBudgetLimit = 20
)

func budgetsNamespace(userID string) []string {
	return []string{userID, "budgets"}
}

// Budget is the per-category spending cap for one YYYY-MM period.
type Budget struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period"`
	Currency  string          `json:"currency"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BudgetService stores budgets under key "<period>:<slug(category)>" in
// the (user, "budgets") namespace.
type BudgetService struct {
	store *memstore.Store
	prefs *PreferenceService
}

func NewBudgetService(store *memstore.Store, prefs *PreferenceService) *BudgetService {
	return &BudgetService{store: store, prefs: prefs}
}

// Save upserts the budget for (category, period). An empty period means
// the current month; an empty currency falls back to the user's
// "currency" preference, then to BRL.
func (s *BudgetService) Save(ctx context.Context, userID, category string, amount decimal.Decimal, period, currency string) (Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Budget{}, &core.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	period, err := resolvePeriod(period)
	if err != nil {
		return Budget{}, err
	}

	if currency == "" {
		currency = defaultCurrency
		if s.prefs != nil {
			if v, ok, err := s.prefs.Get(ctx, userID, "currency"); err != nil {
				return Budget{}, err
			} else if ok {
				if c, isString := v.(string); isString && c != "" {
					currency = c
				}
			}
		}
	}

	budget := Budget{
		Category:  category,
		Amount:    amount,
		Period:    period,
		Currency:  currency,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	key := budgetKey(period, category)
	if err := s.store.Put(ctx, budgetsNamespace(userID), key, budget); err != nil {
		return Budget{}, err
	}

	return budget, nil
}

// Get returns the budget for (category, period); period defaults to the
// current month.
func (s *BudgetService) Get(ctx context.Context, userID, category, period string) (Budget, bool, error) {
	period, err := resolvePeriod(period)
	if err != nil {
		return Budget{}, false, err
	}

	doc, ok, err := s.store.Get(ctx, budgetsNamespace(userID), budgetKey(period, category))
	if err != nil {
		return Budget{}, false, err
	}
	if !ok {
		return Budget{}, false, nil
	}

	var budget Budget
	if err := doc.Decode(&budget); err != nil {
		return Budget{}, false, err
	}
	return budget, true, nil
}

// List returns the budgets of one period via a structural filter search.
func (s *BudgetService) List(ctx context.Context, userID, period string, limit int) ([]Budget, error) {
	period, err := resolvePeriod(period)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultBudgetLimit
	}

	docs, err := s.store.Search(ctx, budgetsNamespace(userID), memstore.SearchOptions{
		Filter: map[string]any{"period": period},
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	budgets := make([]Budget, 0, len(docs))
	for _, doc := range docs {
		var budget Budget
		if err := doc.Decode(&budget); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

func budgetKey(period, category string) string {
	return period + ":" + memstore.Slug(category)
}

// resolvePeriod validates a YYYY-MM budget period, defaulting to the
// current month when empty.
func resolvePeriod(period string) (string, error) {
	if period == "" {
		return time.Now().Format("2006-01"), nil
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return "", &core.ValidationError{Field: "budget period", Reason: "must be in YYYY-MM format"}
	}
	return period, nil
}
