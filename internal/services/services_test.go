package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"grana/internal/core"
	"grana/internal/memstore"
)

func newMemStore(t *testing.T) *memstore.Store {
	t.Helper()
	store, err := memstore.New(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPreferenceSetMergesIntoProfile(t *testing.T) {
	prefs := NewPreferenceService(newMemStore(t))
	ctx := context.Background()

	if err := prefs.Set(ctx, "u1", "currency", "BRL"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := prefs.Set(ctx, "u1", "timezone", "America/Sao_Paulo"); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Overwrite keeps the other keys.
	if err := prefs.Set(ctx, "u1", "currency", "EUR"); err != nil {
		t.Fatalf("set: %v", err)
	}

	profile, err := prefs.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(profile) != 2 {
		t.Fatalf("profile has %d keys, want 2: %#v", len(profile), profile)
	}
	if profile["currency"] != "EUR" {
		t.Errorf("currency = %v, want EUR", profile["currency"])
	}
	if profile["timezone"] != "America/Sao_Paulo" {
		t.Errorf("timezone = %v, want America/Sao_Paulo", profile["timezone"])
	}
}

func TestPreferenceGetAbsent(t *testing.T) {
	prefs := NewPreferenceService(newMemStore(t))
	ctx := context.Background()

	profile, err := prefs.Profile(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if profile != nil {
		t.Errorf("expected nil profile, got %#v", profile)
	}

	if _, ok, err := prefs.Get(ctx, "u1", "currency"); err != nil || ok {
		t.Errorf("expected absent preference, got ok=%v err=%v", ok, err)
	}

	if err := prefs.Set(ctx, "u1", "  ", 1); !core.IsValidation(err) {
		t.Errorf("blank key: got %v, want validation error", err)
	}
}

func TestBudgetSaveAndGet(t *testing.T) {
	store := newMemStore(t)
	budgets := NewBudgetService(store, NewPreferenceService(store))
	ctx := context.Background()

	saved, err := budgets.Save(ctx, "u1", "Transport", decimal.NewFromInt(300), "2024-05", "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Currency != "BRL" {
		t.Errorf("currency = %s, want default BRL", saved.Currency)
	}

	got, ok, err := budgets.Get(ctx, "u1", "Transport", "2024-05")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected budget to exist")
	}
	if got.Category != "Transport" || got.Period != "2024-05" {
		t.Errorf("got %+v", got)
	}
	if !got.Amount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("amount = %s, want 300", got.Amount)
	}
}

func TestBudgetDefaultsPeriodAndCurrencyFromPrefs(t *testing.T) {
	store := newMemStore(t)
	prefs := NewPreferenceService(store)
	budgets := NewBudgetService(store, prefs)
	ctx := context.Background()

	if err := prefs.Set(ctx, "u1", "currency", "EUR"); err != nil {
		t.Fatal(err)
	}

	saved, err := budgets.Save(ctx, "u1", "Food", decimal.NewFromInt(500), "", "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Currency != "EUR" {
		t.Errorf("currency = %s, want EUR from prefs", saved.Currency)
	}
	if saved.Period != time.Now().Format("2006-01") {
		t.Errorf("period = %s, want current month", saved.Period)
	}

	// Explicit currency overrides prefs.
	saved, err = budgets.Save(ctx, "u1", "Food", decimal.NewFromInt(500), "", "USD")
	if err != nil {
		t.Fatal(err)
	}
	if saved.Currency != "USD" {
		t.Errorf("currency = %s, want USD", saved.Currency)
	}
}

func TestBudgetValidation(t *testing.T) {
	store := newMemStore(t)
	budgets := NewBudgetService(store, nil)
	ctx := context.Background()

	if _, err := budgets.Save(ctx, "u1", "", decimal.NewFromInt(10), "", ""); !core.IsValidation(err) {
		t.Errorf("empty category: got %v, want validation error", err)
	}
	if _, err := budgets.Save(ctx, "u1", "Food", decimal.NewFromInt(10), "May 2024", ""); !core.IsValidation(err) {
		t.Errorf("bad period: got %v, want validation error", err)
	}
}

func TestBudgetListByPeriod(t *testing.T) {
	store := newMemStore(t)
	budgets := NewBudgetService(store, nil)
	ctx := context.Background()

	for _, b := range []struct {
		category string
		period   string
	}{
		{"Food", "2024-05"},
		{"Transport", "2024-05"},
		{"Food", "2024-06"},
	} {
		if _, err := budgets.Save(ctx, "u1", b.category, decimal.NewFromInt(100), b.period, ""); err != nil {
			t.Fatal(err)
		}
	}

	list, err := budgets.List(ctx, "u1", "2024-05", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 budgets for 2024-05, got %d", len(list))
	}
	for _, b := range list {
		if b.Period != "2024-05" {
			t.Errorf("leaked budget from period %s", b.Period)
		}
	}
}

func TestRuleTeachAndLookup(t *testing.T) {
	rules := NewRuleService(newMemStore(t))
	ctx := context.Background()

	if _, err := rules.Teach(ctx, "u1", "Padaria São João", "Food"); err != nil {
		t.Fatalf("teach: %v", err)
	}

	// Lookup matches on slug, so display variants resolve to the rule.
	got, ok, err := rules.Lookup(ctx, "u1", "padaria sao joao")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected rule to be found via slug")
	}
	if got.Merchant != "Padaria São João" || got.Category != "Food" {
		t.Errorf("got %+v", got)
	}

	if _, ok, _ := rules.Lookup(ctx, "u1", "unknown merchant"); ok {
		t.Error("expected no rule for unknown merchant")
	}
	if _, ok, _ := rules.Lookup(ctx, "u2", "Padaria São João"); ok {
		t.Error("rules must not leak across users")
	}

	if _, err := rules.Teach(ctx, "u1", "", "Food"); !core.IsValidation(err) {
		t.Errorf("empty merchant: got %v, want validation error", err)
	}
	if _, err := rules.Teach(ctx, "u1", "Uber", " "); !core.IsValidation(err) {
		t.Errorf("empty category: got %v, want validation error", err)
	}
}
