package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"grana/internal/core"
	"grana/internal/events"
	"grana/internal/storage"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []*events.TransactionAdded
	fail     bool
}

func (p *recordingPublisher) PublishTransactionAdded(_ context.Context, msg *events.TransactionAdded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func newLedgerStore(t *testing.T) *storage.LedgerStore {
	t.Helper()
	store, err := storage.NewLedgerStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open ledger store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLedgerServiceAddPublishesEvent(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewLedgerService(newLedgerStore(t), publisher)
	ctx := context.Background()

	id, err := svc.Add(ctx, storage.AddParams{
		UserID:      "u1",
		Amount:      decimal.NewFromInt(45),
		Description: "almoço no centro",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.ID != id || msg.UserID != "u1" {
		t.Errorf("event identity mismatch: %+v", msg)
	}
	if msg.Category != "Food" || msg.Kind != "expense" {
		t.Errorf("event should carry inferred fields, got %+v", msg)
	}
	if msg.AmountCents != 4500 {
		t.Errorf("amount_cents = %d, want 4500", msg.AmountCents)
	}
}

func TestLedgerServiceAddSurvivesPublishFailure(t *testing.T) {
	publisher := &recordingPublisher{fail: true}
	store := newLedgerStore(t)
	svc := NewLedgerService(store, publisher)
	ctx := context.Background()

	id, err := svc.Add(ctx, storage.AddParams{UserID: "u1", Amount: decimal.NewFromInt(10), Kind: core.Expense, Category: "Food"})
	if err != nil {
		t.Fatalf("add must not fail on publish error: %v", err)
	}
	if _, ok, _ := store.GetTransaction(ctx, "u1", id); !ok {
		t.Error("transaction should be persisted despite publish failure")
	}
}

func TestLedgerServiceAddNilPublisher(t *testing.T) {
	svc := NewLedgerService(newLedgerStore(t), nil)

	if _, err := svc.Add(context.Background(), storage.AddParams{UserID: "u1", Amount: decimal.NewFromInt(10), Kind: core.Expense, Category: "Food"}); err != nil {
		t.Fatalf("add with nil publisher: %v", err)
	}
}

func TestSearchTransactions(t *testing.T) {
	svc := NewLedgerService(newLedgerStore(t), nil)
	ctx := context.Background()

	seed := []storage.AddParams{
		{UserID: "u1", Amount: decimal.NewFromInt(45), Kind: core.Expense, Category: "Food", Description: "almoço com a equipe"},
		{UserID: "u1", Amount: decimal.NewFromInt(20), Kind: core.Expense, Category: "Transport", Description: "uber para o escritório"},
		{UserID: "u1", Amount: decimal.NewFromInt(15), Kind: core.Expense, Category: "Food", Description: "café"},
	}
	for _, p := range seed {
		if _, err := svc.Add(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("matches description case-insensitively", func(t *testing.T) {
		got, err := svc.SearchTransactions(ctx, "u1", "ALMOÇO", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Description != "almoço com a equipe" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("matches category", func(t *testing.T) {
		got, err := svc.SearchTransactions(ctx, "u1", "food", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 food rows, got %d", len(got))
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		got, err := svc.SearchTransactions(ctx, "u1", "food", 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 row, got %d", len(got))
		}
	})

	t.Run("no match is empty, not an error", func(t *testing.T) {
		got, err := svc.SearchTransactions(ctx, "u1", "netflix", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("expected no rows, got %d", len(got))
		}
	})

	t.Run("empty term is rejected", func(t *testing.T) {
		if _, err := svc.SearchTransactions(ctx, "u1", "  ", 0); !core.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})
}
