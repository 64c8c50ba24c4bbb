// Package services builds the domain features on top of the generic
// stores: event-publishing ledger writes, transaction search, and the
// preference, budget and merchant-rule views over the memory store.
package services

import (
	"context"
	"log/slog"
	"strings"

	"grana/internal/core"
	"grana/internal/events"
	"grana/internal/storage"
)

const searchScanWindow = 100

// EventPublisher announces committed ledger writes. A nil publisher
// disables events entirely.
type EventPublisher interface {
	PublishTransactionAdded(ctx context.Context, msg *events.TransactionAdded) error
}

// LedgerService fronts the ledger store for its consumers. Writes go to
// SQLite first; the event publish that follows is best effort and never
// fails the operation.
type LedgerService struct {
	store     *storage.LedgerStore
	publisher EventPublisher
}

func NewLedgerService(store *storage.LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

func (s *LedgerService) Store() *storage.LedgerStore {
	return s.store
}

// Add inserts a transaction and publishes a TransactionAdded event.
func (s *LedgerService) Add(ctx context.Context, p storage.AddParams) (int64, error) {
	id, err := s.store.AddTransaction(ctx, p)
	if err != nil {
		return 0, err
	}

	if s.publisher != nil {
		tx, ok, err := s.store.GetTransaction(ctx, p.UserID, id)
		if err == nil && ok {
			msg := &events.TransactionAdded{
				ID:          tx.ID,
				UserID:      tx.UserID,
				Kind:        string(tx.Kind),
				Category:    tx.Category,
				AmountCents: tx.Amount.Cents,
				OccurredOn:  tx.OccurredOn.String(),
				Timestamp:   tx.CreatedAt,
			}
			if err := s.publisher.PublishTransactionAdded(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to publish transaction event",
					"id", id, "user_id", p.UserID, "error", err)
			}
		}
	}

	return id, nil
}

// SearchTransactions scans the user's most recent transactions for a
// case-insensitive term in category or description. It is a bounded
// local filter, not an index.
func (s *LedgerService) SearchTransactions(ctx context.Context, userID, term string, limit int) ([]core.Transaction, error) {
	if strings.TrimSpace(term) == "" {
		return nil, &core.ValidationError{Field: "search_term", Reason: "must not be empty"}
	}
	if limit <= 0 {
		limit = 5
	}

	recent, err := s.store.ListTransactions(ctx, storage.ListParams{UserID: userID, Limit: searchScanWindow})
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(term)
	var matched []core.Transaction
	for _, tx := range recent {
		if strings.Contains(strings.ToLower(tx.Category), lowered) ||
			strings.Contains(strings.ToLower(tx.Description), lowered) {
			matched = append(matched, tx)
			if len(matched) >= limit {
				break
			}
		}
	}

	return matched, nil
}
