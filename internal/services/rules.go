package services

import (
	"context"
	"strings"
	"time"

	"grana/internal/core"
	"grana/internal/memstore"
)

func rulesNamespace(userID string) []string {
	return []string{userID, "rules"}
}

// MerchantRule is a user-taught merchant -> category mapping, keyed by
// the merchant's slug so display variants of the same name collapse into
// one rule.
type MerchantRule struct {
	Merchant  string    `json:"merchant"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleService stores merchant rules in the (user, "rules") namespace.
// These are user-level corrections, distinct from the system keyword
// table the inference engine reads.
type RuleService struct {
	store *memstore.Store
}

func NewRuleService(store *memstore.Store) *RuleService {
	return &RuleService{store: store}
}

// Teach creates or replaces the rule for merchant.
func (s *RuleService) Teach(ctx context.Context, userID, merchant, category string) (MerchantRule, error) {
	merchant = strings.TrimSpace(merchant)
	category = strings.TrimSpace(category)
	if merchant == "" {
		return MerchantRule{}, &core.ValidationError{Field: "merchant", Reason: "must not be empty"}
	}
	if category == "" {
		return MerchantRule{}, &core.ValidationError{Field: "category", Reason: "must not be empty"}
	}

	rule := MerchantRule{
		Merchant:  merchant,
		Category:  category,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.store.Put(ctx, rulesNamespace(userID), memstore.Slug(merchant), rule); err != nil {
		return MerchantRule{}, err
	}

	return rule, nil
}

// Lookup returns the rule taught for merchant, matching on slug.
func (s *RuleService) Lookup(ctx context.Context, userID, merchant string) (MerchantRule, bool, error) {
	doc, ok, err := s.store.Get(ctx, rulesNamespace(userID), memstore.Slug(merchant))
	if err != nil {
		return MerchantRule{}, false, err
	}
	if !ok {
		return MerchantRule{}, false, nil
	}

	var rule MerchantRule
	if err := doc.Decode(&rule); err != nil {
		return MerchantRule{}, false, err
	}
	return rule, true, nil
}
