package storage

import (
	"context"
	"database/sql"
	"strings"

	"grana/internal/core"
	"grana/internal/sqlitedb"
)

const keywordCacheKey = "keyword_rules"

// DefaultCategory is adopted when neither the caller nor the inference
// engine can name a category.
const DefaultCategory = "Other"

type keywordRule struct {
	Keyword  string
	Category string
	Kind     core.Kind
}

// defaultKeywords is the seed table for description-based inference.
// Matching scans in this exact order and the first keyword contained in
// the description wins, so overlapping keywords resolve by position, not
// by length. Reordering the table changes inference results.
var defaultKeywords = []keywordRule{
	// Food
	{"almoço", "Food", core.Expense},
	{"jantar", "Food", core.Expense},
	{"café", "Food", core.Expense},
	{"lanche", "Food", core.Expense},
	{"restaurante", "Food", core.Expense},
	{"mercado", "Food", core.Expense},
	{"supermercado", "Food", core.Expense},
	{"ifood", "Food", core.Expense},
	{"delivery", "Food", core.Expense},

	// Transport
	{"uber", "Transport", core.Expense},
	{"99", "Transport", core.Expense},
	{"taxi", "Transport", core.Expense},
	{"ônibus", "Transport", core.Expense},
	{"metrô", "Transport", core.Expense},
	{"gasolina", "Transport", core.Expense},
	{"combustível", "Transport", core.Expense},
	{"estacionamento", "Transport", core.Expense},

	// Housing
	{"aluguel", "Housing", core.Expense},
	{"condomínio", "Housing", core.Expense},
	{"luz", "Housing", core.Expense},
	{"água", "Housing", core.Expense},
	{"internet", "Housing", core.Expense},
	{"gás", "Housing", core.Expense},

	// Subscriptions
	{"netflix", "Subscriptions", core.Expense},
	{"spotify", "Subscriptions", core.Expense},
	{"amazon", "Subscriptions", core.Expense},
	{"disney", "Subscriptions", core.Expense},

	// Income
	{"salário", "Salary", core.Income},
	{"freelance", "Freelance", core.Income},
	{"freela", "Freelance", core.Income},
	{"venda", "Sales", core.Income},
	{"dividendos", "Investments", core.Income},
	{"rendimento", "Investments", core.Income},
}

// seedKeywords loads the default table idempotently: keywords already
// present, including ones altered by hand, are left as they are.
func (s *LedgerStore) seedKeywords(ctx context.Context) error {
	defer s.keywords.Delete(keywordCacheKey)
	return sqlitedb.WithTx(ctx, s.db, "seed keywords", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO category_keywords (keyword, category, kind, position)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, rule := range defaultKeywords {
			if _, err := stmt.ExecContext(ctx, rule.Keyword, rule.Category, string(rule.Kind), i); err != nil {
				return err
			}
		}
		return nil
	})
}

// Infer maps a free-text description to a (category, kind) pair. An empty
// description, or one matching no keyword, yields the default
// ("Other", expense). Infer never fails on content, only on storage.
func (s *LedgerStore) Infer(ctx context.Context, description string) (string, core.Kind, error) {
	if strings.TrimSpace(description) == "" {
		return DefaultCategory, core.Expense, nil
	}
	lowered := strings.ToLower(description)

	rules, err := s.keywordRules(ctx)
	if err != nil {
		return "", "", err
	}

	for _, rule := range rules {
		if strings.Contains(lowered, rule.Keyword) {
			return rule.Category, rule.Kind, nil
		}
	}
	return DefaultCategory, core.Expense, nil
}

// keywordRules returns the inference table in match order, hitting the
// database only when the cached copy is missing or stale.
func (s *LedgerStore) keywordRules(ctx context.Context) ([]keywordRule, error) {
	if rules, ok := s.keywords.Get(keywordCacheKey); ok {
		return rules, nil
	}

	var rules []keywordRule
	err := sqlitedb.WithTx(ctx, s.db, "load keyword rules", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT keyword, category, kind
			FROM category_keywords
			ORDER BY position, id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rule keywordRule
			var kind string
			if err := rows.Scan(&rule.Keyword, &rule.Category, &kind); err != nil {
				return err
			}
			rule.Kind = core.Kind(kind)
			rules = append(rules, rule)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	s.keywords.Set(keywordCacheKey, rules)
	return rules, nil
}

// KeywordCount reports how many inference rules are stored.
func (s *LedgerStore) KeywordCount(ctx context.Context) (int64, error) {
	var count int64
	err := sqlitedb.WithTx(ctx, s.db, "count keywords", func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM category_keywords").Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
