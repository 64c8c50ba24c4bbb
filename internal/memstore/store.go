// Package memstore implements the namespaced memory store: a generic
// (namespace, key) -> JSON document table used for user preferences,
// budgets and merchant categorization rules. The store itself enforces no
// schema; each feature defines its own narrow view over the documents it
// owns and validates where it consumes.
package memstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"grana/internal/core"
	"grana/internal/sqlitedb"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const defaultSearchLimit = 50

// Store is the generic document store. Like the ledger it runs one unit
// of work per public operation against its own SQLite file.
type Store struct {
	db *sql.DB
}

// Document is one stored entry. Value is the raw JSON document; use
// Decode for a typed view.
type Document struct {
	Namespace string
	Key       string
	Value     json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decode unmarshals the document value into out.
func (d Document) Decode(out any) error {
	return json.Unmarshal(d.Value, out)
}

func New(dbPath string) (*Store, error) {
	if err := sqlitedb.Migrate(dbPath, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("run memory migrations: %w", err)
	}

	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// joinNamespace flattens a namespace path into its stable string
// identity. Segments must be non-empty and free of the separator.
func joinNamespace(segments []string) (string, error) {
	if len(segments) == 0 {
		return "", &core.ValidationError{Field: "namespace", Reason: "must have at least one segment"}
	}
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			return "", &core.ValidationError{Field: "namespace", Reason: "segments must not be empty"}
		}
		if strings.Contains(seg, "/") {
			return "", &core.ValidationError{Field: "namespace", Reason: "segments must not contain '/'"}
		}
	}
	return strings.Join(segments, "/"), nil
}

// Put upserts value under (namespace, key): an existing document is
// replaced wholesale and its updated_at bumped. There is no partial
// merge; read-modify-write belongs to the caller.
func (s *Store) Put(ctx context.Context, namespace []string, key string, value any) error {
	ns, err := joinNamespace(namespace)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return &core.ValidationError{Field: "key", Reason: "must not be empty"}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return &core.ValidationError{Field: "value", Reason: fmt.Sprintf("not encodable as JSON: %v", err)}
	}

	return sqlitedb.WithTx(ctx, s.db, "put document", func(tx *sql.Tx) error {
		now := time.Now().UTC()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO documents (namespace, key, value, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (namespace, key)
			DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			ns, key, string(raw), now, now)
		return err
	})
}

// Get returns the document stored under (namespace, key). Absence is a
// normal false result, not an error.
func (s *Store) Get(ctx context.Context, namespace []string, key string) (Document, bool, error) {
	ns, err := joinNamespace(namespace)
	if err != nil {
		return Document{}, false, err
	}

	var doc Document
	var raw string
	found := true
	err = sqlitedb.WithTx(ctx, s.db, "get document", func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT namespace, key, value, created_at, updated_at
			FROM documents
			WHERE namespace = ? AND key = ?`,
			ns, key).Scan(&doc.Namespace, &doc.Key, &raw, &doc.CreatedAt, &doc.UpdatedAt)
		if err == sql.ErrNoRows {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return Document{}, false, err
	}
	if !found {
		return Document{}, false, nil
	}

	doc.Value = json.RawMessage(raw)
	return doc, true, nil
}

// SearchOptions bounds a Search call. Filter matches on structural
// equality of top-level fields of the decoded document; Query is a
// case-insensitive substring match against the canonical JSON rendering.
// Both combine with AND semantics. Limit defaults to 50.
type SearchOptions struct {
	Query  string
	Filter map[string]any
	Limit  int
}

// Search returns documents in the namespace matching the options,
// ordered by key for stability. There is no ranking.
func (s *Store) Search(ctx context.Context, namespace []string, opts SearchOptions) ([]Document, error) {
	ns, err := joinNamespace(namespace)
	if err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}

	var docs []Document
	err = sqlitedb.WithTx(ctx, s.db, "search documents", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT namespace, key, value, created_at, updated_at
			FROM documents
			WHERE namespace = ?
			ORDER BY key`,
			ns)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var doc Document
			var raw string
			if err := rows.Scan(&doc.Namespace, &doc.Key, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
				return err
			}
			doc.Value = json.RawMessage(raw)

			if !matches(doc, opts) {
				continue
			}
			docs = append(docs, doc)
			if len(docs) >= opts.Limit {
				break
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func matches(doc Document, opts SearchOptions) bool {
	if len(opts.Filter) > 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(doc.Value, &fields); err != nil {
			// Non-object documents cannot satisfy a field filter.
			return false
		}
		for name, want := range opts.Filter {
			got, ok := fields[name]
			if !ok || !jsonEqual(got, want) {
				return false
			}
		}
	}
	if opts.Query != "" {
		rendering := strings.ToLower(string(doc.Value))
		if !strings.Contains(rendering, strings.ToLower(opts.Query)) {
			return false
		}
	}
	return true
}

// jsonEqual compares a stored field against a filter value structurally:
// both sides are normalized through JSON decoding so that, say, the
// number 1 never matches the stored value 10 the way a substring check
// on the serialized form would.
func jsonEqual(stored json.RawMessage, want any) bool {
	var got any
	if err := json.Unmarshal(stored, &got); err != nil {
		return false
	}

	wantRaw, err := json.Marshal(want)
	if err != nil {
		return false
	}
	var normalized any
	if err := json.Unmarshal(wantRaw, &normalized); err != nil {
		return false
	}

	return reflect.DeepEqual(got, normalized)
}
