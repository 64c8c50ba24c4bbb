// Package events publishes and consumes ledger mutation notifications
// over AMQP. Event delivery is best effort: a failed publish never fails
// the ledger write it announces.
package events

import (
	"encoding/json"
	"time"
)

// TransactionAdded announces a committed ledger insert. It carries just
// enough for consumers to react without re-reading the row.
type TransactionAdded struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	OccurredOn  string    `json:"occurred_on"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *TransactionAdded) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionAddedFromJSON(data []byte) (*TransactionAdded, error) {
	var msg TransactionAdded
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
