package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

type (
	// Kind is the direction of a transaction. Amounts are stored as
	// non-negative magnitudes; the sign is carried by the kind alone.
	Kind string

	// Period is a named time window used to bound aggregation queries.
	Period string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID            int64
		UserID        string
		Amount        Money
		Kind          Kind
		Category      string
		Description   string
		OccurredOn    Date
		CorrelationID string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}
)

// epochFloor bounds "all" period queries. Nothing older is expected.
var epochFloor = NewDate(2000, 1, 1)

// ValidationError reports malformed input. It is always raised before a
// unit of work is opened, so no partial state is ever created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return &ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not %q or %q", string(k), Income, Expense)}
}

func (p Period) Validate() error {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return nil
	}
	return &ValidationError{Field: "period", Reason: fmt.Sprintf("unknown period %q", string(p))}
}

// Start maps the period to its inclusive start-date cutoff relative to now:
// today is the current day, week is seven days back, month and year are the
// first day of the current month and year, all is a fixed epoch floor.
func (p Period) Start(now time.Time) (Date, error) {
	switch p {
	case PeriodToday:
		return NewDate(now.Year(), int(now.Month()), now.Day()), nil
	case PeriodWeek:
		return NewDate(now.Year(), int(now.Month()), now.Day()).AddDays(-7), nil
	case PeriodMonth:
		return NewDate(now.Year(), int(now.Month()), 1), nil
	case PeriodYear:
		return NewDate(now.Year(), 1, 1), nil
	case PeriodAll:
		return epochFloor, nil
	}
	return Date{}, &ValidationError{Field: "period", Reason: fmt.Sprintf("unknown period %q", string(p))}
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// ParseDate parses a calendar date in ISO (2006-01-02) or day-first
// (02/01/2006) form.
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD or DD/MM/YYYY", s)}
}
