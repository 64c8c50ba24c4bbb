package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestKindValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("income should be valid: %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expense should be valid: %v", err)
	}
	if err := Kind("transfer").Validate(); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !IsValidation(Kind("transfer").Validate()) {
		t.Fatal("kind error should be a validation error")
	}
}

func TestPeriodStart(t *testing.T) {
	// Fixed reference point: Thursday 2024-05-16.
	now := time.Date(2024, 5, 16, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		period Period
		want   string
	}{
		{PeriodToday, "2024-05-16"},
		{PeriodWeek, "2024-05-09"},
		{PeriodMonth, "2024-05-01"},
		{PeriodYear, "2024-01-01"},
		{PeriodAll, "2000-01-01"},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			got, err := tc.period.Start(now)
			if err != nil {
				t.Fatalf("Start(%s): %v", tc.period, err)
			}
			if got.String() != tc.want {
				t.Errorf("Start(%s) = %s, want %s", tc.period, got, tc.want)
			}
		})
	}

	if _, err := Period("quarter").Start(now); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestPeriodWeekCrossesMonth(t *testing.T) {
	now := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	got, err := PeriodWeek.Start(now)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "2024-02-25" {
		t.Errorf("week start = %s, want 2024-02-25", got)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-05-16", "2024-05-16", true},
		{"16/05/2024", "2024-05-16", true},
		{"05/16/2024", "", false}, // month-first is not accepted
		{"yesterday", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("ParseDate(%q): %v", tc.in, err)
				continue
			}
			if d.String() != tc.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tc.in, d, tc.want)
			}
		} else if err == nil {
			t.Errorf("ParseDate(%q): expected error", tc.in)
		}
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"45", 4500},
		{"45.50", 4550},
		{"-45.50", 4550}, // magnitude only
		{"0.005", 1},     // half-up
		{"0", 0},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := MoneyFromDecimal(d); got.Cents != tc.cents {
			t.Errorf("MoneyFromDecimal(%s) = %d cents, want %d", tc.in, got.Cents, tc.cents)
		}
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	m := Money{Cents: 495500}
	if !m.Decimal().Equal(decimal.NewFromInt(4955)) {
		t.Errorf("Decimal() = %s, want 4955", m.Decimal())
	}
	m = Money{Cents: 4550}
	if !m.Decimal().Equal(decimal.RequireFromString("45.5")) {
		t.Errorf("Decimal() = %s, want 45.5", m.Decimal())
	}
}
