// Package core holds the domain types shared by the ledger and memory
// stores: transactions, kinds, periods, dates and money.
//
// Money is kept in integer cents internally; the public store APIs speak
// decimal amounts and convert at the boundary to avoid floating-point
// drift in aggregations.
package core

import "github.com/shopspring/decimal"

type Money struct {
	Cents int64
}

// MoneyFromDecimal converts a decimal amount to cents, keeping the
// absolute magnitude and half-up rounding sub-cent fractions.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Abs().Shift(2).Round(0).IntPart()}
}

// Decimal returns the amount as a decimal value in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}
