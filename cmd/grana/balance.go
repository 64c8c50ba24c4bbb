package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"grana/internal/core"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	period string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show income, expenses and balance for a period" }
func (*balanceCmd) Usage() string {
	return `grana balance [-period today|week|month|year|all]

  Sums income against expenses from the start of the period, boundary
  date included.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "month", "Reporting period: today, week, month, year or all")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)

	report, err := a.ledger.GetBalance(ctx, a.user(), core.Period(c.period))
	if err != nil {
		fail(err)
		if core.IsValidation(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("Period:   %s (since %s)\n", report.Period, report.StartDate)
	fmt.Printf("Income:   %s\n", formatAmount(report.Income))
	fmt.Printf("Expenses: %s\n", formatAmount(report.Expenses))
	fmt.Printf("Balance:  %s\n", formatAmount(report.Balance))
	return subcommands.ExitSuccess
}
