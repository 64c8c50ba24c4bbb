package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"grana/internal/core"
)

// budgetCmd holds the flags for the 'budget' subcommand.
type budgetCmd struct {
	category string
	amount   string
	period   string
	currency string
	limit    int
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "manage monthly category budgets" }
func (*budgetCmd) Usage() string {
	return `grana budget set -category <name> -amount <value> [-period <yyyy-mm>] [-currency <code>]
grana budget get -category <name> [-period <yyyy-mm>]
grana budget list [-period <yyyy-mm>] [-limit n]

  Budgets are monthly amounts per category. Period defaults to the
  current month and currency to the user's preference.
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Budget category")
	f.StringVar(&c.amount, "amount", "", "Budget amount")
	f.StringVar(&c.period, "period", "", "Month in yyyy-mm form (defaults to current month)")
	f.StringVar(&c.currency, "currency", "", "Currency code (defaults to the user's preference)")
	f.IntVar(&c.limit, "limit", 0, "Maximum budgets to list (defaults to 20)")
}

func (c *budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)
	user := a.user()

	switch f.Arg(0) {
	case "set":
		if c.category == "" || c.amount == "" {
			fail(fmt.Errorf("budget set requires -category and -amount"))
			return subcommands.ExitUsageError
		}
		amount, err := parseAmount(c.amount)
		if err != nil {
			fail(err)
			return subcommands.ExitUsageError
		}
		budget, err := a.budgets.Save(ctx, user, c.category, amount, c.period, c.currency)
		if err != nil {
			fail(err)
			if core.IsValidation(err) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
		fmt.Printf("Budget for %s in %s: %s %s\n",
			budget.Category, budget.Period, formatAmount(budget.Amount), budget.Currency)
		return subcommands.ExitSuccess

	case "get":
		if c.category == "" {
			fail(fmt.Errorf("budget get requires -category"))
			return subcommands.ExitUsageError
		}
		budget, ok, err := a.budgets.Get(ctx, user, c.category, c.period)
		if err != nil {
			fail(err)
			if core.IsValidation(err) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
		if !ok {
			fmt.Printf("No budget for %s\n", c.category)
			return subcommands.ExitSuccess
		}
		fmt.Printf("Budget for %s in %s: %s %s\n",
			budget.Category, budget.Period, formatAmount(budget.Amount), budget.Currency)
		return subcommands.ExitSuccess

	case "list":
		budgets, err := a.budgets.List(ctx, user, c.period, c.limit)
		if err != nil {
			fail(err)
			if core.IsValidation(err) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
		if len(budgets) == 0 {
			fmt.Println("No budgets set.")
			return subcommands.ExitSuccess
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PERIOD\tCATEGORY\tAMOUNT\tCURRENCY")
		for _, budget := range budgets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				budget.Period, budget.Category, formatAmount(budget.Amount), budget.Currency)
		}
		w.Flush()
		return subcommands.ExitSuccess

	default:
		fail(fmt.Errorf("usage: budget set|get|list"))
		return subcommands.ExitUsageError
	}
}
