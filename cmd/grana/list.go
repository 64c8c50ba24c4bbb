package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"grana/internal/core"
	"grana/internal/storage"
)

// listCmd holds the flags for the 'list' subcommand.
type listCmd struct {
	limit    int
	kind     string
	period   string
	category string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list recent transactions" }
func (*listCmd) Usage() string {
	return `grana list [-limit n] [-kind income|expense] [-period <period>] [-category <name>]

  Lists transactions newest first, optionally filtered by kind, period
  and category.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", 0, "Maximum rows to return (defaults to 10)")
	f.StringVar(&c.kind, "kind", "", "Filter by kind: income or expense")
	f.StringVar(&c.period, "period", "", "Filter by period: today, week, month, year or all")
	f.StringVar(&c.category, "category", "", "Filter by exact category name")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)

	transactions, err := a.ledger.ListTransactions(ctx, storage.ListParams{
		UserID:   a.user(),
		Limit:    c.limit,
		Kind:     core.Kind(c.kind),
		Period:   core.Period(c.period),
		Category: c.category,
	})
	if err != nil {
		fail(err)
		if core.IsValidation(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions found.")
		return subcommands.ExitSuccess
	}

	printTransactions(transactions)
	return subcommands.ExitSuccess
}

func printTransactions(transactions []core.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tKIND\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, tx := range transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.OccurredOn, tx.Kind, tx.Category,
			formatAmount(tx.Amount.Decimal()), tx.Description)
	}
	w.Flush()
}
