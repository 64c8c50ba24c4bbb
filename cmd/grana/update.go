package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"grana/internal/core"
	"grana/internal/storage"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	id          int64
	amount      string
	kind        string
	category    string
	description string
	date        string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change fields of an existing transaction" }
func (*updateCmd) Usage() string {
	return `grana update -id <id> [-amount <value>] [-kind income|expense] [-category <name>] [-desc <text>] [-date <yyyy-mm-dd>]

  Overwrites only the supplied fields; everything else is left as is.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Transaction id (required)")
	f.StringVar(&c.amount, "amount", "", "New amount")
	f.StringVar(&c.kind, "kind", "", "New kind: income or expense")
	f.StringVar(&c.category, "category", "", "New category")
	f.StringVar(&c.description, "desc", "", "New description")
	f.StringVar(&c.date, "date", "", "New occurred-on date")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)

	if c.id == 0 {
		fail(fmt.Errorf("-id is required"))
		return subcommands.ExitUsageError
	}

	var params storage.UpdateParams
	if c.amount != "" {
		amount, err := parseAmount(c.amount)
		if err != nil {
			fail(err)
			return subcommands.ExitUsageError
		}
		params.Amount = &amount
	}
	if c.kind != "" {
		kind := core.Kind(c.kind)
		params.Kind = &kind
	}
	if c.category != "" {
		params.Category = &c.category
	}
	if c.description != "" {
		params.Description = &c.description
	}
	if c.date != "" {
		date, err := core.ParseDate(c.date)
		if err != nil {
			fail(err)
			return subcommands.ExitUsageError
		}
		params.OccurredOn = &date
	}

	updated, err := a.ledger.UpdateTransaction(ctx, a.user(), c.id, params)
	if err != nil {
		fail(err)
		if core.IsValidation(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	if !updated {
		fail(fmt.Errorf("transaction %d not found", c.id))
		return subcommands.ExitFailure
	}

	fmt.Printf("Updated transaction %d\n", c.id)
	return subcommands.ExitSuccess
}
