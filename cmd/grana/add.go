package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"grana/internal/core"
	"grana/internal/storage"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	amount      string
	kind        string
	category    string
	description string
	date        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new income or expense" }
func (*addCmd) Usage() string {
	return `grana add -amount <value> [-desc <text>] [-kind income|expense] [-category <name>] [-date <yyyy-mm-dd>]

  Records a transaction. When no category is given it is inferred from
  the description, and an explicit -kind always wins over the inferred one.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Transaction amount (required, sign is ignored)")
	f.StringVar(&c.kind, "kind", "", "Transaction kind: income or expense")
	f.StringVar(&c.category, "category", "", "Category (inferred from the description when empty)")
	f.StringVar(&c.description, "desc", "", "Free text description")
	f.StringVar(&c.date, "date", "", "Date the transaction occurred (defaults to today)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)

	if c.amount == "" {
		fail(fmt.Errorf("-amount is required"))
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	occurredOn, err := parseDateFlag(c.date)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}

	user := a.user()
	id, err := a.service.Add(ctx, storage.AddParams{
		UserID:        user,
		Amount:        amount,
		Kind:          core.Kind(c.kind),
		Category:      c.category,
		Description:   c.description,
		OccurredOn:    occurredOn,
		CorrelationID: uuid.NewString(),
	})
	if err != nil {
		fail(err)
		if core.IsValidation(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	tx, ok, err := a.ledger.GetTransaction(ctx, user, id)
	if err != nil || !ok {
		fmt.Printf("Recorded transaction %d\n", id)
		return subcommands.ExitSuccess
	}

	fmt.Printf("Recorded %s of %s in %s (id %d, %s)\n",
		tx.Kind, formatAmount(tx.Amount.Decimal()), tx.Category, tx.ID, tx.OccurredOn)
	return subcommands.ExitSuccess
}
