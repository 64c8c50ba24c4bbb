package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// deleteCmd holds the flags for the 'delete' subcommand.
type deleteCmd struct {
	id int64
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a single transaction" }
func (*deleteCmd) Usage() string {
	return `grana delete -id <id>

  Removes one transaction by id.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Transaction id (required)")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)

	if c.id == 0 {
		fail(fmt.Errorf("-id is required"))
		return subcommands.ExitUsageError
	}

	deleted, err := a.ledger.DeleteTransaction(ctx, a.user(), c.id)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	if !deleted {
		fail(fmt.Errorf("transaction %d not found", c.id))
		return subcommands.ExitFailure
	}

	fmt.Printf("Deleted transaction %d\n", c.id)
	return subcommands.ExitSuccess
}

// clearCmd holds the flags for the 'clear' subcommand.
type clearCmd struct {
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every transaction of the user" }
func (*clearCmd) Usage() string {
	return `grana clear [-yes]

  Removes all of the user's transactions. Asks for confirmation unless
  -yes is passed.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Skip the confirmation prompt")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)
	user := a.user()

	if !c.yes {
		fmt.Printf("Delete ALL transactions for %s? [y/N] ", user)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return subcommands.ExitSuccess
		}
	}

	removed, err := a.ledger.ClearUserTransactions(ctx, user)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Removed %d transactions for %s\n", removed, user)
	return subcommands.ExitSuccess
}
