package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"grana/internal/core"
)

// searchCmd holds the flags for the 'search' subcommand.
type searchCmd struct {
	limit int
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search recent transactions by text" }
func (*searchCmd) Usage() string {
	return `grana search [-limit n] <term>

  Matches the term case-insensitively against category and description
  of the most recent transactions.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", 0, "Maximum matches to return (defaults to 5)")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)

	if f.NArg() != 1 {
		fail(fmt.Errorf("search takes exactly one term"))
		return subcommands.ExitUsageError
	}

	matches, err := a.service.SearchTransactions(ctx, a.user(), f.Arg(0), c.limit)
	if err != nil {
		fail(err)
		if core.IsValidation(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	if len(matches) == 0 {
		fmt.Println("No matching transactions.")
		return subcommands.ExitSuccess
	}

	printTransactions(matches)
	return subcommands.ExitSuccess
}
