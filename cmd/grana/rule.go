package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"grana/internal/core"
)

// ruleCmd holds the flags for the 'rule' subcommand.
type ruleCmd struct{}

func (*ruleCmd) Name() string     { return "rule" }
func (*ruleCmd) Synopsis() string { return "teach and look up merchant category rules" }
func (*ruleCmd) Usage() string {
	return `grana rule teach <merchant> <category>
grana rule lookup <merchant>

  Rules map a merchant name to a category. Lookups are keyed by a
  normalized slug, so accents and casing do not matter.
`
}

func (c *ruleCmd) SetFlags(f *flag.FlagSet) {}

func (c *ruleCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)
	user := a.user()

	switch f.Arg(0) {
	case "teach":
		if f.NArg() != 3 {
			fail(fmt.Errorf("usage: rule teach <merchant> <category>"))
			return subcommands.ExitUsageError
		}
		rule, err := a.rules.Teach(ctx, user, f.Arg(1), f.Arg(2))
		if err != nil {
			fail(err)
			if core.IsValidation(err) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
		fmt.Printf("%s is now categorized as %s\n", rule.Merchant, rule.Category)
		return subcommands.ExitSuccess

	case "lookup":
		if f.NArg() != 2 {
			fail(fmt.Errorf("usage: rule lookup <merchant>"))
			return subcommands.ExitUsageError
		}
		rule, ok, err := a.rules.Lookup(ctx, user, f.Arg(1))
		if err != nil {
			fail(err)
			if core.IsValidation(err) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
		if !ok {
			fmt.Printf("No rule for %s\n", f.Arg(1))
			return subcommands.ExitSuccess
		}
		fmt.Printf("%s -> %s\n", rule.Merchant, rule.Category)
		return subcommands.ExitSuccess

	default:
		fail(fmt.Errorf("usage: rule teach|lookup"))
		return subcommands.ExitUsageError
	}
}
