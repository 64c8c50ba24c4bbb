package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"grana/internal/cli"
	"grana/internal/log"
)

func main() {
	logger := cli.SetupLogger().WithComponent(log.ComponentCLI)
	cli.LoadEnvFile()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&addCmd{}, "ledger")
	subcommands.Register(&balanceCmd{}, "ledger")
	subcommands.Register(&listCmd{}, "ledger")
	subcommands.Register(&summaryCmd{}, "ledger")
	subcommands.Register(&searchCmd{}, "ledger")
	subcommands.Register(&updateCmd{}, "ledger")
	subcommands.Register(&deleteCmd{}, "ledger")
	subcommands.Register(&clearCmd{}, "ledger")

	subcommands.Register(&prefCmd{}, "memory")
	subcommands.Register(&budgetCmd{}, "memory")
	subcommands.Register(&ruleCmd{}, "memory")

	flag.Parse()

	a, err := openApp(logger)
	if err != nil {
		fail(err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx, a)))
}
