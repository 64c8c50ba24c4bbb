package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/google/subcommands"

	"grana/internal/core"
	"grana/internal/storage"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	period string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show per-category totals for a period" }
func (*summaryCmd) Usage() string {
	return `grana summary [-period today|week|month|year]

  Groups income and expense totals by category over the period.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "month", "Reporting period: today, week, month or year")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)

	summary, err := a.ledger.GetCategorySummary(ctx, a.user(), core.Period(c.period))
	if err != nil {
		fail(err)
		if core.IsValidation(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("Summary for %s (since %s)\n\n", summary.Period, summary.StartDate)
	printCategoryGroup("Expenses", summary.Expenses)
	printCategoryGroup("Income", summary.Income)
	return subcommands.ExitSuccess
}

func printCategoryGroup(title string, group map[string]storage.CategoryStats) {
	fmt.Printf("%s:\n", title)
	if len(group) == 0 {
		fmt.Println("  (none)")
		return
	}

	categories := make([]string, 0, len(group))
	for category := range group {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  CATEGORY\tTOTAL\tCOUNT\tAVERAGE")
	for _, category := range categories {
		stats := group[category]
		fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n",
			category, formatAmount(stats.Total), stats.Count, formatAmount(stats.Average))
	}
	w.Flush()
}
