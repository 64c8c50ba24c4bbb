// grana is the command line front end to the ledger and memory stores.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"grana/internal/config"
	"grana/internal/core"
	"grana/internal/events"
	"grana/internal/log"
	"grana/internal/memstore"
	"grana/internal/services"
	"grana/internal/storage"
)

// As a CLI application the process is short lived, so the user flag and
// the opened app live as package globals.

var userFlag = flag.String("user", "", "User the command acts for (defaults to GRANA_USER)")

type app struct {
	cfg    *config.Config
	logger *log.Logger

	ledger *storage.LedgerStore
	memory *memstore.Store
	events *events.Client

	service *services.LedgerService
	prefs   *services.PreferenceService
	budgets *services.BudgetService
	rules   *services.RuleService
}

// openApp initializes the stores and services every subcommand works
// against. A broker that is configured but unreachable only disables
// event publishing, it never blocks the command.
func openApp(logger *log.Logger) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	ledger, err := storage.NewLedgerStore(cfg.LedgerDBPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger store: %w", err)
	}

	memory, err := memstore.New(cfg.MemoryDBPath)
	if err != nil {
		ledger.Close()
		return nil, fmt.Errorf("open memory store: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		ledger: ledger,
		memory: memory,
	}

	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Event publishing disabled", log.FieldError, err)
		} else {
			a.events = client
			publisher = client
		}
	}

	a.service = services.NewLedgerService(ledger, publisher)
	a.prefs = services.NewPreferenceService(memory)
	a.budgets = services.NewBudgetService(memory, a.prefs)
	a.rules = services.NewRuleService(memory)

	return a, nil
}

func (a *app) Close() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("Failed to close event client", log.FieldError, err)
		}
	}
	if err := a.memory.Close(); err != nil {
		a.logger.Warn("Failed to close memory store", log.FieldError, err)
	}
	if err := a.ledger.Close(); err != nil {
		a.logger.Warn("Failed to close ledger store", log.FieldError, err)
	}
}

func (a *app) user() string {
	if *userFlag != "" {
		return *userFlag
	}
	return a.cfg.DefaultUser
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

func parseDateFlag(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}
