// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/grana and cmd/grana-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"grana/internal/config"
	"grana/internal/log"
	"grana/internal/memstore"
	"grana/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitLedgerStore initializes the ledger store with the given path.
// Returns the store or exits the process on failure.
func InitLedgerStore(logger *log.Logger, dbPath string) *storage.LedgerStore {
	store, err := storage.NewLedgerStore(dbPath)
	if err != nil {
		logger.Error("Failed to initialize ledger store", log.FieldError, err, log.FieldPath, dbPath)
		os.Exit(1)
	}
	return store
}

// InitMemoryStore initializes the memory store with the given path.
// Returns the store or exits the process on failure.
func InitMemoryStore(logger *log.Logger, dbPath string) *memstore.Store {
	store, err := memstore.New(dbPath)
	if err != nil {
		logger.Error("Failed to initialize memory store", log.FieldError, err, log.FieldPath, dbPath)
		os.Exit(1)
	}
	return store
}
