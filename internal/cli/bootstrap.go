// Package cli wires configuration, storage and logging into the command
// tree. It consolidates the initialization shared by the interactive UI
// and the non-interactive subcommands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"dailybalance/internal/config"
	"dailybalance/internal/log"
	"dailybalance/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// InitSQLite opens the SQLite repository and runs pending migrations.
func InitSQLite(dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}
	return repo, nil
}

// newStderrLogger builds a logger for subcommands that do not own the
// terminal. The interactive UI uses a file logger instead.
func newStderrLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}), nil
}
