package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dailybalance/internal/config"
	"dailybalance/internal/export"
	"dailybalance/internal/log"
	"dailybalance/internal/prefs"
	"dailybalance/internal/state"
	"dailybalance/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "dailybalance",
	Short: "Track daily habits and expenses",
	Long: `dailybalance keeps a personal log of habit records (cigarettes,
beers, meals) and daily expenses in a local SQLite database, and
exports either record set as CSV. Run without arguments to open the
interactive UI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the command tree. It is the single entry point for main.
func Execute() {
	LoadEnvFile()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	// The UI owns the terminal, so logs go to a file.
	logger, closeLog, err := log.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	repo, err := InitSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	holders := tui.Holders{
		App:            state.NewAppHolder(prefs.NewStore(repo)),
		Records:        state.NewRecordsHolder(repo),
		ExpenseEntry:   state.NewExpenseEntryHolder(repo, cfg.OriginOptions, cfg.CategoryCacheTTL),
		ExpenseRecords: state.NewExpenseRecordsHolder(repo),
		Food:           state.NewFoodHolder(repo),
	}
	saver := export.DirSaver{Dir: cfg.ExportDir}

	logger.InfoContext(ctx, "Starting interactive UI",
		log.FieldOperation, log.OpStartup,
		"db_path", cfg.DBPath)

	program := tea.NewProgram(
		tui.NewModel(ctx, holders, saver, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interactive UI: %w", err)
	}

	logger.InfoContext(ctx, "Interactive UI stopped", log.FieldOperation, log.OpShutdown)
	return nil
}
