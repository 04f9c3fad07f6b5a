package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dailybalance/internal/core"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print today's counters and the time since the last cigarette",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}

	repo, err := InitSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	ctx := cmd.Context()
	now := time.Now()
	from, to := core.TodayRange(now)

	cigarettes, err := repo.CountByTypeBetween(ctx, core.ActionCigarette, from, to)
	if err != nil {
		return fmt.Errorf("count cigarettes: %w", err)
	}
	beers, err := repo.CountByTypeBetween(ctx, core.ActionBeer, from, to)
	if err != nil {
		return fmt.Errorf("count beers: %w", err)
	}
	meals, err := repo.CountByTypeBetween(ctx, core.ActionFood, from, to)
	if err != nil {
		return fmt.Errorf("count meals: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Today: %d cigarettes, %d beers, %d meals\n", cigarettes, beers, meals)

	last, ok, err := repo.LastTimestampByType(ctx, core.ActionCigarette)
	if err != nil {
		return fmt.Errorf("last cigarette: %w", err)
	}
	if ok {
		fmt.Fprintf(os.Stdout, "Last cigarette: %s ago\n", now.Sub(time.UnixMilli(last)).Round(time.Minute))
	} else {
		fmt.Fprintln(os.Stdout, "Last cigarette: never")
	}
	return nil
}
