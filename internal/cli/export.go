package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"dailybalance/internal/export"
	"dailybalance/internal/log"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportRecordsCmd)
	exportCmd.AddCommand(exportExpensesCmd)

	exportCmd.PersistentFlags().StringP("out", "o", "", "Output file (default: generated name in EXPORT_DIR, '-' for stdout)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records as CSV without opening the UI",
}

var exportRecordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Export habit records as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport(export.KindRecords),
}

var exportExpensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Export daily expenses as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport(export.KindExpenses),
}

func runExport(kind export.Kind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadAndValidateConfig()
		if err != nil {
			return err
		}
		logger, err := newStderrLogger(cfg)
		if err != nil {
			return err
		}

		repo, err := InitSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		ctx := cmd.Context()

		var data string
		var rows int
		switch kind {
		case export.KindExpenses:
			expenses, err := repo.Expenses(ctx)
			if err != nil {
				return fmt.Errorf("load expenses: %w", err)
			}
			data = export.ExpensesCSV(expenses)
			rows = len(expenses)
		default:
			records, err := repo.Actions(ctx)
			if err != nil {
				return fmt.Errorf("load records: %w", err)
			}
			data = export.ActionRecordsCSV(records)
			rows = len(records)
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "-" {
			fmt.Fprintln(os.Stdout, data)
			return nil
		}

		filename := out
		saver := export.DirSaver{Dir: cfg.ExportDir}
		if filename == "" {
			filename = export.SuggestedFilename(kind, time.Now())
		} else {
			// An explicit path is used verbatim, not joined to EXPORT_DIR.
			saver = export.DirSaver{Dir: filepath.Dir(filename)}
			filename = filepath.Base(filename)
		}

		dest, err := saver.Save(ctx, filename, []byte(data))
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "Export written",
			log.FieldOperation, log.OpExport,
			log.FieldExportKind, string(kind),
			log.FieldFilename, dest,
			log.FieldRowCount, rows)
		fmt.Fprintln(os.Stdout, dest)
		return nil
	}
}
