package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/export"
	"github.com/jonathan/specsense/internal/observability"
	"github.com/jonathan/specsense/internal/pipeline"
	"github.com/jonathan/specsense/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every datasheet in a directory",
	Long:  "Analyzes all ingestible files directly inside a directory in parallel and prints a status summary.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

var (
	batchWorkers int
	batchOutput  string
	batchXLSX    string
	batchDB      string
)

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Parallel workers (default from config)")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Directory for <name>.report.json files")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "Write all reports to this XLSX workbook")
	batchCmd.Flags().StringVar(&batchDB, "db", "", "Save reports to this database URL (overrides config)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if batchWorkers < 0 {
		return fmt.Errorf("--workers must be positive, got %d", batchWorkers)
	}
	if batchWorkers > 0 {
		cfg.Workers = batchWorkers
	}
	if batchDB != "" {
		cfg.DatabaseURL = batchDB
	}
	ctx := cmd.Context()

	docs, err := pipeline.LoadDirectory(args[0], logger)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no ingestible files in %s", args[0])
	}

	orch, err := newOrchestrator(cfg, logger, pipeline.WithProgress(func(e pipeline.ProgressEvent) {
		if e.Step == pipeline.StepDone {
			logger.Debug("analyzed",
				zap.Int("index", e.Index+1),
				zap.Int("total", e.Total),
				zap.String("source", e.Source),
				zap.String("status", string(e.Status)))
		}
	}))
	if err != nil {
		return err
	}

	reports, err := orch.ProcessBatch(ctx, docs)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	store, err := openStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		for _, report := range reports {
			if err := store.SaveReport(ctx, report); err != nil {
				return fmt.Errorf("failed to save report for %s: %w", report.Source, err)
			}
		}
	}

	if batchOutput != "" {
		if err := writeBatchReports(cmd, batchOutput, reports); err != nil {
			return err
		}
	}

	if batchXLSX != "" {
		if err := writeWorkbook(batchXLSX, reports); err != nil {
			return err
		}
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintBatchSummary(reports)
	return nil
}

// writeBatchReports writes one JSON file per report, named after its source file.
// A second source with the same stem keeps its extension in the name.
func writeBatchReports(cmd *cobra.Command, dir string, reports []*types.Report) error {
	used := make(map[string]bool, len(reports))
	for _, report := range reports {
		base := filepath.Base(report.Source)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if used[name] {
			name = base
		}
		used[name] = true

		path := filepath.Join(dir, name+".report.json")
		data, err := writeJSON(path, report)
		if err != nil {
			return err
		}
		checkReportSchema(cmd.ErrOrStderr(), path, data)
	}
	return nil
}

// writeWorkbook exports reports to an XLSX file
func writeWorkbook(path string, reports []*types.Report) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteXLSX(f, reports); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
