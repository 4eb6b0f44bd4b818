package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/ingestion"
	"github.com/jonathan/specsense/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Analyze datasheets as they arrive in a directory",
	Long: "Watches directories recursively and analyzes each datasheet file when it is created or " +
		"written. Reports are saved to the configured store and, with --out, written as JSON.",
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

var (
	watchInitialScan bool
	watchDebounce    time.Duration
	watchOutput      string
	watchDB          string
)

func init() {
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", false, "Also analyze files already present")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", ingestion.DefaultDebounce, "Quiet period before a changed file is analyzed")
	watchCmd.Flags().StringVarP(&watchOutput, "out", "o", "", "Directory for <name>.report.json files")
	watchCmd.Flags().StringVar(&watchDB, "db", "", "Save reports to this database URL (overrides config)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if watchDB != "" {
		cfg.DatabaseURL = watchDB
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, err := newOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	paths, errs, err := ingestion.Watch(ctx, ingestion.WatchConfig{
		Roots:       args,
		InitialScan: watchInitialScan,
		Debounce:    watchDebounce,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	logger.Info("watching for datasheets", zap.Strings("roots", args))

	out := cmd.OutOrStdout()
	for paths != nil || errs != nil {
		select {
		case path, ok := <-paths:
			if !ok {
				paths = nil
				continue
			}
			doc, err := pipeline.LoadDocument(path)
			if err != nil {
				logger.Warn("skipping unreadable datasheet", zap.String("file", path), zap.Error(err))
				continue
			}
			report := orch.ProcessDocument(doc)
			_, _ = fmt.Fprintf(out, "%-12s %s\n", report.Verdict.Status, path)

			if store != nil {
				if err := store.SaveReport(ctx, report); err != nil {
					logger.Error("failed to save report", zap.String("file", path), zap.Error(err))
				}
			}
			if watchOutput != "" {
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				if _, err := writeJSON(filepath.Join(watchOutput, name+".report.json"), report); err != nil {
					logger.Error("failed to write report", zap.String("file", path), zap.Error(err))
				}
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}

	logger.Info("watch stopped")
	return nil
}
