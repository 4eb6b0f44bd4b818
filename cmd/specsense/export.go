package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/specsense/internal/db"
	"github.com/jonathan/specsense/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored reports to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportDB     string
	exportOutput string
	exportStatus string
	exportLimit  int
)

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "", "Database URL to read reports from (overrides config)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Path to the XLSX file to write (required)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Only export reports with this status (READY, UNVERIFIABLE, NOT_READY)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum number of reports, newest first")

	if err := exportCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if exportDB != "" {
		cfg.DatabaseURL = exportDB
	}
	if cfg.DatabaseURL == "" {
		return errors.New("a database is required: pass --db or set SPECSENSE_DATABASE_URL")
	}

	filter := db.ListFilter{Limit: exportLimit}
	if exportStatus != "" {
		status, ok := types.ParseStatus(strings.ToUpper(exportStatus))
		if !ok {
			return fmt.Errorf("unknown status %q", exportStatus)
		}
		filter.Status = status
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	reports, err := store.ListReports(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if err := writeWorkbook(exportOutput, reports); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reports to %s\n", len(reports), exportOutput)
	return nil
}
