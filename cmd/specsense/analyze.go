package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/ingestion"
	"github.com/jonathan/specsense/internal/observability"
	"github.com/jonathan/specsense/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Analyze one datasheet",
	Long: "Extracts, corrects and validates the specifications of one datasheet. " +
		"The text comes from a file (\"-\" reads stdin), --text or --url.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeText    string
	analyzeURL     string
	analyzeJSON    bool
	analyzeOutput  string
	analyzeDB      string
	analyzeBrowser bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "Datasheet text to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "URL of an online datasheet")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Write the report JSON to this file")
	analyzeCmd.Flags().StringVar(&analyzeDB, "db", "", "Save the report to this database URL (overrides config)")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Render --url pages in a headless browser when static text is thin")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputs := len(args)
	if cmd.Flags().Changed("text") {
		inputs++
	}
	if analyzeURL != "" {
		inputs++
	}
	if inputs != 1 {
		return errors.New("exactly one of <file>, --text or --url is required")
	}

	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if analyzeDB != "" {
		cfg.DatabaseURL = analyzeDB
	}
	ctx := cmd.Context()

	orch, err := newOrchestrator(cfg, logger)
	if err != nil {
		return err
	}

	var doc pipeline.Document
	switch {
	case analyzeURL != "":
		text, metadata, err := ingestion.IngestFromURL(ctx, analyzeURL, cfg.UseBrowser || analyzeBrowser, logger)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", analyzeURL, err)
		}
		doc = pipeline.Document{Source: analyzeURL, Text: text, Metadata: metadata.Document()}
	case cmd.Flags().Changed("text"):
		doc = pipeline.Document{Text: analyzeText}
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text := ingestion.CleanText(string(data))
		doc = pipeline.Document{
			Source:   "stdin",
			Text:     text,
			Metadata: ingestion.NewMetadata(text, "stdin", ingestion.ContentTypeText).Document(),
		}
	default:
		doc, err = pipeline.LoadDocument(args[0])
		if err != nil {
			return err
		}
	}

	report := orch.ProcessDocument(doc)

	store, err := openStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		if err := store.SaveReport(ctx, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		logger.Info("report saved", zap.String("report_id", report.ID.String()))
	}

	if analyzeOutput != "" {
		data, err := writeJSON(analyzeOutput, report)
		if err != nil {
			return err
		}
		checkReportSchema(cmd.ErrOrStderr(), analyzeOutput, data)
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return printJSON(out, report)
	}
	observability.NewPrinter(out).PrintReport(report, true)
	return nil
}
