package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/config"
	"github.com/jonathan/specsense/internal/correction"
	"github.com/jonathan/specsense/internal/db"
	"github.com/jonathan/specsense/internal/extraction"
	"github.com/jonathan/specsense/internal/logging"
	"github.com/jonathan/specsense/internal/pipeline"
	"github.com/jonathan/specsense/internal/schemas"
	"github.com/jonathan/specsense/internal/types"
	"github.com/jonathan/specsense/internal/validation"
)

// loadSettings resolves configuration (defaults, file, environment, --verbose) and builds the logger
func loadSettings() (*config.Config, *zap.Logger, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// stages builds the three pipeline stages from the configured tables
func stages(cfg *config.Config) (*extraction.Extractor, *correction.Corrector, *validation.Validator, error) {
	v, err := validation.New(cfg.ValidationConfig())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid rule configuration: %w", err)
	}
	tables := cfg.CorrectionTables()
	return extraction.New(nil, cfg.ExtractorOptions()...), correction.New(&tables), v, nil
}

// newOrchestrator builds a pipeline from the configuration
func newOrchestrator(cfg *config.Config, logger *zap.Logger, opts ...pipeline.Option) (*pipeline.Orchestrator, error) {
	extractor, corrector, validator, err := stages(cfg)
	if err != nil {
		return nil, err
	}
	base := []pipeline.Option{
		pipeline.WithExtractor(extractor),
		pipeline.WithCorrector(corrector),
		pipeline.WithValidator(validator),
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(cfg.Workers),
	}
	return pipeline.New(append(base, opts...)...), nil
}

// openStore opens the configured report store. It returns nil when no database is configured.
func openStore(ctx context.Context, databaseURL string, logger *zap.Logger) (db.Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	store, err := db.Open(ctx, databaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open report store: %w", err)
	}
	return store, nil
}

// writeJSON writes v as indented JSON, creating the parent directory
func writeJSON(path string, v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return data, nil
}

// printJSON writes v as indented JSON to out
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// checkReportSchema validates written report JSON; failures are warnings only
func checkReportSchema(errOut io.Writer, path string, data []byte) {
	if err := schemas.ValidateReport(data); err != nil {
		_, _ = fmt.Fprintf(errOut, "Warning: %s does not validate against the report schema: %v\n", path, err)
	}
}

// readSpecRecord loads a spec record JSON file ("-" reads in). Missing keys are absent; unknown keys are rejected.
func readSpecRecord(path string, in io.Reader) (types.SpecRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read spec record: %w", err)
	}

	var rec types.SpecRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("invalid spec record: %w", err)
	}
	return rec, nil
}
