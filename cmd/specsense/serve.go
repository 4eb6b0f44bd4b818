package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/specsense/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server that exposes the analysis pipeline and stored reports. " +
		"Set JWT_SECRET to require bearer tokens on /v1 routes.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if servePort > 0 {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, corrector, validator, err := stages(cfg)
	if err != nil {
		return err
	}
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
	} else {
		logger.Warn("no database configured; report routes are disabled")
	}

	jwtCfg, err := cfg.JWT()
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Port:         cfg.Port,
		Orchestrator: orch,
		Corrector:    corrector,
		Validator:    validator,
		Store:        store,
		Logger:       logger,
		JWT:          jwtCfg,
	})
	return srv.Start(ctx)
}
