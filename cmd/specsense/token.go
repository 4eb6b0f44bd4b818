package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/specsense/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for an API client",
	Long:  "Mints an HS256 bearer token for the REST API using JWT_SECRET.",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var (
	tokenClient string
	tokenHours  int
)

func init() {
	tokenCmd.Flags().StringVar(&tokenClient, "client", "", "Client ID to embed (random if empty)")
	tokenCmd.Flags().IntVar(&tokenHours, "hours", 0, "Token lifetime in hours (default from config, 24)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if tokenHours < 0 {
		return fmt.Errorf("--hours must be positive, got %d", tokenHours)
	}
	if tokenHours > 0 {
		cfg.JWTExpirationHours = tokenHours
	}

	jwtCfg, err := cfg.JWT()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		return errors.New("JWT_SECRET is required to mint tokens")
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenClient)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
