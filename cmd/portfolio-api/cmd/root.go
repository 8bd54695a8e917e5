package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/portfolio/backend/internal/infrastructure/config"
	"github.com/portfolio/backend/pkg/logger"
)

const serviceName = "portfolio-api"

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Portfolio backend API server",
	Long: `Portfolio backend serves authentication, role based authorization and
account management over HTTP, backed by PostgreSQL, SQLite or MongoDB.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  !cfg.IsProduction(),
			Service: serviceName,
			Env:     cfg.Env,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
