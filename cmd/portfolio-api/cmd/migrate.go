package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/infrastructure/config"
	mongodb "github.com/portfolio/backend/internal/infrastructure/db/mongo"
	"github.com/portfolio/backend/internal/infrastructure/db/sqldb"
	"github.com/portfolio/backend/internal/infrastructure/db/sqldb/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and seed the role catalog",
	Long: `For SQL stores, applies all pending bun migrations under a migration lock.
For MongoDB, creates the unique user indexes and upserts the default roles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd.Context())
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Rollback the last migration group (SQL stores only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != config.StoreDriverSQL {
			return fmt.Errorf("rollback is not supported for store driver %q", cfg.Store.Driver)
		}

		ctx := cmd.Context()
		db, err := sqldb.Open(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer sqldb.Close(db)

		group, err := migrations.Rollback(ctx, db)
		if err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		if group.IsZero() {
			log.Info().Msg("no migrations to rollback")
		} else {
			log.Info().Int64("group", group.ID).Msg("rolled back migration group")
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateRollbackCmd)
}

func runMigrations(ctx context.Context) error {
	if cfg.Store.Driver == config.StoreDriverMongo {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Store.Mongo.URI, Database: cfg.Store.Mongo.Database})
		if err != nil {
			return err
		}
		defer client.Disconnect(context.WithoutCancel(ctx))

		if err := mongodb.EnsureSchema(ctx, db, domain.DefaultRoleCatalog()); err != nil {
			return fmt.Errorf("mongo schema failed: %w", err)
		}
		log.Info().Msg("mongodb indexes and roles in place")
		return nil
	}

	db, err := sqldb.Open(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer sqldb.Close(db)

	group, err := migrations.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if group.IsZero() {
		log.Info().Msg("no new migrations to apply")
	} else {
		log.Info().Int64("group", group.ID).Msg("applied migration group")
	}
	return nil
}
