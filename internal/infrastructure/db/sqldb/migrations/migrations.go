// Package migrations holds the schema migrations of the relational store.
// Each migration registers itself with Migrations from an init function.
package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations is the ordered set applied by Migrate.
var Migrations = migrate.NewMigrations()

// Migrate creates the bookkeeping tables if needed and applies every pending
// migration under the migration lock. It returns the applied group.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("initialize migrator: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return group, nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("rollback: %w", err)
	}
	return group, nil
}
