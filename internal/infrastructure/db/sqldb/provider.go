// Package sqldb is the relational store backend. It runs on PostgreSQL in
// production and on SQLite for local use and tests; the dialect is picked
// from the DSN.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite" // SQLite driver
)

// DatabaseType represents the type of database behind a DSN.
type DatabaseType string

const (
	DatabaseTypePostgreSQL DatabaseType = "postgres"
	DatabaseTypeSQLite     DatabaseType = "sqlite"
)

// DetectDatabaseType determines the database type from a DSN string.
func DetectDatabaseType(dsn string) DatabaseType {
	for _, prefix := range []string{"postgres://", "postgresql://", "unix://"} {
		if strings.HasPrefix(dsn, prefix) {
			return DatabaseTypePostgreSQL
		}
	}
	// file:, :memory: or a plain path
	return DatabaseTypeSQLite
}

// Open creates a bun.DB for dsn and verifies connectivity.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	switch DetectDatabaseType(dsn) {
	case DatabaseTypePostgreSQL:
		return openPostgreSQL(ctx, dsn)
	default:
		return openSQLite(ctx, dsn)
	}
}

func openPostgreSQL(ctx context.Context, dsn string) (*bun.DB, error) {
	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)

	db := bun.NewDB(sqlDB, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func openSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// lives only as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	db := bun.NewDB(sqlDB, sqlitedialect.New())

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// IsSQLite reports whether db runs on SQLite.
func IsSQLite(db *bun.DB) bool {
	return db.Dialect().Name() == dialect.SQLite
}

// Close closes the database connection.
func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// Pinger reports database reachability for readiness checks.
type Pinger struct {
	db *bun.DB
}

func NewPinger(db *bun.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
