package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/portfolio/backend/internal/infrastructure/db/sqldb/models"
)

func init() {
	Migrations.MustRegister(up_20260301000001, down_20260301000001)
}

// up_20260301000001 creates the roles and users tables.
func up_20260301000001(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*models.Role)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create roles table: %w", err)
	}

	_, err = db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		ForeignKey(`("role_id") REFERENCES "roles" ("id") ON DELETE RESTRICT`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_users_role_id ON users(role_id)`)
	if err != nil {
		return fmt.Errorf("create users role_id index: %w", err)
	}
	return nil
}

func down_20260301000001(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewDropTable().Model((*models.User)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("drop users table: %w", err)
	}
	if _, err := db.NewDropTable().Model((*models.Role)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("drop roles table: %w", err)
	}
	return nil
}
