package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/infrastructure/db/sqldb/models"
)

func init() {
	Migrations.MustRegister(up_20260301000002, down_20260301000002)
}

// up_20260301000002 seeds the role hierarchy.
func up_20260301000002(ctx context.Context, db *bun.DB) error {
	for _, r := range domain.DefaultRoles() {
		_, err := db.NewInsert().
			Model(models.RoleFromDomain(r)).
			On("CONFLICT (id) DO NOTHING"). // Idempotent
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", r.Name, err)
		}
	}
	return nil
}

func down_20260301000002(ctx context.Context, db *bun.DB) error {
	ids := make([]int64, 0, len(domain.DefaultRoles()))
	for _, r := range domain.DefaultRoles() {
		ids = append(ids, r.ID)
	}
	_, err := db.NewDelete().
		Model((*models.Role)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete seeded roles: %w", err)
	}
	return nil
}
