package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
	"github.com/portfolio/backend/internal/infrastructure/db/sqldb/models"
)

// RoleRepository reads the roles table.
type RoleRepository struct {
	db *bun.DB
}

func NewRoleRepository(db *bun.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func (r *RoleRepository) List(ctx context.Context, filter ports.RoleFilter) ([]domain.Role, error) {
	var rows []models.Role
	q := Conn(ctx, r.db).NewSelect().
		Model(&rows).
		Order("r.priority ASC")

	if filter.Name != "" {
		q = q.Where("r.name = ?", filter.Name)
	}
	if filter.Priority != 0 {
		q = q.Where("r.priority = ?", filter.Priority)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	roles := make([]domain.Role, 0, len(rows))
	for i := range rows {
		roles = append(roles, rows[i].ToDomain())
	}
	return roles, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (domain.Role, error) {
	m := new(models.Role)
	err := Conn(ctx, r.db).NewSelect().
		Model(m).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Role{}, domain.NotFound("Role with id #%d not found", id)
		}
		return domain.Role{}, fmt.Errorf("find role: %w", err)
	}
	return m.ToDomain(), nil
}
