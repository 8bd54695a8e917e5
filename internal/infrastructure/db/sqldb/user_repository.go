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

// UserRepository implements ports.UserRepository with bun.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

var accountColumns = []string{"username", "password_digest", "first_name", "last_name", "email"}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m := new(models.User)
	err := Conn(ctx, r.db).NewSelect().
		Model(m).
		Relation("Role").
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("User with username '%s' not found", username)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	exists, err := Conn(ctx, r.db).NewSelect().
		Model((*models.User)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	_, err := Conn(ctx, r.db).NewInsert().
		Model(models.UserFromDomain(user)).
		ExcludeColumn("id").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", translate(err))
	}

	// fetch back to resolve the role
	return r.FindByUsername(ctx, user.Username)
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	var rows []models.User
	q := Conn(ctx, r.db).NewSelect().
		Model(&rows).
		Relation("Role").
		Order("u.username ASC")

	if filter.FirstName != "" {
		q = q.Where("u.first_name = ?", filter.FirstName)
	}
	if filter.LastName != "" {
		q = q.Where("u.last_name = ?", filter.LastName)
	}
	if filter.Email != "" {
		q = q.Where("u.email = ?", filter.Email)
	}
	if filter.RoleName != "" {
		q = q.Where("role.name = ?", filter.RoleName)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].ToDomain())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, username string, user *domain.User, withRole bool) (*domain.User, error) {
	columns := accountColumns
	if withRole {
		columns = append(append([]string{}, accountColumns...), "role_id")
	}

	res, err := Conn(ctx, r.db).NewUpdate().
		Model(models.UserFromDomain(user)).
		Column(columns...).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	} else if n == 0 {
		return nil, domain.NotFound("User with username '%s' not found", username)
	}

	return r.FindByUsername(ctx, user.Username)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res, err := Conn(ctx, r.db).NewDelete().
		Model((*models.User)(nil)).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	} else if n == 0 {
		return domain.NotFound("User with username '%s' not found", username)
	}
	return nil
}
