package ports

import (
	"context"

	"github.com/portfolio/backend/internal/core/domain"
)

// IdentityStore resolves identities by username. FindByUsername returns an
// error matching domain.ErrNotFound when the user does not exist.
type IdentityStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserFilter narrows List results. Empty fields are ignored.
type UserFilter struct {
	FirstName string
	LastName  string
	Email     string
	RoleName  string
}

// UserRepository is the identity store plus the account-management writes.
// Writes must run inside a transaction scope carried by ctx.
type UserRepository interface {
	IdentityStore

	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// Update replaces the stored fields of the user currently named username.
	// When withRole is false the stored role is kept.
	Update(ctx context.Context, username string, user *domain.User, withRole bool) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}

// RoleFilter narrows role listings. Zero values are ignored.
type RoleFilter struct {
	Name     string
	Priority int
}

// RoleRepository reads the provisioned role reference data.
type RoleRepository interface {
	List(ctx context.Context, filter RoleFilter) ([]domain.Role, error)
	FindByID(ctx context.Context, id int64) (domain.Role, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
