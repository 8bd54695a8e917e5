package ports

import (
	"context"

	"github.com/portfolio/backend/internal/core/domain"
)

// AccountInput carries the fields a user may set on their own account.
type AccountInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// UserInput is AccountInput plus the role, settable by administrators only.
type UserInput struct {
	AccountInput
	RoleID int64
}

// UserService implements account management on top of the identity store.
type UserService interface {
	// Register creates an account with the lowest role.
	Register(ctx context.Context, in AccountInput) (*domain.User, error)
	// Create creates an account with an explicit role. username must match in.Username.
	Create(ctx context.Context, username string, in UserInput) (*domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// UpdateAccount updates the caller's own account; the role is kept.
	UpdateAccount(ctx context.Context, username string, in AccountInput) (*domain.User, error)
	Update(ctx context.Context, username string, in UserInput) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}

// RoleService lists the role catalog.
type RoleService interface {
	List(ctx context.Context) ([]domain.Role, error)
}
