package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
	reads int
	err   error
	// racing hides existing users from Exists, as if they were inserted
	// concurrently after the check.
	racing bool
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.Username] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.NotFound("User with username '%s' not found", username)
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Exists(_ context.Context, username string) (bool, error) {
	if r.racing {
		return false, nil
	}
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) emailTaken(email, except string) bool {
	for name, u := range r.users {
		if name != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Username]; ok {
		return nil, &domain.ConstraintError{Field: domain.FieldUsername, Err: errors.New("users_username_key")}
	}
	if r.emailTaken(user.Email, "") {
		return nil, &domain.ConstraintError{Field: domain.FieldEmail, Err: errors.New("users_email_key")}
	}
	r.users[user.Username] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if filter.FirstName != "" && u.FirstName != filter.FirstName {
			continue
		}
		if filter.RoleName != "" && u.Role.Name != filter.RoleName {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, username string, user *domain.User, withRole bool) (*domain.User, error) {
	current, ok := r.users[username]
	if !ok {
		return nil, domain.NotFound("User with username '%s' not found", username)
	}
	if r.emailTaken(user.Email, username) {
		return nil, &domain.ConstraintError{Field: domain.FieldEmail, Err: errors.New("users_email_key")}
	}
	updated := cloneUser(user)
	if !withRole {
		updated.Role = current.Role
	}
	delete(r.users, username)
	r.users[updated.Username] = updated
	return cloneUser(updated), nil
}

func (r *stubUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := r.users[username]; !ok {
		return domain.NotFound("User with username '%s' not found", username)
	}
	delete(r.users, username)
	return nil
}

// stubTransactor runs bodies directly and counts outcomes.
type stubTransactor struct {
	scopes    int
	commits   int
	rollbacks int
	commitErr error
}

func (t *stubTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.scopes++
	if err := fn(ctx); err != nil {
		t.rollbacks++
		return err
	}
	if t.commitErr != nil {
		t.rollbacks++
		return fmt.Errorf("%w: commit: %w", domain.ErrIntegrityConflict, t.commitErr)
	}
	t.commits++
	return nil
}

type stubRoleRepo struct {
	roles []domain.Role
}

func (r *stubRoleRepo) List(_ context.Context, filter ports.RoleFilter) ([]domain.Role, error) {
	var out []domain.Role
	for _, role := range r.roles {
		if filter.Name != "" && !strings.EqualFold(role.Name, filter.Name) {
			continue
		}
		out = append(out, role)
	}
	return out, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id int64) (domain.Role, error) {
	for _, role := range r.roles {
		if role.ID == id {
			return role, nil
		}
	}
	return domain.Role{}, domain.NotFound("Role with id #%d not found", id)
}
