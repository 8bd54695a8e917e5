package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

type userService struct {
	users    ports.UserRepository
	tx       ports.Transactor
	verifier ports.PasswordVerifier
	roles    *domain.RoleCatalog
	log      zerolog.Logger
}

// NewUserService returns a UserService implementation. Every write runs in
// its own transaction scope obtained from tx.
func NewUserService(
	users ports.UserRepository,
	tx ports.Transactor,
	verifier ports.PasswordVerifier,
	roles *domain.RoleCatalog,
	log zerolog.Logger,
) ports.UserService {
	return &userService{
		users:    users,
		tx:       tx,
		verifier: verifier,
		roles:    roles,
		log:      log,
	}
}

func (s *userService) Register(ctx context.Context, in ports.AccountInput) (*domain.User, error) {
	lowest := s.roles.Roles()[0]
	return s.create(ctx, in, lowest)
}

func (s *userService) Create(ctx context.Context, username string, in ports.UserInput) (*domain.User, error) {
	if username != in.Username {
		return nil, domain.Conflict("Given usernames '%s' and '%s' have to match", username, in.Username)
	}
	role, ok := s.roles.ByID(in.RoleID)
	if !ok {
		return nil, domain.Invalid("Role id #%d does not exist", in.RoleID)
	}
	return s.create(ctx, in.AccountInput, role)
}

func (s *userService) create(ctx context.Context, in ports.AccountInput, role domain.Role) (*domain.User, error) {
	created, err := ports.InTransaction(ctx, s.tx, func(ctx context.Context) (*domain.User, error) {
		exists, err := s.users.Exists(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		if exists {
			return nil, domain.Conflict("Username %s already exists", in.Username)
		}
		return s.users.Create(ctx, s.newUser(in, role))
	})
	if err != nil {
		return nil, constraintConflict(err, in.Username, in.Email)
	}

	s.log.Info().Str("username", created.Username).Str("role", created.Role.Name).Msg("user created")
	return created, nil
}

func (s *userService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *userService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *userService) UpdateAccount(ctx context.Context, username string, in ports.AccountInput) (*domain.User, error) {
	if username != in.Username {
		return nil, domain.Conflict("Given usernames '%s' and '%s' have to match", username, in.Username)
	}
	return s.update(ctx, username, s.newUser(in, domain.Role{}), false)
}

func (s *userService) Update(ctx context.Context, username string, in ports.UserInput) (*domain.User, error) {
	if username != in.Username {
		return nil, domain.Conflict("Given usernames '%s' and '%s' have to match", username, in.Username)
	}
	role, ok := s.roles.ByID(in.RoleID)
	if !ok {
		return nil, domain.Invalid("Role id #%d does not exist", in.RoleID)
	}
	return s.update(ctx, username, s.newUser(in.AccountInput, role), true)
}

func (s *userService) update(ctx context.Context, username string, user *domain.User, withRole bool) (*domain.User, error) {
	updated, err := ports.InTransaction(ctx, s.tx, func(ctx context.Context) (*domain.User, error) {
		return s.users.Update(ctx, username, user, withRole)
	})
	if err != nil {
		return nil, constraintConflict(err, user.Username, user.Email)
	}

	s.log.Info().Str("username", updated.Username).Bool("role_changed", withRole).Msg("user updated")
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.users.Delete(ctx, username)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("user deleted")
	return nil
}

func (s *userService) newUser(in ports.AccountInput, role domain.Role) *domain.User {
	return &domain.User{
		Username:       in.Username,
		PasswordDigest: s.verifier.Hash(in.Password),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Role:           role,
	}
}

// constraintConflict gives a bare integrity violation a client-facing detail
// naming the clashing field. Violations no store could attribute, such as a
// failed commit, get a neutral detail.
func constraintConflict(err error, username, email string) error {
	var de *domain.Error
	if !errors.Is(err, domain.ErrIntegrityConflict) || errors.As(err, &de) {
		return err
	}
	var ce *domain.ConstraintError
	field := ""
	if errors.As(err, &ce) {
		field = ce.Field
	}
	switch field {
	case domain.FieldUsername:
		return domain.Conflict("Username %s already exists", username).Wrap(err)
	case domain.FieldEmail:
		return domain.Conflict("E-Mail '%s' already exists", email).Wrap(err)
	default:
		return domain.Conflict("User %s conflicts with a concurrent change", username).Wrap(err)
	}
}
