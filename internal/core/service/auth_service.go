package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
	"github.com/portfolio/backend/internal/pkg/metrics"
)

// AuthService implements login, authentication and the per-endpoint gate.
type AuthService struct {
	store    ports.IdentityStore
	codec    ports.TokenCodec
	verifier ports.PasswordVerifier
	roles    *domain.RoleCatalog
	tokenTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithTokenTTL overrides the codec's default TTL for issued tokens.
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) { s.tokenTTL = ttl }
}

// WithNow replaces the clock used for expiry checks.
func WithNow(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(
	store ports.IdentityStore,
	codec ports.TokenCodec,
	verifier ports.PasswordVerifier,
	roles *domain.RoleCatalog,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		store:    store,
		codec:    codec,
		verifier: verifier,
		roles:    roles,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies username/password and issues a bearer token. Unknown users
// and wrong passwords fail identically with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.AccessToken, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.verifier.Verify(password, user.PasswordDigest) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Username, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", user.Username).Msg("login succeeded")

	return &domain.AccessToken{AccessToken: token, TokenType: domain.TokenTypeBearer}, nil
}

// Authenticate decodes token and resolves its subject with a single
// identity-store read. A subject that no longer exists is unauthenticated
// even though its token still verifies.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	cred, err := s.codec.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	user, err := s.store.FindByUsername(ctx, cred.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %q no longer exists", domain.ErrUnauthenticated, cred.Subject)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &domain.Principal{User: user, ExpiresAt: cred.ExpiresAt}, nil
}

// Authorize checks the principal's role against minimum, then the token's
// expiry against now. The order is fixed.
func (s *AuthService) Authorize(principal *domain.Principal, minimum domain.Role) error {
	if principal == nil || principal.User == nil {
		s.record(minimum, "unauthenticated")
		return domain.ErrUnauthenticated
	}

	d := domain.Decision{
		Required:       minimum,
		Actual:         principal.User.Role,
		TokenExpiresAt: principal.ExpiresAt,
	}

	if !s.roles.Satisfies(d.Actual, d.Required) {
		s.record(minimum, "insufficient_permission")
		s.log.Debug().
			Str("username", principal.User.Username).
			Str("role", d.Actual.Name).
			Str("required_role", d.Required.Name).
			Msg("insufficient permission")
		return domain.ErrInsufficientPermission
	}

	if s.now().After(d.TokenExpiresAt) {
		s.record(minimum, "token_expired")
		s.log.Debug().
			Str("username", principal.User.Username).
			Time("expires_at", d.TokenExpiresAt).
			Msg("token expired")
		return domain.ErrTokenExpired
	}

	s.record(minimum, "granted")
	return nil
}

func (s *AuthService) record(required domain.Role, outcome string) {
	metrics.AuthDecisionsTotal.WithLabelValues(required.Name, outcome).Inc()
}
