package ports

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/core/domain"
)

// TokenCodec issues and decodes bearer tokens. Decode does not reject
// expired credentials.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Decode(token string) (domain.Credential, error)
}

// PasswordVerifier produces deterministic one-way digests.
type PasswordVerifier interface {
	Hash(plaintext string) string
	Verify(plaintext, digest string) bool
}

// Authenticator turns a bearer token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// Authorizer gates an operation behind a minimum role.
type Authorizer interface {
	Authorize(principal *domain.Principal, minimum domain.Role) error
}

type AuthService interface {
	Authenticator
	Authorizer
	Login(ctx context.Context, username, password string) (*domain.AccessToken, error)
}
