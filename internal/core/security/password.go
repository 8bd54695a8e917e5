package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

const (
	SchemeSHA256 = "sha256"
	SchemePBKDF2 = "pbkdf2"

	DefaultPBKDF2Iterations = 210000
	pbkdf2KeyLen            = 32
)

// SHA256Verifier digests passwords as unsalted lowercase hex SHA-256, the
// format existing accounts are stored in.
type SHA256Verifier struct{}

func (SHA256Verifier) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func (v SHA256Verifier) Verify(plaintext, digest string) bool {
	return constantTimeEqual(v.Hash(plaintext), digest)
}

// PBKDF2Verifier derives PBKDF2-HMAC-SHA256 digests keyed with a
// process-wide pepper. Output is deterministic for a given configuration.
type PBKDF2Verifier struct {
	pepper     []byte
	iterations int
}

func NewPBKDF2Verifier(pepper string, iterations int) (*PBKDF2Verifier, error) {
	if pepper == "" {
		return nil, fmt.Errorf("%w: pbkdf2 pepper is not set", domain.ErrConfiguration)
	}
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &PBKDF2Verifier{pepper: []byte(pepper), iterations: iterations}, nil
}

func (v *PBKDF2Verifier) Hash(plaintext string) string {
	key := pbkdf2.Key([]byte(plaintext), v.pepper, v.iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

func (v *PBKDF2Verifier) Verify(plaintext, digest string) bool {
	return constantTimeEqual(v.Hash(plaintext), digest)
}

// NewPasswordVerifier selects a verifier by scheme name.
func NewPasswordVerifier(scheme, pepper string, iterations int) (ports.PasswordVerifier, error) {
	switch scheme {
	case "", SchemeSHA256:
		return SHA256Verifier{}, nil
	case SchemePBKDF2:
		v, err := NewPBKDF2Verifier(pepper, iterations)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unknown password scheme %q", domain.ErrConfiguration, scheme)
	}
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
