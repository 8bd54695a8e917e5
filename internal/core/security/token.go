// Package security holds the credential codec and password digests.
package security

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/portfolio/backend/internal/core/domain"
)

// DefaultTokenTTL is used when neither the codec nor the caller sets a TTL.
const DefaultTokenTTL = 60 * time.Minute

const (
	claimSubject   = "subject"
	claimExpiresAt = "expires_at"
)

// TokenCodec signs and verifies bearer tokens with a process-wide HS256 key.
// The key is fixed at construction and never rotated.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithDefaultTTL sets the TTL applied when Issue is called with ttl <= 0.
func WithDefaultTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec returns a codec keyed with secret. An empty secret is a
// configuration error.
func NewTokenCodec(secret string, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: token signing secret is not set", domain.ErrConfiguration)
	}
	c := &TokenCodec{secret: []byte(secret), ttl: DefaultTokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultTTL returns the TTL used when Issue gets ttl <= 0.
func (c *TokenCodec) DefaultTTL() time.Duration { return c.ttl }

// Issue builds {subject, expires_at = now + ttl} and signs it.
func (c *TokenCodec) Issue(subject string, ttl time.Duration) (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("%w: token signing secret is not set", domain.ErrConfiguration)
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	expiresAt := c.now().Add(ttl).Unix()
	claims := jwt.MapClaims{
		claimSubject:   subject,
		claimExpiresAt: strconv.FormatInt(expiresAt, 10),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and parses the payload. Expiry is not
// checked here.
func (c *TokenCodec) Decode(token string) (domain.Credential, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Credential{}, domain.ErrInvalidToken
	}

	subject, _ := claims[claimSubject].(string)
	if subject == "" {
		return domain.Credential{}, fmt.Errorf("%w: missing %s", domain.ErrInvalidToken, claimSubject)
	}

	expiresAt, err := parseExpiry(claims[claimExpiresAt])
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	return domain.Credential{Subject: subject, ExpiresAt: expiresAt}, nil
}

// parseExpiry accepts "1700000000" as well as the fractional
// "1700000000.0" form older tokens carry.
func parseExpiry(v any) (time.Time, error) {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return time.Time{}, errors.New("missing " + claimExpiresAt)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("malformed %s %q", claimExpiresAt, raw)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}
