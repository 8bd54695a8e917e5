package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

const principalKey = "principal"

// Authenticate resolves the bearer token into a principal and stores it in
// the echo context. Failures are returned as domain errors for the central
// error handler.
func Authenticate(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			principal, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthenticated)
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}
