package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

// RequireRole gates the route behind minimum. It must run after Authenticate.
func RequireRole(authz ports.Authorizer, minimum domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := PrincipalFrom(c)
			if err := authz.Authorize(principal, minimum); err != nil {
				return err
			}
			return next(c)
		}
	}
}
