package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/portfolio/backend/internal/api/middleware"
	"github.com/portfolio/backend/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Authenticate middleware.
// Its absence means the route was wired without authentication.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}
