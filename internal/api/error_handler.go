package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portfolio/backend/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Adds a WWW-Authenticate challenge to every 401.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect username or password"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, domain.ErrTokenExpired.Error()
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrInsufficientPermission):
		return http.StatusForbidden, domain.ErrInsufficientPermission.Error()
	}

	// Tagged domain errors carry a client-facing detail.
	var de *domain.Error
	if errors.As(err, &de) {
		switch {
		case errors.Is(de, domain.ErrNotFound):
			return http.StatusNotFound, de.Error()
		case errors.Is(de, domain.ErrConflict):
			return http.StatusConflict, de.Error()
		case errors.Is(de, domain.ErrInvalidInput):
			return http.StatusBadRequest, de.Error()
		}
	}

	if errors.Is(err, domain.ErrIntegrityConflict) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("integrity conflict")
		return http.StatusConflict, domain.ErrIntegrityConflict.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
