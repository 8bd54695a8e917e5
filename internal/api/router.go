package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/portfolio/backend/docs"
	"github.com/portfolio/backend/internal/api/handler"
	"github.com/portfolio/backend/internal/api/middleware"
	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

// Dependencies are the services the router exposes over HTTP.
type Dependencies struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Roles   ports.RoleService
	Catalog *domain.RoleCatalog
	// Pingers are checked by the readiness probe, keyed by dependency name.
	Pingers map[string]ports.Pinger
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Route gates are resolved against the role catalog, so a catalog missing
// one of the gated roles is a configuration error.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	gate := func(name string) (echo.MiddlewareFunc, error) {
		role, ok := deps.Catalog.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: role %q is not in the catalog", domain.ErrConfiguration, name)
		}
		return middleware.RequireRole(deps.Auth, role), nil
	}
	gates := make(map[string]echo.MiddlewareFunc)
	for _, name := range []string{
		domain.RoleNameUser,
		domain.RoleNameViewer,
		domain.RoleNameEditor,
		domain.RoleNameDeveloper,
		domain.RoleNameAdministrator,
	} {
		mw, err := gate(name)
		if err != nil {
			return nil, err
		}
		gates[name] = mw
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	authn := middleware.Authenticate(deps.Auth)

	// --- Public routes ---
	g := e.Group("/authentication")
	g.POST("/login", authHandler.Login)
	g.POST("/users", userHandler.Register)

	// --- Authenticated routes ---
	asUser := []echo.MiddlewareFunc{authn, gates[domain.RoleNameUser]}
	g.GET("/users/me", userHandler.Me, asUser...)
	g.PATCH("/users/me", userHandler.UpdateMe, asUser...)
	g.DELETE("/users/me", userHandler.DeleteMe, asUser...)

	g.GET("/users/:username", userHandler.Get, authn, gates[domain.RoleNameViewer])
	g.GET("/users", userHandler.List, authn, gates[domain.RoleNameEditor])
	g.GET("/roles", roleHandler.List, authn, gates[domain.RoleNameDeveloper])

	asAdmin := []echo.MiddlewareFunc{authn, gates[domain.RoleNameAdministrator]}
	g.POST("/users/:username", userHandler.Create, asAdmin...)
	g.PATCH("/users/:username", userHandler.Update, asAdmin...)
	g.DELETE("/users/:username", userHandler.Delete, asAdmin...)

	// --- Operational routes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Pingers)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
