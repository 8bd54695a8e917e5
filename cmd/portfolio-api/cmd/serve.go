package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio/backend/internal/api"
	"github.com/portfolio/backend/internal/core/security"
	"github.com/portfolio/backend/internal/core/service"
	"github.com/portfolio/backend/internal/core/uow"
)

const shutdownTimeout = 10 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Starts the HTTP server and blocks until SIGINT or SIGTERM, then drains in-flight requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.ValidateAuth(); err != nil {
			return err
		}

		if serveMigrate {
			if err := runMigrations(ctx); err != nil {
				return err
			}
		}

		st, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.close(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Msg("failed to close store")
			}
		}()

		codec, err := security.NewTokenCodec(cfg.Auth.JWTSecret, security.WithDefaultTTL(cfg.Auth.TokenTTL))
		if err != nil {
			return err
		}
		verifier, err := security.NewPasswordVerifier(cfg.Password.Scheme, cfg.Password.Pepper, cfg.Password.Iterations)
		if err != nil {
			return err
		}

		tx := uow.NewManager(st.beginner, log)
		authService := service.NewAuthService(st.users, codec, verifier, st.catalog, log)
		userService := service.NewUserService(st.users, tx, verifier, st.catalog, log)
		roleService := service.NewRoleService(st.roles)

		e, err := api.NewRouter(api.Dependencies{
			Auth:    authService,
			Users:   userService,
			Roles:   roleService,
			Catalog: st.catalog,
			Pingers: st.pingers,
			Log:     log,
		})
		if err != nil {
			return err
		}

		addr := ":" + cfg.Port
		serverErrors := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Int("roles", len(st.catalog.Roles())).Msg("server listening")
			serverErrors <- e.Start(addr)
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case sig := <-shutdown:
			log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			log.Info().Msg("server stopped")
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
}
