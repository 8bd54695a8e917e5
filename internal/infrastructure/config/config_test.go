package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/portfolio/backend/internal/core/domain"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": "s3cret"})
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Fatalf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.Auth.TokenTTL != 60*time.Minute {
		t.Fatalf("TokenTTL = %s, want 60m", cfg.Auth.TokenTTL)
	}
	if cfg.Password.Scheme != "sha256" || cfg.Password.Iterations != 210000 {
		t.Fatalf("unexpected password config: %+v", cfg.Password)
	}
	if cfg.Store.Driver != StoreDriverSQL || cfg.Store.DatabaseURL == "" {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.IsProduction() {
		t.Fatalf("default env must not be production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":      "s3cret",
		"PORT":            "9000",
		"ENV":             "Production",
		"TOKEN_TTL":       "15m",
		"PASSWORD_SCHEME": "pbkdf2",
		"PASSWORD_PEPPER": "pepper",
		"STORE_DRIVER":    "mongo",
		"MONGO_DB":        "accounts",
	})
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "9000" || cfg.Auth.TokenTTL != 15*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Fatalf("ENV=Production must be production")
	}
	if cfg.Store.Driver != StoreDriverMongo || cfg.Store.Mongo.Database != "accounts" {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"malformed ttl":       {"JWT_SECRET": "s", "TOKEN_TTL": "an hour"},
		"unknown scheme":      {"JWT_SECRET": "s", "PASSWORD_SCHEME": "md5"},
		"pbkdf2 no pepper":    {"JWT_SECRET": "s", "PASSWORD_SCHEME": "pbkdf2"},
		"unknown driver":      {"JWT_SECRET": "s", "STORE_DRIVER": "redis"},
		"malformed iteration": {"JWT_SECRET": "s", "PASSWORD_ITERATIONS": "many"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(t, env); !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestLoad_WithoutSecret(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	if err != nil {
		t.Fatalf("migrate-only config must load without JWT_SECRET: %v", err)
	}
	if !errors.Is(cfg.ValidateAuth(), domain.ErrConfiguration) {
		t.Fatalf("ValidateAuth must reject a missing secret")
	}
}

func TestValidateAuth(t *testing.T) {
	cases := map[string]struct {
		env     map[string]string
		wantErr bool
	}{
		"valid":            {env: map[string]string{"JWT_SECRET": "s"}},
		"missing secret":   {env: map[string]string{}, wantErr: true},
		"non-positive ttl": {env: map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "0s"}, wantErr: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := load(t, tc.env)
			if err != nil {
				t.Fatalf("LoadWith returned error: %v", err)
			}
			err = cfg.ValidateAuth()
			if tc.wantErr != errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("ValidateAuth() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
