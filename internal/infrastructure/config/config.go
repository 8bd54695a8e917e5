package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/portfolio/backend/internal/core/domain"
)

const (
	StoreDriverSQL   = "sql"
	StoreDriverMongo = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Password PasswordConfig
	Store    StoreConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=60m"`
}

type PasswordConfig struct {
	Scheme     string `env:"PASSWORD_SCHEME,     default=sha256"`
	Pepper     string `env:"PASSWORD_PEPPER"`
	Iterations int    `env:"PASSWORD_ITERATIONS, default=210000"`
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=sql"`
	DatabaseURL string `env:"DATABASE_URL, default=file:portfolio.db?_pragma=foreign_keys(1)"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=portfolio"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l and validates it. Every failure
// matches domain.ErrConfiguration.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Password.Scheme {
	case "sha256":
	case "pbkdf2":
		if c.Password.Pepper == "" {
			return fmt.Errorf("%w: PASSWORD_PEPPER is required for pbkdf2", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown PASSWORD_SCHEME %q", domain.ErrConfiguration, c.Password.Scheme)
	}

	switch c.Store.Driver {
	case StoreDriverSQL:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required", domain.ErrConfiguration)
		}
	case StoreDriverMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" {
			return fmt.Errorf("%w: MONGO_URI and MONGO_DB are required", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", domain.ErrConfiguration, c.Store.Driver)
	}
	return nil
}

// ValidateAuth checks the token settings. Only serving needs them, so Load
// leaves them to the serve command.
func (c *Config) ValidateAuth() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", domain.ErrConfiguration)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: TOKEN_TTL must be positive", domain.ErrConfiguration)
	}
	return nil
}
