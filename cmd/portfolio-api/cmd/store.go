package cmd

import (
	"context"
	"fmt"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
	"github.com/portfolio/backend/internal/core/uow"
	"github.com/portfolio/backend/internal/infrastructure/config"
	mongodb "github.com/portfolio/backend/internal/infrastructure/db/mongo"
	"github.com/portfolio/backend/internal/infrastructure/db/sqldb"
)

// store bundles one backend's repositories and its transaction source.
type store struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	beginner uow.Beginner
	catalog  *domain.RoleCatalog
	pingers  map[string]ports.Pinger
	close    func(ctx context.Context) error

	// newUsers builds the user repository once the catalog is known.
	newUsers func(*domain.RoleCatalog) ports.UserRepository
}

// openStore connects to the backend named by STORE_DRIVER and loads the
// role catalog from it. The schema must already be in place.
func openStore(ctx context.Context, c config.StoreConfig) (*store, error) {
	var (
		s   *store
		err error
	)
	switch c.Driver {
	case config.StoreDriverMongo:
		s, err = openMongoStore(ctx, c.Mongo)
	default:
		s, err = openSQLStore(ctx, c.DatabaseURL)
	}
	if err != nil {
		return nil, err
	}

	roles, err := s.roles.List(ctx, ports.RoleFilter{})
	if err != nil {
		_ = s.close(ctx)
		return nil, fmt.Errorf("load role catalog: %w", err)
	}
	s.catalog, err = domain.NewRoleCatalog(roles...)
	if err != nil {
		_ = s.close(ctx)
		return nil, fmt.Errorf("load role catalog (run %s migrate first?): %w", serviceName, err)
	}
	s.users = s.newUsers(s.catalog)
	return s, nil
}

func openSQLStore(ctx context.Context, dsn string) (*store, error) {
	db, err := sqldb.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("type", string(sqldb.DetectDatabaseType(dsn))).Msg("connected to database")
	return &store{
		roles:    sqldb.NewRoleRepository(db),
		beginner: sqldb.NewBeginner(db),
		pingers:  map[string]ports.Pinger{"database": sqldb.NewPinger(db)},
		close:    func(context.Context) error { return sqldb.Close(db) },
		newUsers: func(*domain.RoleCatalog) ports.UserRepository { return sqldb.NewUserRepository(db) },
	}, nil
}

func openMongoStore(ctx context.Context, c config.MongoConfig) (*store, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: c.URI, Database: c.Database})
	if err != nil {
		return nil, err
	}

	log.Info().Str("database", c.Database).Msg("connected to mongodb")
	return &store{
		roles:    mongodb.NewRoleRepository(db),
		beginner: mongodb.NewBeginner(client),
		pingers:  map[string]ports.Pinger{"mongodb": mongodb.NewPinger(client)},
		close:    client.Disconnect,
		newUsers: func(roles *domain.RoleCatalog) ports.UserRepository {
			return mongodb.NewUserRepository(db, roles)
		},
	}, nil
}
