package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/portfolio/backend/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	usersCollection = "users"
	rolesCollection = "roles"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureSchema creates the unique indexes of the users collection and
// upserts the role catalog. Safe to run on every start.
func EnsureSchema(ctx context.Context, db *mongo.Database, roles *domain.RoleCatalog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	coll := db.Collection(rolesCollection)
	for _, r := range roles.Roles() {
		_, err := coll.UpdateOne(ctx,
			bson.M{"_id": r.ID},
			bson.M{"$set": bson.M{"priority": r.Priority, "name": r.Name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", r.Name, err)
		}
	}
	return nil
}

// Pinger reports MongoDB reachability for readiness checks.
type Pinger struct {
	client *mongo.Client
}

func NewPinger(client *mongo.Client) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// integrity marks duplicate-key and transaction write-conflict errors as
// integrity conflicts. A duplicate key names the offending field through the
// index reported by the server.
func integrity(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return &domain.ConstraintError{Field: domain.ConstraintField(duplicateIndex(err)), Err: err}
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorLabel("TransientTransactionError") {
		return &domain.ConstraintError{Err: err}
	}
	return err
}

// duplicateIndex extracts the index name from an E11000 message such as
// "E11000 duplicate key error collection: db.users index: email_1 dup key: ...".
// Only the index token is returned so key values never influence the field.
func duplicateIndex(err error) string {
	_, rest, ok := strings.Cut(err.Error(), "index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return name
}
