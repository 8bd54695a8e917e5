package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

type mongoRole struct {
	ID       int64  `bson:"_id"`
	Priority int    `bson:"priority"`
	Name     string `bson:"name"`
}

func (m mongoRole) toDomain() domain.Role {
	return domain.Role{ID: m.ID, Priority: m.Priority, Name: m.Name}
}

func (r *RoleRepository) List(ctx context.Context, filter ports.RoleFilter) ([]domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.Name != "" {
		q["name"] = filter.Name
	}
	if filter.Priority != 0 {
		q["priority"] = filter.Priority
	}

	cur, err := r.coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "priority", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	roles := make([]domain.Role, 0, len(docs))
	for _, d := range docs {
		roles = append(roles, d.toDomain())
	}
	return roles, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Role{}, domain.NotFound("Role with id #%d not found", id)
		}
		return domain.Role{}, fmt.Errorf("find role: %w", err)
	}
	return m.toDomain(), nil
}
