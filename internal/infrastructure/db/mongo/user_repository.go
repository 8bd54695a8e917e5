package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

// UserRepository stores users in MongoDB. Roles are kept as role_id and
// resolved against the catalog.
type UserRepository struct {
	coll  *mongo.Collection
	roles *domain.RoleCatalog
}

func NewUserRepository(db *mongo.Database, roles *domain.RoleCatalog) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), roles: roles}
}

var _ ports.UserRepository = (*UserRepository)(nil)

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	PasswordDigest string             `bson:"password_digest"`
	FirstName      string             `bson:"first_name"`
	LastName       string             `bson:"last_name"`
	Email          string             `bson:"email"`
	RoleID         int64              `bson:"role_id"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Username:       u.Username,
		PasswordDigest: u.PasswordDigest,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		RoleID:         u.Role.ID,
	}
}

func (r *UserRepository) toDomain(mu mongoUser) (*domain.User, error) {
	role, ok := r.roles.ByID(mu.RoleID)
	if !ok {
		return nil, fmt.Errorf("user %q references unknown role id %d", mu.Username, mu.RoleID)
	}
	return &domain.User{
		Username:       mu.Username,
		PasswordDigest: mu.PasswordDigest,
		FirstName:      mu.FirstName,
		LastName:       mu.LastName,
		Email:          mu.Email,
		Role:           role,
	}, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("User with username '%s' not found", username)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return r.toDomain(mu)
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if !r.roles.IsValidRoleID(user.Role.ID) {
		return nil, fmt.Errorf("%w: unknown role id %d", domain.ErrIntegrityConflict, user.Role.ID)
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(insertCtx, toMongoUser(user)); err != nil {
		return nil, fmt.Errorf("insert user: %w", integrity(err))
	}

	// fetch back to resolve the role
	return r.FindByUsername(ctx, user.Username)
}

// List filters by exact field values. An unknown role name matches nothing.
func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	q := bson.M{}
	if filter.FirstName != "" {
		q["first_name"] = filter.FirstName
	}
	if filter.LastName != "" {
		q["last_name"] = filter.LastName
	}
	if filter.Email != "" {
		q["email"] = filter.Email
	}
	if filter.RoleName != "" {
		role, ok := r.roles.ByName(filter.RoleName)
		if !ok {
			return []*domain.User{}, nil
		}
		q["role_id"] = role.ID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		u, err := r.toDomain(d)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, username string, user *domain.User, withRole bool) (*domain.User, error) {
	set := bson.M{
		"username":        user.Username,
		"password_digest": user.PasswordDigest,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"email":           user.Email,
	}
	if withRole {
		if !r.roles.IsValidRoleID(user.Role.ID) {
			return nil, fmt.Errorf("%w: unknown role id %d", domain.ErrIntegrityConflict, user.Role.ID)
		}
		set["role_id"] = user.Role.ID
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(updateCtx, bson.M{"username": username}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", integrity(err))
	}
	if res.MatchedCount == 0 {
		return nil, domain.NotFound("User with username '%s' not found", username)
	}

	return r.FindByUsername(ctx, user.Username)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("delete user: %w", integrity(err))
	}
	if res.DeletedCount == 0 {
		return domain.NotFound("User with username '%s' not found", username)
	}
	return nil
}
