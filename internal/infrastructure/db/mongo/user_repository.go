package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imagegallery/gallery/internal/core/domain"
)

// UserRepository stores public profiles, one per username.
type UserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(db *mongo.Database, collection string, timeout time.Duration) *UserRepository {
	return &UserRepository{coll: db.Collection(collection), timeout: timeout}
}

type mongoUser struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`
}

// Ensure inserts the profile unless one already exists. Profiles are never
// mutated, so an existing document is left as is.
func (r *UserRepository) Ensure(ctx context.Context, user domain.User) error {
	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$setOnInsert": mongoUser{ID: user.ID, Username: user.Username}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// FindByUsernames resolves all profiles whose username is in usernames with a
// single $in query.
func (r *UserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]domain.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"username": bson.M{"$in": usernames}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, domain.User{ID: d.ID, Username: d.Username})
	}
	return users, nil
}

// EnsureIndexes indexes username for the batch author lookup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
	})
	return err
}
