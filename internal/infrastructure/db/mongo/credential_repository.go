package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imagegallery/gallery/internal/core/domain"
)

// CredentialRepository stores login records keyed by username. The unique
// _id makes a concurrent second registration fail with a duplicate key.
type CredentialRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewCredentialRepository(db *mongo.Database, collection string, timeout time.Duration) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(collection), timeout: timeout}
}

type mongoCredential struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`
	Password string `bson:"password"`
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoCredential{
		ID:       cred.Username,
		Username: cred.Username,
		Password: cred.PasswordHash,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	cred.ID = doc.ID
	return nil
}

func (r *CredentialRepository) FindByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	var mc mongoCredential
	if err := r.coll.FindOne(ctx, bson.M{"_id": username}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}

	return &domain.Credential{
		ID:           mc.ID,
		Username:     mc.Username,
		PasswordHash: mc.Password,
	}, nil
}

func (r *CredentialRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := opTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": username}); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
