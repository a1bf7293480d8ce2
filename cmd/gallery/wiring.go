package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imagegallery/gallery/internal/core/ports"
	"github.com/imagegallery/gallery/internal/core/service"
	"github.com/imagegallery/gallery/internal/infrastructure/config"
	mongostore "github.com/imagegallery/gallery/internal/infrastructure/db/mongo"
	"github.com/imagegallery/gallery/internal/pkg/token"
)

// repositories groups the Mongo-backed repositories for one database.
type repositories struct {
	creds  *mongostore.CredentialRepository
	users  *mongostore.UserRepository
	images *mongostore.ImageRepository
}

func newRepositories(db *mongo.Database, cfg config.MongoConfig) repositories {
	return repositories{
		creds:  mongostore.NewCredentialRepository(db, cfg.CredsCollection, cfg.Timeout),
		users:  mongostore.NewUserRepository(db, cfg.UsersCollection, cfg.Timeout),
		images: mongostore.NewImageRepository(db, cfg.ImagesCollection, cfg.Timeout),
	}
}

func (r repositories) ensureIndexes(ctx context.Context) error {
	if err := r.images.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("images indexes: %w", err)
	}
	if err := r.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

// buildServices assembles the store-backed service bundle handed to the API
// once the database is reachable. reserver may be nil.
func buildServices(
	repos repositories,
	cfg *config.Config,
	tokens *token.Issuer,
	objects ports.ObjectStore,
	reserver ports.NameReserver,
	log zerolog.Logger,
) *ports.Services {
	creds := service.NewCredentialService(repos.creds, repos.users, cfg.BcryptCost, log.With().Str("component", "credentials").Logger())
	images := service.NewImageService(repos.images, repos.users, log.With().Str("component", "images").Logger())

	return &ports.Services{
		Auth:    service.NewAuthService(creds, tokens, log.With().Str("component", "auth").Logger()),
		Images:  images,
		Uploads: service.NewUploadService(objects, images, reserver, log.With().Str("component", "uploads").Logger()),
	}
}
