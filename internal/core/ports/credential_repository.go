package ports

import (
	"context"

	"github.com/imagegallery/gallery/internal/core/domain"
)

// CredentialRepository persists login records keyed by username.
type CredentialRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Credential, error)
	// Create inserts a new record and returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, cred *domain.Credential) error
	Delete(ctx context.Context, username string) error
}

// UserRepository persists public user profiles.
type UserRepository interface {
	// Ensure creates the profile if it does not already exist.
	Ensure(ctx context.Context, user domain.User) error
	// FindByUsernames resolves a set of usernames in a single lookup. Unknown
	// usernames are simply absent from the result.
	FindByUsernames(ctx context.Context, usernames []string) ([]domain.User, error)
}
