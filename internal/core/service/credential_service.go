package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// CredentialService is the credential store: it registers accounts with a
// bcrypt hash and verifies passwords against it.
type CredentialService struct {
	creds ports.CredentialRepository
	users ports.UserRepository
	cost  int
	log   zerolog.Logger

	// decoyHash is compared against when the username is unknown so that a
	// miss costs the same as a wrong password.
	decoyHash []byte
}

func NewCredentialService(creds ports.CredentialRepository, users ports.UserRepository, cost int, log zerolog.Logger) *CredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	decoy, err := bcrypt.GenerateFromPassword([]byte("gallery-decoy-password"), cost)
	if err != nil {
		log.Warn().Err(err).Msg("failed to build decoy hash")
	}
	return &CredentialService{
		creds:     creds,
		users:     users,
		cost:      cost,
		log:       log,
		decoyHash: decoy,
	}
}

// Register creates the credential and the matching public profile. It returns
// false without side effects when the username is already taken. If the
// profile cannot be written the credential is removed again.
func (s *CredentialService) Register(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, domain.ErrMissingCredentials
	}
	if len(password) > maxPasswordBytes {
		return false, domain.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("register: hash password: %w", err)
	}

	err = s.creds.Create(ctx, &domain.Credential{
		ID:           username,
		Username:     username,
		PasswordHash: string(hash),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("register: create credential: %w", err)
	}

	if err := s.users.Ensure(ctx, domain.User{ID: username, Username: username}); err != nil {
		if delErr := s.creds.Delete(ctx, username); delErr != nil {
			s.log.Error().Err(delErr).Str("username", username).Msg("failed to roll back credential")
		}
		return false, fmt.Errorf("register: create profile: %w", err)
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return true, nil
}

// Verify checks password against the stored hash. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	cred, err := s.creds.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		if s.decoyHash != nil {
			_ = bcrypt.CompareHashAndPassword(s.decoyHash, []byte(password))
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}

	return bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil, nil
}
