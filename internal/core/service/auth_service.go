package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

// TokenIssuer signs bearer tokens for a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService implements registration and login on top of a CredentialStore.
type AuthService struct {
	store  ports.CredentialStore
	tokens TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(store ports.CredentialStore, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, log: log}
}

// Register creates the account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	ok, err := s.store.Register(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrUserExists
	}
	return s.issue(username)
}

// Login verifies the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.store.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.log.Debug().Str("username", username).Msg("login rejected")
		return "", domain.ErrInvalidCredentials
	}
	return s.issue(username)
}

func (s *AuthService) issue(username string) (string, error) {
	tkn, err := s.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tkn, nil
}
