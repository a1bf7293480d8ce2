package ports

import "context"

// CredentialStore registers accounts and verifies passwords.
type CredentialStore interface {
	// Register reports false, with no side effects, when the username is taken.
	Register(ctx context.Context, username, password string) (bool, error)
	// Verify reports false for unknown usernames and wrong passwords alike.
	Verify(ctx context.Context, username, password string) (bool, error)
}

// AuthService wraps the credential store with token issuance.
type AuthService interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}
