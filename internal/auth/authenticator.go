package auth

import (
	"context"

	"github.com/mmynk/settleup/internal/models"
)

// Authenticator registers and verifies accounts identified by username.
// PasswordAuthenticator is the only implementation.
type Authenticator interface {
	// Register creates an account. It fails with ErrInvalidUsername,
	// ErrWeakPassword or ErrUsernameTaken.
	Register(ctx context.Context, username, credential string) (*models.User, error)

	// Authenticate returns the account matching username and credential.
	// Every failure is reported as ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
