// Package auth provides account registration, credential verification and
// session tokens over the document store.
package auth

import (
	"context"

	"gatherly/internal/models"
)

// Authenticator abstracts the credential scheme so other methods (OAuth,
// passkeys) can slot in without touching the API layer.
type Authenticator interface {
	// Register creates an account for the email with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the user on success.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the scheme's policy.
	ValidateCredential(credential string) error
}
