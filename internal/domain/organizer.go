package domain

import (
	"context"
	"time"
)

// PasswordHasher verifies a plaintext secret against a stored hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues bearer tokens for an authenticated organizer.
type TokenIssuer interface {
	Issue(organizer string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the organizer it was issued to.
type TokenVerifier interface {
	Verify(token string) (organizer string, err error)
}

// AuthService authenticates organizers with the shared passphrase.
type AuthService interface {
	Login(ctx context.Context, organizer, passphrase string) (token string, err error)
}
