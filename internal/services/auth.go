package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"applicantdesk/internal/domain"
)

type authService struct {
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	passphraseHash string
	tokenExpiry    time.Duration
}

// NewAuthService returns an AuthService that checks the shared organizer
// passphrase against passphraseHash and issues tokens valid for tokenExpiry.
func NewAuthService(hasher domain.PasswordHasher, issuer domain.TokenIssuer, passphraseHash string, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		hasher:         hasher,
		issuer:         issuer,
		passphraseHash: passphraseHash,
		tokenExpiry:    tokenExpiry,
	}
}

func (s *authService) Login(ctx context.Context, organizer, passphrase string) (string, error) {
	organizer = strings.TrimSpace(organizer)
	if organizer == "" {
		return "", fmt.Errorf("%w: organizer name is required", domain.ErrInvalidInput)
	}
	if s.passphraseHash == "" {
		return "", fmt.Errorf("organizer passphrase is not configured")
	}
	if err := s.hasher.Compare(s.passphraseHash, passphrase); err != nil {
		return "", domain.ErrUnauthorized
	}
	token, err := s.issuer.Issue(organizer, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
