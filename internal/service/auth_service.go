package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/user-directory/internal/auth"
	"github.com/spec-kit/user-directory/internal/domain"
	"github.com/spec-kit/user-directory/internal/repository"
)

// loginTokenTTLSeconds is the validity window for interactive login
// tokens: four hours. It is a policy constant, not caller input.
const loginTokenTTLSeconds int64 = 14400

// Login failure kinds. The boundary layer maps these to status codes;
// they stay distinct here even though that exposes which of the two
// client-caused failures occurred (kept as the system has always
// behaved; collapsing them is a deployment hardening choice).
var (
	ErrUnknownPrincipal = errors.New("unknown principal")
	ErrBadSecret        = errors.New("invalid password")
)

// AuthService authenticates principals against the credential store and
// mints identity tokens. Read-only: no mutation beyond the store lookup.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Authenticate looks up the credential record by name, verifies the
// secret and on success returns the profile together with a signed
// token valid for four hours.
func (s *AuthService) Authenticate(ctx context.Context, name, secret string) (*domain.UserProfile, string, error) {
	record, err := s.users.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUnknownPrincipal
		}
		return nil, "", fmt.Errorf("lookup principal: %w", err)
	}

	ok, err := auth.VerifyPassword(secret, record.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify secret: %w", err)
	}
	if !ok {
		return nil, "", ErrBadSecret
	}

	profile := record.Profile()
	token, err := s.tokens.Generate(profile, loginTokenTTLSeconds)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return &profile, token, nil
}

// TokenManager exposes the underlying token manager for gate wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
