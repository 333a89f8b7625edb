package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventticketing/internal/domain"
)

// ErrInvalidCredentials is returned for any login failure so callers cannot
// distinguish unknown emails from wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

type authService struct {
	userRepo domain.UserRepository
	roleRepo domain.RoleRepository
	hasher   domain.PasswordHasher
	issuer   domain.TokenIssuer
	tokenTTL time.Duration
}

// NewAuthService creates an AuthService backed by the user directory.
func NewAuthService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	tokenTTL time.Duration,
) domain.AuthService {
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		hasher:   hasher,
		issuer:   issuer,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", ErrInvalidCredentials
	}

	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", err)
	}
	roleCodes := make([]string, len(roles))
	for i, r := range roles {
		roleCodes[i] = r.Code
	}

	token, err := s.issuer.Issue(user.ID, user.Email, roleCodes, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
