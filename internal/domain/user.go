package domain

import (
	"context"
	"time"
)

// User is a directory record. The directory is read-only here apart from
// login; user management lives in another service.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role represents an application role (e.g. admin, attendee).
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// UserRepository resolves user identifiers against the directory.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// RoleRepository lists roles assigned to a user, used for token claims.
type RoleRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier validates a bearer token and returns the subject user ID
// and the role claims it carries.
type TokenVerifier interface {
	Verify(token string) (userID string, roles []string, err error)
}

// AuthService authenticates directory users and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}
