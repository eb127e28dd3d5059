package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Session is an opaque bearer token bound to a user with an absolute expiry.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// TokenPurpose distinguishes single-use auth tokens sent by mail.
type TokenPurpose string

const (
	TokenPurposeVerifyEmail   TokenPurpose = "verify_email"
	TokenPurposePasswordReset TokenPurpose = "password_reset"
)

// AuthToken is a single-use token for email verification or password reset.
type AuthToken struct {
	Token     string       `json:"token"`
	UserID    uuid.UUID    `json:"userId"`
	Purpose   TokenPurpose `json:"purpose"`
	ExpiresAt time.Time    `json:"expiresAt"`
	CreatedAt time.Time    `json:"createdAt"`
}

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id uuid.UUID) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByUsername(username string) (*User, error)
	MarkEmailVerified(id uuid.UUID) error
	UpdatePasswordHash(id uuid.UUID, hash string) error
}

type SessionRepository interface {
	Create(session *Session) (*Session, error)
	// GetValid returns the session only if it has not expired.
	GetValid(token string, now time.Time) (*Session, error)
	Revoke(token string) error
	RevokeAllForUser(userID uuid.UUID) error
}

type AuthTokenRepository interface {
	Create(token *AuthToken) (*AuthToken, error)
	// Consume atomically deletes and returns a non-expired token.
	Consume(token string, purpose TokenPurpose, now time.Time) (*AuthToken, error)
	DeleteAllForUser(userID uuid.UUID, purpose TokenPurpose) error
}
