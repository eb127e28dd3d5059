package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacedev/pace-backend/internal/domain"
)

// AuthTokenRepository implements domain.AuthTokenRepository using PostgreSQL
type AuthTokenRepository struct {
	pool *pgxpool.Pool
}

// NewAuthTokenRepository creates a new AuthTokenRepository
func NewAuthTokenRepository(pool *pgxpool.Pool) *AuthTokenRepository {
	return &AuthTokenRepository{pool: pool}
}

// Create persists a new single-use token
func (r *AuthTokenRepository) Create(token *domain.AuthToken) (*domain.AuthToken, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO auth_tokens (token, user_id, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING token, user_id, purpose, expires_at, created_at`,
		token.Token, uuidToPg(token.UserID), string(token.Purpose), token.ExpiresAt)
	return scanAuthToken(row)
}

// Consume deletes and returns a non-expired token in a single statement, so a
// token can never be redeemed twice.
func (r *AuthTokenRepository) Consume(token string, purpose domain.TokenPurpose, now time.Time) (*domain.AuthToken, error) {
	row := r.pool.QueryRow(context.Background(), `
		DELETE FROM auth_tokens
		WHERE token = $1 AND purpose = $2 AND expires_at > $3
		RETURNING token, user_id, purpose, expires_at, created_at`,
		token, string(purpose), now)
	return scanAuthToken(row)
}

// DeleteAllForUser removes all tokens of a purpose for a user (e.g. before
// issuing a fresh password-reset token).
func (r *AuthTokenRepository) DeleteAllForUser(userID uuid.UUID, purpose domain.TokenPurpose) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM auth_tokens WHERE user_id = $1 AND purpose = $2`,
		uuidToPg(userID), string(purpose))
	return err
}

func scanAuthToken(row pgx.Row) (*domain.AuthToken, error) {
	var (
		token     domain.AuthToken
		userID    pgtype.UUID
		purpose   string
		expiresAt pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)
	err := row.Scan(&token.Token, &userID, &purpose, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	token.UserID = pgToUUID(userID)
	token.Purpose = domain.TokenPurpose(purpose)
	token.ExpiresAt = expiresAt.Time
	token.CreatedAt = createdAt.Time
	return &token, nil
}
