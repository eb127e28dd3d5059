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

// SessionRepository implements domain.SessionRepository using PostgreSQL
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create persists a new session
func (r *SessionRepository) Create(session *domain.Session) (*domain.Session, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING token, user_id, expires_at, created_at`,
		session.Token, uuidToPg(session.UserID), session.ExpiresAt)
	return scanSession(row)
}

// GetValid returns the session only if it has not expired
func (r *SessionRepository) GetValid(token string, now time.Time) (*domain.Session, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > $2`,
		token, now)
	return scanSession(row)
}

// Revoke deletes a session by token. Revoking an unknown token is a no-op.
func (r *SessionRepository) Revoke(token string) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// RevokeAllForUser deletes every session belonging to a user
func (r *SessionRepository) RevokeAllForUser(userID uuid.UUID) error {
	_, err := r.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE user_id = $1`, uuidToPg(userID))
	return err
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		session   domain.Session
		userID    pgtype.UUID
		expiresAt pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)
	err := row.Scan(&session.Token, &userID, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	session.UserID = pgToUUID(userID)
	session.ExpiresAt = expiresAt.Time
	session.CreatedAt = createdAt.Time
	return &session, nil
}
