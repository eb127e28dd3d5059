package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacedev/pace-backend/internal/domain"
)

// SettingRepository implements domain.SettingRepository using PostgreSQL
type SettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

const settingColumns = `id, user_id, key, value, created_at, updated_at`

// Upsert writes the value for (user, key) in a single conditional insert
func (r *SettingRepository) Upsert(userID uuid.UUID, key, value string) (*domain.Setting, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO settings (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING `+settingColumns,
		uuidToPg(userID), key, value)
	return scanSetting(row)
}

// Get retrieves a setting by key
func (r *SettingRepository) Get(userID uuid.UUID, key string) (*domain.Setting, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+settingColumns+` FROM settings WHERE user_id = $1 AND key = $2`,
		uuidToPg(userID), key)
	return scanSetting(row)
}

// GetAllByUser retrieves all settings for a user
func (r *SettingRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Setting, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+settingColumns+` FROM settings WHERE user_id = $1 ORDER BY key`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*domain.Setting
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

func scanSetting(row pgx.Row) (*domain.Setting, error) {
	var (
		setting   domain.Setting
		id        pgtype.UUID
		userID    pgtype.UUID
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &setting.Key, &setting.Value, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, err
	}
	setting.ID = pgToUUID(id)
	setting.UserID = pgToUUID(userID)
	setting.CreatedAt = createdAt.Time
	setting.UpdatedAt = updatedAt.Time
	return &setting, nil
}
