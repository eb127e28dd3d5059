package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacedev/pace-backend/internal/domain"
)

// LiabilityRepository implements domain.LiabilityRepository using PostgreSQL
type LiabilityRepository struct {
	pool *pgxpool.Pool
}

// NewLiabilityRepository creates a new LiabilityRepository
func NewLiabilityRepository(pool *pgxpool.Pool) *LiabilityRepository {
	return &LiabilityRepository{pool: pool}
}

const liabilityColumns = `id, user_id, type, name, balance, created_at`

// Create inserts a new liability
func (r *LiabilityRepository) Create(liability *domain.Liability) (*domain.Liability, error) {
	balance, err := decimalToPgNumeric(liability.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO liabilities (user_id, type, name, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING `+liabilityColumns,
		uuidToPg(liability.UserID), string(liability.Type), liability.Name, balance)
	return scanLiability(row)
}

// GetAllByUser retrieves all liabilities for a user
func (r *LiabilityRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Liability, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+liabilityColumns+` FROM liabilities WHERE user_id = $1 ORDER BY created_at`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var liabilities []*domain.Liability
	for rows.Next() {
		liability, err := scanLiability(rows)
		if err != nil {
			return nil, err
		}
		liabilities = append(liabilities, liability)
	}
	return liabilities, rows.Err()
}

func scanLiability(row pgx.Row) (*domain.Liability, error) {
	var (
		liability domain.Liability
		id        pgtype.UUID
		userID    pgtype.UUID
		lType     string
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &lType, &liability.Name, &balance, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	liability.ID = pgToUUID(id)
	liability.UserID = pgToUUID(userID)
	liability.Type = domain.LiabilityType(lType)
	liability.Balance = pgNumericToDecimal(balance)
	liability.CreatedAt = createdAt.Time
	return &liability, nil
}
