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
	"github.com/shopspring/decimal"
)

// HoldingRepository implements domain.HoldingRepository using PostgreSQL
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

const holdingColumns = `id, user_id, asset_class, name, amount, created_at`

// Create inserts a new holding
func (r *HoldingRepository) Create(holding *domain.Holding) (*domain.Holding, error) {
	amount, err := decimalToPgNumeric(holding.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO holdings (user_id, asset_class, name, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING `+holdingColumns,
		uuidToPg(holding.UserID), string(holding.AssetClass), holding.Name, amount)
	return scanHolding(row)
}

// GetAllByUser retrieves all holdings for a user
func (r *HoldingRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Holding, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+holdingColumns+` FROM holdings WHERE user_id = $1 ORDER BY created_at`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}
	return holdings, rows.Err()
}

// SumByAssetClass sums holding amounts of the given asset class in SQL
func (r *HoldingRepository) SumByAssetClass(userID uuid.UUID, class domain.AssetClass) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := r.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(amount), 0)
		FROM holdings
		WHERE user_id = $1 AND asset_class = $2`,
		uuidToPg(userID), string(class)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

func scanHolding(row pgx.Row) (*domain.Holding, error) {
	var (
		holding    domain.Holding
		id         pgtype.UUID
		userID     pgtype.UUID
		assetClass string
		amount     pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &assetClass, &holding.Name, &amount, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	holding.ID = pgToUUID(id)
	holding.UserID = pgToUUID(userID)
	holding.AssetClass = domain.AssetClass(assetClass)
	holding.Amount = pgNumericToDecimal(amount)
	holding.CreatedAt = createdAt.Time
	return &holding, nil
}
