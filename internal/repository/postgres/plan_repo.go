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

// PlanRepository implements domain.PlanRepository using PostgreSQL
type PlanRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

const planColumns = `id, user_id, name, currency, hurdle_rate_pc, created_at`

// Create inserts a new plan
func (r *PlanRepository) Create(plan *domain.Plan) (*domain.Plan, error) {
	hurdleRate, err := decimalToPgNumeric(plan.HurdleRatePc)
	if err != nil {
		return nil, fmt.Errorf("invalid hurdle rate: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO plans (user_id, name, currency, hurdle_rate_pc)
		VALUES ($1, $2, $3, $4)
		RETURNING `+planColumns,
		uuidToPg(plan.UserID), plan.Name, plan.Currency, hurdleRate)
	return scanPlan(row)
}

// GetFirstByUser retrieves the user's earliest-created plan
func (r *PlanRepository) GetFirstByUser(userID uuid.UUID) (*domain.Plan, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+planColumns+` FROM plans WHERE user_id = $1 ORDER BY created_at LIMIT 1`,
		uuidToPg(userID))
	return scanPlan(row)
}

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	var (
		plan       domain.Plan
		id         pgtype.UUID
		userID     pgtype.UUID
		hurdleRate pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &plan.Name, &plan.Currency, &hurdleRate, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	plan.ID = pgToUUID(id)
	plan.UserID = pgToUUID(userID)
	plan.HurdleRatePc = pgNumericToDecimal(hurdleRate)
	plan.CreatedAt = createdAt.Time
	return &plan, nil
}
