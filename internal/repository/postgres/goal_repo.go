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

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, user_id, plan_id, type, title, target_amount, target_date, monthly_need, is_active, created_at`

// Create inserts a new goal
func (r *GoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	targetAmount, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}

	var monthlyNeed pgtype.Numeric
	if goal.MonthlyNeed != nil {
		monthlyNeed, err = decimalToPgNumeric(*goal.MonthlyNeed)
		if err != nil {
			return nil, fmt.Errorf("invalid monthly need: %w", err)
		}
	}

	var targetDate pgtype.Timestamptz
	if goal.TargetDate != nil {
		targetDate = pgtype.Timestamptz{Time: *goal.TargetDate, Valid: true}
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO goals (user_id, plan_id, type, title, target_amount, target_date, monthly_need, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+goalColumns,
		uuidToPg(goal.UserID), uuidPtrToPg(goal.PlanID), string(goal.Type), goal.Title,
		targetAmount, targetDate, monthlyNeed, goal.IsActive)
	return scanGoal(row)
}

// GetActive returns the earliest-created active goal, ties broken by creation
// order
func (r *GoalRepository) GetActive(userID uuid.UUID) (*domain.Goal, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = $1 AND is_active
		ORDER BY created_at
		LIMIT 1`,
		uuidToPg(userID))
	return scanGoal(row)
}

// GetAllByUser retrieves all goals for a user, oldest first
func (r *GoalRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Goal, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		goal         domain.Goal
		id           pgtype.UUID
		userID       pgtype.UUID
		planID       pgtype.UUID
		goalType     string
		targetAmount pgtype.Numeric
		targetDate   pgtype.Timestamptz
		monthlyNeed  pgtype.Numeric
		createdAt    pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &planID, &goalType, &goal.Title, &targetAmount,
		&targetDate, &monthlyNeed, &goal.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	goal.ID = pgToUUID(id)
	goal.UserID = pgToUUID(userID)
	goal.PlanID = pgToUUIDPtr(planID)
	goal.Type = domain.GoalType(goalType)
	goal.TargetAmount = pgNumericToDecimal(targetAmount)
	if targetDate.Valid {
		goal.TargetDate = &targetDate.Time
	}
	if monthlyNeed.Valid {
		need := pgNumericToDecimal(monthlyNeed)
		goal.MonthlyNeed = &need
	}
	goal.CreatedAt = createdAt.Time
	return &goal, nil
}
