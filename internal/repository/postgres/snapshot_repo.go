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

// KpiSnapshotRepository implements domain.KpiSnapshotRepository using PostgreSQL
type KpiSnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewKpiSnapshotRepository creates a new KpiSnapshotRepository
func NewKpiSnapshotRepository(pool *pgxpool.Pool) *KpiSnapshotRepository {
	return &KpiSnapshotRepository{pool: pool}
}

const snapshotColumns = `id, user_id, year, month, income, expenses, savings, savings_rate_pc, runway_months, pace_score, created_at, updated_at`

// GetByPeriod retrieves the snapshot for (user, year, month)
func (r *KpiSnapshotRepository) GetByPeriod(userID uuid.UUID, year, month int) (*domain.KpiSnapshot, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+snapshotColumns+` FROM kpi_snapshots WHERE user_id = $1 AND year = $2 AND month = $3`,
		uuidToPg(userID), int32(year), int32(month))
	return scanSnapshot(row)
}

// Upsert writes the snapshot for (user, year, month) as a single conditional
// insert. Concurrent writers for the same period cannot lose updates: the
// last statement to commit wins the whole row.
func (r *KpiSnapshotRepository) Upsert(snapshot *domain.KpiSnapshot) (*domain.KpiSnapshot, error) {
	income, err := decimalToPgNumeric(snapshot.Income)
	if err != nil {
		return nil, fmt.Errorf("invalid income: %w", err)
	}
	expenses, err := decimalToPgNumeric(snapshot.Expenses)
	if err != nil {
		return nil, fmt.Errorf("invalid expenses: %w", err)
	}
	savings, err := decimalToPgNumeric(snapshot.Savings)
	if err != nil {
		return nil, fmt.Errorf("invalid savings: %w", err)
	}
	runway, err := decimalToPgNumeric(snapshot.RunwayMonths)
	if err != nil {
		return nil, fmt.Errorf("invalid runway: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO kpi_snapshots (user_id, year, month, income, expenses, savings, savings_rate_pc, runway_months, pace_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, year, month)
		DO UPDATE SET
			income = EXCLUDED.income,
			expenses = EXCLUDED.expenses,
			savings = EXCLUDED.savings,
			savings_rate_pc = EXCLUDED.savings_rate_pc,
			runway_months = EXCLUDED.runway_months,
			pace_score = EXCLUDED.pace_score,
			updated_at = now()
		RETURNING `+snapshotColumns,
		uuidToPg(snapshot.UserID), int32(snapshot.Year), int32(snapshot.Month),
		income, expenses, savings, int32(snapshot.SavingsRatePc), runway,
		int32(snapshot.PaceScore))
	return scanSnapshot(row)
}

func scanSnapshot(row pgx.Row) (*domain.KpiSnapshot, error) {
	var (
		snapshot      domain.KpiSnapshot
		id            pgtype.UUID
		userID        pgtype.UUID
		year          int32
		month         int32
		income        pgtype.Numeric
		expenses      pgtype.Numeric
		savings       pgtype.Numeric
		savingsRatePc int32
		runway        pgtype.Numeric
		paceScore     int32
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &year, &month, &income, &expenses, &savings,
		&savingsRatePc, &runway, &paceScore, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}
	snapshot.ID = pgToUUID(id)
	snapshot.UserID = pgToUUID(userID)
	snapshot.Year = int(year)
	snapshot.Month = int(month)
	snapshot.Income = pgNumericToDecimal(income)
	snapshot.Expenses = pgNumericToDecimal(expenses)
	snapshot.Savings = pgNumericToDecimal(savings)
	snapshot.SavingsRatePc = int(savingsRatePc)
	snapshot.RunwayMonths = pgNumericToDecimal(runway)
	snapshot.PaceScore = int(paceScore)
	snapshot.CreatedAt = createdAt.Time
	snapshot.UpdatedAt = updatedAt.Time
	return &snapshot, nil
}
