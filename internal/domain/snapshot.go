package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KpiSnapshot is a persisted pace-score computation for one (user, year, month).
type KpiSnapshot struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	Savings       decimal.Decimal `json:"savings"`
	SavingsRatePc int             `json:"savingsRatePc"`
	RunwayMonths  decimal.Decimal `json:"runwayMonths"`
	PaceScore     int             `json:"paceScore"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type KpiSnapshotRepository interface {
	GetByPeriod(userID uuid.UUID, year, month int) (*KpiSnapshot, error)
	// Upsert writes the snapshot for (userID, year, month) as a single
	// conditional insert, overwriting any existing row for the period.
	Upsert(snapshot *KpiSnapshot) (*KpiSnapshot, error)
}
