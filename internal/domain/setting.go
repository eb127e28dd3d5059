package domain

import (
	"time"

	"github.com/google/uuid"
)

// SettingMonthlyBaselineCost is the setting key for the user's baseline monthly
// living cost, used by the runway calculation.
const SettingMonthlyBaselineCost = "monthly_baseline_cost"

type Setting struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SettingRepository interface {
	// Upsert writes the value for (userID, key), overwriting any previous value.
	Upsert(userID uuid.UUID, key, value string) (*Setting, error)
	Get(userID uuid.UUID, key string) (*Setting, error)
	GetAllByUser(userID uuid.UUID) ([]*Setting, error)
}
