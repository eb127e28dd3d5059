package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetClass string

const (
	AssetClassCash   AssetClass = "CASH"
	AssetClassEquity AssetClass = "EQUITY"
	AssetClassBond   AssetClass = "BOND"
	AssetClassOther  AssetClass = "OTHER"
)

type Holding struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	AssetClass AssetClass      `json:"assetClass"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type HoldingRepository interface {
	Create(holding *Holding) (*Holding, error)
	GetAllByUser(userID uuid.UUID) ([]*Holding, error)
	// SumByAssetClass returns the total amount held in the given asset class,
	// zero when the user has no such holdings.
	SumByAssetClass(userID uuid.UUID, class AssetClass) (decimal.Decimal, error)
}
