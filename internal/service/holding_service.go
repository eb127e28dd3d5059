package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// HoldingService handles holding-related business logic
type HoldingService struct {
	holdingRepo domain.HoldingRepository
}

// NewHoldingService creates a new HoldingService
func NewHoldingService(holdingRepo domain.HoldingRepository) *HoldingService {
	return &HoldingService{holdingRepo: holdingRepo}
}

// CreateHoldingInput holds the input for creating a holding
type CreateHoldingInput struct {
	Name       string
	AssetClass domain.AssetClass
	Amount     decimal.Decimal
}

// CreateHolding records a holding. Amounts must be non-negative; a zero
// holding is allowed as a placeholder.
func (s *HoldingService) CreateHolding(userID uuid.UUID, input CreateHoldingInput) (*domain.Holding, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if !validAssetClass(input.AssetClass) {
		return nil, domain.ErrInvalidType
	}
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	return s.holdingRepo.Create(&domain.Holding{
		UserID:     userID,
		Name:       name,
		AssetClass: input.AssetClass,
		Amount:     input.Amount,
	})
}

// GetHoldings lists the user's holdings.
func (s *HoldingService) GetHoldings(userID uuid.UUID) ([]*domain.Holding, error) {
	return s.holdingRepo.GetAllByUser(userID)
}

// CashTotal returns the user's summed CASH holdings.
func (s *HoldingService) CashTotal(userID uuid.UUID) (decimal.Decimal, error) {
	return s.holdingRepo.SumByAssetClass(userID, domain.AssetClassCash)
}

func validAssetClass(c domain.AssetClass) bool {
	switch c {
	case domain.AssetClassCash, domain.AssetClassEquity, domain.AssetClassBond, domain.AssetClassOther:
		return true
	}
	return false
}
