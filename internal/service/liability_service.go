package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// LiabilityService handles liability-related business logic
type LiabilityService struct {
	liabilityRepo domain.LiabilityRepository
}

// NewLiabilityService creates a new LiabilityService
func NewLiabilityService(liabilityRepo domain.LiabilityRepository) *LiabilityService {
	return &LiabilityService{liabilityRepo: liabilityRepo}
}

// CreateLiabilityInput holds the input for creating a liability
type CreateLiabilityInput struct {
	Name    string
	Type    domain.LiabilityType
	Balance decimal.Decimal
}

// CreateLiability records a liability.
func (s *LiabilityService) CreateLiability(userID uuid.UUID, input CreateLiabilityInput) (*domain.Liability, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if !validLiabilityType(input.Type) {
		return nil, domain.ErrInvalidType
	}
	if input.Balance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	return s.liabilityRepo.Create(&domain.Liability{
		UserID:  userID,
		Name:    name,
		Type:    input.Type,
		Balance: input.Balance,
	})
}

// GetLiabilities lists the user's liabilities.
func (s *LiabilityService) GetLiabilities(userID uuid.UUID) ([]*domain.Liability, error) {
	return s.liabilityRepo.GetAllByUser(userID)
}

// HasConsumerDebt reports whether any liability caps the pace score.
func (s *LiabilityService) HasConsumerDebt(userID uuid.UUID) (bool, error) {
	liabilities, err := s.liabilityRepo.GetAllByUser(userID)
	if err != nil {
		return false, err
	}
	for _, l := range liabilities {
		if l.IsConsumerDebt() {
			return true, nil
		}
	}
	return false, nil
}

func validLiabilityType(t domain.LiabilityType) bool {
	switch t {
	case domain.LiabilityTypeCreditCard, domain.LiabilityTypeConsumerLoan, domain.LiabilityTypeMortgage, domain.LiabilityTypeStudentLoan:
		return true
	}
	return false
}
