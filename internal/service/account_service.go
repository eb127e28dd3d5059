package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountService handles account-related business logic
type AccountService struct {
	accountRepo domain.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name     string
	Currency string
	Balance  decimal.Decimal
}

// CreateAccount creates an account. Names are unique per user.
func (s *AccountService) CreateAccount(userID uuid.UUID, input CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxAccountNameLength {
		return nil, domain.ErrNameTooLong
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, domain.ErrInvalidInput
	}

	return s.accountRepo.Create(&domain.Account{
		UserID:   userID,
		Name:     name,
		Currency: currency,
		Balance:  input.Balance,
	})
}

// GetAccount returns one account owned by the user.
func (s *AccountService) GetAccount(userID, id uuid.UUID) (*domain.Account, error) {
	return s.accountRepo.GetByID(userID, id)
}

// GetAccounts lists the user's accounts.
func (s *AccountService) GetAccounts(userID uuid.UUID) ([]*domain.Account, error) {
	return s.accountRepo.GetAllByUser(userID)
}
