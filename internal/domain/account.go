package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type AccountRepository interface {
	// Create returns ErrAlreadyExists when (userID, name) is already taken.
	Create(account *Account) (*Account, error)
	GetByID(userID, id uuid.UUID) (*Account, error)
	GetByName(userID uuid.UUID, name string) (*Account, error)
	GetAllByUser(userID uuid.UUID) ([]*Account, error)
}
