package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	AccountID  uuid.UUID       `json:"accountId"`
	CategoryID *uuid.UUID      `json:"categoryId,omitempty"`
	Type       TransactionType `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurredAt"`
	Note       *string         `json:"note,omitempty"`
	ReceiptKey *string         `json:"receiptKey,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID, id uuid.UUID) (*Transaction, error)
	// GetByUserAndWindow returns transactions with occurredAt in [start, end),
	// newest first.
	GetByUserAndWindow(userID uuid.UUID, start, end time.Time) ([]*Transaction, error)
	// SumByTypeAndWindow sums amounts of the given type with occurredAt in
	// [start, end). Returns zero when nothing matches.
	SumByTypeAndWindow(userID uuid.UUID, txType TransactionType, start, end time.Time) (decimal.Decimal, error)
	SetReceiptKey(userID, id uuid.UUID, key string) error
}
