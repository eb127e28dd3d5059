package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LiabilityType string

const (
	LiabilityTypeCreditCard   LiabilityType = "CREDIT_CARD"
	LiabilityTypeConsumerLoan LiabilityType = "CONSUMER_LOAN"
	LiabilityTypeMortgage     LiabilityType = "MORTGAGE"
	LiabilityTypeStudentLoan  LiabilityType = "STUDENT_LOAN"
)

// ConsumerDebtTypes are the liability types that cap the pace score.
var ConsumerDebtTypes = map[LiabilityType]bool{
	LiabilityTypeCreditCard:   true,
	LiabilityTypeConsumerLoan: true,
}

type Liability struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Type      LiabilityType   `json:"type"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// IsConsumerDebt reports whether the liability counts as consumer debt.
func (l *Liability) IsConsumerDebt() bool {
	return ConsumerDebtTypes[l.Type]
}

type LiabilityRepository interface {
	Create(liability *Liability) (*Liability, error)
	GetAllByUser(userID uuid.UUID) ([]*Liability, error)
}
