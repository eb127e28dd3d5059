package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalType string

const (
	GoalTypeSave   GoalType = "SAVE"
	GoalTypeInvest GoalType = "INVEST"
	GoalTypePayoff GoalType = "PAYOFF"
)

type Plan struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	HurdleRatePc decimal.Decimal `json:"hurdleRatePc"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Goal struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"userId"`
	PlanID       *uuid.UUID       `json:"planId,omitempty"`
	Type         GoalType         `json:"type"`
	Title        string           `json:"title"`
	TargetAmount decimal.Decimal  `json:"targetAmount"`
	TargetDate   *time.Time       `json:"targetDate,omitempty"`
	MonthlyNeed  *decimal.Decimal `json:"monthlyNeed,omitempty"`
	IsActive     bool             `json:"isActive"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type PlanRepository interface {
	Create(plan *Plan) (*Plan, error)
	GetFirstByUser(userID uuid.UUID) (*Plan, error)
}

type GoalRepository interface {
	Create(goal *Goal) (*Goal, error)
	// GetActive returns the earliest-created active goal, or ErrGoalNotFound.
	GetActive(userID uuid.UUID) (*Goal, error)
	GetAllByUser(userID uuid.UUID) ([]*Goal, error)
}
