package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/util"
	"github.com/shopspring/decimal"
)

// PlanService implements the plan wizard: one call creates the plan, its
// first active goal, and the baseline-cost setting the KPI engine reads.
type PlanService struct {
	planRepo    domain.PlanRepository
	goalRepo    domain.GoalRepository
	settingRepo domain.SettingRepository
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo domain.PlanRepository, goalRepo domain.GoalRepository, settingRepo domain.SettingRepository) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		goalRepo:    goalRepo,
		settingRepo: settingRepo,
	}
}

// CreatePlanInput holds the input for the plan wizard
type CreatePlanInput struct {
	Name                string
	Currency            string
	HurdleRatePc        *decimal.Decimal
	GoalType            domain.GoalType
	GoalTitle           string
	GoalTargetAmount    decimal.Decimal
	GoalTargetDate      *time.Time
	MonthlyBaselineCost *decimal.Decimal
}

// CreatePlan runs the wizard. The goal's monthlyNeed is derived from the
// target amount spread over the whole months remaining until the target date;
// with no target date the need is left unset and the goal scores by presence
// alone.
func (s *PlanService) CreatePlan(userID uuid.UUID, input CreatePlanInput) (*domain.Plan, *domain.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, domain.ErrNameRequired
	}
	title := strings.TrimSpace(input.GoalTitle)
	if title == "" {
		return nil, nil, domain.ErrNameRequired
	}
	if !validGoalType(input.GoalType) {
		return nil, nil, domain.ErrInvalidType
	}
	if input.GoalTargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, domain.ErrInvalidAmount
	}

	hurdle := defaultHurdleRatePc
	if input.HurdleRatePc != nil {
		if input.HurdleRatePc.IsNegative() {
			return nil, nil, domain.ErrInvalidAmount
		}
		hurdle = *input.HurdleRatePc
	}

	plan, err := s.planRepo.Create(&domain.Plan{
		UserID:       userID,
		Name:         name,
		Currency:     strings.ToUpper(strings.TrimSpace(input.Currency)),
		HurdleRatePc: hurdle,
	})
	if err != nil {
		return nil, nil, err
	}

	goal, err := s.goalRepo.Create(&domain.Goal{
		UserID:       userID,
		PlanID:       &plan.ID,
		Type:         input.GoalType,
		Title:        title,
		TargetAmount: input.GoalTargetAmount,
		TargetDate:   input.GoalTargetDate,
		MonthlyNeed:  deriveMonthlyNeed(input.GoalTargetAmount, input.GoalTargetDate),
		IsActive:     true,
	})
	if err != nil {
		return nil, nil, err
	}

	if input.MonthlyBaselineCost != nil && input.MonthlyBaselineCost.IsPositive() {
		if _, err := s.settingRepo.Upsert(userID, domain.SettingMonthlyBaselineCost, input.MonthlyBaselineCost.String()); err != nil {
			return nil, nil, err
		}
	}

	return plan, goal, nil
}

// GetPlan returns the user's plan with its goals.
func (s *PlanService) GetPlan(userID uuid.UUID) (*domain.Plan, []*domain.Goal, error) {
	plan, err := s.planRepo.GetFirstByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	goals, err := s.goalRepo.GetAllByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	return plan, goals, nil
}

// deriveMonthlyNeed spreads the target amount over the whole months left
// until the target date, with a one-month floor so near-term goals still get
// a finite need.
func deriveMonthlyNeed(target decimal.Decimal, targetDate *time.Time) *decimal.Decimal {
	if targetDate == nil {
		return nil
	}
	months := util.MonthsUntil(time.Now().UTC(), *targetDate)
	if months < 1 {
		months = 1
	}
	need := target.Div(decimal.NewFromInt(int64(months))).Round(2)
	return &need
}

func validGoalType(t domain.GoalType) bool {
	switch t {
	case domain.GoalTypeSave, domain.GoalTypeInvest, domain.GoalTypePayoff:
		return true
	}
	return false
}
