package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/middleware"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PlanHandler handles plan wizard HTTP requests
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlanRequest represents the plan wizard request body
type CreatePlanRequest struct {
	Name                string  `json:"name"`
	Currency            string  `json:"currency"`
	HurdleRatePc        *string `json:"hurdleRatePc,omitempty"`
	GoalType            string  `json:"goalType"`
	GoalTitle           string  `json:"goalTitle"`
	GoalTargetAmount    string  `json:"goalTargetAmount"`
	GoalTargetDate      *string `json:"goalTargetDate,omitempty"`
	MonthlyBaselineCost *string `json:"monthlyBaselineCost,omitempty"`
}

// PlanResponse represents a plan with its goals in API responses
type PlanResponse struct {
	Plan  *domain.Plan   `json:"plan"`
	Goals []*domain.Goal `json:"goals"`
}

// CreatePlan runs the plan wizard
func (h *PlanHandler) CreatePlan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreatePlanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetAmount, err := decimal.NewFromString(req.GoalTargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid goalTargetAmount", []ValidationError{
			{Field: "goalTargetAmount", Message: "Must be a valid decimal number"},
		})
	}

	var hurdle *decimal.Decimal
	if req.HurdleRatePc != nil && *req.HurdleRatePc != "" {
		parsed, err := decimal.NewFromString(*req.HurdleRatePc)
		if err != nil {
			return NewValidationError(c, "Invalid hurdleRatePc", []ValidationError{
				{Field: "hurdleRatePc", Message: "Must be a valid decimal number"},
			})
		}
		hurdle = &parsed
	}

	var targetDate *time.Time
	if req.GoalTargetDate != nil && *req.GoalTargetDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.GoalTargetDate)
		if err != nil {
			return NewValidationError(c, "Invalid goalTargetDate", []ValidationError{
				{Field: "goalTargetDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		targetDate = &parsed
	}

	var baselineCost *decimal.Decimal
	if req.MonthlyBaselineCost != nil && *req.MonthlyBaselineCost != "" {
		parsed, err := decimal.NewFromString(*req.MonthlyBaselineCost)
		if err != nil {
			return NewValidationError(c, "Invalid monthlyBaselineCost", []ValidationError{
				{Field: "monthlyBaselineCost", Message: "Must be a valid decimal number"},
			})
		}
		baselineCost = &parsed
	}

	plan, goal, err := h.planService.CreatePlan(userID, service.CreatePlanInput{
		Name:                req.Name,
		Currency:            req.Currency,
		HurdleRatePc:        hurdle,
		GoalType:            domain.GoalType(req.GoalType),
		GoalTitle:           req.GoalTitle,
		GoalTargetAmount:    targetAmount,
		GoalTargetDate:      targetDate,
		MonthlyBaselineCost: baselineCost,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Plan name and goal title are required", nil)
		}
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "goalType", Message: "Must be one of: SAVE, INVEST, PAYOFF"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Amounts must be positive", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create plan")
		return NewInternalError(c, "Failed to create plan")
	}

	log.Info().Str("user_id", userID.String()).Str("plan_id", plan.ID.String()).Msg("Plan created")
	return c.JSON(http.StatusCreated, PlanResponse{Plan: plan, Goals: []*domain.Goal{goal}})
}

// GetPlan returns the user's plan and goals
func (h *PlanHandler) GetPlan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	plan, goals, err := h.planService.GetPlan(userID)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			return NewNotFoundError(c, "No plan found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get plan")
		return NewInternalError(c, "Failed to get plan")
	}
	return c.JSON(http.StatusOK, PlanResponse{Plan: plan, Goals: goals})
}
