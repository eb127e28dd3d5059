package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/middleware"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LiabilityHandler handles liability-related HTTP requests
type LiabilityHandler struct {
	liabilityService *service.LiabilityService
}

// NewLiabilityHandler creates a new LiabilityHandler
func NewLiabilityHandler(liabilityService *service.LiabilityService) *LiabilityHandler {
	return &LiabilityHandler{liabilityService: liabilityService}
}

// CreateLiabilityRequest represents the create liability request body
type CreateLiabilityRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance string `json:"balance"`
}

// CreateLiability records a liability for the authenticated user
func (h *LiabilityHandler) CreateLiability(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateLiabilityRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	balance, err := decimal.NewFromString(req.Balance)
	if err != nil {
		return NewValidationError(c, "Invalid balance", []ValidationError{
			{Field: "balance", Message: "Must be a valid decimal number"},
		})
	}

	liability, err := h.liabilityService.CreateLiability(userID, service.CreateLiabilityInput{
		Name:    req.Name,
		Type:    domain.LiabilityType(req.Type),
		Balance: balance,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Must be one of: CREDIT_CARD, CONSUMER_LOAN, MORTGAGE, STUDENT_LOAN"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "balance", Message: "Balance must not be negative"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create liability")
		return NewInternalError(c, "Failed to create liability")
	}

	return c.JSON(http.StatusCreated, liability)
}

// GetLiabilities lists the authenticated user's liabilities
func (h *LiabilityHandler) GetLiabilities(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	liabilities, err := h.liabilityService.GetLiabilities(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list liabilities")
		return NewInternalError(c, "Failed to list liabilities")
	}
	return c.JSON(http.StatusOK, liabilities)
}
