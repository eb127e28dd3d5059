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

// HoldingHandler handles holding-related HTTP requests
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService}
}

// CreateHoldingRequest represents the create holding request body
type CreateHoldingRequest struct {
	Name       string `json:"name"`
	AssetClass string `json:"assetClass"`
	Amount     string `json:"amount"`
}

// CreateHolding records a holding for the authenticated user
func (h *HoldingHandler) CreateHolding(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateHoldingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	holding, err := h.holdingService.CreateHolding(userID, service.CreateHoldingInput{
		Name:       req.Name,
		AssetClass: domain.AssetClass(req.AssetClass),
		Amount:     amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "assetClass", Message: "Must be one of: CASH, EQUITY, BOND, OTHER"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must not be negative"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create holding")
		return NewInternalError(c, "Failed to create holding")
	}

	return c.JSON(http.StatusCreated, holding)
}

// GetHoldings lists the authenticated user's holdings
func (h *HoldingHandler) GetHoldings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	holdings, err := h.holdingService.GetHoldings(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list holdings")
		return NewInternalError(c, "Failed to list holdings")
	}
	return c.JSON(http.StatusOK, holdings)
}
