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
)

// SettingHandler handles per-user setting HTTP requests
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// SetSettingRequest represents the set setting request body
type SetSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetSetting upserts one setting for the authenticated user
func (h *SettingHandler) SetSetting(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SetSettingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	setting, err := h.settingService.SetSetting(userID, req.Key, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Key and value are required", nil)
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "value", Message: "Must be a positive decimal number"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to set setting")
		return NewInternalError(c, "Failed to set setting")
	}
	return c.JSON(http.StatusOK, setting)
}

// GetSettings lists the authenticated user's settings
func (h *SettingHandler) GetSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	settings, err := h.settingService.GetSettings(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list settings")
		return NewInternalError(c, "Failed to list settings")
	}
	return c.JSON(http.StatusOK, settings)
}
