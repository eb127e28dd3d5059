package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SettingService handles per-user settings
type SettingService struct {
	settingRepo domain.SettingRepository
}

// NewSettingService creates a new SettingService
func NewSettingService(settingRepo domain.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

// SetSetting upserts one setting. Known numeric keys are validated before the
// write so the KPI engine never has to second-guess stored values.
func (s *SettingService) SetSetting(userID uuid.UUID, key, value string) (*domain.Setting, error) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return nil, domain.ErrInvalidInput
	}

	if key == domain.SettingMonthlyBaselineCost {
		cost, err := decimal.NewFromString(value)
		if err != nil || !cost.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
	}

	return s.settingRepo.Upsert(userID, key, value)
}

// GetSetting returns one setting, or ErrSettingNotFound.
func (s *SettingService) GetSetting(userID uuid.UUID, key string) (*domain.Setting, error) {
	return s.settingRepo.Get(userID, key)
}

// GetSettings lists all of the user's settings.
func (s *SettingService) GetSettings(userID uuid.UUID) ([]*domain.Setting, error) {
	return s.settingRepo.GetAllByUser(userID)
}
