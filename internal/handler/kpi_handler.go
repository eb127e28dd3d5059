package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/middleware"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/pacedev/pace-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// KpiHandler handles KPI snapshot HTTP requests
type KpiHandler struct {
	snapshotService *service.SnapshotService
	paceService     *service.PaceService
}

// NewKpiHandler creates a new KpiHandler
func NewKpiHandler(snapshotService *service.SnapshotService, paceService *service.PaceService) *KpiHandler {
	return &KpiHandler{
		snapshotService: snapshotService,
		paceService:     paceService,
	}
}

// GetCurrent returns the snapshot for the current month, computing it on a
// cache miss
func (h *KpiHandler) GetCurrent(c echo.Context) error {
	now := time.Now().UTC()
	return h.getForPeriod(c, now.Year(), int(now.Month()))
}

// GetByPeriod returns the snapshot for a specific year and month
func (h *KpiHandler) GetByPeriod(c echo.Context) error {
	year, month, err := parsePeriod(c)
	if err != nil {
		return NewValidationError(c, "Invalid year or month", nil)
	}
	return h.getForPeriod(c, year, month)
}

func (h *KpiHandler) getForPeriod(c echo.Context, year, month int) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	snapshot, err := h.snapshotService.GetOrCompute(userID, year, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Int("month", month).Msg("Failed to get snapshot")
		return NewInternalError(c, "Failed to get KPI snapshot")
	}
	return c.JSON(http.StatusOK, snapshot)
}

// Recompute forces a fresh KPI computation and snapshot upsert for a period
func (h *KpiHandler) Recompute(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parsePeriod(c)
	if err != nil {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	snapshot, err := h.snapshotService.Recompute(userID, year, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Int("month", month).Msg("Failed to recompute snapshot")
		return NewInternalError(c, "Failed to recompute KPI snapshot")
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetDetails runs the full KPI engine for a period and returns the result
// with all sub-scores, without touching the snapshot cache
func (h *KpiHandler) GetDetails(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parsePeriod(c)
	if err != nil {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	hurdle := decimal.NewFromInt(10)
	if hurdleStr := c.QueryParam("hurdleRatePc"); hurdleStr != "" {
		parsed, err := decimal.NewFromString(hurdleStr)
		if err != nil || parsed.IsNegative() {
			return NewValidationError(c, "Invalid hurdleRatePc", nil)
		}
		hurdle = parsed
	}

	start, _ := util.MonthWindowFor(year, month)
	kpis, err := h.paceService.ComputeMonthKpis(userID, start, hurdle)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Int("month", month).Msg("Failed to compute KPIs")
		return NewInternalError(c, "Failed to compute KPIs")
	}
	return c.JSON(http.StatusOK, kpis)
}

func parsePeriod(c echo.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, err
	}
	if year < 1970 || year > 9999 {
		return 0, 0, strconv.ErrRange
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, strconv.ErrRange
	}
	return year, month, nil
}
