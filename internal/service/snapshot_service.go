package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// defaultHurdleRatePc applies when the user has no plan.
var defaultHurdleRatePc = decimal.NewFromInt(10)

// SnapshotService caches one KPI computation per (user, year, month).
// Policy: the snapshot is purely a cache. Reads fill it on a miss; every
// transaction write inside a period recomputes it with the full engine and
// upserts atomically, so the row is always either absent or current.
type SnapshotService struct {
	pace         *PaceService
	snapshotRepo domain.KpiSnapshotRepository
	planRepo     domain.PlanRepository
	metrics      SnapshotMetrics
}

// SnapshotMetrics records snapshot cache behavior
type SnapshotMetrics interface {
	RecordSnapshotRead(hit bool)
	RecordSnapshotRecompute(trigger string)
	RecordKpiCompute(duration time.Duration)
}

// noopSnapshotMetrics is used until a real collector is attached
type noopSnapshotMetrics struct{}

func (noopSnapshotMetrics) RecordSnapshotRead(bool)        {}
func (noopSnapshotMetrics) RecordSnapshotRecompute(string) {}
func (noopSnapshotMetrics) RecordKpiCompute(time.Duration) {}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(pace *PaceService, snapshotRepo domain.KpiSnapshotRepository, planRepo domain.PlanRepository) *SnapshotService {
	return &SnapshotService{
		pace:         pace,
		snapshotRepo: snapshotRepo,
		planRepo:     planRepo,
		metrics:      noopSnapshotMetrics{},
	}
}

// SetMetrics attaches a metrics collector
func (s *SnapshotService) SetMetrics(m SnapshotMetrics) {
	s.metrics = m
}

// GetOrCompute returns the cached snapshot for (userID, year, month), running
// the KPI engine and persisting the result on a miss.
func (s *SnapshotService) GetOrCompute(userID uuid.UUID, year, month int) (*domain.KpiSnapshot, error) {
	snapshot, err := s.snapshotRepo.GetByPeriod(userID, year, month)
	if err == nil {
		s.metrics.RecordSnapshotRead(true)
		return snapshot, nil
	}
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, err
	}
	s.metrics.RecordSnapshotRead(false)
	s.metrics.RecordSnapshotRecompute("read")
	return s.Recompute(userID, year, month)
}

// Recompute runs the full KPI engine for the period and upserts the snapshot.
// Concurrent recomputes for the same period are safe: the upsert is a single
// conditional write, so the last writer wins without losing the row.
func (s *SnapshotService) Recompute(userID uuid.UUID, year, month int) (*domain.KpiSnapshot, error) {
	start, _ := util.MonthWindowFor(year, month)
	began := time.Now()
	kpis, err := s.pace.ComputeMonthKpis(userID, start, s.hurdleRateFor(userID))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordKpiCompute(time.Since(began))

	snapshot, err := s.snapshotRepo.Upsert(&domain.KpiSnapshot{
		UserID:        userID,
		Year:          kpis.Year,
		Month:         kpis.Month,
		Income:        kpis.Income,
		Expenses:      kpis.Expenses,
		Savings:       kpis.Savings,
		SavingsRatePc: int(kpis.SavingsRate.Mul(decimal.NewFromInt(100)).Round(0).IntPart()),
		RunwayMonths:  kpis.RunwayMonths,
		PaceScore:     kpis.PaceScore,
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("user_id", userID.String()).
		Int("year", year).
		Int("month", month).
		Int("pace_score", snapshot.PaceScore).
		Msg("Snapshot recomputed")
	return snapshot, nil
}

// RecomputeFor recomputes the snapshot for the period containing the given
// instant. Used by the transaction write path.
func (s *SnapshotService) RecomputeFor(userID uuid.UUID, occurredAt time.Time) (*domain.KpiSnapshot, error) {
	s.metrics.RecordSnapshotRecompute("write")
	return s.Recompute(userID, occurredAt.Year(), int(occurredAt.Month()))
}

func (s *SnapshotService) hurdleRateFor(userID uuid.UUID) decimal.Decimal {
	plan, err := s.planRepo.GetFirstByUser(userID)
	if err != nil {
		return defaultHurdleRatePc
	}
	return plan.HurdleRatePc
}
