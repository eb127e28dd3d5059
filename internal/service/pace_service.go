package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// MonthKpis is the full output of one pace-score computation. All monetary
// fields are exact decimals; the sub-scores and final score are integers.
type MonthKpis struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	Income          decimal.Decimal `json:"income"`
	Expenses        decimal.Decimal `json:"expenses"`
	Savings         decimal.Decimal `json:"savings"`
	SavingsRate     decimal.Decimal `json:"savingsRate"`
	RunwayMonths    decimal.Decimal `json:"runwayMonths"`
	HasConsumerDebt bool            `json:"hasConsumerDebt"`
	HurdleRatePc    decimal.Decimal `json:"hurdleRatePc"`
	SrScore         int             `json:"srScore"`
	DebtScore       int             `json:"debtScore"`
	BufferScore     int             `json:"bufferScore"`
	GoalScore       int             `json:"goalScore"`
	PaceScore       int             `json:"paceScore"`
}

// scoreStep is one rung of a threshold ladder: the first rung whose bound the
// value meets or exceeds wins. Ladders are ordered highest bound first.
type scoreStep struct {
	bound decimal.Decimal
	score int
}

// bufferLadder maps runway months to the cash-buffer sub-score (0-15).
var bufferLadder = []scoreStep{
	{decimal.NewFromInt(12), 15},
	{decimal.NewFromInt(6), 10},
	{decimal.NewFromInt(3), 5},
	{decimal.NewFromInt(1), 2},
}

// goalLadder maps savings/monthlyNeed to the goal sub-score (1-20).
var goalLadder = []scoreStep{
	{decimal.NewFromInt(1), 20},
	{decimal.RequireFromString("0.9"), 15},
	{decimal.RequireFromString("0.75"), 8},
	{decimal.RequireFromString("0.5"), 4},
}

func ladderScore(ladder []scoreStep, value decimal.Decimal, floor int) int {
	for _, step := range ladder {
		if value.GreaterThanOrEqual(step.bound) {
			return step.score
		}
	}
	return floor
}

const (
	maxSrScore       = 40
	fullDebtScore    = 15
	maxGoalScore     = 20
	consumerDebtCap  = 60
	paceScoreCeiling = 100
)

// srScoreScale maps a savings rate to sub-score points: a 50% rate earns the
// full 40, so each unit of rate is worth 80 points before clamping.
var srScoreScale = decimal.NewFromInt(80)

// PaceService derives the monthly 0-100 pace score from the ledger, the
// user's holdings, liabilities, settings, and active goal.
type PaceService struct {
	ledger        *LedgerService
	settingRepo   domain.SettingRepository
	holdingRepo   domain.HoldingRepository
	liabilityRepo domain.LiabilityRepository
	goalRepo      domain.GoalRepository
}

// NewPaceService creates a new PaceService
func NewPaceService(
	ledger *LedgerService,
	settingRepo domain.SettingRepository,
	holdingRepo domain.HoldingRepository,
	liabilityRepo domain.LiabilityRepository,
	goalRepo domain.GoalRepository,
) *PaceService {
	return &PaceService{
		ledger:        ledger,
		settingRepo:   settingRepo,
		holdingRepo:   holdingRepo,
		liabilityRepo: liabilityRepo,
		goalRepo:      goalRepo,
	}
}

// ComputeMonthKpis runs the full pace computation for the calendar month
// containing monthStart. The five independent reads run concurrently; each
// tolerates an empty result, so a brand-new user still gets a valid score.
// hurdleRatePc is carried through unchanged for the caller's display.
func (s *PaceService) ComputeMonthKpis(userID uuid.UUID, monthStart time.Time, hurdleRatePc decimal.Decimal) (*MonthKpis, error) {
	start, end := util.MonthWindow(monthStart)

	var (
		income      decimal.Decimal
		expenses    decimal.Decimal
		cash        decimal.Decimal
		liabilities []*domain.Liability
		baseline    *domain.Setting
		activeGoal  *domain.Goal
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		income, err = s.ledger.SumByType(userID, domain.TransactionTypeIncome, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.ledger.SumByType(userID, domain.TransactionTypeExpense, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		cash, err = s.holdingRepo.SumByAssetClass(userID, domain.AssetClassCash)
		return err
	})
	g.Go(func() error {
		var err error
		liabilities, err = s.liabilityRepo.GetAllByUser(userID)
		return err
	})
	g.Go(func() error {
		setting, err := s.settingRepo.Get(userID, domain.SettingMonthlyBaselineCost)
		if errors.Is(err, domain.ErrSettingNotFound) {
			return nil
		}
		baseline = setting
		return err
	})
	g.Go(func() error {
		goal, err := s.goalRepo.GetActive(userID)
		if errors.Is(err, domain.ErrGoalNotFound) {
			return nil
		}
		activeGoal = goal
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	savings := income.Sub(expenses)
	if savings.IsNegative() {
		savings = decimal.Zero
	}

	savingsRate := decimal.Zero
	if income.IsPositive() {
		savingsRate = savings.Div(income)
	}

	monthlyCost := resolveMonthlyCost(baseline, expenses)
	runway := cash.Div(monthlyCost)

	hasConsumerDebt := false
	for _, l := range liabilities {
		if l.IsConsumerDebt() {
			hasConsumerDebt = true
			break
		}
	}

	srScore := clampInt(int(savingsRate.Mul(srScoreScale).Round(0).IntPart()), 0, maxSrScore)

	debtScore := fullDebtScore
	if hasConsumerDebt {
		debtScore = 0
	}

	bufferScore := ladderScore(bufferLadder, runway, 0)
	goalScore := computeGoalScore(activeGoal, savings)

	raw := srScore + debtScore + bufferScore + goalScore
	ceiling := paceScoreCeiling
	if hasConsumerDebt {
		ceiling = consumerDebtCap
	}
	paceScore := minInt(ceiling, minInt(paceScoreCeiling, raw))

	log.Debug().
		Str("user_id", userID.String()).
		Int("year", start.Year()).
		Int("month", int(start.Month())).
		Int("pace_score", paceScore).
		Msg("Computed month KPIs")

	return &MonthKpis{
		Year:            start.Year(),
		Month:           int(start.Month()),
		Income:          income,
		Expenses:        expenses,
		Savings:         savings,
		SavingsRate:     savingsRate,
		RunwayMonths:    runway,
		HasConsumerDebt: hasConsumerDebt,
		HurdleRatePc:    hurdleRatePc,
		SrScore:         srScore,
		DebtScore:       debtScore,
		BufferScore:     bufferScore,
		GoalScore:       goalScore,
		PaceScore:       paceScore,
	}, nil
}

// resolveMonthlyCost prefers the user's baseline-cost setting; a missing or
// non-numeric value falls back to max(expenses, 1) so runway never divides
// by zero.
func resolveMonthlyCost(baseline *domain.Setting, expenses decimal.Decimal) decimal.Decimal {
	if baseline != nil {
		if cost, err := decimal.NewFromString(baseline.Value); err == nil && cost.IsPositive() {
			return cost
		}
	}
	one := decimal.NewFromInt(1)
	if expenses.GreaterThan(one) {
		return expenses
	}
	return one
}

func computeGoalScore(goal *domain.Goal, savings decimal.Decimal) int {
	if goal == nil {
		return 0
	}
	if goal.MonthlyNeed == nil || !goal.MonthlyNeed.IsPositive() {
		return maxGoalScore
	}
	ratio := savings.Div(*goal.MonthlyNeed)
	return ladderScore(goalLadder, ratio, 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
