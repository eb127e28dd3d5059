package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paceFixture struct {
	svc          *PaceService
	transactions *testutil.MockTransactionRepository
	settings     *testutil.MockSettingRepository
	holdings     *testutil.MockHoldingRepository
	liabilities  *testutil.MockLiabilityRepository
	goals        *testutil.MockGoalRepository
	userID       uuid.UUID
	monthStart   time.Time
}

func newPaceFixture() *paceFixture {
	transactions := testutil.NewMockTransactionRepository()
	settings := testutil.NewMockSettingRepository()
	holdings := testutil.NewMockHoldingRepository()
	liabilities := testutil.NewMockLiabilityRepository()
	goals := testutil.NewMockGoalRepository()
	return &paceFixture{
		svc:          NewPaceService(NewLedgerService(transactions), settings, holdings, liabilities, goals),
		transactions: transactions,
		settings:     settings,
		holdings:     holdings,
		liabilities:  liabilities,
		goals:        goals,
		userID:       uuid.New(),
		monthStart:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *paceFixture) addTransaction(txType domain.TransactionType, amount string, occurredAt time.Time) {
	_, _ = f.transactions.Create(&domain.Transaction{
		UserID:     f.userID,
		AccountID:  uuid.New(),
		Type:       txType,
		Amount:     decimal.RequireFromString(amount),
		Currency:   "EUR",
		OccurredAt: occurredAt,
	})
}

func (f *paceFixture) compute(t *testing.T) *MonthKpis {
	t.Helper()
	kpis, err := f.svc.ComputeMonthKpis(f.userID, f.monthStart, decimal.NewFromInt(10))
	require.NoError(t, err)
	return kpis
}

func TestPaceService_ComputeMonthKpis_NewUserScenario(t *testing.T) {
	// income=1000, expenses=500, baseline=500, no goal, no holdings, no
	// liabilities: srScore=40, debtScore=15, bufferScore=0, goalScore=0
	f := newPaceFixture()
	f.addTransaction(domain.TransactionTypeIncome, "1000", f.monthStart.AddDate(0, 0, 5))
	f.addTransaction(domain.TransactionTypeExpense, "500", f.monthStart.AddDate(0, 0, 10))
	_, _ = f.settings.Upsert(f.userID, domain.SettingMonthlyBaselineCost, "500")

	kpis := f.compute(t)

	assert.Equal(t, "500", kpis.Savings.String())
	assert.Equal(t, "0.5", kpis.SavingsRate.String())
	assert.Equal(t, 40, kpis.SrScore)
	assert.Equal(t, 15, kpis.DebtScore)
	assert.Equal(t, 0, kpis.BufferScore)
	assert.Equal(t, 0, kpis.GoalScore)
	assert.False(t, kpis.HasConsumerDebt)
	assert.Equal(t, 55, kpis.PaceScore)
}

func TestPaceService_ComputeMonthKpis_ActiveGoalScenario(t *testing.T) {
	// Same ledger but with an active goal needing exactly the savings:
	// ratio=1 earns the full 20 goal points.
	f := newPaceFixture()
	f.addTransaction(domain.TransactionTypeIncome, "1000", f.monthStart.AddDate(0, 0, 5))
	f.addTransaction(domain.TransactionTypeExpense, "500", f.monthStart.AddDate(0, 0, 10))
	_, _ = f.settings.Upsert(f.userID, domain.SettingMonthlyBaselineCost, "500")
	need := decimal.NewFromInt(500)
	_, _ = f.goals.Create(&domain.Goal{
		UserID:       f.userID,
		Type:         domain.GoalTypeSave,
		Title:        "Emergency fund",
		TargetAmount: decimal.NewFromInt(6000),
		MonthlyNeed:  &need,
		IsActive:     true,
	})

	kpis := f.compute(t)

	assert.Equal(t, 20, kpis.GoalScore)
	assert.Equal(t, 75, kpis.PaceScore)
}

func TestPaceService_ComputeMonthKpis_EmptyUser(t *testing.T) {
	f := newPaceFixture()

	kpis := f.compute(t)

	assert.True(t, kpis.Income.IsZero())
	assert.True(t, kpis.Expenses.IsZero())
	assert.True(t, kpis.Savings.IsZero())
	assert.True(t, kpis.SavingsRate.IsZero())
	assert.Equal(t, 0, kpis.SrScore)
	assert.Equal(t, 15, kpis.DebtScore)
	assert.Equal(t, 0, kpis.BufferScore)
	assert.Equal(t, 0, kpis.GoalScore)
	assert.Equal(t, 15, kpis.PaceScore)
}

func TestPaceService_ComputeMonthKpis_NegativeSavingsFlooredToZero(t *testing.T) {
	f := newPaceFixture()
	f.addTransaction(domain.TransactionTypeIncome, "300", f.monthStart)
	f.addTransaction(domain.TransactionTypeExpense, "900", f.monthStart.AddDate(0, 0, 1))

	kpis := f.compute(t)

	assert.True(t, kpis.Savings.IsZero())
	assert.True(t, kpis.SavingsRate.IsZero())
	assert.Equal(t, 0, kpis.SrScore)
}

func TestPaceService_ComputeMonthKpis_ConsumerDebtCapsScore(t *testing.T) {
	// Maximal sub-scores everywhere, but a credit card balance caps the
	// final score at 60 and zeroes the debt sub-score.
	f := newPaceFixture()
	f.addTransaction(domain.TransactionTypeIncome, "2000", f.monthStart)
	f.addTransaction(domain.TransactionTypeExpense, "500", f.monthStart.AddDate(0, 0, 1))
	_, _ = f.settings.Upsert(f.userID, domain.SettingMonthlyBaselineCost, "500")
	_, _ = f.holdings.Create(&domain.Holding{
		UserID:     f.userID,
		AssetClass: domain.AssetClassCash,
		Name:       "Savings account",
		Amount:     decimal.NewFromInt(10000),
	})
	_, _ = f.liabilities.Create(&domain.Liability{
		UserID:  f.userID,
		Type:    domain.LiabilityTypeCreditCard,
		Name:    "Visa",
		Balance: decimal.NewFromInt(1200),
	})
	need := decimal.NewFromInt(500)
	_, _ = f.goals.Create(&domain.Goal{
		UserID:      f.userID,
		Type:        domain.GoalTypeSave,
		Title:       "Vacation",
		MonthlyNeed: &need,
		IsActive:    true,
	})

	kpis := f.compute(t)

	assert.True(t, kpis.HasConsumerDebt)
	assert.Equal(t, 0, kpis.DebtScore)
	assert.Equal(t, 60, kpis.PaceScore)
}

func TestPaceService_ComputeMonthKpis_MortgageIsNotConsumerDebt(t *testing.T) {
	f := newPaceFixture()
	_, _ = f.liabilities.Create(&domain.Liability{
		UserID:  f.userID,
		Type:    domain.LiabilityTypeMortgage,
		Name:    "House",
		Balance: decimal.NewFromInt(200000),
	})

	kpis := f.compute(t)

	assert.False(t, kpis.HasConsumerDebt)
	assert.Equal(t, 15, kpis.DebtScore)
}

func TestPaceService_ComputeMonthKpis_BufferLadder(t *testing.T) {
	tests := []struct {
		name  string
		cash  string
		score int
	}{
		{"twelve months", "6000", 15},
		{"just under twelve", "5999", 10},
		{"six months", "3000", 10},
		{"three months", "1500", 5},
		{"one month", "500", 2},
		{"under one month", "499", 0},
		{"no cash", "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaceFixture()
			_, _ = f.settings.Upsert(f.userID, domain.SettingMonthlyBaselineCost, "500")
			_, _ = f.holdings.Create(&domain.Holding{
				UserID:     f.userID,
				AssetClass: domain.AssetClassCash,
				Name:       "Cash",
				Amount:     decimal.RequireFromString(tt.cash),
			})

			kpis := f.compute(t)

			assert.Equal(t, tt.score, kpis.BufferScore)
		})
	}
}

func TestPaceService_ComputeMonthKpis_OnlyCashHoldingsCountTowardRunway(t *testing.T) {
	f := newPaceFixture()
	_, _ = f.settings.Upsert(f.userID, domain.SettingMonthlyBaselineCost, "500")
	_, _ = f.holdings.Create(&domain.Holding{
		UserID:     f.userID,
		AssetClass: domain.AssetClassEquity,
		Name:       "Index fund",
		Amount:     decimal.NewFromInt(50000),
	})

	kpis := f.compute(t)

	assert.True(t, kpis.RunwayMonths.IsZero())
	assert.Equal(t, 0, kpis.BufferScore)
}

func TestPaceService_ComputeMonthKpis_GoalLadder(t *testing.T) {
	tests := []struct {
		name    string
		savings string
		score   int
	}{
		{"ratio one", "500", 20},
		{"ratio point nine", "450", 15},
		{"ratio point seventy five", "375", 8},
		{"ratio point five", "250", 4},
		{"ratio below half", "100", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaceFixture()
			f.addTransaction(domain.TransactionTypeIncome, tt.savings, f.monthStart)
			need := decimal.NewFromInt(500)
			_, _ = f.goals.Create(&domain.Goal{
				UserID:      f.userID,
				Type:        domain.GoalTypeSave,
				Title:       "Goal",
				MonthlyNeed: &need,
				IsActive:    true,
			})

			kpis := f.compute(t)

			assert.Equal(t, tt.score, kpis.GoalScore)
		})
	}
}

func TestPaceService_ComputeMonthKpis_GoalWithoutMonthlyNeedEarnsFullPoints(t *testing.T) {
	f := newPaceFixture()
	_, _ = f.goals.Create(&domain.Goal{
		UserID:   f.userID,
		Type:     domain.GoalTypePayoff,
		Title:    "Open-ended goal",
		IsActive: true,
	})

	kpis := f.compute(t)

	assert.Equal(t, 20, kpis.GoalScore)
}

func TestPaceService_ComputeMonthKpis_InactiveGoalIgnored(t *testing.T) {
	f := newPaceFixture()
	need := decimal.NewFromInt(100)
	_, _ = f.goals.Create(&domain.Goal{
		UserID:      f.userID,
		Type:        domain.GoalTypeSave,
		Title:       "Abandoned",
		MonthlyNeed: &need,
		IsActive:    false,
	})

	kpis := f.compute(t)

	assert.Equal(t, 0, kpis.GoalScore)
}

func TestPaceService_ComputeMonthKpis_NonNumericBaselineFallsBackToExpenses(t *testing.T) {
	f := newPaceFixture()
	f.addTransaction(domain.TransactionTypeExpense, "400", f.monthStart)
	_, _ = f.settings.Upsert(f.userID, domain.SettingMonthlyBaselineCost, "not a number")
	_, _ = f.holdings.Create(&domain.Holding{
		UserID:     f.userID,
		AssetClass: domain.AssetClassCash,
		Name:       "Cash",
		Amount:     decimal.NewFromInt(1200),
	})

	kpis := f.compute(t)

	// monthlyCost falls back to expenses (400), so runway is 3 months
	assert.Equal(t, "3", kpis.RunwayMonths.String())
	assert.Equal(t, 5, kpis.BufferScore)
}

func TestPaceService_ComputeMonthKpis_TransactionsOutsideWindowExcluded(t *testing.T) {
	f := newPaceFixture()
	f.addTransaction(domain.TransactionTypeIncome, "100", f.monthStart.AddDate(0, 0, 10))
	// Boundary: exactly at next month's start belongs to the next month
	f.addTransaction(domain.TransactionTypeIncome, "40", f.monthStart.AddDate(0, 1, 0))
	f.addTransaction(domain.TransactionTypeIncome, "999", f.monthStart.AddDate(0, -1, 15))

	kpis := f.compute(t)

	assert.Equal(t, "100", kpis.Income.String())
}

func TestPaceService_ComputeMonthKpis_HurdleRatePassesThrough(t *testing.T) {
	f := newPaceFixture()

	kpis, err := f.svc.ComputeMonthKpis(f.userID, f.monthStart, decimal.RequireFromString("7.5"))
	require.NoError(t, err)

	assert.Equal(t, "7.5", kpis.HurdleRatePc.String())
}
