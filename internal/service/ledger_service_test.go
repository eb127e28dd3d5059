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

func TestLedgerService_SumByType(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewLedgerService(transactionRepo)
	userID := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	add := func(txType domain.TransactionType, amount string, occurredAt time.Time) {
		_, err := transactionRepo.Create(&domain.Transaction{
			UserID:     userID,
			AccountID:  uuid.New(),
			Type:       txType,
			Amount:     decimal.RequireFromString(amount),
			Currency:   "EUR",
			OccurredAt: occurredAt,
		})
		require.NoError(t, err)
	}

	add(domain.TransactionTypeIncome, "60.50", start)
	add(domain.TransactionTypeIncome, "39.50", start.AddDate(0, 0, 20))
	add(domain.TransactionTypeExpense, "40", start.AddDate(0, 0, 10))
	// Exactly at the end boundary: excluded by the half-open window
	add(domain.TransactionTypeIncome, "500", end)

	income, err := svc.SumByType(userID, domain.TransactionTypeIncome, start, end)
	require.NoError(t, err)
	assert.Equal(t, "100", income.String())

	expenses, err := svc.SumByType(userID, domain.TransactionTypeExpense, start, end)
	require.NoError(t, err)
	assert.Equal(t, "40", expenses.String())
}

func TestLedgerService_SumByType_EmptyWindowIsZero(t *testing.T) {
	svc := NewLedgerService(testutil.NewMockTransactionRepository())

	sum, err := svc.SumByType(uuid.New(), domain.TransactionTypeIncome,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestLedgerService_SumByType_RejectsUnknownType(t *testing.T) {
	svc := NewLedgerService(testutil.NewMockTransactionRepository())

	_, err := svc.SumByType(uuid.New(), domain.TransactionType("TRANSFER"),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestLedgerService_SumByType_ExactDecimalAddition(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewLedgerService(transactionRepo)
	userID := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	// 0.1 + 0.2 famously drifts in binary floating point
	for _, amount := range []string{"0.1", "0.2"} {
		_, err := transactionRepo.Create(&domain.Transaction{
			UserID:     userID,
			AccountID:  uuid.New(),
			Type:       domain.TransactionTypeExpense,
			Amount:     decimal.RequireFromString(amount),
			Currency:   "EUR",
			OccurredAt: start,
		})
		require.NoError(t, err)
	}

	sum, err := svc.SumByType(userID, domain.TransactionTypeExpense, start, end)
	require.NoError(t, err)
	assert.Equal(t, "0.3", sum.String())
}

func TestLedgerService_SumMonth(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewLedgerService(transactionRepo)
	userID := uuid.New()

	_, err := transactionRepo.Create(&domain.Transaction{
		UserID:     userID,
		AccountID:  uuid.New(),
		Type:       domain.TransactionTypeIncome,
		Amount:     decimal.NewFromInt(250),
		Currency:   "EUR",
		OccurredAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	sum, err := svc.SumMonth(userID, domain.TransactionTypeIncome, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "250", sum.String())

	sum, err = svc.SumMonth(userID, domain.TransactionTypeIncome, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestLedgerService_SumByType_ScopedToUser(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewLedgerService(transactionRepo)
	userID := uuid.New()
	otherID := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := transactionRepo.Create(&domain.Transaction{
		UserID:     otherID,
		AccountID:  uuid.New(),
		Type:       domain.TransactionTypeIncome,
		Amount:     decimal.NewFromInt(1000),
		Currency:   "EUR",
		OccurredAt: start,
	})
	require.NoError(t, err)

	sum, err := svc.SumByType(userID, domain.TransactionTypeIncome, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}
