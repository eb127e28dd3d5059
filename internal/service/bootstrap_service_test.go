package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBootstrapService() (*BootstrapService, *testutil.MockAccountRepository, *testutil.MockCategoryRepository) {
	accountRepo := testutil.NewMockAccountRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewBootstrapService(accountRepo, categoryRepo, domain.DefaultSeedConfig())
	return svc, accountRepo, categoryRepo
}

func TestBootstrapService_EnsureDefaults_CreatesMainAccountAndSeedCategories(t *testing.T) {
	svc, accountRepo, categoryRepo := newBootstrapService()
	userID := uuid.New()

	err := svc.EnsureDefaults(userID)
	require.NoError(t, err)

	account, err := accountRepo.GetByName(userID, "Main")
	require.NoError(t, err)
	assert.Equal(t, "EUR", account.Currency)
	assert.True(t, account.Balance.IsZero())

	categories, err := categoryRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, categories, 8)
	for _, c := range categories {
		assert.True(t, c.IsDefault)
	}
}

func TestBootstrapService_EnsureDefaults_Idempotent(t *testing.T) {
	svc, accountRepo, categoryRepo := newBootstrapService()
	userID := uuid.New()

	require.NoError(t, svc.EnsureDefaults(userID))
	require.NoError(t, svc.EnsureDefaults(userID))
	require.NoError(t, svc.EnsureDefaults(userID))

	accounts, err := accountRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	categories, err := categoryRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, categories, 8)
}

func TestBootstrapService_EnsureDefaults_DoesNotResetExistingBalance(t *testing.T) {
	svc, accountRepo, _ := newBootstrapService()
	userID := uuid.New()

	_, err := accountRepo.Create(&domain.Account{
		UserID:   userID,
		Name:     "Main",
		Currency: "USD",
		Balance:  decimal.NewFromInt(2500),
	})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureDefaults(userID))

	account, err := accountRepo.GetByName(userID, "Main")
	require.NoError(t, err)
	assert.Equal(t, "2500", account.Balance.String())
	assert.Equal(t, "USD", account.Currency)
}

func TestBootstrapService_EnsureDefaults_SkipsExistingCategories(t *testing.T) {
	svc, _, categoryRepo := newBootstrapService()
	userID := uuid.New()

	// User already renamed nothing but has a custom "Food" expense category
	_, err := categoryRepo.Create(&domain.Category{
		UserID:    userID,
		Name:      "Food",
		Type:      domain.TransactionTypeExpense,
		IsDefault: false,
	})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureDefaults(userID))

	categories, err := categoryRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, categories, 8)

	// The pre-existing category keeps its non-default flag
	for _, c := range categories {
		if c.Name == "Food" && c.Type == domain.TransactionTypeExpense {
			assert.False(t, c.IsDefault)
		}
	}
}

func TestBootstrapService_EnsureDefaults_SameNameDifferentTypeBothSeeded(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	seeds := domain.SeedConfig{
		AccountName:     "Main",
		AccountCurrency: "EUR",
		IncomeNames:     []string{"Other"},
		ExpenseNames:    []string{"Other"},
	}
	svc := NewBootstrapService(accountRepo, categoryRepo, seeds)
	userID := uuid.New()

	require.NoError(t, svc.EnsureDefaults(userID))

	categories, err := categoryRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestBootstrapService_EnsureDefaults_ToleratesInsertRace(t *testing.T) {
	svc, accountRepo, categoryRepo := newBootstrapService()
	userID := uuid.New()

	// Simulate losing every insert race: the unique constraint fires but
	// the call still succeeds because the post-condition holds.
	accountRepo.CreateFn = func(account *domain.Account) (*domain.Account, error) {
		return nil, domain.ErrAlreadyExists
	}
	categoryRepo.CreateFn = func(category *domain.Category) (*domain.Category, error) {
		return nil, domain.ErrAlreadyExists
	}

	assert.NoError(t, svc.EnsureDefaults(userID))
}

func TestBootstrapService_EnsureDefaults_ConcurrentCallsConverge(t *testing.T) {
	svc, accountRepo, categoryRepo := newBootstrapService()
	userID := uuid.New()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.EnsureDefaults(userID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	accounts, err := accountRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	categories, err := categoryRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, categories, 8)
}
