package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BootstrapService guarantees baseline data exists for a user before any
// dashboard or listing view renders. Safe to call on every request: repeated
// calls converge to a no-op, and concurrent calls for the same new user rely
// on the storage uniqueness constraints rather than locking.
type BootstrapService struct {
	accountRepo  domain.AccountRepository
	categoryRepo domain.CategoryRepository
	seeds        domain.SeedConfig
}

// NewBootstrapService creates a new BootstrapService with the given seed set
func NewBootstrapService(accountRepo domain.AccountRepository, categoryRepo domain.CategoryRepository, seeds domain.SeedConfig) *BootstrapService {
	return &BootstrapService{
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		seeds:        seeds,
	}
}

// EnsureDefaults makes sure the user has the default account and the seed
// categories. Success is defined purely by post-condition; a uniqueness
// conflict on any individual insert means another caller already satisfied it.
func (s *BootstrapService) EnsureDefaults(userID uuid.UUID) error {
	if err := s.ensureDefaultAccount(userID); err != nil {
		return err
	}
	return s.ensureDefaultCategories(userID)
}

func (s *BootstrapService) ensureDefaultAccount(userID uuid.UUID) error {
	// Read-check-then-create rather than a blind upsert, so an existing
	// account's balance is never reset.
	_, err := s.accountRepo.GetByName(userID, s.seeds.AccountName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	_, err = s.accountRepo.Create(&domain.Account{
		UserID:   userID,
		Name:     s.seeds.AccountName,
		Currency: s.seeds.AccountCurrency,
		Balance:  decimal.Zero,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// A concurrent caller won the insert race; the post-condition holds.
		log.Debug().Str("user_id", userID.String()).Msg("Default account created concurrently")
		return nil
	}
	return err
}

func (s *BootstrapService) ensureDefaultCategories(userID uuid.UUID) error {
	existing, err := s.categoryRepo.GetAllByUser(userID)
	if err != nil {
		return err
	}

	type key struct {
		txType domain.TransactionType
		name   string
	}
	present := make(map[key]bool, len(existing))
	for _, c := range existing {
		present[key{c.Type, c.Name}] = true
	}

	seed := func(txType domain.TransactionType, names []string) error {
		for _, name := range names {
			if present[key{txType, name}] {
				continue
			}
			_, err := s.categoryRepo.Create(&domain.Category{
				UserID:    userID,
				Name:      name,
				Type:      txType,
				IsDefault: true,
			})
			if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
				return err
			}
		}
		return nil
	}

	if err := seed(domain.TransactionTypeIncome, s.seeds.IncomeNames); err != nil {
		return err
	}
	return seed(domain.TransactionTypeExpense, s.seeds.ExpenseNames)
}
