package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/util"
	"github.com/pacedev/pace-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
	categoryRepo    domain.CategoryRepository
	snapshots       *SnapshotService
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	categoryRepo domain.CategoryRepository,
	snapshots *SnapshotService,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		snapshots:       snapshots,
		publisher:       &websocket.NoOpPublisher{},
	}
}

// SetEventPublisher sets the publisher used for transaction events
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	AccountID  uuid.UUID
	CategoryID *uuid.UUID
	Type       domain.TransactionType
	Amount     decimal.Decimal
	OccurredAt *time.Time
	Note       *string
}

// CreateTransaction records a transaction and refreshes the KPI snapshot for
// its period. The account and category must belong to the user, and the
// category's type must match the transaction's.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	account, err := s.accountRepo.GetByID(userID, input.AccountID)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(userID, *input.CategoryID)
		if err != nil {
			return nil, domain.ErrCategoryNotFound
		}
		if category.Type != input.Type {
			return nil, domain.ErrTypeMismatch
		}
	}

	occurredAt := time.Now().UTC()
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	var note *string
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if trimmed != "" {
			note = &trimmed
		}
	}

	transaction, err := s.transactionRepo.Create(&domain.Transaction{
		UserID:     userID,
		AccountID:  account.ID,
		CategoryID: input.CategoryID,
		Type:       input.Type,
		Amount:     input.Amount,
		Currency:   account.Currency,
		OccurredAt: occurredAt,
		Note:       note,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionCreated(transaction))

	// Refresh the period's snapshot. The write already happened; a snapshot
	// failure is logged, not surfaced, and the next read will self-heal it.
	snapshot, err := s.snapshots.RecomputeFor(userID, occurredAt)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("transaction_id", transaction.ID.String()).
			Msg("Failed to recompute snapshot after transaction")
	} else {
		s.publisher.Publish(userID, websocket.SnapshotUpdated(snapshot))
	}

	return transaction, nil
}

// GetTransaction returns one transaction owned by the user.
func (s *TransactionService) GetTransaction(userID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// GetMonthTransactions lists the user's transactions for the month containing
// ref, newest first.
func (s *TransactionService) GetMonthTransactions(userID uuid.UUID, ref time.Time) ([]*domain.Transaction, error) {
	start, end := util.MonthWindow(ref)
	return s.transactionRepo.GetByUserAndWindow(userID, start, end)
}
