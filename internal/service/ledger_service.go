package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/util"
	"github.com/shopspring/decimal"
)

// LedgerService answers aggregate questions over the transaction ledger.
type LedgerService struct {
	transactionRepo domain.TransactionRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(transactionRepo domain.TransactionRepository) *LedgerService {
	return &LedgerService{transactionRepo: transactionRepo}
}

// SumByType totals transactions of one type inside a half-open window
// [start, end). The sum is taken in storage, not in memory, so results stay
// exact for decimal amounts.
func (s *LedgerService) SumByType(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	if !txType.Valid() {
		return decimal.Zero, domain.ErrInvalidType
	}
	return s.transactionRepo.SumByTypeAndWindow(userID, txType, start, end)
}

// SumMonth totals one type over the calendar month containing ref.
func (s *LedgerService) SumMonth(userID uuid.UUID, txType domain.TransactionType, ref time.Time) (decimal.Decimal, error) {
	start, end := util.MonthWindow(ref)
	return s.SumByType(userID, txType, start, end)
}
