package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Dashboard is the aggregate view backing the landing page: accounts, the
// current month's sums, recent transactions, and the KPI snapshot.
type Dashboard struct {
	Accounts     []*domain.Account     `json:"accounts"`
	Income       decimal.Decimal       `json:"income"`
	Expenses     decimal.Decimal       `json:"expenses"`
	Balance      decimal.Decimal       `json:"balance"`
	Transactions []*domain.Transaction `json:"transactions"`
	Snapshot     *domain.KpiSnapshot   `json:"snapshot"`
}

// DashboardService assembles the month dashboard in one call
type DashboardService struct {
	bootstrap    *BootstrapService
	accounts     *AccountService
	ledger       *LedgerService
	transactions *TransactionService
	snapshots    *SnapshotService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	bootstrap *BootstrapService,
	accounts *AccountService,
	ledger *LedgerService,
	transactions *TransactionService,
	snapshots *SnapshotService,
) *DashboardService {
	return &DashboardService{
		bootstrap:    bootstrap,
		accounts:     accounts,
		ledger:       ledger,
		transactions: transactions,
		snapshots:    snapshots,
	}
}

// GetDashboard ensures the user's defaults exist, then gathers the month view.
// The independent reads run concurrently.
func (s *DashboardService) GetDashboard(userID uuid.UUID, ref time.Time) (*Dashboard, error) {
	if err := s.bootstrap.EnsureDefaults(userID); err != nil {
		return nil, err
	}

	dashboard := &Dashboard{}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		dashboard.Accounts, err = s.accounts.GetAccounts(userID)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.Income, err = s.ledger.SumMonth(userID, domain.TransactionTypeIncome, ref)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.Expenses, err = s.ledger.SumMonth(userID, domain.TransactionTypeExpense, ref)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.Transactions, err = s.transactions.GetMonthTransactions(userID, ref)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard.Snapshot, err = s.snapshots.GetOrCompute(userID, ref.Year(), int(ref.Month()))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard.Balance = dashboard.Income.Sub(dashboard.Expenses)
	return dashboard, nil
}
