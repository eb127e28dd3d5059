package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacedev/pace-backend/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, user_id, name, currency, balance, created_at, updated_at`

// Create inserts a new account. Returns ErrAlreadyExists when (user, name) is
// already taken, so callers can treat the conflict as "already satisfied".
func (r *AccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	balance, err := decimalToPgNumeric(account.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO accounts (user_id, name, currency, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING `+accountColumns,
		uuidToPg(account.UserID), account.Name, account.Currency, balance)

	created, err := scanAccount(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an account owned by the user
func (r *AccountRepository) GetByID(userID, id uuid.UUID) (*domain.Account, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id))
	return scanAccount(row)
}

// GetByName retrieves an account by its per-user unique name
func (r *AccountRepository) GetByName(userID uuid.UUID, name string) (*domain.Account, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND name = $2`,
		uuidToPg(userID), name)
	return scanAccount(row)
}

// GetAllByUser retrieves all accounts for a user, oldest first
func (r *AccountRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Account, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		id        pgtype.UUID
		userID    pgtype.UUID
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &account.Name, &account.Currency, &balance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	account.ID = pgToUUID(id)
	account.UserID = pgToUUID(userID)
	account.Balance = pgNumericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	return &account, nil
}
