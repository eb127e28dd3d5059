package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, account_id, category_id, type, amount, currency, occurred_at, note, receipt_key, created_at`

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO transactions (user_id, account_id, category_id, type, amount, currency, occurred_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		uuidToPg(transaction.UserID), uuidToPg(transaction.AccountID),
		uuidPtrToPg(transaction.CategoryID), string(transaction.Type), amount,
		transaction.Currency, transaction.OccurredAt, stringPtrToPgText(transaction.Note))
	return scanTransaction(row)
}

// GetByID retrieves a transaction owned by the user
func (r *TransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id))
	return scanTransaction(row)
}

// GetByUserAndWindow returns transactions with occurred_at in [start, end),
// newest first
func (r *TransactionRepository) GetByUserAndWindow(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at DESC, created_at DESC`,
		uuidToPg(userID), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// SumByTypeAndWindow sums amounts of the given type with occurred_at in
// [start, end). The sum happens in SQL so monetary precision never leaves
// NUMERIC.
func (r *TransactionRepository) SumByTypeAndWindow(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := r.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND occurred_at >= $3 AND occurred_at < $4`,
		uuidToPg(userID), string(txType), start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// SetReceiptKey attaches a stored receipt object key to a transaction
func (r *TransactionRepository) SetReceiptKey(userID, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE transactions SET receipt_key = $3 WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id), key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		id          pgtype.UUID
		userID      pgtype.UUID
		accountID   pgtype.UUID
		categoryID  pgtype.UUID
		txType      string
		amount      pgtype.Numeric
		occurredAt  pgtype.Timestamptz
		note        pgtype.Text
		receiptKey  pgtype.Text
		createdAt   pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &accountID, &categoryID, &txType, &amount,
		&transaction.Currency, &occurredAt, &note, &receiptKey, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	transaction.ID = pgToUUID(id)
	transaction.UserID = pgToUUID(userID)
	transaction.AccountID = pgToUUID(accountID)
	transaction.CategoryID = pgToUUIDPtr(categoryID)
	transaction.Type = domain.TransactionType(txType)
	transaction.Amount = pgNumericToDecimal(amount)
	transaction.OccurredAt = occurredAt.Time
	transaction.Note = pgTextToStringPtr(note)
	transaction.ReceiptKey = pgTextToStringPtr(receiptKey)
	transaction.CreatedAt = createdAt.Time
	return &transaction, nil
}
