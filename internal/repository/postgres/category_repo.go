package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacedev/pace-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, type, icon, color, is_default, created_at, updated_at`

// Create inserts a new category. Returns ErrAlreadyExists when
// (user, type, name) is already taken.
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO categories (user_id, name, type, icon, color, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		uuidToPg(category.UserID), category.Name, string(category.Type),
		stringPtrToPgText(category.Icon), stringPtrToPgText(category.Color), category.IsDefault)

	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category owned by the user
func (r *CategoryRepository) GetByID(userID, id uuid.UUID) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id))
	return scanCategory(row)
}

// GetAllByUser retrieves all categories for a user, income before expense,
// then by name
func (r *CategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY type, name`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category  domain.Category
		id        pgtype.UUID
		userID    pgtype.UUID
		txType    string
		icon      pgtype.Text
		color     pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &userID, &category.Name, &txType, &icon, &color,
		&category.IsDefault, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	category.ID = pgToUUID(id)
	category.UserID = pgToUUID(userID)
	category.Type = domain.TransactionType(txType)
	category.Icon = pgTextToStringPtr(icon)
	category.Color = pgTextToStringPtr(color)
	category.CreatedAt = createdAt.Time
	category.UpdatedAt = updatedAt.Time
	return &category, nil
}
