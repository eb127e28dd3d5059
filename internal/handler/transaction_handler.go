package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/middleware"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	receiptService     *service.ReceiptService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, receiptService *service.ReceiptService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		receiptService:     receiptService,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	AccountID  string  `json:"accountId"`
	CategoryID *string `json:"categoryId,omitempty"`
	Type       string  `json:"type"`
	Amount     string  `json:"amount"`
	OccurredAt *string `json:"occurredAt,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// CreateTransaction records a transaction and refreshes the month's snapshot
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return NewValidationError(c, "Invalid accountId", []ValidationError{
			{Field: "accountId", Message: "Must be a valid UUID"},
		})
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		parsed, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId", []ValidationError{
				{Field: "categoryId", Message: "Must be a valid UUID"},
			})
		}
		categoryID = &parsed
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var occurredAt *time.Time
	if req.OccurredAt != nil && *req.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.OccurredAt)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", *req.OccurredAt)
			if err != nil {
				return NewValidationError(c, "Invalid occurredAt", []ValidationError{
					{Field: "occurredAt", Message: "Must be RFC 3339 or YYYY-MM-DD"},
				})
			}
		}
		occurredAt = &parsed
	}

	transaction, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       domain.TransactionType(req.Type),
		Amount:     amount,
		OccurredAt: occurredAt,
		Note:       req.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: INCOME, EXPENSE"},
			})
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "accountId", Message: "Account not found"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		if errors.Is(err, domain.ErrTypeMismatch) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category type does not match transaction type"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transaction created")
	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions lists the authenticated user's transactions for a month.
// Defaults to the current month; override with ?month=YYYY-MM.
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ref := time.Now().UTC()
	if monthStr := c.QueryParam("month"); monthStr != "" {
		parsed, err := time.Parse("2006-01", monthStr)
		if err != nil {
			return NewValidationError(c, "Invalid month format (use YYYY-MM)", nil)
		}
		ref = parsed
	}

	transactions, err := h.transactionService.GetMonthTransactions(userID, ref)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}
	return c.JSON(http.StatusOK, transactions)
}

// UploadReceipt attaches a receipt image to a transaction
func (h *TransactionHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "Receipt file is required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Failed to read receipt file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return NewValidationError(c, "Failed to read receipt file", nil)
	}

	key, err := h.receiptService.AttachReceipt(c.Request().Context(), userID, transactionID, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		case errors.Is(err, service.ErrStorageNotConfigured):
			return NewInternalError(c, "Receipt storage is not configured")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	return c.JSON(http.StatusCreated, map[string]string{"receiptKey": key})
}

// GetReceiptURL returns a short-lived URL for a transaction's receipt
func (h *TransactionHandler) GetReceiptURL(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	url, err := h.receiptService.ReceiptURL(c.Request().Context(), userID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Receipt not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to generate receipt URL")
		return NewInternalError(c, "Failed to generate receipt URL")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
