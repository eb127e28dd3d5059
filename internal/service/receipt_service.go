package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/repository/storage"
)

const (
	MaxReceiptSize  = 5 * 1024 * 1024 // 5MB
	ReceiptMaxWidth = 1200
	JPEGQuality     = 85

	receiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge      = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrInvalidReceiptData   = errors.New("invalid image data")
	ErrStorageNotConfigured = errors.New("receipt storage not configured")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptService attaches receipt images to transactions. Images are
// downscaled and re-encoded before upload; reads go through short-lived
// presigned URLs so the bucket stays private.
type ReceiptService struct {
	storage         storage.ReceiptRepository
	transactionRepo domain.TransactionRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, transactionRepo domain.TransactionRepository) *ReceiptService {
	return &ReceiptService{
		storage:         storage,
		transactionRepo: transactionRepo,
	}
}

// IsEnabled indicates whether uploads are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// AttachReceipt validates, downscales, and uploads an image, then records its
// object key on the transaction.
func (s *ReceiptService) AttachReceipt(ctx context.Context, userID, transactionID uuid.UUID, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrStorageNotConfigured
	}

	// Ownership check before any upload
	if _, err := s.transactionRepo.GetByID(userID, transactionID); err != nil {
		return "", err
	}

	img, err := validateReceipt(data, filename)
	if err != nil {
		return "", err
	}

	if img.Bounds().Dx() > ReceiptMaxWidth {
		img = imaging.Resize(img, ReceiptMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", ErrInvalidReceiptData
	}

	objectPath := storage.GenerateObjectPath(userID, transactionID, ".jpg")
	key, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", err
	}

	if err := s.transactionRepo.SetReceiptKey(userID, transactionID, key); err != nil {
		// Best-effort cleanup of the orphaned object
		_ = s.storage.Delete(ctx, key)
		return "", err
	}
	return key, nil
}

// ReceiptURL returns a short-lived presigned URL for the transaction's
// receipt, or ErrNotFound when none is attached.
func (s *ReceiptService) ReceiptURL(ctx context.Context, userID, transactionID uuid.UUID) (string, error) {
	if !s.IsEnabled() {
		return "", ErrStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return "", err
	}
	if transaction.ReceiptKey == nil || *transaction.ReceiptKey == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GeneratePresignedURL(ctx, *transaction.ReceiptKey, receiptURLExpiry)
}

func validateReceipt(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}
	return img, nil
}
