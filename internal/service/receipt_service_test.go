package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryObjectStore keeps uploaded objects in a map so tests can assert on
// what was stored without a real bucket.
type memoryObjectStore struct {
	objects  map[string][]byte
	uploadFn func(objectPath string) error
}

func newMemoryObjectStore() *memoryObjectStore {
	return &memoryObjectStore{objects: make(map[string][]byte)}
}

func (s *memoryObjectStore) Upload(_ context.Context, objectPath string, data io.Reader, _ string, _ int64) (string, error) {
	if s.uploadFn != nil {
		if err := s.uploadFn(objectPath); err != nil {
			return "", err
		}
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.objects[objectPath] = b
	return objectPath, nil
}

func (s *memoryObjectStore) Delete(_ context.Context, objectPath string) error {
	delete(s.objects, objectPath)
	return nil
}

func (s *memoryObjectStore) GeneratePresignedURL(_ context.Context, objectPath string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectPath, nil
}

type receiptFixture struct {
	svc          *ReceiptService
	store        *memoryObjectStore
	transactions *testutil.MockTransactionRepository
	userID       uuid.UUID
}

func newReceiptFixture() *receiptFixture {
	store := newMemoryObjectStore()
	transactions := testutil.NewMockTransactionRepository()
	return &receiptFixture{
		svc:          NewReceiptService(store, transactions),
		store:        store,
		transactions: transactions,
		userID:       uuid.New(),
	}
}

func (f *receiptFixture) addTransaction(t *testing.T, userID uuid.UUID) *domain.Transaction {
	t.Helper()
	transaction, err := f.transactions.Create(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(20),
		Currency:   "EUR",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return transaction
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReceiptService_AttachReceipt(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, f.userID)

	key, err := f.svc.AttachReceipt(context.Background(), f.userID, transaction.ID, pngBytes(t, 10, 10), "receipt.png")
	require.NoError(t, err)

	assert.Contains(t, f.store.objects, key)
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	require.NotNil(t, transaction.ReceiptKey)
	assert.Equal(t, key, *transaction.ReceiptKey)
}

func TestReceiptService_AttachReceipt_RejectsForeignTransaction(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, uuid.New())

	_, err := f.svc.AttachReceipt(context.Background(), f.userID, transaction.ID, pngBytes(t, 10, 10), "receipt.png")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.Empty(t, f.store.objects)
}

func TestReceiptService_AttachReceipt_RejectsUnsupportedExtension(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, f.userID)

	_, err := f.svc.AttachReceipt(context.Background(), f.userID, transaction.ID, pngBytes(t, 10, 10), "receipt.pdf")
	assert.ErrorIs(t, err, ErrInvalidReceiptFormat)
}

func TestReceiptService_AttachReceipt_RejectsOversizedFile(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, f.userID)

	data := make([]byte, MaxReceiptSize+1)
	_, err := f.svc.AttachReceipt(context.Background(), f.userID, transaction.ID, data, "receipt.jpg")
	assert.ErrorIs(t, err, ErrReceiptTooLarge)
}

func TestReceiptService_AttachReceipt_RejectsCorruptImage(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, f.userID)

	_, err := f.svc.AttachReceipt(context.Background(), f.userID, transaction.ID, []byte("not an image"), "receipt.jpg")
	assert.ErrorIs(t, err, ErrInvalidReceiptData)
}

func TestReceiptService_AttachReceipt_CleansUpWhenKeyWriteFails(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, f.userID)
	// Dropping the transaction after the ownership check makes SetReceiptKey fail.
	f.store.uploadFn = func(string) error {
		delete(f.transactions.Transactions, transaction.ID)
		return nil
	}

	_, err := f.svc.AttachReceipt(context.Background(), f.userID, transaction.ID, pngBytes(t, 10, 10), "receipt.png")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.Empty(t, f.store.objects)
}

func TestReceiptService_NotConfigured(t *testing.T) {
	transactions := testutil.NewMockTransactionRepository()
	svc := NewReceiptService(nil, transactions)

	assert.False(t, svc.IsEnabled())

	_, err := svc.AttachReceipt(context.Background(), uuid.New(), uuid.New(), nil, "receipt.png")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	_, err = svc.ReceiptURL(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}

func TestReceiptService_ReceiptURL(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, f.userID)

	key, err := f.svc.AttachReceipt(context.Background(), f.userID, transaction.ID, pngBytes(t, 10, 10), "receipt.png")
	require.NoError(t, err)

	url, err := f.svc.ReceiptURL(context.Background(), f.userID, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/"+key, url)
}

func TestReceiptService_ReceiptURL_NoReceiptAttached(t *testing.T) {
	f := newReceiptFixture()
	transaction := f.addTransaction(t, f.userID)

	_, err := f.svc.ReceiptURL(context.Background(), f.userID, transaction.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
