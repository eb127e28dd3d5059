package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/pacedev/pace-backend/internal/testutil"
)

func newAccountTestStack() (*AccountHandler, *testutil.MockAccountRepository, *domain.User) {
	accounts := testutil.NewMockAccountRepository()
	handler := NewAccountHandler(service.NewAccountService(accounts))
	user := &domain.User{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com"}
	return handler, accounts, user
}

func TestCreateAccount_Success(t *testing.T) {
	e := echo.New()
	handler, _, user := newAccountTestStack()

	reqBody := `{"name": "Savings", "currency": "usd", "balance": "1500.25"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Savings" {
		t.Errorf("Expected name 'Savings', got %s", response.Name)
	}
	if response.Currency != "USD" {
		t.Errorf("Expected currency uppercased to USD, got %s", response.Currency)
	}
	if response.Balance.String() != "1500.25" {
		t.Errorf("Expected balance 1500.25, got %s", response.Balance.String())
	}
}

func TestCreateAccount_ValidationErrors(t *testing.T) {
	e := echo.New()
	handler, _, user := newAccountTestStack()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"currency": "EUR"}`},
		{"bad currency", `{"name": "Savings", "currency": "EURO"}`},
		{"bad balance", `{"name": "Savings", "currency": "EUR", "balance": "lots"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setupAuthContext(c, user)

			if err := handler.CreateAccount(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateAccount_DuplicateNameConflict(t *testing.T) {
	e := echo.New()
	handler, _, user := newAccountTestStack()

	reqBody := `{"name": "Savings", "currency": "EUR"}`
	for i, expected := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, user)

		if err := handler.CreateAccount(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != expected {
			t.Errorf("Request %d: expected status %d, got %d", i, expected, rec.Code)
		}
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, user := newAccountTestStack()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	setupAuthContext(c, user)

	if err := handler.GetAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetAccounts_ScopedToUser(t *testing.T) {
	e := echo.New()
	handler, accounts, user := newAccountTestStack()

	if _, err := accounts.Create(&domain.Account{UserID: user.ID, Name: "Main", Currency: "EUR"}); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if _, err := accounts.Create(&domain.Account{UserID: uuid.New(), Name: "Other", Currency: "EUR"}); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user)

	if err := handler.GetAccounts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []*domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Errorf("Expected 1 account, got %d", len(response))
	}
}
