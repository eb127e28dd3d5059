package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/middleware"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/pacedev/pace-backend/internal/testutil"
)

// setupAuthContext injects an authenticated user into the request context,
// mirroring what the auth middleware does
func setupAuthContext(c echo.Context, user *domain.User) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserKey, user)
	ctx = context.WithValue(ctx, middleware.UserIDKey, user.ID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newAuthTestStack() (*AuthHandler, *testutil.MockUserRepository, *testutil.MockAuthTokenRepository) {
	users := testutil.NewMockUserRepository()
	tokens := testutil.NewMockAuthTokenRepository()
	bootstrap := service.NewBootstrapService(
		testutil.NewMockAccountRepository(),
		testutil.NewMockCategoryRepository(),
		domain.DefaultSeedConfig(),
	)
	authService := service.NewAuthService(
		users,
		testutil.NewMockSessionRepository(),
		tokens,
		bootstrap,
		testutil.NewMockMailer(),
		24*time.Hour,
	)
	return NewAuthHandler(authService), users, tokens
}

func TestSignUp_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	reqBody := `{"username": "jdoe", "email": "jdoe@example.com", "password": "longenoughpassword", "firstName": "Jane"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Username != "jdoe" {
		t.Errorf("Expected username 'jdoe', got %s", response.Username)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Error("Response must not expose the password hash")
	}
}

func TestSignUp_ValidationFailure(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	reqBody := `{"username": "jdoe", "email": "jdoe@example.com", "password": "short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestSignUp_DuplicateEmailConflict(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	reqBody := `{"username": "jdoe", "email": "jdoe@example.com", "password": "longenoughpassword"}`
	for i, expected := range []int{http.StatusCreated, http.StatusConflict} {
		body := reqBody
		if i == 1 {
			body = `{"username": "other", "email": "jdoe@example.com", "password": "longenoughpassword"}`
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler.SignUp(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != expected {
			t.Errorf("Request %d: expected status %d, got %d", i, expected, rec.Code)
		}
	}
}

func TestSignIn_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	signUpBody := `{"username": "jdoe", "email": "jdoe@example.com", "password": "longenoughpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(signUpBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler.SignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Sign-up failed: %v", err)
	}

	signInBody := `{"email": "jdoe@example.com", "password": "longenoughpassword"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", strings.NewReader(signInBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.SignIn(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Token == "" {
		t.Error("Expected a session token")
	}
	if response.User == nil || response.User.Email != "jdoe@example.com" {
		t.Error("Expected the signed-in user in the response")
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	signUpBody := `{"username": "jdoe", "email": "jdoe@example.com", "password": "longenoughpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(signUpBody))
	req.Header.Set("Content-Type", "application/json")
	if err := handler.SignUp(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("Sign-up failed: %v", err)
	}

	signInBody := `{"email": "jdoe@example.com", "password": "wrong"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", strings.NewReader(signInBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	if err := handler.SignIn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMe_ReturnsAuthenticatedUser(t *testing.T) {
	e := echo.New()
	handler, users, _ := newAuthTestStack()

	user, err := users.Create(&domain.User{Username: "jdoe", Email: "jdoe@example.com"})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	if err := handler.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestVerifyEmail_InvalidToken(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	reqBody := `{"token": "deadbeef"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-email", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	if err := handler.VerifyEmail(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestForgotPassword_UnknownEmailStill204(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthTestStack()

	reqBody := `{"email": "nobody@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	if err := handler.ForgotPassword(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}
