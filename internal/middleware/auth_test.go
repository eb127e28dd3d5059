package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/domain"
)

// stubSessionResolver resolves a single known token
type stubSessionResolver struct {
	token string
	user  *domain.User
}

func (s *stubSessionResolver) GetSessionUser(token string) (*domain.User, error) {
	if token == s.token {
		return s.user, nil
	}
	return nil, domain.ErrUnauthorized
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	user := &domain.User{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com"}
	mw := NewAuthMiddleware(&stubSessionResolver{token: "good-token", user: user})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser *domain.User
	var gotID uuid.UUID
	handler := mw.Authenticate()(func(c echo.Context) error {
		gotUser = GetUser(c)
		gotID = GetUserID(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if gotUser == nil || gotUser.ID != user.ID {
		t.Error("Expected the resolved user in the request context")
	}
	if gotID != user.ID {
		t.Error("Expected the user ID in the request context")
	}
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	e := echo.New()
	user := &domain.User{ID: uuid.New()}
	mw := NewAuthMiddleware(&stubSessionResolver{token: "good-token", user: user})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic good-token"},
		{"malformed header", "Bearer"},
		{"unknown token", "Bearer bad-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			nextCalled := false
			handler := mw.Authenticate()(func(c echo.Context) error {
				nextCalled = true
				return c.NoContent(http.StatusOK)
			})

			if err := handler(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
			if nextCalled {
				t.Error("Handler must not run for an unauthorized request")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"standard", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"missing", "", ""},
		{"no token", "Bearer", ""},
		{"wrong scheme", "Basic abc123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			if got := BearerToken(c); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
