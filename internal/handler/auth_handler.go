package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/middleware"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUpRequest represents the sign-up request body
type SignUpRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SignInRequest represents the sign-in request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse represents an issued session in API responses
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// SignUp registers a new user and seeds their defaults
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.SignUp(service.SignUpInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid sign-up data", nil)
		}
		if errors.Is(err, domain.ErrEmailTaken) {
			return NewConflictError(c, "Email already registered")
		}
		if errors.Is(err, domain.ErrUsernameTaken) {
			return NewConflictError(c, "Username already taken")
		}
		log.Error().Err(err).Msg("Failed to sign up user")
		return NewInternalError(c, "Failed to sign up")
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return c.JSON(http.StatusCreated, user)
}

// SignIn checks credentials and issues a session token
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	session, user, err := h.authService.SignIn(service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Failed to sign in user")
		return NewInternalError(c, "Failed to sign in")
	}

	return c.JSON(http.StatusOK, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		User:      user,
	})
}

// SignOut revokes the current session
func (h *AuthHandler) SignOut(c echo.Context) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return NewUnauthorizedError(c, "Missing session token")
	}
	if err := h.authService.SignOut(token); err != nil {
		log.Error().Err(err).Msg("Failed to sign out")
		return NewInternalError(c, "Failed to sign out")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	return c.JSON(http.StatusOK, user)
}

// VerifyEmailRequest represents the verify-email request body
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// VerifyEmail consumes a verification token
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req VerifyEmailRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return NewValidationError(c, "Token is required", nil)
	}

	if err := h.authService.VerifyEmail(req.Token); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrTokenExpired) {
			return NewValidationError(c, "Invalid or expired token", nil)
		}
		log.Error().Err(err).Msg("Failed to verify email")
		return NewInternalError(c, "Failed to verify email")
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPasswordRequest represents the forgot-password request body
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword sends a password reset email. Always responds 204 so the
// endpoint cannot be used to probe for accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return NewValidationError(c, "Email is required", nil)
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		log.Error().Err(err).Msg("Failed to request password reset")
		return NewInternalError(c, "Failed to request password reset")
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPasswordRequest represents the reset-password request body
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and sets a new password
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return NewValidationError(c, "Token is required", nil)
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Password must be at least 8 characters", nil)
		}
		if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrTokenExpired) {
			return NewValidationError(c, "Invalid or expired token", nil)
		}
		log.Error().Err(err).Msg("Failed to reset password")
		return NewInternalError(c, "Failed to reset password")
	}
	return c.NoContent(http.StatusNoContent)
}
