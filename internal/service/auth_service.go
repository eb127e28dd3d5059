package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Mailer sends the transactional emails the auth flows depend on. Failures
// are logged but never fail the originating request.
type Mailer interface {
	SendVerificationEmail(to, name, token string) error
	SendPasswordResetEmail(to, name, token string) error
}

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 1 * time.Hour
)

type SignUpInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService implements first-party credential auth: bcrypt password
// hashes, opaque session tokens, and single-use email tokens for
// verification and password reset.
type AuthService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokenRepo   domain.AuthTokenRepository
	bootstrap   *BootstrapService
	mailer      Mailer
	sessionTTL  time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenRepo domain.AuthTokenRepository,
	bootstrap *BootstrapService,
	mailer Mailer,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenRepo:   tokenRepo,
		bootstrap:   bootstrap,
		mailer:      mailer,
		sessionTTL:  sessionTTL,
	}
}

// SignUp registers a user, seeds their default account and categories, and
// sends a verification email.
func (s *AuthService) SignUp(input SignUpInput) (*domain.User, error) {
	if err := validateSignUp(&input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.userRepo.Create(&domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bootstrap.EnsureDefaults(user.ID); err != nil {
		// The user exists; defaults will be re-ensured on first sign-in.
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to seed defaults at sign-up")
	}

	s.sendEmailToken(user, domain.TokenPurposeVerifyEmail)
	return user, nil
}

// SignIn checks credentials and issues a session. The same error is returned
// for an unknown email and a wrong password.
func (s *AuthService) SignIn(input SignInInput) (*domain.Session, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.bootstrap.EnsureDefaults(user.ID); err != nil {
		return nil, nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessionRepo.Create(&domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// SignOut revokes the session token. Revoking an unknown token is not an error.
func (s *AuthService) SignOut(token string) error {
	return s.sessionRepo.Revoke(token)
}

// GetSessionUser resolves a session token to its user, rejecting expired
// sessions.
func (s *AuthService) GetSessionUser(token string) (*domain.User, error) {
	session, err := s.sessionRepo.GetValid(token, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return s.userRepo.GetByID(session.UserID)
}

// VerifyEmail consumes a verification token and marks the user verified.
func (s *AuthService) VerifyEmail(token string) error {
	authToken, err := s.tokenRepo.Consume(token, domain.TokenPurposeVerifyEmail, time.Now())
	if err != nil {
		return err
	}
	return s.userRepo.MarkEmailVerified(authToken.UserID)
}

// RequestPasswordReset emails a reset token. An unknown email is reported as
// success so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	// Only the newest reset token is honored.
	if err := s.tokenRepo.DeleteAllForUser(user.ID, domain.TokenPurposePasswordReset); err != nil {
		return err
	}
	s.sendEmailToken(user, domain.TokenPurposePasswordReset)
	return nil
}

// ResetPassword consumes a reset token, replaces the password hash, and
// revokes every open session for the user.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrInvalidInput
	}

	authToken, err := s.tokenRepo.Consume(token, domain.TokenPurposePasswordReset, time.Now())
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(authToken.UserID, string(hash)); err != nil {
		return err
	}
	return s.sessionRepo.RevokeAllForUser(authToken.UserID)
}

func (s *AuthService) sendEmailToken(user *domain.User, purpose domain.TokenPurpose) {
	token, err := newToken()
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to generate email token")
		return
	}

	ttl := verifyTokenTTL
	if purpose == domain.TokenPurposePasswordReset {
		ttl = resetTokenTTL
	}
	if _, err := s.tokenRepo.Create(&domain.AuthToken{
		Token:     token,
		UserID:    user.ID,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to store email token")
		return
	}

	go func(userID uuid.UUID) {
		var sendErr error
		switch purpose {
		case domain.TokenPurposeVerifyEmail:
			sendErr = s.mailer.SendVerificationEmail(user.Email, user.FirstName, token)
		case domain.TokenPurposePasswordReset:
			sendErr = s.mailer.SendPasswordResetEmail(user.Email, user.FirstName, token)
		}
		if sendErr != nil {
			log.Error().Err(sendErr).Str("user_id", userID.String()).Str("purpose", string(purpose)).Msg("Failed to send email")
		}
	}(user.ID)
}

func validateSignUp(input *SignUpInput) error {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.Username == "" || input.Email == "" {
		return domain.ErrInvalidInput
	}
	if !strings.Contains(input.Email, "@") {
		return domain.ErrInvalidInput
	}
	if len(input.Password) < domain.MinPasswordLength {
		return domain.ErrInvalidInput
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
