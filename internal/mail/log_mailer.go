package mail

import "github.com/rs/zerolog/log"

// LogMailer logs instead of sending. Used in development when SMTP is not
// configured.
type LogMailer struct{}

// NewLogMailer creates a new LogMailer
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendVerificationEmail logs the verification token
func (m *LogMailer) SendVerificationEmail(to, name, token string) error {
	log.Info().Str("to", to).Str("token", token).Msg("Verification email (not sent, SMTP disabled)")
	return nil
}

// SendPasswordResetEmail logs the reset token
func (m *LogMailer) SendPasswordResetEmail(to, name, token string) error {
	log.Info().Str("to", to).Str("token", token).Msg("Password reset email (not sent, SMTP disabled)")
	return nil
}
