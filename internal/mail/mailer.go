package mail

import (
	"fmt"

	"github.com/pacedev/pace-backend/internal/config"
	gomail "github.com/wneessen/go-mail"
)

// SMTPMailer sends transactional email over SMTP
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerificationEmail sends the email-address verification link
func (m *SMTPMailer) SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.AppURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nConfirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours. If you did not sign up, ignore this email.\n",
		displayName(name), link,
	)
	return m.send(to, "Verify your email", body)
}

// SendPasswordResetEmail sends the password reset link
func (m *SMTPMailer) SendPasswordResetEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.AppURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nReset your password by opening the link below:\n\n%s\n\nThe link expires in 1 hour. If you did not request a reset, ignore this email.\n",
		displayName(name), link,
	)
	return m.send(to, "Reset your password", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithSSLPort(true),
	)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	return client.DialAndSend(msg)
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
