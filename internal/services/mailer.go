package services

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/camphub/campus-events-api/internal/config"
	"github.com/camphub/campus-events-api/internal/logger"
)

// Mailer delivers outbound notifications. Email rendering and delivery are
// external collaborators; the auth service only hands over the reset token.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTPMailer builds an SMTPMailer from configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

// SendPasswordReset delivers the password reset token to the user.
func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Password Reset Request\r\n\r\nUse this token to reset your password: %s\r\n",
		m.from, to, token,
	)

	addr := m.host + ":" + m.port
	var a smtp.Auth
	if m.user != "" {
		a = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(addr, a, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("send password reset mail: %w", err)
	}
	return nil
}

// LogMailer logs deliveries instead of sending them. Used when SMTP is not
// configured and in tests.
type LogMailer struct{}

// SendPasswordReset logs the delivery without exposing the token value.
func (LogMailer) SendPasswordReset(to, _ string) error {
	logger.Info("password reset requested", zap.String("email", to))
	return nil
}

// NewMailer picks the SMTP implementation when a host is configured and the
// logging fallback otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
