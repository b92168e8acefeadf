package site

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/simonting/portfolio/internal/config"
)

// ErrMailDisabled is returned when no SMTP credentials are configured.
var ErrMailDisabled = errors.New("smtp credentials not configured")

// ContactMessage is one contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Mailer delivers contact form submissions.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}

type disabledMailer struct{}

func (disabledMailer) Send(context.Context, ContactMessage) error { return ErrMailDisabled }

// SMTPMailer sends submissions through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer returns an SMTPMailer, or a Mailer that always fails with
// ErrMailDisabled when credentials are missing.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if !cfg.Enabled() {
		return disabledMailer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// Send composes and delivers msg. net/smtp has no context support, so ctx
// is only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := composeContactEmail(m.cfg, msg)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, body); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	m.logger.Info("contact email sent", zap.String("from_name", msg.Name))
	return nil
}

func composeContactEmail(cfg config.MailConfig, msg ContactMessage) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", sanitizeHeader(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + sanitizeHeader(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// sanitizeHeader strips line breaks so form input cannot inject headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
