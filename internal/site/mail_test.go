package site

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simonting/portfolio/internal/config"
)

func TestNewMailerWithoutCredentials(t *testing.T) {
	t.Parallel()

	m := NewMailer(config.MailConfig{Host: "smtp.example.com", Port: "587"}, nil)
	require.ErrorIs(t, m.Send(context.Background(), ContactMessage{}), ErrMailDisabled)
}

func TestSMTPMailerSend(t *testing.T) {
	t.Parallel()

	cfg := config.MailConfig{Host: "smtp.example.com", Port: "587", User: "site@example.com", Pass: "pw", To: "me@example.com"}
	m := NewMailer(cfg, nil).(*SMTPMailer)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), ContactMessage{
		Name:    "Eve\r\nBcc: victim@example.com",
		Email:   "eve@example.com",
		Message: "hi",
	})
	require.NoError(t, err)
	require.Equal(t, "smtp.example.com:587", gotAddr)
	require.Equal(t, "site@example.com", gotFrom)
	require.Equal(t, []string{"me@example.com"}, gotTo)

	headers := strings.SplitN(string(gotBody), "\r\n\r\n", 2)[0]
	require.Contains(t, headers, "Subject: Portfolio Contact: Eve  Bcc: victim@example.com")
	require.NotContains(t, headers, "\r\nBcc:")
}

func TestSMTPMailerSendError(t *testing.T) {
	t.Parallel()

	cfg := config.MailConfig{Host: "h", Port: "25", User: "u", Pass: "p", To: "t@example.com"}
	m := NewMailer(cfg, nil).(*SMTPMailer)
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	require.Error(t, m.Send(context.Background(), ContactMessage{Name: "a", Email: "b@example.com", Message: "c"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Send(ctx, ContactMessage{}), context.Canceled)
}
