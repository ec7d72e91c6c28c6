package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/eloquence/auth-api/internal/config"
	"github.com/resend/resend-go/v2"
)

// Sender delivers transactional mail. Failure is surfaced to the caller;
// nothing here retries.
type Sender interface {
	Send(ctx context.Context, to, subject, plainText, html string) error
}

// NewSender picks an implementation from config: "log" for local development,
// "resend" for the Resend API, "smtp" otherwise.
func NewSender(cfg *config.Config, logger *slog.Logger) Sender {
	switch cfg.EmailProvider {
	case "log":
		return &LogSender{logger: logger}
	case "resend":
		return &ResendSender{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.EmailFrom}
	default:
		return &SMTPSender{
			addr:     fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort),
			host:     cfg.SMTPHost,
			from:     cfg.EmailFrom,
			username: cfg.SMTPUsername,
			password: cfg.SMTPPassword,
		}
	}
}

// LogSender logs emails instead of sending them — used in local development.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, plainText, _ string) error {
	s.logger.Info("otp email (local dev)", "to", to, "subject", subject, "body", plainText)
	return nil
}

// ResendSender sends mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, plainText, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    plainText,
		Html:    html,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SMTPSender sends mail over plain SMTP (e.g. a relay or Mailpit locally).
type SMTPSender struct {
	addr     string
	host     string
	from     string
	username string
	password string
}

func (s *SMTPSender) Send(_ context.Context, to, subject, plainText, html string) error {
	body := plainText
	contentType := "text/plain; charset=utf-8"
	if html != "" {
		body = html
		contentType = "text/html; charset=utf-8"
	}
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n%s",
		s.from, to, subject, contentType, body,
	)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	return smtp.SendMail(s.addr, auth, s.from, []string{to}, []byte(msg))
}
