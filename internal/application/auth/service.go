package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eloquence/auth-api/internal/domain"
	"github.com/eloquence/auth-api/internal/infrastructure/email"
)

// LoginResult is what a successful verify hands back to the transport layer.
type LoginResult struct {
	Session   *domain.Session
	ExpiresIn int // seconds until the session expires
}

// OTPEngine issues and verifies one-time passcodes.
type OTPEngine interface {
	Issue(ctx context.Context, email string) (*domain.OTPCode, error)
	Verify(ctx context.Context, email, candidate string) (*domain.OTPCode, error)
}

// SessionManager creates sessions for verified identities.
type SessionManager interface {
	Create(ctx context.Context, email string) (*domain.Session, error)
}

// Service orchestrates the login flow: issue a code and mail it, then trade a
// verified code for a session.
type Service struct {
	engine   OTPEngine
	sessions SessionManager
	mailer   email.Sender
	now      func() time.Time
}

func NewService(engine OTPEngine, sessions SessionManager, mailer email.Sender) *Service {
	return &Service{engine: engine, sessions: sessions, mailer: mailer, now: func() time.Time { return time.Now().UTC() }}
}

// SendOTP issues a code for the email and delivers it. Returns the number of
// seconds until the code expires. Delivery failure surfaces to the caller;
// the issued code stays live so a retry inside the rate-limit window would
// still be refused.
func (s *Service) SendOTP(ctx context.Context, emailAddr string) (int, error) {
	rec, err := s.engine.Issue(ctx, emailAddr)
	if err != nil {
		return 0, err
	}

	subject := "Your Eloquence Login Code"
	expiresMinutes := int(rec.ExpiresAt.Sub(rec.CreatedAt).Minutes())
	if err := s.mailer.Send(ctx, rec.Email, subject, plainBody(rec.Code, expiresMinutes), htmlBody(rec.Code, expiresMinutes)); err != nil {
		return 0, fmt.Errorf("deliver otp: %w: %w", domain.ErrUnavailable, err)
	}

	return int(rec.ExpiresAt.Sub(s.now()).Seconds()), nil
}

// VerifyOTP validates the code and, on success, creates a session.
func (s *Service) VerifyOTP(ctx context.Context, emailAddr, code string) (*LoginResult, error) {
	rec, err := s.engine.Verify(ctx, emailAddr, code)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, rec.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Session:   sess,
		ExpiresIn: int(sess.ExpiresAt.Sub(s.now()).Seconds()),
	}, nil
}

func plainBody(code string, expiresMinutes int) string {
	return strings.TrimSpace(fmt.Sprintf(`
Hello,

Your Eloquence login code is: %s

This code will expire in %d minutes.

If you didn't request this code, please ignore this email.

Best regards,
The Eloquence Team`, code, expiresMinutes))
}

func htmlBody(code string, expiresMinutes int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Your Eloquence Login Code</h2>
    <p>Use this code to complete your login:</p>
    <div style="font-size: 32px; font-weight: bold; color: #CA8A04; letter-spacing: 8px; text-align: center; padding: 20px; background: #1E1E1E; border-radius: 8px; margin: 30px 0;">%s</div>
    <p>This code will expire in %d minutes.</p>
    <p style="color: #666; font-size: 12px; margin-top: 30px;">If you didn't request this code, please ignore this email.</p>
  </div>
</body>
</html>`, code, expiresMinutes)
}
