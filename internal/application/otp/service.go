package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/eloquence/auth-api/internal/domain"
	"github.com/eloquence/auth-api/internal/pkg/id"
)

// Repo is the store surface the policy engine needs.
type Repo interface {
	Put(ctx context.Context, c *domain.OTPCode) error
	LatestUnused(ctx context.Context, email string) (*domain.OTPCode, error)
	IncrementAttempts(ctx context.Context, email, codeID string) (int, error)
	MarkUsed(ctx context.Context, email, codeID string, usedAt time.Time) error
	DeleteAllExcept(ctx context.Context, email, keepCodeID string) error
}

// Config is the OTP policy: code length, lifetime, guess budget and the
// minimum spacing between issuances for one identity.
type Config struct {
	Length      int
	Expiry      time.Duration
	MaxAttempts int
	RateLimit   time.Duration
}

// Service decides, per identity and over time, whether codes can be issued
// and whether a presented code is valid. All state lives in the store; the
// service holds only policy.
type Service struct {
	repo   Repo
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repo, cfg Config, logger *slog.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Issue generates, persists and returns a fresh code for the email.
// Returns ErrRateLimited when an unused code was issued less than the
// rate-limit window ago. The new record is written before old ones are
// purged, so a reported success never leaves the identity without a live
// code; purge failures are logged and swallowed.
func (s *Service) Issue(ctx context.Context, email string) (*domain.OTPCode, error) {
	email = normalize(email)
	now := s.now()

	prev, err := s.repo.LatestUnused(ctx, email)
	switch {
	case err == nil:
		if now.Sub(prev.CreatedAt) < s.cfg.RateLimit {
			return nil, fmt.Errorf("otp requested %s ago: %w", now.Sub(prev.CreatedAt).Round(time.Second), domain.ErrRateLimited)
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check rate limit: %w", err)
	}

	code, err := generateCode(s.cfg.Length)
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	rec := &domain.OTPCode{
		Email:     email,
		CodeID:    id.New(),
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Expiry),
		Attempts:  0,
		Used:      false,
		PurgeAt:   now.Add(s.cfg.Expiry + 24*time.Hour).Unix(),
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	// Best-effort cleanup of superseded codes; the new record is already live.
	if err := s.repo.DeleteAllExcept(ctx, email, rec.CodeID); err != nil {
		s.logger.Warn("failed to purge old otp codes", "email", email, "err", err)
	}

	return rec, nil
}

// Verify checks a candidate code against the latest unused record. The order
// is fixed: missing, expired and exhausted all fail before the code is
// compared, so a stale or abused record never leaks whether a guess was
// close. Only wrong guesses consume an attempt.
func (s *Service) Verify(ctx context.Context, email, candidate string) (*domain.OTPCode, error) {
	email = normalize(email)
	now := s.now()

	rec, err := s.repo.LatestUnused(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no otp for %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load otp: %w", err)
	}
	if rec.Expired(now) {
		return nil, fmt.Errorf("otp expired at %s: %w", rec.ExpiresAt.Format(time.RFC3339), domain.ErrExpired)
	}
	if rec.Attempts >= s.cfg.MaxAttempts {
		return nil, fmt.Errorf("%d failed attempts: %w", rec.Attempts, domain.ErrAttemptsExhausted)
	}
	if rec.Code != candidate {
		if n, err := s.repo.IncrementAttempts(ctx, email, rec.CodeID); err != nil {
			s.logger.Warn("failed to record otp attempt", "email", email, "err", err)
		} else {
			rec.Attempts = n
		}
		return nil, fmt.Errorf("wrong code: %w", domain.ErrInvalidCode)
	}

	if err := s.repo.MarkUsed(ctx, email, rec.CodeID, now); err != nil {
		// A concurrent verify already consumed it.
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	rec.Used = true
	rec.UsedAt = &now

	return rec, nil
}

// generateCode returns a uniform random numeric string of the given length,
// leading zeros preserved.
func generateCode(length int) (string, error) {
	max := big.NewInt(10)
	max.Exp(max, big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
