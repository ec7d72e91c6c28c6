package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eloquence/auth-api/internal/domain"
	"github.com/eloquence/auth-api/internal/pkg/id"
	"github.com/eloquence/auth-api/internal/pkg/token"
)

// Repo is the store surface the session manager needs. Token lookup is
// cross-identity (backed by a secondary index), not per-email.
type Repo interface {
	Put(ctx context.Context, s *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
}

// Service issues and validates opaque bearer sessions. A session's expiry is
// fixed at creation; validation neither slides it nor touches last-access.
type Service struct {
	repo   Repo
	expiry time.Duration
	now    func() time.Time
}

func NewService(repo Repo, expiry time.Duration) *Service {
	return &Service{repo: repo, expiry: expiry, now: func() time.Time { return time.Now().UTC() }}
}

// Create mints a new session for the email: a fresh 256-bit URL-safe token
// and a fresh user id. User identity is ephemeral — every login gets a new id.
func (s *Service) Create(ctx context.Context, email string) (*domain.Session, error) {
	tok, err := token.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := &domain.Session{
		Email:          email,
		Token:          tok,
		UserID:         id.New(),
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(s.expiry),
		PurgeAt:        now.Add(s.expiry + 24*time.Hour).Unix(),
	}
	if err := s.repo.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Validate resolves a bearer token to its session. Returns ErrNotFound for
// unknown tokens and ErrExpired once now >= expires_at.
func (s *Service) Validate(ctx context.Context, tok string) (*domain.Session, error) {
	sess, err := s.repo.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		return nil, fmt.Errorf("session expired at %s: %w", sess.ExpiresAt.Format(time.RFC3339), domain.ErrExpired)
	}
	return sess, nil
}
