package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eloquence/auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Issue(ctx context.Context, email string) (*domain.OTPCode, error) {
	args := m.Called(ctx, email)
	if c, _ := args.Get(0).(*domain.OTPCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEngine) Verify(ctx context.Context, email, candidate string) (*domain.OTPCode, error) {
	args := m.Called(ctx, email, candidate)
	if c, _ := args.Get(0).(*domain.OTPCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) Create(ctx context.Context, email string) (*domain.Session, error) {
	args := m.Called(ctx, email)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, plainText, html string) error {
	return m.Called(ctx, to, subject, plainText, html).Error(0)
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(engine OTPEngine, sessions SessionManager, mailer *mockMailer) *Service {
	s := NewService(engine, sessions, mailer)
	s.now = func() time.Time { return testNow }
	return s
}

func issuedCode() *domain.OTPCode {
	return &domain.OTPCode{
		Email:     "a@x.com",
		CodeID:    "01CODE",
		Code:      "482913",
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(10 * time.Minute),
	}
}

func TestSendOTP(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Issue", mock.Anything, "a@x.com").Return(issuedCode(), nil)

	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, "a@x.com", "Your Eloquence Login Code",
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "482913") }),
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "482913") }),
	).Return(nil)

	expiresIn, err := newTestService(engine, nil, mailer).SendOTP(context.Background(), "a@x.com")

	require.NoError(t, err)
	assert.Equal(t, 600, expiresIn)
	mailer.AssertExpectations(t)
}

func TestSendOTP_BodyMentionsExpiry(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Issue", mock.Anything, "a@x.com").Return(issuedCode(), nil)

	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, "a@x.com", mock.Anything,
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "10 minutes") }),
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "10 minutes") }),
	).Return(nil)

	_, err := newTestService(engine, nil, mailer).SendOTP(context.Background(), "a@x.com")
	require.NoError(t, err)
}

func TestSendOTP_RateLimitedPassesThrough(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Issue", mock.Anything, "a@x.com").Return(nil, domain.ErrRateLimited)

	mailer := &mockMailer{}
	_, err := newTestService(engine, nil, mailer).SendOTP(context.Background(), "a@x.com")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendOTP_DeliveryFailure(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Issue", mock.Anything, "a@x.com").Return(issuedCode(), nil)

	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp: connection refused"))

	_, err := newTestService(engine, nil, mailer).SendOTP(context.Background(), "a@x.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestVerifyOTP(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Verify", mock.Anything, "a@x.com", "482913").Return(issuedCode(), nil)

	sessions := &mockSessions{}
	sessions.On("Create", mock.Anything, "a@x.com").Return(&domain.Session{
		Email:     "a@x.com",
		Token:     "tok",
		UserID:    "01USER",
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(30 * 24 * time.Hour),
	}, nil)

	res, err := newTestService(engine, sessions, &mockMailer{}).VerifyOTP(context.Background(), "a@x.com", "482913")

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Session.Token)
	assert.Equal(t, 30*24*3600, res.ExpiresIn)
}

func TestVerifyOTP_InvalidCode(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Verify", mock.Anything, "a@x.com", "000000").Return(nil, domain.ErrInvalidCode)

	sessions := &mockSessions{}
	_, err := newTestService(engine, sessions, &mockMailer{}).VerifyOTP(context.Background(), "a@x.com", "000000")

	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerifyOTP_SessionStoreFailure(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Verify", mock.Anything, "a@x.com", "482913").Return(issuedCode(), nil)

	sessions := &mockSessions{}
	sessions.On("Create", mock.Anything, "a@x.com").Return(nil, errors.New("throttled"))

	_, err := newTestService(engine, sessions, &mockMailer{}).VerifyOTP(context.Background(), "a@x.com", "482913")
	require.Error(t, err)
}
