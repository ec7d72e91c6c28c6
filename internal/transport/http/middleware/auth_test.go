package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eloquence/auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockValidator struct{ mock.Mock }

func (m *mockValidator) Validate(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func protectedHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		require.True(t, ok, "handler must receive the validated session")
		assert.Equal(t, wantEmail, sess.Email)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	v := &mockValidator{}
	v.On("Validate", mock.Anything, "goodtoken").Return(&domain.Session{Email: "a@x.com", Token: "goodtoken"}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/llm/transcribe", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")

	Auth(v)(protectedHandler(t, "a@x.com")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	v := &mockValidator{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/llm/transcribe", nil)

	Auth(v)(protectedHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	v.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, header := range []string{"goodtoken", "Basic goodtoken", "bearer goodtoken"} {
		v := &mockValidator{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/llm/transcribe", nil)
		req.Header.Set("Authorization", header)

		Auth(v)(protectedHandler(t, "")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		v.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	}
}

func TestAuth_UnknownToken(t *testing.T) {
	v := &mockValidator{}
	v.On("Validate", mock.Anything, "stale").Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/llm/transcribe", nil)
	req.Header.Set("Authorization", "Bearer stale")

	Auth(v)(protectedHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired")
}

func TestAuth_ExpiredSession(t *testing.T) {
	v := &mockValidator{}
	v.On("Validate", mock.Anything, "old").Return(nil, domain.ErrExpired)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/llm/transcribe", nil)
	req.Header.Set("Authorization", "Bearer old")

	Auth(v)(protectedHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
