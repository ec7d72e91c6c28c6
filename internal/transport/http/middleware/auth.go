package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eloquence/auth-api/internal/domain"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionValidator resolves a bearer token to a session.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*domain.Session, error)
}

// Auth returns middleware that validates the Bearer session token and injects
// the session into the request context.
func Auth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header, expected: Bearer <token>")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			sess, err := sessions.Validate(r.Context(), token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired session token")
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the validated session from the request context.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*domain.Session)
	return s, ok
}
