package middleware

import (
	"net/http"
	"strings"
)

// RequireAllowedEmail returns middleware that gates a route on an email
// allow-list. An empty list allows every authenticated identity — the
// fail-open default for deployments without a configured list. Matching is
// case-insensitive and exact.
func RequireAllowedEmail(allowed []string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, e := range allowed {
		set[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(set) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, ok := set[strings.ToLower(sess.Email)]; !ok {
				writeJSONError(w, http.StatusForbidden, "your account is not authorized to use LLM features")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
