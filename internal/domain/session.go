package domain

import "time"

// Session is a logged-in user session.
// PK: email (lower-cased), SK: token. The token is an opaque bearer
// credential, unique system-wide, looked up cross-identity via the
// token-index GSI. UserID is minted fresh on every login.
type Session struct {
	Email          string    `json:"email" dynamodbav:"email"`
	Token          string    `json:"-" dynamodbav:"token"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at" dynamodbav:"last_accessed_at"`
	ExpiresAt      time.Time `json:"expires_at" dynamodbav:"expires_at"`
	PurgeAt        int64     `json:"-" dynamodbav:"purge_at"`
}

// Expired reports whether the session is no longer valid at the given instant.
// Expiry is fixed at creation; validation never slides it.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
