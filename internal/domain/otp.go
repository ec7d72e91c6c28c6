package domain

import "time"

// OTPCode is a single one-time passcode issuance.
// PK: email (lower-cased), SK: code_id (ULID, sorts by creation time).
// PurgeAt is a Unix timestamp used as the DynamoDB TTL; it trails the
// logical expiry so expired rows stay queryable until superseded.
type OTPCode struct {
	Email     string     `json:"email" dynamodbav:"email"`
	CodeID    string     `json:"code_id" dynamodbav:"code_id"`
	Code      string     `json:"-" dynamodbav:"code"`
	CreatedAt time.Time  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" dynamodbav:"expires_at"`
	Attempts  int        `json:"attempts" dynamodbav:"attempts"`
	Used      bool       `json:"is_used" dynamodbav:"is_used"`
	UsedAt    *time.Time `json:"used_at,omitempty" dynamodbav:"used_at,omitempty"`
	PurgeAt   int64      `json:"-" dynamodbav:"purge_at"`
}

// Expired reports whether the code is past its logical expiry at the given instant.
func (c *OTPCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
