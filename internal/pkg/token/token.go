package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewSessionToken generates an opaque URL-safe bearer token with 256 bits of
// entropy (43 base64url characters, no padding).
func NewSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
