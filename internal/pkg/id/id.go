package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort lexicographically by creation
// time, which makes them usable both as user ids and as OTP row keys where
// "latest issuance" ordering matters.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
