package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrRateLimited       = errors.New("rate limited")
	ErrNotFound          = errors.New("not found")
	ErrExpired           = errors.New("expired")
	ErrAttemptsExhausted = errors.New("too many attempts")
	ErrInvalidCode       = errors.New("invalid code")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrEmptyResult       = errors.New("empty result")
	ErrUpstream          = errors.New("upstream error")
	ErrUnavailable       = errors.New("service unavailable")
)
