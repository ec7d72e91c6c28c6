package handler

import (
	"errors"
	"net/http"

	"github.com/eloquence/auth-api/internal/domain"
)

// httpError maps domain sentinel errors to HTTP status codes. Anything
// unrecognized is a 500; no error crashes the process.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests, please wait before requesting a new code")
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusBadRequest, "code has expired, please request a new one")
	case errors.Is(err, domain.ErrAttemptsExhausted):
		writeError(w, http.StatusBadRequest, "too many failed attempts, please request a new code")
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "invalid code, please try again")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusBadRequest, "no code found, please request a new one")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrEmptyResult):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream provider error")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
