package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SendOTPEnvelope wraps the send-otp response.
type SendOTPEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// UserPayload is the user block in a successful login response. The id is
// minted per login; timestamps are RFC 3339 strings.
type UserPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	CreatedAt   string `json:"createdAt"`
	LastLoginAt string `json:"lastLoginAt"`
}

// VerifyOTPEnvelope wraps the verify-otp response.
type VerifyOTPEnvelope struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	User        *UserPayload `json:"user,omitempty"`
	AccessToken string       `json:"accessToken,omitempty"`
	ExpiresIn   int          `json:"expiresIn,omitempty"` // seconds
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
