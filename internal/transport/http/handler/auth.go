package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eloquence/auth-api/internal/application/auth"
	"github.com/eloquence/auth-api/internal/pkg/validate"
)

// AuthService is the login flow surface the handler needs.
type AuthService interface {
	SendOTP(ctx context.Context, email string) (int, error)
	VerifyOTP(ctx context.Context, email, code string) (*auth.LoginResult, error)
}

// AuthHandler handles the OTP login endpoints. codeLength mirrors the OTP
// policy so malformed submissions are rejected before they burn an attempt.
type AuthHandler struct {
	svc        AuthService
	codeLength int
}

func NewAuthHandler(svc AuthService, codeLength int) *AuthHandler {
	return &AuthHandler{svc: svc, codeLength: codeLength}
}

type sendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,numeric"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	expiresIn, err := h.svc.SendOTP(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SendOTPEnvelope{
		Success:   true,
		Message:   fmt.Sprintf("OTP sent to %s", req.Email),
		ExpiresIn: expiresIn,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if len(req.Code) != h.codeLength {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("code must be %d digits", h.codeLength))
		return
	}

	result, err := h.svc.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}

	sess := result.Session
	writeJSON(w, http.StatusOK, VerifyOTPEnvelope{
		Success: true,
		Message: "Login successful",
		User: &UserPayload{
			ID:          sess.UserID,
			Email:       sess.Email,
			CreatedAt:   sess.CreatedAt.Format(time.RFC3339),
			LastLoginAt: sess.LastAccessedAt.Format(time.RFC3339),
		},
		AccessToken: sess.Token,
		ExpiresIn:   result.ExpiresIn,
	})
}
