package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/eloquence/auth-api/internal/application/analysis"
	"github.com/eloquence/auth-api/internal/domain"
	"github.com/eloquence/auth-api/internal/pkg/validate"
)

// AnalysisService is the AI-proxy surface the handler needs.
type AnalysisService interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (*domain.TranscriptionResult, error)
	AnalyzeSpeech(ctx context.Context, req *domain.SpeechAnalysisRequest) (*domain.SpeechAnalysisResponse, error)
	AnalyzeGesture(ctx context.Context, req *domain.GestureAnalysisRequest) (*domain.GestureAnalysisResponse, error)
	AnnotateFrame(ctx context.Context, req *domain.FrameAnnotationRequest) (*domain.FrameAnnotationResponse, error)
}

// LLMHandler handles the AI-analysis proxy endpoints. Auth and the email
// allow-list are enforced by middleware before any of these run.
type LLMHandler struct {
	svc AnalysisService
}

func NewLLMHandler(svc AnalysisService) *LLMHandler {
	return &LLMHandler{svc: svc}
}

// Transcribe expects multipart form data with an audio file under "file".
func (h *LLMHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	// Cap the multipart body just above the audio limit so oversized uploads
	// fail in the service with a 413 instead of exhausting memory here.
	r.Body = http.MaxBytesReader(w, r.Body, analysis.MaxAudioBytes+1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		// Hitting the body cap surfaces here as a MaxBytesError wrapped in the
		// multipart parse failure; that is a too-large upload, not a bad form.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "audio upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form with an audio 'file' field required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio file")
		return
	}

	result, err := h.svc.Transcribe(r.Context(), header.Filename, audio)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LLMHandler) AnalyzeSpeech(w http.ResponseWriter, r *http.Request) {
	var req domain.SpeechAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := h.svc.AnalyzeSpeech(r.Context(), &req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LLMHandler) AnalyzeGesture(w http.ResponseWriter, r *http.Request) {
	var req domain.GestureAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.svc.AnalyzeGesture(r.Context(), &req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LLMHandler) AnnotateFrame(w http.ResponseWriter, r *http.Request) {
	var req domain.FrameAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := h.svc.AnnotateFrame(r.Context(), &req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
