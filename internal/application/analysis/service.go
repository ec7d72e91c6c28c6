package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eloquence/auth-api/internal/domain"
	"github.com/eloquence/auth-api/internal/infrastructure/openai"
)

const (
	// MaxAudioBytes caps uploaded audio for transcription.
	MaxAudioBytes = 10 * 1024 * 1024
	// MaxImageBase64Bytes caps the base64-encoded key frame (~200KB raw image).
	MaxImageBase64Bytes = 300 * 1024

	analysisMaxTokens   = 2000
	annotationMaxTokens = 1500
)

// Upstream is the AI provider surface the proxy needs.
type Upstream interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (*domain.TranscriptionResult, error)
	Chat(ctx context.Context, messages []openai.ChatMessage, maxTokens int) (string, error)
}

// Service enforces the proxy's policy — payload limits, empty-result
// rejection — and maps everything the provider does wrong to a single
// gateway error. It never retries upstream calls.
type Service struct {
	upstream Upstream
}

func NewService(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// Transcribe proxies audio to the whisper deployment.
func (s *Service) Transcribe(ctx context.Context, filename string, audio []byte) (*domain.TranscriptionResult, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio file: %w", domain.ErrBadRequest)
	}
	if len(audio) > MaxAudioBytes {
		return nil, fmt.Errorf("audio exceeds %d bytes: %w", MaxAudioBytes, domain.ErrPayloadTooLarge)
	}
	if filename == "" {
		filename = "audio.m4a"
	}

	result, err := s.upstream.Transcribe(ctx, filename, audio)
	if err != nil {
		return nil, err
	}
	result.Text = strings.TrimSpace(result.Text)
	if result.Text == "" {
		return nil, fmt.Errorf("transcription returned no text, audio may be silent or unclear: %w", domain.ErrEmptyResult)
	}
	return result, nil
}

// AnalyzeSpeech generates coaching feedback for a transcribed presentation.
func (s *Service) AnalyzeSpeech(ctx context.Context, req *domain.SpeechAnalysisRequest) (*domain.SpeechAnalysisResponse, error) {
	content, err := s.upstream.Chat(ctx, []openai.ChatMessage{
		{Role: "system", Content: speechSystemPrompt(req.VoiceStyle)},
		{Role: "user", Content: speechUserPrompt(req)},
	}, analysisMaxTokens)
	if err != nil {
		return nil, err
	}

	var resp domain.SpeechAnalysisResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("malformed analysis payload: %w: %w", domain.ErrUpstream, err)
	}
	return &resp, nil
}

// AnalyzeGesture generates body-language feedback from gesture metrics.
func (s *Service) AnalyzeGesture(ctx context.Context, req *domain.GestureAnalysisRequest) (*domain.GestureAnalysisResponse, error) {
	content, err := s.upstream.Chat(ctx, []openai.ChatMessage{
		{Role: "system", Content: gestureSystemPrompt(req)},
		{Role: "user", Content: gestureUserPrompt(req)},
	}, analysisMaxTokens)
	if err != nil {
		return nil, err
	}

	var resp domain.GestureAnalysisResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("malformed gesture payload: %w: %w", domain.ErrUpstream, err)
	}
	return &resp, nil
}

// AnnotateFrame produces a one-line coaching comment for a key frame image.
func (s *Service) AnnotateFrame(ctx context.Context, req *domain.FrameAnnotationRequest) (*domain.FrameAnnotationResponse, error) {
	if len(req.ImageBase64) > MaxImageBase64Bytes {
		return nil, fmt.Errorf("image exceeds %d base64 bytes: %w", MaxImageBase64Bytes, domain.ErrPayloadTooLarge)
	}

	content, err := s.upstream.Chat(ctx, []openai.ChatMessage{
		{Role: "system", Content: frameSystemPrompt("")},
		{Role: "user", Content: openai.VisionContent(frameUserPrompt(req), req.ImageBase64)},
	}, annotationMaxTokens)
	if err != nil {
		return nil, err
	}

	annotation := strings.ReplaceAll(strings.TrimSpace(content), `"`, "")
	return &domain.FrameAnnotationResponse{Annotation: annotation}, nil
}
