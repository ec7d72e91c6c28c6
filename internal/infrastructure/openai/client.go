package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/eloquence/auth-api/internal/config"
	"github.com/eloquence/auth-api/internal/domain"
)

// Client calls Azure OpenAI deployments over REST: a whisper deployment for
// transcription and a GPT deployment for chat completions. Whisper and GPT may
// live on separate resources, so each carries its own endpoint and key.
type Client struct {
	httpClient *http.Client

	whisperEndpoint   string
	whisperAPIKey     string
	whisperDeployment string
	whisperAPIVersion string

	gptEndpoint   string
	gptAPIKey     string
	gptDeployment string
	gptAPIVersion string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:        &http.Client{Timeout: cfg.UpstreamTimeout()},
		whisperEndpoint:   strings.TrimRight(cfg.OpenAIWhisperEndpoint, "/"),
		whisperAPIKey:     cfg.OpenAIWhisperAPIKey,
		whisperDeployment: cfg.OpenAIWhisperDeployment,
		whisperAPIVersion: cfg.OpenAIWhisperAPIVersion,
		gptEndpoint:       strings.TrimRight(cfg.OpenAIGPTEndpoint, "/"),
		gptAPIKey:         cfg.OpenAIGPTAPIKey,
		gptDeployment:     cfg.OpenAIGPTDeployment,
		gptAPIVersion:     cfg.OpenAIGPTAPIVersion,
	}
}

// ChatMessage is one chat-completions message. Content is either a plain
// string or a slice of content parts (for vision requests).
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// VisionContent builds a mixed text + inline-image content payload for a
// vision chat message. The image is a base64-encoded JPEG.
func VisionContent(text, imageBase64 string) []map[string]any {
	return []map[string]any{
		{"type": "text", "text": text},
		{"type": "image_url", "image_url": map[string]any{
			"url": "data:image/jpeg;base64," + imageBase64,
		}},
	}
}

func (c *Client) whisperURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/audio/transcriptions?api-version=%s",
		c.whisperEndpoint, c.whisperDeployment, c.whisperAPIVersion)
}

func (c *Client) gptURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.gptEndpoint, c.gptDeployment, c.gptAPIVersion)
}

// contentTypeFor maps an uploaded filename to the audio content type whisper
// expects. Mobile clients mostly send m4a.
func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(filename, ".mp3"):
		return "audio/mpeg"
	default:
		return "audio/m4a"
	}
}

// Transcribe posts the audio to the whisper deployment and returns the result.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (*domain.TranscriptionResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	h["Content-Type"] = []string{contentTypeFor(filename)}
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create multipart: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio part: %w", err)
	}
	if err := mw.WriteField("model", "whisper-1"); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.whisperURL(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("api-key", c.whisperAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper status %d: %s: %w", resp.StatusCode, body, domain.ErrUpstream)
	}

	var result domain.TranscriptionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w: %w", domain.ErrUpstream, err)
	}
	return &result, nil
}

// Chat posts a chat-completions request and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error) {
	// response_format json_object is deliberately not set: newer GPT deployments
	// return empty completions with it, so JSON shape is enforced in the prompts.
	payload, err := json.Marshal(map[string]any{
		"messages":              messages,
		"max_completion_tokens": maxTokens,
		"temperature":           1.0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gptURL(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.gptAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat status %d: %s: %w", resp.StatusCode, body, domain.ErrUpstream)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode chat response: %w: %w", domain.ErrUpstream, err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion: %w", domain.ErrUpstream)
	}
	return result.Choices[0].Message.Content, nil
}
