package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eloquence/auth-api/internal/application/analysis"
	"github.com/eloquence/auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalysisService struct{ mock.Mock }

func (m *mockAnalysisService) Transcribe(ctx context.Context, filename string, audio []byte) (*domain.TranscriptionResult, error) {
	args := m.Called(ctx, filename, audio)
	if r, _ := args.Get(0).(*domain.TranscriptionResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisService) AnalyzeSpeech(ctx context.Context, req *domain.SpeechAnalysisRequest) (*domain.SpeechAnalysisResponse, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.SpeechAnalysisResponse); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisService) AnalyzeGesture(ctx context.Context, req *domain.GestureAnalysisRequest) (*domain.GestureAnalysisResponse, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.GestureAnalysisResponse); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisService) AnnotateFrame(ctx context.Context, req *domain.FrameAnnotationRequest) (*domain.FrameAnnotationResponse, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.FrameAnnotationResponse); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func multipartAudio(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/llm/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// --- Transcribe ---

func TestTranscribe_OK(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("Transcribe", mock.Anything, "take1.m4a", []byte("audio-bytes")).
		Return(&domain.TranscriptionResult{Text: "hello world", Duration: 3.1, Language: "en"}, nil)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).Transcribe(rec, multipartAudio(t, "file", "take1.m4a", []byte("audio-bytes")))

	assert.Equal(t, http.StatusOK, rec.Code)
	var res domain.TranscriptionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "hello world", res.Text)
}

func TestTranscribe_MissingFileField(t *testing.T) {
	svc := &mockAnalysisService{}
	rec := httptest.NewRecorder()
	NewLLMHandler(svc).Transcribe(rec, multipartAudio(t, "audio", "take1.m4a", []byte("x")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestTranscribe_NotMultipart(t *testing.T) {
	svc := &mockAnalysisService{}
	rec := httptest.NewRecorder()
	NewLLMHandler(svc).Transcribe(rec, postJSON("/llm/transcribe", `{"audio":"x"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribe_EmptyUpload(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("Transcribe", mock.Anything, "empty.m4a", mock.Anything).
		Return(nil, domain.ErrBadRequest)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).Transcribe(rec, multipartAudio(t, "file", "empty.m4a", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribe_OverCapUploadIs413(t *testing.T) {
	svc := &mockAnalysisService{}
	rec := httptest.NewRecorder()
	// Past the request body cap the multipart parse itself fails; the handler
	// must still report 413, not a bad-form 400.
	body := bytes.Repeat([]byte{0xAB}, analysis.MaxAudioBytes+2*1024*1024)
	NewLLMHandler(svc).Transcribe(rec, multipartAudio(t, "file", "huge.wav", body))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	svc.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestTranscribe_Oversize(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrPayloadTooLarge)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).Transcribe(rec, multipartAudio(t, "file", "big.wav", []byte("x")))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTranscribe_SilentAudio(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrEmptyResult)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).Transcribe(rec, multipartAudio(t, "file", "silent.wav", []byte("x")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTranscribe_UpstreamDown(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrUpstream)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).Transcribe(rec, multipartAudio(t, "file", "a.wav", []byte("x")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// --- AnalyzeSpeech ---

func TestAnalyzeSpeech_OK(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("AnalyzeSpeech", mock.Anything, mock.MatchedBy(func(req *domain.SpeechAnalysisRequest) bool {
		return req.Transcription == "hello" && req.WordsPerMinute == 120
	})).Return(&domain.SpeechAnalysisResponse{ToneScore: 81, Feedback: "Nice pace."}, nil)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnalyzeSpeech(rec, postJSON("/llm/analyze-speech",
		`{"transcription":"hello","wordCount":1,"wordsPerMinute":120}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp domain.SpeechAnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 81, resp.ToneScore)
}

func TestAnalyzeSpeech_MissingTranscription(t *testing.T) {
	svc := &mockAnalysisService{}
	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnalyzeSpeech(rec, postJSON("/llm/analyze-speech", `{"wordCount":5}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "AnalyzeSpeech", mock.Anything, mock.Anything)
}

func TestAnalyzeSpeech_UpstreamGarbage(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("AnalyzeSpeech", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstream)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnalyzeSpeech(rec, postJSON("/llm/analyze-speech", `{"transcription":"hello"}`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// --- AnalyzeGesture ---

func TestAnalyzeGesture_OK(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("AnalyzeGesture", mock.Anything, mock.MatchedBy(func(req *domain.GestureAnalysisRequest) bool {
		return req.SmileFrequency == 0.4
	})).Return(&domain.GestureAnalysisResponse{GestureFeedback: "Expressive."}, nil)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnalyzeGesture(rec, postJSON("/llm/analyze-gesture", `{"smileFrequency":0.4}`))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeGesture_MalformedBody(t *testing.T) {
	svc := &mockAnalysisService{}
	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnalyzeGesture(rec, postJSON("/llm/analyze-gesture", `{`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "AnalyzeGesture", mock.Anything, mock.Anything)
}

// --- AnnotateFrame ---

func TestAnnotateFrame_OK(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("AnnotateFrame", mock.Anything, mock.MatchedBy(func(req *domain.FrameAnnotationRequest) bool {
		return req.FrameType == "peak_engagement"
	})).Return(&domain.FrameAnnotationResponse{Annotation: "Great posture."}, nil)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnnotateFrame(rec, postJSON("/llm/annotate-frame",
		`{"imageBase64":"aGVsbG8=","frameType":"peak_engagement"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp domain.FrameAnnotationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Great posture.", resp.Annotation)
}

func TestAnnotateFrame_MissingImage(t *testing.T) {
	svc := &mockAnalysisService{}
	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnnotateFrame(rec, postJSON("/llm/annotate-frame", `{"frameType":"opening"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "AnnotateFrame", mock.Anything, mock.Anything)
}

func TestAnnotateFrame_OversizeImage(t *testing.T) {
	svc := &mockAnalysisService{}
	svc.On("AnnotateFrame", mock.Anything, mock.Anything).Return(nil, domain.ErrPayloadTooLarge)

	rec := httptest.NewRecorder()
	NewLLMHandler(svc).AnnotateFrame(rec, postJSON("/llm/annotate-frame", `{"imageBase64":"aGVsbG8="}`))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
