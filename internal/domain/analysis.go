package domain

// Request and response shapes for the AI-analysis proxy. Field names match
// the client contract (camelCase), not the store.

type SpeechAnalysisRequest struct {
	Transcription         string  `json:"transcription" validate:"required"`
	WordCount             int     `json:"wordCount"`
	Duration              float64 `json:"duration"`
	WordsPerMinute        int     `json:"wordsPerMinute"`
	PauseCount            int     `json:"pauseCount"`
	SentenceCount         int     `json:"sentenceCount"`
	AverageSentenceLength float64 `json:"averageSentenceLength"`
	VoiceStyle            string  `json:"voiceStyle,omitempty"`
}

type SpeechAnalysisResponse struct {
	ToneScore         int      `json:"toneScore"`
	ConfidenceScore   int      `json:"confidenceScore"`
	EnthusiasmScore   int      `json:"enthusiasmScore"`
	ClarityScore      int      `json:"clarityScore"`
	Feedback          string   `json:"feedback"`
	KeyStrengths      []string `json:"keyStrengths"`
	AreasToImprove    []string `json:"areasToImprove"`
	ToneStrength      string   `json:"toneStrength,omitempty"`
	ToneImprovement   string   `json:"toneImprovement,omitempty"`
	PacingStrength    string   `json:"pacingStrength,omitempty"`
	PacingImprovement string   `json:"pacingImprovement,omitempty"`
}

type GestureAnalysisRequest struct {
	Transcription          string  `json:"transcription"`
	SmileFrequency         float64 `json:"smileFrequency"`
	ExpressionVariety      float64 `json:"expressionVariety"`
	EngagementLevel        float64 `json:"engagementLevel"`
	ConfidenceScore        float64 `json:"confidenceScore"`
	MovementConsistency    float64 `json:"movementConsistency"`
	StabilityScore         float64 `json:"stabilityScore"`
	CameraFocusPercentage  float64 `json:"cameraFocusPercentage"`
	ReadingNotesPercentage float64 `json:"readingNotesPercentage"`
	GazeStabilityScore     float64 `json:"gazeStabilityScore"`
	VoiceStyle             string  `json:"voiceStyle,omitempty"`
}

type GestureAnalysisResponse struct {
	GestureFeedback    string `json:"gestureFeedback"`
	GestureStrength    string `json:"gestureStrength"`
	GestureImprovement string `json:"gestureImprovement"`
	IsTemplateFallback bool   `json:"isTemplateFallback"`
}

type FrameAnnotationRequest struct {
	ImageBase64          string  `json:"imageBase64" validate:"required"`
	FrameType            string  `json:"frameType"`
	TranscriptionExcerpt string  `json:"transcriptionExcerpt"`
	Timestamp            float64 `json:"timestamp"`
}

type FrameAnnotationResponse struct {
	Annotation string `json:"annotation"`
}

type TranscriptionResult struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}
