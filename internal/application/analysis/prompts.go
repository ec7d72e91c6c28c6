package analysis

import (
	"fmt"
	"strings"

	"github.com/eloquence/auth-api/internal/domain"
)

// Coaching prompt construction for the GPT deployments. The prompts demand a
// strict JSON reply; the service parses that JSON back into typed responses.

func voiceStyleInstruction(style string) string {
	switch style {
	case "Motivational":
		return `Coaching Style: MOTIVATIONAL
- Use encouraging, energetic language
- Celebrate strengths enthusiastically
- Frame improvements as exciting opportunities`
	case "Analytical":
		return `Coaching Style: ANALYTICAL
- Use precise, data-driven language
- Focus on metrics and measurable observations
- Provide structured, logical feedback`
	default:
		return `Coaching Style: NEUTRAL
- Use balanced, professional language
- Mix encouragement with constructive criticism
- Be direct but supportive`
	}
}

func speechSystemPrompt(style string) string {
	return fmt.Sprintf(`You are an expert presentation coach analyzing a practice presentation. Provide detailed, personalized coaching feedback that references specific moments from the transcription.

%s

Scoring Guidelines:
- Tone Score (0-100): Overall vocal quality, appropriateness for context
- Confidence Score (0-100): Assertiveness, clarity, conviction in speech
- Enthusiasm Score (0-100): Energy, passion, engagement with topic
- Clarity Score (0-100): Articulation, organization, ease of understanding

Pacing Guidelines:
- Ideal: 130-150 words per minute; acceptable: 100-130 or 150-180; poor: below 100 or above 180

Feedback Quality Guidelines:
- Reference specific moments and quotes from the transcription
- Balance strengths and growth areas with concrete examples
- Provide actionable advice, not generic observations

Respond ONLY with valid JSON matching this exact structure (no additional text):
{
  "toneScore": <number 0-100>,
  "confidenceScore": <number 0-100>,
  "enthusiasmScore": <number 0-100>,
  "clarityScore": <number 0-100>,
  "feedback": "<detailed, personalized coaching feedback>",
  "keyStrengths": ["<specific strength with example>", "<specific strength with example>"],
  "areasToImprove": ["<specific area with actionable advice>", "<specific area with actionable advice>"],
  "toneStrength": "<specific strength about vocal tone>",
  "toneImprovement": "<specific actionable improvement for vocal tone>",
  "pacingStrength": "<specific strength about pacing, reference the WPM if relevant>",
  "pacingImprovement": "<specific actionable improvement for pacing>"
}`, voiceStyleInstruction(style))
}

func speechUserPrompt(req *domain.SpeechAnalysisRequest) string {
	return fmt.Sprintf(`Please analyze this presentation:

TRANSCRIPTION:
"%s"

METRICS:
- Speaking pace: %d words per minute
- Total words: %d
- Duration: %.1f seconds
- Pauses used: %d
- Sentences: %d
- Average sentence length: %.1f words

Provide your analysis in JSON format as specified.`,
		req.Transcription, req.WordsPerMinute, req.WordCount, req.Duration,
		req.PauseCount, req.SentenceCount, req.AverageSentenceLength)
}

func gestureSystemPrompt(req *domain.GestureAnalysisRequest) string {
	var focusAreas []string
	if hasFacial(req) {
		focusAreas = append(focusAreas, "facial expressions (smiling, engagement, expressiveness)")
	}
	if hasPosture(req) {
		focusAreas = append(focusAreas, "body posture (confidence, natural movement, stability)")
	}
	if hasEyeContact(req) {
		focusAreas = append(focusAreas, "eye contact (camera focus, gaze stability)")
	}

	return fmt.Sprintf(`You are an expert presentation coach analyzing body language and non-verbal communication. Based on the gesture metrics and presentation content provided, evaluate the speaker's %s and provide detailed, contextual coaching feedback.

%s

IMPORTANT: Only provide feedback about the metrics that were detected.

Respond ONLY with valid JSON matching this exact structure (no additional text):
{
  "gestureFeedback": "<detailed, contextual coaching feedback about detected body language>",
  "gestureStrength": "<specific strength with example from the presentation>",
  "gestureImprovement": "<specific improvement area with actionable advice>"
}`, strings.Join(focusAreas, ", "), voiceStyleInstruction(req.VoiceStyle))
}

func gestureUserPrompt(req *domain.GestureAnalysisRequest) string {
	var b strings.Builder
	if hasFacial(req) {
		fmt.Fprintf(&b, "FACIAL EXPRESSION METRICS:\n- Smile frequency: %.1f%%\n- Expression variety: %.1f%%\n- Engagement level: %.1f%%\n\n",
			req.SmileFrequency*100, req.ExpressionVariety*100, req.EngagementLevel*100)
	}
	if hasPosture(req) {
		fmt.Fprintf(&b, "BODY POSTURE METRICS:\n- Posture confidence: %.1f%%\n- Movement consistency: %.1f%%\n- Stability: %.1f%%\n\n",
			req.ConfidenceScore*100, req.MovementConsistency*100, req.StabilityScore*100)
	}
	if hasEyeContact(req) {
		fmt.Fprintf(&b, "EYE CONTACT METRICS:\n- Camera focus: %.1f%%\n- Time reading notes (looking down): %.1f%%\n- Gaze stability: %.1f%%\n\n",
			req.CameraFocusPercentage*100, req.ReadingNotesPercentage*100, req.GazeStabilityScore*100)
		if req.ReadingNotesPercentage > 0.15 {
			b.WriteString("NOTE: The speaker frequently looked down, likely reading notes. Address this in the feedback.\n")
		}
	}

	return fmt.Sprintf(`Please analyze this speaker's body language:

%s
FULL PRESENTATION TRANSCRIPTION:
"%s"

Provide your gesture analysis in JSON format as specified. Only comment on the metrics that were actually detected.`, b.String(), req.Transcription)
}

func hasFacial(req *domain.GestureAnalysisRequest) bool {
	return req.SmileFrequency > 0 || req.ExpressionVariety > 0 || req.EngagementLevel > 0
}

func hasPosture(req *domain.GestureAnalysisRequest) bool {
	return req.ConfidenceScore > 0 || req.MovementConsistency > 0 || req.StabilityScore > 0
}

func hasEyeContact(req *domain.GestureAnalysisRequest) bool {
	return req.CameraFocusPercentage > 0 || req.GazeStabilityScore > 0
}

func frameSystemPrompt(style string) string {
	return fmt.Sprintf(`You are an expert presentation coach analyzing a specific moment from a presentation. Based on the frame image and transcription context, provide one concise, specific coaching comment (20-40 words).

%s

Guidelines:
- Reference specific visual details (posture, expression, gaze)
- Connect to transcription context when relevant
- Be specific and actionable, not generic
- For "best" frames: highlight what's working well
- For "improve" frames: suggest specific improvements`, voiceStyleInstruction(style))
}

var frameTypeGuidance = map[string]string{
	"bestFacial":        "This is a STRENGTH moment for facial expression. Highlight what's working well (eye contact, smile, engagement, etc.).",
	"bestOverall":       "This is a STRENGTH moment overall. Highlight the combination of good expression, posture, and engagement.",
	"improveFacial":     "This is an IMPROVEMENT AREA for facial expression. Suggest specific ways to improve engagement, eye contact, or expressiveness.",
	"improvePosture":    "This is an IMPROVEMENT AREA for posture. Suggest specific ways to improve body position, confidence, or stability.",
	"improveEyeContact": "This is an IMPROVEMENT AREA for eye contact. Suggest ways to improve camera focus or gaze consistency.",
	"averageMoment":     "This is a REPRESENTATIVE moment. Provide neutral, balanced observation.",
}

func frameUserPrompt(req *domain.FrameAnnotationRequest) string {
	guidance, ok := frameTypeGuidance[req.FrameType]
	if !ok {
		guidance = "Provide a balanced observation."
	}
	return fmt.Sprintf(`Frame type: %s
Timestamp: %.1fs

%s

Transcription context:
"%s"

Analyze this presentation frame and provide ONE concise coaching comment (20-40 words). Return ONLY the annotation text, no JSON, no additional formatting.`,
		req.FrameType, req.Timestamp, guidance, req.TranscriptionExcerpt)
}
