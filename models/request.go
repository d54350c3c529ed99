package models

// InterviewRequest asks the orchestrator for a new question. Type, difficulty,
// and category are optional; defaults are substituted at parse time.
type InterviewRequest struct {
	Position   string       `json:"position"`
	Type       QuestionType `json:"question_type,omitempty"`
	Difficulty Difficulty   `json:"difficulty,omitempty"`
	Category   string       `json:"category,omitempty"`
	Context    string       `json:"context,omitempty"`
}

// InterviewResponse bundles a generated question with answering guidance.
type InterviewResponse struct {
	Question          *Question `json:"question"`
	FollowUpQuestions []string  `json:"follow_up_questions"`
	Tips              []string  `json:"tips"`
	ExpectedKeyPoints []string  `json:"expected_key_points"`
}

// AudioInput carries raw multi-channel audio samples. Each channel holds the
// same number of frames.
type AudioInput struct {
	Channels   [][]float32 `json:"-"`
	SampleRate int         `json:"sample_rate"`
	Format     string      `json:"format"`
}

// NewAudioInput validates raw audio before normalization.
func NewAudioInput(channels [][]float32, sampleRate int) (*AudioInput, error) {
	if sampleRate <= 0 {
		return nil, &ValidationError{Field: "sample_rate", Reason: "must be positive"}
	}
	if len(channels) == 0 {
		return nil, &ValidationError{Field: "channels", Reason: "must contain at least one channel"}
	}

	return &AudioInput{
		Channels:   channels,
		SampleRate: sampleRate,
		Format:     "wav",
	}, nil
}

// TranscriptSegment is one timed span of a transcript.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult is the outcome of a speech-to-text run. Confidence is
// advisory: some engines report a fixed estimate rather than a true model
// confidence, so nothing should branch on it.
type TranscriptionResult struct {
	Text              string              `json:"text"`
	Confidence        float64             `json:"confidence"`
	Language          string              `json:"language"`
	Segments          []TranscriptSegment `json:"segments"`
	ProcessingSeconds float64             `json:"processing_time"`
}

// NewTranscriptionResult validates an engine result. Confidence must fall in [0, 1].
func NewTranscriptionResult(text string, confidence float64, language string, segments []TranscriptSegment, processingSeconds float64) (*TranscriptionResult, error) {
	if confidence < 0 || confidence > 1 {
		return nil, &ValidationError{Field: "confidence", Reason: "must be between 0 and 1"}
	}
	if language == "" {
		language = "en"
	}
	if segments == nil {
		segments = []TranscriptSegment{}
	}

	return &TranscriptionResult{
		Text:              text,
		Confidence:        confidence,
		Language:          language,
		Segments:          segments,
		ProcessingSeconds: processingSeconds,
	}, nil
}
