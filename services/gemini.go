package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// Completer produces free text for a prompt. The interview orchestrator only
// depends on this, so tests can substitute a canned implementation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiService wraps the Gemini client for text generation and audio
// transcription.
type GeminiService struct {
	genaiClient *genai.Client
	modelName   string
	temperature float64
	maxTokens   int
}

func NewGeminiService(cfg AIConfig) *GeminiService {
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		slog.Error("Failed to create genai client", "error", err)
		return nil
	}

	return &GeminiService{
		genaiClient: genaiClient,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete sends a prompt to the model and returns its text reply. An empty
// reply is treated as a failure so callers can run their fallbacks.
func (g *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized: %w", ErrGenerationFailed)
	}

	temperature := float32(g.temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = int32(g.maxTokens)
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		g.modelName,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response from model", ErrGenerationFailed)
	}

	return text, nil
}

// TranscribeAudio sends WAV-framed audio to the model with a transcription
// prompt and returns the raw transcript text.
func (g *GeminiService) TranscribeAudio(ctx context.Context, audioData []byte, language string) (string, error) {
	slog.Info("Transcribing audio with Gemini", "size", len(audioData), "language", language)

	// Add timeout for transcription
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized: %w", ErrTranscriptionFailed)
	}

	prompt := "Transcribe this audio to text. Provide only the transcript, no additional commentary."
	if language != "" && language != "en" {
		prompt = fmt.Sprintf("Transcribe this audio to text in %s. Provide only the transcript, no additional commentary.", language)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		&genai.Part{
			InlineData: &genai.Blob{
				MIMEType: "audio/wav",
				Data:     audioData,
			},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		g.modelName,
		contents,
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	transcript := result.Text()
	slog.Info("Audio transcribed", "transcript_length", len(transcript))

	return transcript, nil
}
