package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/prepview-ai/backend/models"
)

// fixedConfidence is reported for every transcript. The engine does not
// expose a per-utterance confidence, so this is a fixed estimate and callers
// must treat it as advisory.
const fixedConfidence = 0.95

// SpeechEngine converts framed audio into raw transcript text.
type SpeechEngine interface {
	TranscribeAudio(ctx context.Context, audioData []byte, language string) (string, error)
}

// Transcriber normalizes raw audio and runs it through a speech engine.
type Transcriber struct {
	engine SpeechEngine
}

func NewTranscriber(engine SpeechEngine) *Transcriber {
	return &Transcriber{engine: engine}
}

// Transcribe normalizes the input, frames it as WAV, and returns the engine's
// transcript with timing metadata. Engine failures come back wrapped in
// ErrTranscriptionFailed.
func (t *Transcriber) Transcribe(ctx context.Context, input *models.AudioInput, language string) (*models.TranscriptionResult, error) {
	start := time.Now()

	mono := Normalize(input.Channels)
	wav := EncodeWAV(mono, input.SampleRate)

	text, err := t.engine.TranscribeAudio(ctx, wav, language)
	if err != nil {
		if errors.Is(err, ErrTranscriptionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	text = strings.TrimSpace(text)

	duration := float64(len(mono)) / float64(input.SampleRate)
	segments := []models.TranscriptSegment{}
	if text != "" {
		segments = append(segments, models.TranscriptSegment{Start: 0, End: duration, Text: text})
	}

	result, err := models.NewTranscriptionResult(text, fixedConfidence, language, segments, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	slog.Info("Transcription complete",
		"duration_seconds", duration,
		"transcript_length", len(text),
		"processing_seconds", result.ProcessingSeconds)
	return result, nil
}

// Normalize collapses multi-channel audio to mono by averaging frames, then
// scales peak amplitude to 1.0. Silent input passes through unscaled so the
// all-zero waveform stays all-zero.
func Normalize(channels [][]float32) []float32 {
	if len(channels) == 0 {
		return []float32{}
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for _, ch := range channels {
			sum += ch[i]
		}
		mono[i] = sum / float32(len(channels))
	}

	var peak float32
	for _, s := range mono {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range mono {
			mono[i] /= peak
		}
	}

	return mono
}

// EncodeWAV frames mono float32 samples as a 16-bit PCM WAV file.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(samples) * blockAlign

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.Write(&buf, binary.LittleEndian, int16(s*math.MaxInt16))
	}

	return buf.Bytes()
}
