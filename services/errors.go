package services

import "errors"

// Error taxonomy for the interview core. Generation and parse failures are
// recovered locally with deterministic fallbacks and never reach callers of
// the orchestrator; transcription and invalid-state errors propagate.
var (
	// ErrGenerationFailed marks a text-generation collaborator error or empty output.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrTranscriptionFailed marks a speech-to-text collaborator error. There is
	// no safe fallback transcript, so this is surfaced to the caller.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrInvalidState marks an operation attempted in the wrong session state,
	// such as ending a session twice or scoring a turn without an answer.
	ErrInvalidState = errors.New("invalid session state")
)
