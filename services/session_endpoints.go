package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepview-ai/backend/models"
	"github.com/prepview-ai/backend/repository"
)

// SessionEndpoints exposes the interview session lifecycle over REST. Each
// handler loads the session graph, applies one orchestrator operation, and
// persists the result.
type SessionEndpoints struct {
	repo        *repository.GORMRepository
	interviewer *Interviewer
	transcriber *Transcriber
	watchdog    *SessionWatchdog
}

func NewSessionEndpoints(repo *repository.GORMRepository, interviewer *Interviewer, transcriber *Transcriber, watchdog *SessionWatchdog) *SessionEndpoints {
	return &SessionEndpoints{
		repo:        repo,
		interviewer: interviewer,
		transcriber: transcriber,
		watchdog:    watchdog,
	}
}

type CreateSessionRequest struct {
	Position    string             `json:"position"`
	Personality models.Personality `json:"personality,omitempty"`
}

type RecordAnswerRequest struct {
	Text            string   `json:"text"`
	AudioFile       string   `json:"audio_file,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}

type ConverseRequest struct {
	Message string `json:"message"`
}

func (e *SessionEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", e.CreateSessionHandler)
		r.Get("/", e.GetSessionsHandler)
		r.Get("/{id}", e.GetSessionHandler)
		r.Post("/{id}/questions", e.AskQuestionHandler)
		r.Post("/{id}/answers", e.RecordAnswerHandler)
		r.Post("/{id}/scores", e.ScoreAnswerHandler)
		r.Post("/{id}/converse", e.ConverseHandler)
		r.Post("/{id}/end", e.EndSessionHandler)
	})

	r.Post("/transcriptions", e.TranscribeHandler)
}

type TranscribeRequest struct {
	Channels   [][]float32 `json:"channels"`
	SampleRate int         `json:"sample_rate"`
	Language   string      `json:"language,omitempty"`
}

func (e *SessionEndpoints) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input, err := models.NewAudioInput(req.Channels, req.SampleRate)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	result, err := e.transcriber.Transcribe(r.Context(), input, req.Language)
	if err != nil {
		slog.Error("Transcription failed", "error", err)
		http.Error(w, "Transcription failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (e *SessionEndpoints) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := e.interviewer.StartSession(user.ID, req.Position, req.Personality)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	if err := e.repo.CreateInterviewSession(r.Context(), session); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	if e.watchdog != nil {
		e.watchdog.Track(session.ID, user.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session": session,
		"message": "Session created successfully",
	})
}

func (e *SessionEndpoints) GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessions, err := e.repo.GetInterviewSessions(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (e *SessionEndpoints) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.loadSession(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session":         session,
		"questions_asked": session.QuestionsAsked(),
		"answers_given":   session.AnswersGiven(),
		"average_score":   session.AverageScore(),
		"duration":        session.DurationMinutes(),
	})
}

func (e *SessionEndpoints) AskQuestionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.loadSession(w, r)
	if !ok {
		return
	}

	var req models.InterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := e.interviewer.AskQuestion(r.Context(), session, &req)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	if err := e.repo.SaveInterviewSession(r.Context(), session); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	e.touch(session.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (e *SessionEndpoints) RecordAnswerHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.loadSession(w, r)
	if !ok {
		return
	}

	var req RecordAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	answer, err := e.interviewer.RecordAnswer(session, req.Text, req.AudioFile, req.DurationSeconds)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	if err := e.repo.SaveInterviewSession(r.Context(), session); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	e.touch(session.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"answer": answer,
	})
}

func (e *SessionEndpoints) ScoreAnswerHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.loadSession(w, r)
	if !ok {
		return
	}

	score, err := e.interviewer.ScoreAnswer(r.Context(), session)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	if err := e.repo.SaveInterviewSession(r.Context(), session); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	e.touch(session.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"score": score,
	})
}

func (e *SessionEndpoints) ConverseHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.loadSession(w, r)
	if !ok {
		return
	}

	var req ConverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply := e.interviewer.Converse(r.Context(), session, req.Message)
	e.touch(session.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reply": reply,
	})
}

func (e *SessionEndpoints) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	session, loaded := e.loadSession(w, r)
	if !loaded {
		return
	}

	if err := e.interviewer.EndSession(session); err != nil {
		writeInterviewError(w, err)
		return
	}

	if err := e.repo.SaveInterviewSession(r.Context(), session); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	if e.watchdog != nil {
		e.watchdog.Forget(session.ID)
	}

	// Append the session to the user's profile history
	if profile, err := e.repo.GetProfileByUserID(r.Context(), user.ID); err == nil && profile != nil {
		profile.RecordSession(session.ID)
		if err := e.repo.UpdateProfile(r.Context(), profile); err != nil {
			slog.Error("Failed to record session in profile", "error", err, "session_id", session.ID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session":       session,
		"total_score":   session.TotalScore,
		"duration":      session.DurationMinutes(),
		"answers_given": session.AnswersGiven(),
	})
}

// loadSession fetches the caller's session with its full turn graph, writing
// the HTTP error itself when the lookup fails.
func (e *SessionEndpoints) loadSession(w http.ResponseWriter, r *http.Request) (*models.InterviewSession, bool) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return nil, false
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return nil, false
	}

	session, err := e.repo.GetInterviewSessionWithTurns(r.Context(), sessionID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return nil, false
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}

	return session, true
}

func (e *SessionEndpoints) touch(sessionID string) {
	if e.watchdog != nil {
		e.watchdog.Touch(sessionID)
	}
}

// writeInterviewError maps orchestrator errors to HTTP status codes.
func writeInterviewError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("Interview operation failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
