package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prepview-ai/backend/repository"
)

const watchdogInterval = time.Minute

// SessionWatchdog tracks activity on live sessions and auto-completes any
// that sit idle past the configured timeout, so abandoned interviews still
// get their end time and total score.
type SessionWatchdog struct {
	repo        *repository.GORMRepository
	interviewer *Interviewer
	idleTimeout time.Duration

	tracked map[string]*trackedSession
	mutex   sync.Mutex
}

type trackedSession struct {
	SessionID    string
	UserID       string
	LastActivity time.Time
}

func NewSessionWatchdog(repo *repository.GORMRepository, interviewer *Interviewer, idleTimeoutMinutes int) *SessionWatchdog {
	if idleTimeoutMinutes <= 0 {
		idleTimeoutMinutes = 30
	}

	w := &SessionWatchdog{
		repo:        repo,
		interviewer: interviewer,
		idleTimeout: time.Duration(idleTimeoutMinutes) * time.Minute,
		tracked:     make(map[string]*trackedSession),
	}

	go w.run()
	return w
}

// Track starts watching a session for inactivity.
func (w *SessionWatchdog) Track(sessionID, userID string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.tracked[sessionID] = &trackedSession{
		SessionID:    sessionID,
		UserID:       userID,
		LastActivity: time.Now(),
	}
	slog.Info("Session tracked for inactivity", "session_id", sessionID, "user_id", userID)
}

// Touch records activity on a session.
func (w *SessionWatchdog) Touch(sessionID string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if s, exists := w.tracked[sessionID]; exists {
		s.LastActivity = time.Now()
	}
}

// Forget stops watching a session, typically after an explicit end.
func (w *SessionWatchdog) Forget(sessionID string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	delete(w.tracked, sessionID)
}

func (w *SessionWatchdog) run() {
	ticker := time.NewTicker(watchdogInterval)
	defer ticker.Stop()

	for range ticker.C {
		w.sweep()
	}
}

func (w *SessionWatchdog) sweep() {
	w.mutex.Lock()
	var expired []*trackedSession
	now := time.Now()
	for id, s := range w.tracked {
		if now.Sub(s.LastActivity) > w.idleTimeout {
			expired = append(expired, s)
			delete(w.tracked, id)
		}
	}
	w.mutex.Unlock()

	for _, s := range expired {
		w.expire(s)
	}
}

func (w *SessionWatchdog) expire(s *trackedSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := w.repo.GetInterviewSessionWithTurns(ctx, s.SessionID, s.UserID)
	if err != nil || session == nil {
		slog.Error("Failed to load idle session", "error", err, "session_id", s.SessionID)
		return
	}
	if !session.Active() {
		return
	}

	if err := w.interviewer.EndSession(session); err != nil {
		slog.Error("Failed to end idle session", "error", err, "session_id", s.SessionID)
		return
	}
	session.Notes = "Session ended automatically due to inactivity."

	if err := w.repo.SaveInterviewSession(ctx, session); err != nil {
		slog.Error("Failed to save idle session", "error", err, "session_id", s.SessionID)
		return
	}

	slog.Info("Idle session ended", "session_id", s.SessionID, "user_id", s.UserID)
}
