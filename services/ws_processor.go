package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/prepview-ai/backend/models"
	"github.com/prepview-ai/backend/repository"
	ws "github.com/prepview-ai/backend/websocket"
)

// WSProcessor routes live interview messages from a websocket client into the
// orchestrator and transcriber, mirroring the REST surface over a persistent
// connection.
type WSProcessor struct {
	repo        *repository.GORMRepository
	interviewer *Interviewer
	transcriber *Transcriber
	watchdog    *SessionWatchdog
}

func NewWSProcessor(repo *repository.GORMRepository, interviewer *Interviewer, transcriber *Transcriber, watchdog *SessionWatchdog) *WSProcessor {
	return &WSProcessor{
		repo:        repo,
		interviewer: interviewer,
		transcriber: transcriber,
		watchdog:    watchdog,
	}
}

// HandleMessage processes one inbound message for the client's session.
func (p *WSProcessor) HandleMessage(client *ws.Client, raw []byte) {
	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.Error("Failed to unmarshal ws message", "error", err, "session_id", client.SessionID)
		p.sendError(client, "Invalid message format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session, err := p.repo.GetInterviewSessionWithTurns(ctx, client.SessionID, client.UserID)
	if err != nil || session == nil {
		slog.Error("Failed to load session for ws message", "error", err, "session_id", client.SessionID)
		p.sendError(client, "Session not found")
		return
	}

	if p.watchdog != nil {
		p.watchdog.Touch(session.ID)
	}

	switch msg.Type {
	case "question":
		p.handleQuestion(ctx, client, session, &msg)
	case "answer":
		p.handleAnswer(ctx, client, session, msg.Content, "")
	case "score":
		p.handleScore(ctx, client, session)
	case "message":
		reply := p.interviewer.Converse(ctx, session, msg.Content)
		client.SendJSON(map[string]interface{}{
			"type":       "reply",
			"content":    reply,
			"session_id": session.ID,
		})
	case "audio":
		p.handleAudio(ctx, client, session, &msg)
	case "end":
		p.handleEnd(ctx, client, session)
	default:
		slog.Warn("Unknown ws message type", "type", msg.Type, "session_id", session.ID)
		p.sendError(client, "Unknown message type: "+msg.Type)
	}
}

func (p *WSProcessor) handleQuestion(ctx context.Context, client *ws.Client, session *models.InterviewSession, msg *ws.Message) {
	req := &models.InterviewRequest{
		Position:   msg.Position,
		Type:       models.QuestionType(msg.QType),
		Difficulty: models.Difficulty(msg.Difficulty),
		Category:   msg.Category,
	}

	response, err := p.interviewer.AskQuestion(ctx, session, req)
	if err != nil {
		p.sendError(client, err.Error())
		return
	}

	if err := p.repo.SaveInterviewSession(ctx, session); err != nil {
		p.sendError(client, "Failed to save session")
		return
	}

	client.SendJSON(map[string]interface{}{
		"type":                "question",
		"question":            response.Question,
		"follow_up_questions": response.FollowUpQuestions,
		"tips":                response.Tips,
		"expected_key_points": response.ExpectedKeyPoints,
		"session_id":          session.ID,
	})
}

func (p *WSProcessor) handleAnswer(ctx context.Context, client *ws.Client, session *models.InterviewSession, text, audioFile string) {
	answer, err := p.interviewer.RecordAnswer(session, text, audioFile, nil)
	if err != nil {
		p.sendError(client, err.Error())
		return
	}

	if err := p.repo.SaveInterviewSession(ctx, session); err != nil {
		p.sendError(client, "Failed to save session")
		return
	}

	client.SendJSON(map[string]interface{}{
		"type":       "answer_recorded",
		"answer":     answer,
		"session_id": session.ID,
	})
}

func (p *WSProcessor) handleScore(ctx context.Context, client *ws.Client, session *models.InterviewSession) {
	score, err := p.interviewer.ScoreAnswer(ctx, session)
	if err != nil {
		p.sendError(client, err.Error())
		return
	}

	if err := p.repo.SaveInterviewSession(ctx, session); err != nil {
		p.sendError(client, "Failed to save session")
		return
	}

	client.SendJSON(map[string]interface{}{
		"type":       "score",
		"score":      score,
		"session_id": session.ID,
	})
}

// handleAudio transcribes the samples, records the transcript as the answer
// to the current question, and returns both to the client.
func (p *WSProcessor) handleAudio(ctx context.Context, client *ws.Client, session *models.InterviewSession, msg *ws.Message) {
	input, err := models.NewAudioInput([][]float32{msg.Samples}, msg.SampleRate)
	if err != nil {
		p.sendError(client, err.Error())
		return
	}

	result, err := p.transcriber.Transcribe(ctx, input, msg.Language)
	if err != nil {
		slog.Error("Transcription failed", "error", err, "session_id", session.ID)
		p.sendError(client, "Transcription failed")
		return
	}

	client.SendJSON(map[string]interface{}{
		"type":          "transcript",
		"transcription": result,
		"session_id":    session.ID,
	})

	if result.Text != "" {
		p.handleAnswer(ctx, client, session, result.Text, "")
	}
}

func (p *WSProcessor) handleEnd(ctx context.Context, client *ws.Client, session *models.InterviewSession) {
	if err := p.interviewer.EndSession(session); err != nil {
		p.sendError(client, err.Error())
		return
	}

	if err := p.repo.SaveInterviewSession(ctx, session); err != nil {
		p.sendError(client, "Failed to save session")
		return
	}

	if p.watchdog != nil {
		p.watchdog.Forget(session.ID)
	}

	client.SendJSON(map[string]interface{}{
		"type":        "session_ended",
		"session_id":  session.ID,
		"total_score": session.TotalScore,
		"duration":    session.DurationMinutes(),
	})
}

func (p *WSProcessor) sendError(client *ws.Client, message string) {
	client.SendJSON(map[string]interface{}{
		"type":    "error",
		"content": message,
	})
}
