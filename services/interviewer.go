package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prepview-ai/backend/models"
)

// Interviewer drives interview sessions: it generates questions, keeps the
// conversation going, scores answers, and enforces the session lifecycle.
// Generation failures never abort an interview; every generated artifact has
// a deterministic fallback.
type Interviewer struct {
	completer Completer
	cfg       InterviewConfig
}

func NewInterviewer(completer Completer, cfg InterviewConfig) *Interviewer {
	return &Interviewer{
		completer: completer,
		cfg:       cfg,
	}
}

// StartSession creates a fresh active session for the given position. An
// empty or unknown personality is replaced with the configured default.
func (iv *Interviewer) StartSession(userID, position string, personality models.Personality) (*models.InterviewSession, error) {
	if position == "" {
		return nil, &models.ValidationError{Field: "position", Reason: "must not be empty"}
	}
	if personality == "" {
		personality = iv.cfg.DefaultPersonality
	}

	session := &models.InterviewSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		Position:    position,
		Personality: personality,
		Status:      models.SessionActive,
		StartedAt:   time.Now(),
		Turns:       []models.ConversationTurn{},
	}

	slog.Info("Started interview session", "session_id", session.ID, "position", position, "personality", personality)
	return session, nil
}

// AskQuestion generates the next question for the session and appends a new
// turn. When generation or parsing fails, a canned question for the requested
// type is used instead and the guidance lists come back empty.
func (iv *Interviewer) AskQuestion(ctx context.Context, session *models.InterviewSession, req *models.InterviewRequest) (*models.InterviewResponse, error) {
	if !session.Active() {
		return nil, fmt.Errorf("cannot ask question on %s session: %w", session.Status, ErrInvalidState)
	}
	if iv.cfg.MaxQuestionsPerSession > 0 && session.QuestionsAsked() >= iv.cfg.MaxQuestionsPerSession {
		return nil, fmt.Errorf("session reached %d questions: %w", iv.cfg.MaxQuestionsPerSession, ErrInvalidState)
	}
	if req.Position == "" {
		req.Position = session.Position
	}

	question, fellBack := iv.generateQuestion(ctx, session, req)

	turn := models.ConversationTurn{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		TurnOrder: len(session.Turns),
		Timestamp: time.Now(),
		Question:  *question,
	}
	turn.Question.TurnID = turn.ID
	session.Turns = append(session.Turns, turn)

	response := &models.InterviewResponse{
		Question:          question,
		FollowUpQuestions: []string{},
		Tips:              []string{},
		ExpectedKeyPoints: []string{},
	}
	if !fellBack {
		response.FollowUpQuestions = FollowUpsFor(question)
		response.Tips = TipsFor(question.Type)
		response.ExpectedKeyPoints = KeyPointsFor(question)
	}

	return response, nil
}

func (iv *Interviewer) generateQuestion(ctx context.Context, session *models.InterviewSession, req *models.InterviewRequest) (*models.Question, bool) {
	prompt := BuildQuestionPrompt(req, session, iv.cfg.MaxConversationHistory)

	slog.Info("Generating question", "session_id", session.ID, "position", req.Position, "type", req.Type)

	text, err := iv.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Question generation failed, using fallback", "error", err, "session_id", session.ID)
		return FallbackQuestion(req), true
	}

	question, err := ParseQuestion(text, req)
	if err != nil {
		slog.Error("Question response unusable, using fallback", "error", err, "session_id", session.ID)
		return FallbackQuestion(req), true
	}

	return question, false
}

// Converse generates a conversational interviewer reply to a candidate
// response outside the structured question flow. It never fails; a generation
// error yields a generic continuation line.
func (iv *Interviewer) Converse(ctx context.Context, session *models.InterviewSession, userResponse string) string {
	if !session.Active() {
		return "This interview session has ended. Thank you for participating."
	}

	var lastQuestion *models.Question
	if turn := session.LastTurn(); turn != nil {
		lastQuestion = &turn.Question
	}

	prompt := BuildConversationPrompt(userResponse, session, lastQuestion)

	text, err := iv.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Conversational reply failed", "error", err, "session_id", session.ID)
		return "Thank you for your response. Let's continue with the next question."
	}

	return strings.TrimSpace(text)
}

// RecordAnswer attaches the candidate's answer to the latest turn. The
// session must be active, have at least one turn, and the latest turn must
// not already carry an answer.
func (iv *Interviewer) RecordAnswer(session *models.InterviewSession, text, audioFile string, durationSeconds *float64) (*models.Answer, error) {
	if !session.Active() {
		return nil, fmt.Errorf("cannot record answer on %s session: %w", session.Status, ErrInvalidState)
	}

	turn := session.LastTurn()
	if turn == nil {
		return nil, fmt.Errorf("no question asked yet: %w", ErrInvalidState)
	}
	if turn.Answered() {
		return nil, fmt.Errorf("current question already answered: %w", ErrInvalidState)
	}

	answer, err := models.NewAnswer(turn.Question.ID, text)
	if err != nil {
		return nil, err
	}
	answer.TurnID = turn.ID
	answer.AudioFile = audioFile
	answer.DurationSeconds = durationSeconds

	turn.Answer = answer
	return answer, nil
}

// ScoreAnswer evaluates the latest answered turn and attaches the score. The
// session must be active and the turn must carry an unscored answer.
// Generation and parse failures produce
// neutral fallback scores so scoring never blocks the interview.
func (iv *Interviewer) ScoreAnswer(ctx context.Context, session *models.InterviewSession) (*models.Score, error) {
	if !session.Active() {
		return nil, fmt.Errorf("cannot score answer on %s session: %w", session.Status, ErrInvalidState)
	}

	turn := session.LastTurn()
	if turn == nil || !turn.Answered() {
		return nil, fmt.Errorf("no answer to score: %w", ErrInvalidState)
	}
	if turn.Scored() {
		return nil, fmt.Errorf("answer already scored: %w", ErrInvalidState)
	}

	prompt := BuildScoringPrompt(&turn.Question, turn.Answer, session, iv.cfg.ScoringCriteria)

	slog.Info("Scoring answer", "session_id", session.ID, "question_id", turn.Question.ID)

	var score *models.Score
	text, err := iv.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Answer scoring failed, using default score", "error", err, "session_id", session.ID)
		score, _ = models.NewScore(
			turn.Answer.ID,
			5.0,
			map[string]float64{},
			"Unable to score this answer due to an error.",
			[]string{"Please try to provide a more detailed response next time."},
		)
	} else {
		score = ParseScore(text, turn.Answer.ID)
	}

	score.TurnID = turn.ID
	turn.Score = score
	return score, nil
}

// EndSession completes an active session: it stamps the end time and, when
// scoring is enabled, records the mean overall score across scored turns.
// Ending a completed session is an error.
func (iv *Interviewer) EndSession(session *models.InterviewSession) error {
	if !session.Active() {
		return fmt.Errorf("session already %s: %w", session.Status, ErrInvalidState)
	}

	now := time.Now()
	session.EndedAt = &now
	session.Status = models.SessionCompleted

	if iv.cfg.EnableScoring {
		session.TotalScore = session.AverageScore()
	}

	slog.Info("Ended interview session",
		"session_id", session.ID,
		"questions_asked", session.QuestionsAsked(),
		"answers_given", session.AnswersGiven())
	return nil
}
