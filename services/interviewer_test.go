package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prepview-ai/backend/models"
)

// stubCompleter returns canned replies, or an error when failing is set.
type stubCompleter struct {
	replies    []string
	calls      int
	failing    bool
	lastPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.failing {
		return "", ErrGenerationFailed
	}
	if s.calls >= len(s.replies) {
		return "", ErrGenerationFailed
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

func testConfig() InterviewConfig {
	return InterviewConfig{
		MaxQuestionsPerSession: 10,
		EnableScoring:          true,
		ScoringCriteria:        []string{"clarity", "specificity", "relevance"},
		MaxConversationHistory: 20,
		DefaultPersonality:     models.PersonalityProfessionalFriendly,
		IdleTimeoutMinutes:     30,
	}
}

func TestStartSession(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{}, testConfig())

	session, err := iv.StartSession("user-1", "Software Engineer", "")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if !session.Active() {
		t.Error("new session should be active")
	}
	if session.Personality != models.PersonalityProfessionalFriendly {
		t.Errorf("Personality = %s, want default", session.Personality)
	}
	if session.ID == "" {
		t.Error("session should get an id")
	}

	if _, err := iv.StartSession("user-1", "", ""); err == nil {
		t.Error("StartSession with empty position should fail")
	}
}

func TestAskQuestionFallsBackOnFailure(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{failing: true}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	response, err := iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})
	if err != nil {
		t.Fatalf("AskQuestion() error = %v", err)
	}

	want := "Tell me about a time when you had to overcome a significant challenge at work."
	if response.Question.Text != want {
		t.Errorf("fallback question = %q, want %q", response.Question.Text, want)
	}
	if response.Question.Type != models.QuestionBehavioral {
		t.Errorf("fallback type = %s, want behavioral", response.Question.Type)
	}
	if len(response.Tips) != 0 || len(response.FollowUpQuestions) != 0 || len(response.ExpectedKeyPoints) != 0 {
		t.Error("fallback response should carry empty guidance lists")
	}
	if session.QuestionsAsked() != 1 {
		t.Errorf("QuestionsAsked() = %d, want 1", session.QuestionsAsked())
	}
}

func TestAskQuestionGenerated(t *testing.T) {
	completer := &stubCompleter{replies: []string{`"What is eventual consistency?"`}}
	iv := NewInterviewer(completer, testConfig())
	session, _ := iv.StartSession("user-1", "Backend Developer", models.PersonalityChallenging)

	req := &models.InterviewRequest{Type: models.QuestionTechnical, Difficulty: models.DifficultyHard}
	response, err := iv.AskQuestion(context.Background(), session, req)
	if err != nil {
		t.Fatalf("AskQuestion() error = %v", err)
	}

	if response.Question.Text != "What is eventual consistency?" {
		t.Errorf("question = %q", response.Question.Text)
	}
	if response.Question.Position != "Backend Developer" {
		t.Errorf("position = %q, should inherit from session", response.Question.Position)
	}
	if len(response.Tips) == 0 || len(response.FollowUpQuestions) == 0 || len(response.ExpectedKeyPoints) == 0 {
		t.Error("generated response should carry guidance lists")
	}
	if !strings.Contains(completer.lastPrompt, "challenging and thought-provoking") {
		t.Error("prompt should reflect session personality")
	}
}

func TestAskQuestionStateChecks(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{failing: true}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	if err := iv.EndSession(session); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	_, err := iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("AskQuestion on completed session error = %v, want ErrInvalidState", err)
	}
}

func TestAskQuestionLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQuestionsPerSession = 2
	iv := NewInterviewer(&stubCompleter{failing: true}, cfg)
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	for i := 0; i < 2; i++ {
		if _, err := iv.AskQuestion(context.Background(), session, &models.InterviewRequest{}); err != nil {
			t.Fatalf("AskQuestion() #%d error = %v", i+1, err)
		}
	}

	_, err := iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("AskQuestion past limit error = %v, want ErrInvalidState", err)
	}
}

func TestRecordAnswerStateChecks(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{failing: true}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	// No question asked yet
	if _, err := iv.RecordAnswer(session, "hello", "", nil); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RecordAnswer before question error = %v, want ErrInvalidState", err)
	}

	iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})

	answer, err := iv.RecordAnswer(session, "My answer.", "", nil)
	if err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}
	if answer.Text != "My answer." {
		t.Errorf("answer text = %q", answer.Text)
	}
	if !session.LastTurn().Answered() {
		t.Error("turn should be marked answered")
	}

	// The current question already carries an answer
	if _, err := iv.RecordAnswer(session, "Second try.", "", nil); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RecordAnswer twice error = %v, want ErrInvalidState", err)
	}
}

func TestScoreAnswerFallsBackOnFailure(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{failing: true}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")
	iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})
	iv.RecordAnswer(session, "An answer.", "", nil)

	score, err := iv.ScoreAnswer(context.Background(), session)
	if err != nil {
		t.Fatalf("ScoreAnswer() error = %v", err)
	}
	if score.OverallScore != 5.0 {
		t.Errorf("fallback score = %v, want 5.0", score.OverallScore)
	}
	if score.Feedback != "Unable to score this answer due to an error." {
		t.Errorf("fallback feedback = %q", score.Feedback)
	}
	if len(score.Suggestions) != 1 {
		t.Errorf("fallback suggestions = %v", score.Suggestions)
	}
	if !session.LastTurn().Scored() {
		t.Error("turn should be marked scored")
	}
}

func TestScoreAnswerStateChecks(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{failing: true}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	if _, err := iv.ScoreAnswer(context.Background(), session); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ScoreAnswer without answer error = %v, want ErrInvalidState", err)
	}

	iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})
	iv.RecordAnswer(session, "An answer.", "", nil)
	iv.ScoreAnswer(context.Background(), session)

	if _, err := iv.ScoreAnswer(context.Background(), session); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ScoreAnswer twice error = %v, want ErrInvalidState", err)
	}
}

func TestScoreAnswerOnCompletedSession(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{failing: true}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")
	iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})
	iv.RecordAnswer(session, "An answer.", "", nil)

	if err := iv.EndSession(session); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	if _, err := iv.ScoreAnswer(context.Background(), session); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ScoreAnswer on completed session error = %v, want ErrInvalidState", err)
	}
	if session.LastTurn().Scored() {
		t.Error("completed session must not accept a new score")
	}
}

func TestEndSessionTwice(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	if err := iv.EndSession(session); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if session.Status != models.SessionCompleted {
		t.Errorf("Status = %s, want completed", session.Status)
	}
	if session.EndedAt == nil {
		t.Error("EndedAt should be set")
	}

	if err := iv.EndSession(session); !errors.Is(err, ErrInvalidState) {
		t.Errorf("EndSession twice error = %v, want ErrInvalidState", err)
	}
}

func TestConverseFallback(t *testing.T) {
	iv := NewInterviewer(&stubCompleter{failing: true}, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	reply := iv.Converse(context.Background(), session, "I think so.")
	if reply != "Thank you for your response. Let's continue with the next question." {
		t.Errorf("fallback reply = %q", reply)
	}
}

func TestConverseTrimsReply(t *testing.T) {
	completer := &stubCompleter{replies: []string{"  That sounds like a solid approach. Tell me more.  \n"}}
	iv := NewInterviewer(completer, testConfig())
	session, _ := iv.StartSession("user-1", "Software Engineer", "")

	reply := iv.Converse(context.Background(), session, "I used feature flags.")
	if reply != "That sounds like a solid approach. Tell me more." {
		t.Errorf("reply = %q, want trimmed text", reply)
	}
}

// TestFullInterviewFlow walks a complete session: two questions, answers, and
// scores, then the end-of-session rollup.
func TestFullInterviewFlow(t *testing.T) {
	completer := &stubCompleter{replies: []string{
		"Explain the bias-variance tradeoff.",
		`{"overall_score": 8.0, "criteria_scores": {"clarity": 8}, "feedback": "Solid.", "suggestions": ["More depth"]}`,
		"How do you validate a model?",
		`{"overall_score": 6.0, "criteria_scores": {"clarity": 6}, "feedback": "Okay.", "suggestions": ["Mention cross-validation"]}`,
	}}
	iv := NewInterviewer(completer, testConfig())

	session, err := iv.StartSession("user-1", "Data Scientist", models.PersonalitySupportive)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := iv.AskQuestion(context.Background(), session, &models.InterviewRequest{Type: models.QuestionTechnical}); err != nil {
			t.Fatalf("AskQuestion() #%d error = %v", i+1, err)
		}
		if _, err := iv.RecordAnswer(session, "Detailed answer.", "", nil); err != nil {
			t.Fatalf("RecordAnswer() #%d error = %v", i+1, err)
		}
		if _, err := iv.ScoreAnswer(context.Background(), session); err != nil {
			t.Fatalf("ScoreAnswer() #%d error = %v", i+1, err)
		}
	}

	if err := iv.EndSession(session); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	if session.TotalScore == nil {
		t.Fatal("TotalScore should be set when scoring is enabled")
	}
	if *session.TotalScore != 7.0 {
		t.Errorf("TotalScore = %v, want 7.0", *session.TotalScore)
	}
	if session.QuestionsAsked() != 2 || session.AnswersGiven() != 2 {
		t.Errorf("counters = %d/%d, want 2/2", session.QuestionsAsked(), session.AnswersGiven())
	}
	if session.DurationMinutes() == nil {
		t.Error("DurationMinutes should be set after end")
	}
}

func TestEndSessionScoringDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableScoring = false
	completer := &stubCompleter{replies: []string{
		"A question?",
		`{"overall_score": 9.0, "feedback": "Great."}`,
	}}
	iv := NewInterviewer(completer, cfg)

	session, _ := iv.StartSession("user-1", "Software Engineer", "")
	iv.AskQuestion(context.Background(), session, &models.InterviewRequest{})
	iv.RecordAnswer(session, "Answer.", "", nil)
	iv.ScoreAnswer(context.Background(), session)
	iv.EndSession(session)

	if session.TotalScore != nil {
		t.Errorf("TotalScore = %v, want nil when scoring disabled", *session.TotalScore)
	}
}
