package models

import (
	"testing"
	"time"
)

func TestNewScoreValidation(t *testing.T) {
	tests := []struct {
		name    string
		overall float64
		wantErr bool
	}{
		{name: "Lower bound", overall: 0, wantErr: false},
		{name: "Upper bound", overall: 10, wantErr: false},
		{name: "Midpoint", overall: 5.5, wantErr: false},
		{name: "Negative", overall: -0.1, wantErr: true},
		{name: "Above ten", overall: 10.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScore("answer-1", tt.overall, nil, "feedback", nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewScore(%v) error = %v, wantErr %v", tt.overall, err, tt.wantErr)
			}
		})
	}
}

func TestNewScoreDefaults(t *testing.T) {
	score, err := NewScore("answer-1", 7.0, nil, "good", nil)
	if err != nil {
		t.Fatalf("NewScore() error = %v", err)
	}
	if score.CriteriaScores == nil {
		t.Error("CriteriaScores should default to an empty map")
	}
	if score.Suggestions == nil {
		t.Error("Suggestions should default to an empty slice")
	}
	if score.ID == "" {
		t.Error("Score should get a fresh id")
	}
}

func TestNewScoreRequiresAnswer(t *testing.T) {
	if _, err := NewScore("", 5.0, nil, "feedback", nil); err == nil {
		t.Error("NewScore with empty answer id should fail")
	}
}

func scoredTurn(overall float64) ConversationTurn {
	score, _ := NewScore("answer-1", overall, nil, "", nil)
	answer, _ := NewAnswer("question-1", "response")
	return ConversationTurn{
		Question: Question{ID: "question-1", Text: "Why this role?"},
		Answer:   answer,
		Score:    score,
	}
}

func TestAverageScore(t *testing.T) {
	session := &InterviewSession{Status: SessionActive, StartedAt: time.Now()}

	if got := session.AverageScore(); got != nil {
		t.Errorf("AverageScore() on fresh session = %v, want nil", *got)
	}

	// An unscored turn alone still yields no average
	answer, _ := NewAnswer("question-1", "response")
	session.Turns = append(session.Turns, ConversationTurn{
		Question: Question{ID: "question-1", Text: "Tell me about yourself."},
		Answer:   answer,
	})
	if got := session.AverageScore(); got != nil {
		t.Errorf("AverageScore() with only unscored turns = %v, want nil", *got)
	}

	session.Turns = append(session.Turns, scoredTurn(6.0), scoredTurn(8.0))
	got := session.AverageScore()
	if got == nil {
		t.Fatal("AverageScore() = nil, want 7.0")
	}
	if *got != 7.0 {
		t.Errorf("AverageScore() = %v, want 7.0", *got)
	}
}

func TestDurationMinutes(t *testing.T) {
	start := time.Now()
	session := &InterviewSession{Status: SessionActive, StartedAt: start}

	if got := session.DurationMinutes(); got != nil {
		t.Errorf("DurationMinutes() on active session = %v, want nil", *got)
	}

	end := start.Add(12 * time.Minute)
	session.EndedAt = &end
	got := session.DurationMinutes()
	if got == nil {
		t.Fatal("DurationMinutes() = nil after end")
	}
	if *got != 12.0 {
		t.Errorf("DurationMinutes() = %v, want 12.0", *got)
	}
}

func TestSessionCounters(t *testing.T) {
	session := &InterviewSession{Status: SessionActive, StartedAt: time.Now()}
	session.Turns = append(session.Turns, ConversationTurn{
		Question: Question{ID: "q1", Text: "First question"},
	})
	session.Turns = append(session.Turns, scoredTurn(5.0))

	if got := session.QuestionsAsked(); got != 2 {
		t.Errorf("QuestionsAsked() = %d, want 2", got)
	}
	if got := session.AnswersGiven(); got != 1 {
		t.Errorf("AnswersGiven() = %d, want 1", got)
	}

	previous := session.PreviousQuestions()
	if len(previous) != 2 || previous[0] != "First question" {
		t.Errorf("PreviousQuestions() = %v", previous)
	}
}

func TestNewQuestionValidation(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		qType      QuestionType
		difficulty Difficulty
		wantErr    bool
	}{
		{name: "Valid", text: "Why us?", qType: QuestionBehavioral, difficulty: DifficultyMedium, wantErr: false},
		{name: "Empty text", text: "", qType: QuestionBehavioral, difficulty: DifficultyMedium, wantErr: true},
		{name: "Unknown type", text: "Why us?", qType: QuestionType("riddle"), difficulty: DifficultyMedium, wantErr: true},
		{name: "Unknown difficulty", text: "Why us?", qType: QuestionTechnical, difficulty: Difficulty("impossible"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestion(tt.text, tt.qType, "Software Engineer", tt.difficulty, "")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewQuestion() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserProfileRecordSession(t *testing.T) {
	profile, err := NewUserProfile("Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("NewUserProfile() error = %v", err)
	}

	profile.RecordSession("session-1")
	profile.RecordSession("session-2")

	if len(profile.InterviewHistory) != 2 {
		t.Fatalf("InterviewHistory length = %d, want 2", len(profile.InterviewHistory))
	}
	if profile.InterviewHistory[1] != "session-2" {
		t.Errorf("InterviewHistory[1] = %s, want session-2", profile.InterviewHistory[1])
	}
}

func TestNewUserProfileRequiresName(t *testing.T) {
	if _, err := NewUserProfile("", "no-name@example.com"); err == nil {
		t.Error("NewUserProfile with empty name should fail")
	}
}

func TestNewTranscriptionResultValidation(t *testing.T) {
	if _, err := NewTranscriptionResult("hi", 1.2, "en", nil, 0.1); err == nil {
		t.Error("confidence above 1 should fail")
	}
	result, err := NewTranscriptionResult("hi", 0.9, "", nil, 0.1)
	if err != nil {
		t.Fatalf("NewTranscriptionResult() error = %v", err)
	}
	if result.Language != "en" {
		t.Errorf("Language = %s, want en default", result.Language)
	}
	if result.Segments == nil {
		t.Error("Segments should default to an empty slice")
	}
}
