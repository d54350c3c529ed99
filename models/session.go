package models

import (
	"time"

	"gorm.io/gorm"
)

// Session status values. A session moves from active to completed exactly once.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// InterviewSession is one practice interview, owning its conversation turns in order.
type InterviewSession struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Position    string         `gorm:"size:100;not null" json:"position"`
	Personality Personality    `gorm:"size:50;not null" json:"interviewer_personality"`
	Status      string         `gorm:"not null;default:'active';check:status IN ('active', 'completed')" json:"status"`
	StartedAt   time.Time      `gorm:"not null" json:"started_at"`
	EndedAt     *time.Time     `json:"ended_at,omitempty"`
	TotalScore  *float64       `gorm:"type:decimal(4,2)" json:"total_score,omitempty"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Turns []ConversationTurn `gorm:"foreignKey:SessionID" json:"conversation_turns,omitempty"`
}

// Active reports whether the session still accepts questions and answers.
func (s *InterviewSession) Active() bool {
	return s.Status == SessionActive
}

// QuestionsAsked is the number of turns in the session.
func (s *InterviewSession) QuestionsAsked() int {
	return len(s.Turns)
}

// AnswersGiven is the number of turns the candidate has responded to.
func (s *InterviewSession) AnswersGiven() int {
	count := 0
	for i := range s.Turns {
		if s.Turns[i].Answered() {
			count++
		}
	}
	return count
}

// AverageScore is the mean overall score across scored turns. It is nil when
// nothing has been scored - callers must distinguish "no data" from zero.
func (s *InterviewSession) AverageScore() *float64 {
	sum := 0.0
	scored := 0
	for i := range s.Turns {
		if s.Turns[i].Scored() {
			sum += s.Turns[i].Score.OverallScore
			scored++
		}
	}
	if scored == 0 {
		return nil
	}
	avg := sum / float64(scored)
	return &avg
}

// DurationMinutes is the session length in minutes, nil until the session ends.
func (s *InterviewSession) DurationMinutes() *float64 {
	if s.EndedAt == nil {
		return nil
	}
	minutes := s.EndedAt.Sub(s.StartedAt).Minutes()
	return &minutes
}

// LastTurn returns the most recent turn, or nil for a fresh session.
func (s *InterviewSession) LastTurn() *ConversationTurn {
	if len(s.Turns) == 0 {
		return nil
	}
	return &s.Turns[len(s.Turns)-1]
}

// PreviousQuestions lists the question texts already asked, oldest first.
// Prompt builders use this to steer the model away from repetition.
func (s *InterviewSession) PreviousQuestions() []string {
	questions := make([]string, 0, len(s.Turns))
	for i := range s.Turns {
		questions = append(questions, s.Turns[i].Question.Text)
	}
	return questions
}
