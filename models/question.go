package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionType classifies interview questions.
type QuestionType string

const (
	QuestionBehavioral     QuestionType = "behavioral"
	QuestionTechnical      QuestionType = "technical"
	QuestionSituational    QuestionType = "situational"
	QuestionProblemSolving QuestionType = "problem-solving"
	QuestionLeadership     QuestionType = "leadership"
	QuestionCultureFit     QuestionType = "culture-fit"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionBehavioral, QuestionTechnical, QuestionSituational,
		QuestionProblemSolving, QuestionLeadership, QuestionCultureFit:
		return true
	default:
		return false
	}
}

// Difficulty is the requested difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Personality is a named tone preset governing how generated prompts are phrased.
type Personality string

const (
	PersonalityProfessionalFriendly Personality = "professional_friendly"
	PersonalityChallenging          Personality = "challenging"
	PersonalitySupportive           Personality = "supportive"
	PersonalityFormal               Personality = "formal"
	PersonalityCasual               Personality = "casual"
)

// Question is one interview prompt presented to the candidate.
type Question struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	TurnID     string         `gorm:"type:uuid;index" json:"turn_id,omitempty"`
	Text       string         `gorm:"type:text;not null" json:"text"`
	Type       QuestionType   `gorm:"size:50;not null" json:"type"`
	Position   string         `gorm:"size:100;not null" json:"position"`
	Difficulty Difficulty     `gorm:"size:20;not null;check:difficulty IN ('easy', 'medium', 'hard')" json:"difficulty"`
	Category   string         `gorm:"size:100" json:"category"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewQuestion builds a validated Question with a fresh id.
func NewQuestion(text string, qType QuestionType, position string, difficulty Difficulty, category string) (*Question, error) {
	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if !qType.Valid() {
		return nil, &ValidationError{Field: "type", Reason: "unknown question type " + string(qType)}
	}
	if !difficulty.Valid() {
		return nil, &ValidationError{Field: "difficulty", Reason: "must be easy, medium, or hard"}
	}

	return &Question{
		ID:         uuid.New().String(),
		Text:       text,
		Type:       qType,
		Position:   position,
		Difficulty: difficulty,
		Category:   category,
		CreatedAt:  time.Now(),
	}, nil
}

// ConversationTurn is one question/answer/score unit within a session.
// Answer and Score are optional until the candidate responds and scoring runs.
type ConversationTurn struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID string         `gorm:"type:uuid;not null;index" json:"session_id"`
	TurnOrder int            `gorm:"not null" json:"turn_order"`
	Timestamp time.Time      `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships - each turn exclusively owns its question, answer, and score
	Question Question `gorm:"foreignKey:TurnID" json:"question"`
	Answer   *Answer  `gorm:"foreignKey:TurnID" json:"answer,omitempty"`
	Score    *Score   `gorm:"foreignKey:TurnID" json:"score,omitempty"`
}

// Answered reports whether the candidate has responded to this turn.
func (t *ConversationTurn) Answered() bool {
	return t.Answer != nil
}

// Scored reports whether this turn's answer has been evaluated.
func (t *ConversationTurn) Scored() bool {
	return t.Score != nil
}
