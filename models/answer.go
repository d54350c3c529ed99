package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer is a candidate's response to a question.
type Answer struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	TurnID          string         `gorm:"type:uuid;index" json:"turn_id,omitempty"`
	QuestionID      string         `gorm:"type:uuid;not null;index" json:"question_id"`
	Text            string         `gorm:"type:text;not null" json:"text"`
	AudioFile       string         `gorm:"size:500" json:"audio_file,omitempty"`
	Timestamp       time.Time      `gorm:"not null" json:"timestamp"`
	DurationSeconds *float64       `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewAnswer builds an Answer for the given question with a fresh id.
func NewAnswer(questionID, text string) (*Answer, error) {
	if questionID == "" {
		return nil, &ValidationError{Field: "question_id", Reason: "must reference a question"}
	}

	return &Answer{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		Text:       text,
		Timestamp:  time.Now(),
	}, nil
}

// Score is the evaluation of one answer. OverallScore is always within [0, 10].
type Score struct {
	ID             string             `gorm:"type:uuid;primaryKey" json:"-"`
	TurnID         string             `gorm:"type:uuid;index" json:"turn_id,omitempty"`
	AnswerID       string             `gorm:"type:uuid;not null;index" json:"answer_id"`
	OverallScore   float64            `gorm:"type:decimal(4,2);not null" json:"overall_score"`
	CriteriaScores map[string]float64 `gorm:"serializer:json" json:"criteria_scores"`
	Feedback       string             `gorm:"type:text" json:"feedback"`
	Suggestions    []string           `gorm:"serializer:json" json:"suggestions"`
	ScoredAt       time.Time          `gorm:"not null" json:"scored_at"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`
}

// NewScore builds a validated Score. The overall score must fall in [0, 10].
func NewScore(answerID string, overall float64, criteria map[string]float64, feedback string, suggestions []string) (*Score, error) {
	if answerID == "" {
		return nil, &ValidationError{Field: "answer_id", Reason: "must reference an answer"}
	}
	if overall < 0 || overall > 10 {
		return nil, &ValidationError{Field: "overall_score", Reason: "must be between 0 and 10"}
	}
	if criteria == nil {
		criteria = map[string]float64{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	return &Score{
		ID:             uuid.New().String(),
		AnswerID:       answerID,
		OverallScore:   overall,
		CriteriaScores: criteria,
		Feedback:       feedback,
		Suggestions:    suggestions,
		ScoredAt:       time.Now(),
	}, nil
}
