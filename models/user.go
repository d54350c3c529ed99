package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // Hashed password (excluded from JSON)
	FullName  string         `gorm:"size:255" json:"full_name,omitempty"`
	Role      string         `gorm:"default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Profile           *UserProfile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	InterviewSessions []InterviewSession `gorm:"foreignKey:UserID" json:"interview_sessions,omitempty"`
	RefreshTokens     []RefreshToken     `gorm:"foreignKey:UserID" json:"refresh_tokens,omitempty"`
}

type RefreshToken struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// UserProfile stores a user's interview preferences and session history.
// It references past sessions by id only and never embeds them.
type UserProfile struct {
	ID                     string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                 string         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name                   string         `gorm:"size:255;not null" json:"name"`
	Email                  string         `gorm:"size:255" json:"email,omitempty"`
	TargetPositions        []string       `gorm:"serializer:json" json:"target_positions"`
	ExperienceLevel        string         `gorm:"size:50;default:'entry'" json:"experience_level"`
	PreferredQuestionTypes []QuestionType `gorm:"serializer:json" json:"preferred_question_types"`
	InterviewHistory       []string       `gorm:"serializer:json" json:"interview_history"`
	CreatedAt              time.Time      `json:"created_at"`
	LastActive             time.Time      `json:"last_active"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewUserProfile builds a validated profile. The name must be non-empty.
func NewUserProfile(name, email string) (*UserProfile, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	now := time.Now()
	return &UserProfile{
		ID:                     uuid.New().String(),
		Name:                   name,
		Email:                  email,
		TargetPositions:        []string{},
		ExperienceLevel:        "entry",
		PreferredQuestionTypes: []QuestionType{},
		InterviewHistory:       []string{},
		CreatedAt:              now,
		LastActive:             now,
	}, nil
}

// RecordSession appends a completed session id to the profile's history.
func (p *UserProfile) RecordSession(sessionID string) {
	p.InterviewHistory = append(p.InterviewHistory, sessionID)
	p.LastActive = time.Now()
}
