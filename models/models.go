package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, RefreshToken, UserProfile from user.go
// - InterviewSession from session.go
// - ConversationTurn, Question from question.go
// - Answer, Score from answer.go
// - InterviewRequest, InterviewResponse, AudioInput, TranscriptionResult from request.go

// Database schema overview:
// 1. users - Managed by cookie-based authentication
// 2. user_profiles - Interview preferences and session history per user
// 3. interview_sessions - One practice interview, owning its conversation turns
// 4. conversation_turns - Ordered question/answer/score units within a session
// 5. questions / answers / scores - Owned one-to-one by their conversation turn
