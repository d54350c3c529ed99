package services

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/prepview-ai/backend/models"
)

// fallbackQuestions are served when generation fails, keyed by question type.
var fallbackQuestions = map[models.QuestionType]string{
	models.QuestionBehavioral:     "Tell me about a time when you had to overcome a significant challenge at work.",
	models.QuestionTechnical:      "How would you approach debugging a complex system issue?",
	models.QuestionSituational:    "If you were given a project with unclear requirements, how would you proceed?",
	models.QuestionProblemSolving: "Describe a problem you solved that required creative thinking.",
}

// tipsByType holds answering tips per question type. Types without an entry
// get generic guidance.
var tipsByType = map[models.QuestionType][]string{
	models.QuestionBehavioral: {
		"Use the STAR method (Situation, Task, Action, Result)",
		"Provide specific examples from your experience",
		"Focus on your role and contributions",
	},
	models.QuestionTechnical: {
		"Explain your thought process step by step",
		"Consider edge cases and trade-offs",
		"Be honest about what you don't know",
	},
	models.QuestionSituational: {
		"Understand the problem before jumping to solutions",
		"Consider multiple approaches",
		"Explain your reasoning clearly",
	},
}

var genericTips = []string{
	"Think before you speak",
	"Provide concrete examples",
}

var defaultFollowUps = []string{
	"Can you provide a specific example?",
	"What was the outcome of that situation?",
	"What would you do differently next time?",
}

var defaultKeyPoints = []string{
	"Clear problem understanding",
	"Logical approach",
	"Specific examples",
	"Results and outcomes",
	"Learning and growth",
}

// ParseQuestion turns raw model output into a Question. Surrounding
// whitespace and quote characters are stripped; missing request fields get
// their defaults (behavioral, medium).
func ParseQuestion(responseText string, req *models.InterviewRequest) (*models.Question, error) {
	text := strings.TrimSpace(responseText)
	text = strings.Trim(text, `"'`)
	text = strings.TrimSpace(text)

	qType := req.Type
	if qType == "" {
		qType = models.QuestionBehavioral
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	return models.NewQuestion(text, qType, req.Position, difficulty, req.Category)
}

// scorePayload mirrors the JSON shape the scoring prompt asks for.
type scorePayload struct {
	OverallScore   float64            `json:"overall_score"`
	CriteriaScores map[string]float64 `json:"criteria_scores"`
	Feedback       string             `json:"feedback"`
	Suggestions    []string           `json:"suggestions"`
}

// ParseScore extracts the scoring JSON from raw model output. The payload is
// located as the span from the first '{' to the last '}' so surrounding prose
// or markdown fences do not break parsing. Any parse failure yields the
// deterministic fallback score rather than an error.
func ParseScore(responseText, answerID string) *models.Score {
	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}")
	if start >= 0 && end > start {
		// Pre-seed the midpoint so a payload without overall_score keeps it.
		payload := scorePayload{OverallScore: 5.0}
		if err := json.Unmarshal([]byte(responseText[start:end+1]), &payload); err == nil {
			feedback := payload.Feedback
			if feedback == "" {
				feedback = "No feedback provided"
			}
			score, verr := models.NewScore(answerID, payload.OverallScore, payload.CriteriaScores, feedback, payload.Suggestions)
			if verr == nil {
				return score
			}
			slog.Warn("Scoring response out of range, using fallback", "error", verr)
		} else {
			slog.Warn("Failed to parse scoring response", "error", err)
		}
	}

	return FallbackScore(answerID)
}

// FallbackScore is the neutral score used when the model's evaluation cannot
// be parsed. Overall is pinned to the midpoint so an unparseable reply never
// reads as a judgment of the answer.
func FallbackScore(answerID string) *models.Score {
	score, _ := models.NewScore(
		answerID,
		5.0,
		map[string]float64{},
		"Unable to parse detailed scoring. General feedback: Consider providing more specific examples and structure in your responses.",
		[]string{
			"Use the STAR method for behavioral questions",
			"Provide concrete examples",
			"Structure your response clearly",
		},
	)
	return score
}

// FallbackQuestion builds a canned question for the requested type when
// generation fails. Unknown types fall back to the behavioral question.
func FallbackQuestion(req *models.InterviewRequest) *models.Question {
	qType := req.Type
	if qType == "" {
		qType = models.QuestionBehavioral
	}
	text, ok := fallbackQuestions[qType]
	if !ok {
		text = fallbackQuestions[models.QuestionBehavioral]
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	question, _ := models.NewQuestion(text, qType, req.Position, difficulty, req.Category)
	return question
}

// TipsFor returns answering tips for a question type.
func TipsFor(qType models.QuestionType) []string {
	if tips, ok := tipsByType[qType]; ok {
		return tips
	}
	return genericTips
}

// FollowUpsFor returns the standard follow-up probes for a question.
func FollowUpsFor(_ *models.Question) []string {
	return defaultFollowUps
}

// KeyPointsFor returns the elements a strong answer is expected to cover.
func KeyPointsFor(_ *models.Question) []string {
	return defaultKeyPoints
}
