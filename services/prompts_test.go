package services

import (
	"strings"
	"testing"

	"github.com/prepview-ai/backend/models"
)

func TestPersonalityTone(t *testing.T) {
	tests := []struct {
		personality models.Personality
		want        string
	}{
		{models.PersonalityProfessionalFriendly, "professional yet warm and encouraging"},
		{models.PersonalityChallenging, "challenging and thought-provoking"},
		{models.PersonalitySupportive, "supportive and helpful"},
		{models.PersonalityFormal, "formal and business-like"},
		{models.PersonalityCasual, "casual and conversational"},
		{models.Personality("made-up"), "professional"},
		{models.Personality(""), "professional"},
	}

	for _, tt := range tests {
		t.Run(string(tt.personality), func(t *testing.T) {
			if got := personalityTone(tt.personality); got != tt.want {
				t.Errorf("personalityTone(%q) = %q, want %q", tt.personality, got, tt.want)
			}
		})
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	session := &models.InterviewSession{
		Position:    "Data Scientist",
		Personality: models.PersonalityChallenging,
	}
	session.Turns = append(session.Turns, models.ConversationTurn{
		Question: models.Question{Text: "What is overfitting?"},
	})

	req := &models.InterviewRequest{
		Position: "Data Scientist",
		Type:     models.QuestionTechnical,
		Category: "statistics",
		Context:  "mid-stage interview",
	}

	prompt := BuildQuestionPrompt(req, session, 20)

	for _, want := range []string{
		"challenging and thought-provoking",
		"Data Scientist position",
		"Generate a technical interview question",
		"medium difficulty level",
		"Focus on: statistics",
		"Context: mid-stage interview",
		`"What is overfitting?"`,
		"Return ONLY the question text",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildQuestionPromptDefaults(t *testing.T) {
	session := &models.InterviewSession{Position: "Software Engineer"}
	req := &models.InterviewRequest{Position: "Software Engineer"}

	prompt := BuildQuestionPrompt(req, session, 20)
	if !strings.Contains(prompt, "Generate a behavioral interview question") {
		t.Error("empty type should default to behavioral")
	}
	if !strings.Contains(prompt, "Previous questions in this session: []") {
		t.Error("fresh session should list no previous questions")
	}
	if strings.Contains(prompt, "Focus on:") {
		t.Error("empty category should not appear")
	}
}

func TestBuildQuestionPromptHistoryCap(t *testing.T) {
	session := &models.InterviewSession{Position: "Software Engineer"}
	for _, text := range []string{"first", "second", "third"} {
		session.Turns = append(session.Turns, models.ConversationTurn{
			Question: models.Question{Text: text},
		})
	}

	prompt := BuildQuestionPrompt(&models.InterviewRequest{Position: "Software Engineer"}, session, 2)
	if strings.Contains(prompt, `"first"`) {
		t.Error("oldest question should be dropped when history exceeds the cap")
	}
	if !strings.Contains(prompt, `"second"`) || !strings.Contains(prompt, `"third"`) {
		t.Error("newest questions should be kept")
	}
}

func TestBuildConversationPrompt(t *testing.T) {
	session := &models.InterviewSession{
		Position:    "Product Manager",
		Personality: models.PersonalitySupportive,
	}
	lastQuestion := &models.Question{Text: "How do you prioritize?"}

	prompt := BuildConversationPrompt("I use RICE scoring.", session, lastQuestion)

	for _, want := range []string{
		"supportive and helpful",
		"Product Manager position",
		`"I use RICE scoring."`,
		`"How do you prioritize?"`,
		"concise (2-3 sentences)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Without a previous question the reference line is omitted
	prompt = BuildConversationPrompt("Hello!", session, nil)
	if strings.Contains(prompt, "This was in response to") {
		t.Error("prompt should omit last-question line when none exists")
	}
}

func TestBuildScoringPrompt(t *testing.T) {
	session := &models.InterviewSession{Position: "DevOps Engineer"}
	question := &models.Question{Text: "Describe your incident response process."}
	answer := &models.Answer{Text: "First I check the dashboards."}
	criteria := []string{"clarity", "specificity"}

	prompt := BuildScoringPrompt(question, answer, session, criteria)

	for _, want := range []string{
		`"Describe your incident response process."`,
		`"First I check the dashboards."`,
		"Position: DevOps Engineer",
		"clarity, specificity",
		`"overall_score"`,
		`"criteria_scores"`,
		`"suggestions"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
