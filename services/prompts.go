package services

import (
	"fmt"
	"strings"

	"github.com/prepview-ai/backend/models"
)

// personalityTone maps an interviewer personality to the tone phrase woven
// into every prompt. Unknown personalities fall back to plain "professional".
func personalityTone(p models.Personality) string {
	switch p {
	case models.PersonalityProfessionalFriendly:
		return "professional yet warm and encouraging"
	case models.PersonalityChallenging:
		return "challenging and thought-provoking"
	case models.PersonalitySupportive:
		return "supportive and helpful"
	case models.PersonalityFormal:
		return "formal and business-like"
	case models.PersonalityCasual:
		return "casual and conversational"
	default:
		return "professional"
	}
}

// BuildQuestionPrompt assembles the question-generation prompt. Previous
// question texts are included so the model avoids repeating itself; the
// history is capped at maxHistory entries, newest kept.
func BuildQuestionPrompt(req *models.InterviewRequest, session *models.InterviewSession, maxHistory int) string {
	tone := personalityTone(session.Personality)

	qType := req.Type
	if qType == "" {
		qType = models.QuestionBehavioral
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s interviewer for a %s position.\n\n", tone, req.Position)
	fmt.Fprintf(&b, "Generate a %s interview question that is:\n", qType)
	fmt.Fprintf(&b, "- Relevant to the %s role\n", req.Position)
	fmt.Fprintf(&b, "- %s difficulty level\n", difficulty)
	b.WriteString("- Engaging and thought-provoking\n")
	b.WriteString("- Appropriate for the interview context\n")

	if req.Category != "" {
		fmt.Fprintf(&b, "\nFocus on: %s\n", req.Category)
	}
	if req.Context != "" {
		fmt.Fprintf(&b, "\nContext: %s\n", req.Context)
	}

	previous := session.PreviousQuestions()
	if maxHistory > 0 && len(previous) > maxHistory {
		previous = previous[len(previous)-maxHistory:]
	}
	fmt.Fprintf(&b, "\nPrevious questions in this session: %s\n", formatList(previous))

	b.WriteString("\nReturn ONLY the question text, no additional formatting or explanation.")
	return b.String()
}

// BuildConversationPrompt assembles the conversational-reply prompt for a
// candidate response. lastQuestion may be nil when the candidate spoke first.
func BuildConversationPrompt(userResponse string, session *models.InterviewSession, lastQuestion *models.Question) string {
	tone := personalityTone(session.Personality)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s interviewer conducting an interview for a %s position.\n\n", tone, session.Position)
	fmt.Fprintf(&b, "The candidate just provided this response: %q\n", userResponse)
	if lastQuestion != nil {
		fmt.Fprintf(&b, "\nThis was in response to: %q\n", lastQuestion.Text)
	}
	b.WriteString("\nRespond in a conversational interview style that:\n")
	b.WriteString("1. Acknowledges their response appropriately\n")
	b.WriteString("2. Asks a relevant follow-up question or moves to the next topic\n")
	fmt.Fprintf(&b, "3. Maintains the %s tone\n", tone)
	b.WriteString("4. Keeps the conversation flowing naturally\n")
	b.WriteString("\nKeep your response concise (2-3 sentences) and engaging.")
	return b.String()
}

// BuildScoringPrompt assembles the evaluation prompt. It asks for a strict
// JSON object so the parser can locate the payload inside a chatty reply.
func BuildScoringPrompt(question *models.Question, answer *models.Answer, session *models.InterviewSession, criteria []string) string {
	var b strings.Builder
	b.WriteString("You are an expert interviewer evaluating a candidate's response.\n\n")
	fmt.Fprintf(&b, "Question: %q\n", question.Text)
	fmt.Fprintf(&b, "Answer: %q\n", answer.Text)
	fmt.Fprintf(&b, "Position: %s\n", session.Position)
	fmt.Fprintf(&b, "\nEvaluate this answer on a scale of 1-10 based on these criteria: %s\n", strings.Join(criteria, ", "))
	b.WriteString("\nProvide:\n")
	b.WriteString("1. Overall score (1-10)\n")
	b.WriteString("2. Individual scores for each criterion\n")
	b.WriteString("3. Constructive feedback (2-3 sentences)\n")
	b.WriteString("4. 2-3 specific suggestions for improvement\n")
	b.WriteString("\nFormat your response as JSON:\n")
	b.WriteString("{\n")
	b.WriteString("    \"overall_score\": <score>,\n")
	b.WriteString("    \"criteria_scores\": {\"<criterion>\": <score>},\n")
	b.WriteString("    \"feedback\": \"<feedback>\",\n")
	b.WriteString("    \"suggestions\": [\"<suggestion1>\", \"<suggestion2>\"]\n")
	b.WriteString("}")
	return b.String()
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
