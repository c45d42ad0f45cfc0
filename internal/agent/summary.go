package agent

import (
	"fmt"
	"strings"
)

const (
	summaryQuestionBudget = 100
	summaryAnswerBudget   = 150
	summaryTurnWindow     = 3
)

// BuildConversationSummary produces the compact rolling summary fed back into
// each prompt: a deterministic truncated rendering of the most recent turns,
// not an LLM call. Any turn that exists is rendered, so the very first
// exchange already reaches the second prompt.
func BuildConversationSummary(turns []Turn) string {
	if len(turns) == 0 {
		return "No previous conversation."
	}

	recent := turns
	if len(recent) > summaryTurnWindow {
		recent = recent[len(recent)-summaryTurnWindow:]
	}

	parts := make([]string, 0, len(recent))
	for _, turn := range recent {
		parts = append(parts, fmt.Sprintf("Q: %s... A: %s...",
			truncate(turn.Question, summaryQuestionBudget),
			truncate(turn.Answer, summaryAnswerBudget)))
	}

	return "Recent conversation: " + strings.Join(parts, " | ")
}
