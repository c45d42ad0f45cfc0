package agent

import "strings"

// Vocabulary used by the answer depth heuristic. Technical term hits are
// uncapped so heavily technical answers saturate the score; reasoning hits
// carry a capped combined bonus.
var technicalKeywords = []string{
	"time complexity", "space complexity", "o(n)", "o(log n)",
	"scalable", "scalability", "optimization", "tradeoff", "trade-off",
	"architecture", "design pattern", "algorithm", "data structure",
	"distributed", "concurrent", "async", "threading", "process",
	"database", "index", "query", "cache", "load balancer",
}

var reasoningKeywords = []string{
	"because", "reason", "challenge", "problem", "solution",
	"learned", "improved", "optimized", "refactored", "migrated",
}

var codeIndicators = []string{"{", "(", "[", "=", "->"}

// AnswerDepth estimates how substantive a candidate answer is on a 0..1
// scale. It is a naive keyword/length heuristic, deterministic and total:
// any input maps to a value in [0,1], never an error.
func AnswerDepth(answer string) float64 {
	if len(strings.TrimSpace(answer)) < 20 {
		return 0.2
	}

	lower := strings.ToLower(answer)
	score := 0.5

	// Word-count bands, single matching band only.
	wordCount := len(strings.Fields(answer))
	switch {
	case wordCount < 30:
		score -= 0.2
	case wordCount > 200:
		score += 0.3
	case wordCount > 100:
		score += 0.2
	}

	for _, keyword := range technicalKeywords {
		if strings.Contains(lower, keyword) {
			score += 0.1
		}
	}

	reasoningBonus := 0.0
	for _, keyword := range reasoningKeywords {
		if strings.Contains(lower, keyword) {
			reasoningBonus += 0.05
		}
	}
	if reasoningBonus > 0.2 {
		reasoningBonus = 0.2
	}
	score += reasoningBonus

	if strings.Contains(answer, "?") {
		score += 0.05
	}

	for _, indicator := range codeIndicators {
		if strings.Contains(answer, indicator) {
			score += 0.1
			break
		}
	}

	return clamp01(score)
}

// TechnicalTopics returns the technical vocabulary hits in an answer. The
// orchestrator records them as covered topics for the run.
func TechnicalTopics(answer string) []string {
	lower := strings.ToLower(answer)

	var topics []string
	for _, keyword := range technicalKeywords {
		if strings.Contains(lower, keyword) {
			topics = append(topics, keyword)
		}
	}
	return topics
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
