package agent

import "strings"

// Character and keyword budgets for the compacted context. After the opening
// turn the prompt deliberately trades completeness for boundedness: terse
// keyword excerpts plus the rolling summary carry continuity instead of the
// full profile text.
const (
	summaryCharBudget = 400
	excerptKeywords   = 3
	keywordCharBudget = 60
	chunkCharBudget   = 200
)

// CompactContext assembles the bounded profile block for a prompt. The first
// turn gets the truncated prose summaries; later turns get at most a few
// skill/requirement keywords per side. Retrieved background excerpts, when
// present, are appended last. Missing profile data yields a partial or empty
// string, never an error.
func CompactContext(profile Profile, stage Stage, firstTurn bool, retrieved []string) string {
	var parts []string

	if firstTurn {
		if profile.CVSummary != "" {
			parts = append(parts, "CANDIDATE SUMMARY:\n"+truncate(profile.CVSummary, summaryCharBudget))
		}
		if profile.JDSummary != "" {
			parts = append(parts, "JOB SUMMARY:\n"+truncate(profile.JDSummary, summaryCharBudget))
		}
		return strings.Join(parts, "\n\n")
	}

	if line := keywordLine("Candidate: Skills: ", profile.CVSkills); line != "" {
		parts = append(parts, line)
	}
	if line := keywordLine("Job: Required: ", profile.JDRequirements); line != "" {
		parts = append(parts, line)
	}

	for _, chunk := range retrieved {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		parts = append(parts, "Background: "+truncate(chunk, chunkCharBudget))
	}

	return strings.Join(parts, "\n")
}

func keywordLine(label string, keywords []string) string {
	var kept []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		kept = append(kept, truncate(kw, keywordCharBudget))
		if len(kept) == excerptKeywords {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return label + strings.Join(kept, ", ")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
