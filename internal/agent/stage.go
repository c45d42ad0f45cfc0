package agent

import "time"

// Stage is the coarse phase of an interview run. It governs instruction style
// and how much profile context each prompt carries.
type Stage string

const (
	StageIntro      Stage = "intro"
	StageTechnical  Stage = "technical"
	StageBehavioral Stage = "behavioral"
	StageClosing    Stage = "closing"
)

var stageRank = map[Stage]int{
	StageIntro:      0,
	StageTechnical:  1,
	StageBehavioral: 2,
	StageClosing:    3,
}

// minutesPerQuestion converts an interview duration into an estimated total
// question budget for the count-based fallback thresholds.
const minutesPerQuestion = 3

// ComputeStage derives the stage from run progress. Elapsed-time thresholds
// take priority (90% of the planned duration forces closing, 70% forces
// behavioral); earlier stages fall back to question-count ratios against the
// estimated question budget. Pure and idempotent for the same inputs.
func ComputeStage(elapsed time.Duration, durationMinutes, questionCount int) Stage {
	if durationMinutes <= 0 {
		durationMinutes = 30
	}

	total := time.Duration(durationMinutes) * time.Minute
	if elapsed >= total*9/10 {
		return StageClosing
	}
	if elapsed >= total*7/10 {
		return StageBehavioral
	}

	budget := durationMinutes / minutesPerQuestion
	if budget < 1 {
		budget = 1
	}

	switch {
	case questionCount <= 1:
		return StageIntro
	case float64(questionCount) <= float64(budget)*0.7:
		return StageTechnical
	case float64(questionCount) <= float64(budget)*0.9:
		return StageBehavioral
	default:
		return StageClosing
	}
}

// NextStage recomputes the stage but never regresses: once a run has advanced
// past a stage it stays there even if the raw thresholds would compute an
// earlier one.
func NextStage(current Stage, elapsed time.Duration, durationMinutes, questionCount int) Stage {
	computed := ComputeStage(elapsed, durationMinutes, questionCount)
	if stageRank[computed] < stageRank[current] {
		return current
	}
	return computed
}
