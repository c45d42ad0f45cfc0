package agent

import (
	"testing"
	"time"
)

func TestComputeStageQuestionCountFallback(t *testing.T) {
	// With no elapsed time, only the question-count thresholds apply. A
	// 30-minute interview has an estimated budget of 10 questions.
	tests := []struct {
		name          string
		questionCount int
		want          Stage
	}{
		{name: "no questions yet", questionCount: 0, want: StageIntro},
		{name: "first question", questionCount: 1, want: StageIntro},
		{name: "second question", questionCount: 2, want: StageTechnical},
		{name: "seventy percent of budget", questionCount: 7, want: StageTechnical},
		{name: "past seventy percent", questionCount: 8, want: StageBehavioral},
		{name: "ninety percent of budget", questionCount: 9, want: StageBehavioral},
		{name: "past ninety percent", questionCount: 10, want: StageClosing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStage(0, 30, tt.questionCount)
			if got != tt.want {
				t.Errorf("ComputeStage(0, 30, %d) = %v, want %v", tt.questionCount, got, tt.want)
			}
		})
	}
}

func TestComputeStageElapsedTimeTakesPriority(t *testing.T) {
	// Question count says intro, but elapsed time has crossed the behavioral
	// and closing thresholds.
	tests := []struct {
		name    string
		elapsed time.Duration
		want    Stage
	}{
		{name: "under seventy percent", elapsed: 20 * time.Minute, want: StageIntro},
		{name: "seventy percent elapsed", elapsed: 21 * time.Minute, want: StageBehavioral},
		{name: "ninety percent elapsed", elapsed: 27 * time.Minute, want: StageClosing},
		{name: "overtime", elapsed: 45 * time.Minute, want: StageClosing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStage(tt.elapsed, 30, 1)
			if got != tt.want {
				t.Errorf("ComputeStage(%v, 30, 1) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestComputeStageInvalidDurationDefaults(t *testing.T) {
	if got := ComputeStage(0, 0, 0); got != StageIntro {
		t.Errorf("ComputeStage with zero duration = %v, want %v", got, StageIntro)
	}
	if got := ComputeStage(28*time.Minute, -5, 0); got != StageClosing {
		t.Errorf("ComputeStage with negative duration = %v, want closing at 28m of the 30m default", got)
	}
}

func TestComputeStageTinyDurationBudgetFloor(t *testing.T) {
	// A 2-minute interview still has a budget of at least one question, so the
	// thresholds stay well defined.
	if got := ComputeStage(0, 2, 2); got != StageClosing {
		t.Errorf("ComputeStage(0, 2, 2) = %v, want %v", got, StageClosing)
	}
}

func TestNextStageNeverRegresses(t *testing.T) {
	// Raw thresholds would put two questions back in technical, but the run
	// already reached behavioral.
	if got := NextStage(StageBehavioral, 0, 30, 2); got != StageBehavioral {
		t.Errorf("NextStage(behavioral, ...) = %v, want %v", got, StageBehavioral)
	}

	if got := NextStage(StageClosing, 0, 30, 0); got != StageClosing {
		t.Errorf("NextStage(closing, ...) = %v, want %v", got, StageClosing)
	}
}

func TestNextStageAdvances(t *testing.T) {
	if got := NextStage(StageIntro, 0, 30, 5); got != StageTechnical {
		t.Errorf("NextStage(intro, qc=5) = %v, want %v", got, StageTechnical)
	}
	if got := NextStage(StageTechnical, 27*time.Minute, 30, 5); got != StageClosing {
		t.Errorf("NextStage(technical, 27m) = %v, want %v", got, StageClosing)
	}
}

func TestStageProgressionOverFullRun(t *testing.T) {
	// Simulate a 30-minute run answering a question every 3 minutes: stages
	// must advance monotonically through the canonical order.
	stage := StageIntro
	prevRank := stageRank[stage]

	for q := 1; q <= 10; q++ {
		elapsed := time.Duration(q*3) * time.Minute
		stage = NextStage(stage, elapsed, 30, q)
		if stageRank[stage] < prevRank {
			t.Fatalf("stage regressed at question %d: %v", q, stage)
		}
		prevRank = stageRank[stage]
	}

	if stage != StageClosing {
		t.Errorf("final stage = %v, want %v", stage, StageClosing)
	}
}
