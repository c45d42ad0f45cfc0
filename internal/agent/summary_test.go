package agent

import (
	"strings"
	"testing"
)

func TestBuildConversationSummaryEmpty(t *testing.T) {
	got := BuildConversationSummary(nil)
	if got != "No previous conversation." {
		t.Errorf("BuildConversationSummary(nil) = %q", got)
	}
}

func TestBuildConversationSummaryRendersFirstTurn(t *testing.T) {
	turns := []Turn{
		{Question: "Tell me about yourself.", Answer: "I build Go backends for payments."},
	}

	got := BuildConversationSummary(turns)

	if got == "No previous conversation." {
		t.Fatal("a run with one real turn must not report an empty conversation")
	}
	if !strings.Contains(got, "I build Go backends for payments.") {
		t.Errorf("first answer missing from summary: %q", got)
	}
	if !strings.HasPrefix(got, "Recent conversation: ") {
		t.Errorf("missing prefix: %q", got)
	}
}

func TestBuildConversationSummaryRendersTwoTurns(t *testing.T) {
	turns := []Turn{
		{Question: "Tell me about yourself.", Answer: "I am a backend engineer."},
		{Question: "What do you work on?", Answer: "Payment systems."},
	}

	got := BuildConversationSummary(turns)

	for _, want := range []string{"I am a backend engineer.", "Payment systems."} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %q", want, got)
		}
	}
	if strings.Count(got, " | ") != 1 {
		t.Errorf("two turns should join with one separator: %q", got)
	}
}

func TestBuildConversationSummaryKeepsLastThreeTurns(t *testing.T) {
	turns := []Turn{
		{Question: "first question", Answer: "first answer"},
		{Question: "second question", Answer: "second answer"},
		{Question: "third question", Answer: "third answer"},
		{Question: "fourth question", Answer: "fourth answer"},
		{Question: "fifth question", Answer: "fifth answer"},
	}

	got := BuildConversationSummary(turns)

	if strings.Contains(got, "first question") || strings.Contains(got, "second question") {
		t.Errorf("summary should only cover the last three turns: %q", got)
	}
	for _, want := range []string{"third question", "fourth question", "fifth question"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %q", want, got)
		}
	}
	if strings.Count(got, " | ") != 2 {
		t.Errorf("three turns should join with two separators: %q", got)
	}
}

func TestBuildConversationSummaryTruncatesLongTurns(t *testing.T) {
	longQ := strings.Repeat("q", 300)
	longA := strings.Repeat("a", 500)
	turns := []Turn{
		{Question: longQ, Answer: longA},
		{Question: "short", Answer: "short"},
		{Question: "short", Answer: "short"},
	}

	got := BuildConversationSummary(turns)

	if strings.Contains(got, longQ) {
		t.Error("question not truncated to budget")
	}
	if !strings.Contains(got, strings.Repeat("q", 100)+"...") {
		t.Error("question should be cut at 100 chars with ellipsis")
	}
	if !strings.Contains(got, strings.Repeat("a", 150)+"...") {
		t.Error("answer should be cut at 150 chars with ellipsis")
	}
}
