package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// mockCompleter replays canned replies and records the prompts it was given.
type mockCompleter struct {
	replies []string
	err     error
	calls   int

	lastSystem  string
	lastContext string
	lastUser    string
}

func (m *mockCompleter) Complete(ctx context.Context, system, contextBlock, userPrompt string, temperature float32, maxTokens int32) (string, error) {
	m.calls++
	m.lastSystem = system
	m.lastContext = contextBlock
	m.lastUser = userPrompt

	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "QUESTION: Tell me more.", nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

type mockRetriever struct {
	chunks []string
	err    error
	calls  int
}

func (m *mockRetriever) RelatedProfileChunks(ctx context.Context, interviewID, query string, limit int) ([]string, error) {
	m.calls++
	return m.chunks, m.err
}

func newTestOrchestrator(completer Completer, retriever Retriever) *Orchestrator {
	return NewOrchestrator(completer, retriever, NewSessionStore())
}

func TestStartRunProducesOpeningQuestion(t *testing.T) {
	completer := &mockCompleter{replies: []string{"QUESTION: Hello Ayu, glad to meet you. Could you introduce yourself?"}}
	o := newTestOrchestrator(completer, nil)

	result, err := o.StartRun(context.Background(), StartRunInput{
		RunID:           "run-1",
		InterviewID:     "iv-1",
		Title:           "Backend Engineer Interview",
		DurationMinutes: 30,
		Profile:         Profile{CandidateName: "Ayu", CVSummary: "Backend engineer with Go experience."},
	})
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	if result.OpeningQuestion != "Hello Ayu, glad to meet you. Could you introduce yourself?" {
		t.Errorf("OpeningQuestion = %q", result.OpeningQuestion)
	}
	if result.Memory.Stage != StageIntro {
		t.Errorf("stage = %v, want intro", result.Memory.Stage)
	}
	if result.Memory.QuestionCount != 0 {
		t.Errorf("QuestionCount = %d, the counter only moves on answers", result.Memory.QuestionCount)
	}
	if !strings.Contains(completer.lastContext, "CANDIDATE SUMMARY:") {
		t.Errorf("opening context should carry the full profile summary, got %q", completer.lastContext)
	}
}

func TestProcessTurnRejectsEmptyMessage(t *testing.T) {
	o := newTestOrchestrator(&mockCompleter{}, nil)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := o.ProcessTurn(context.Background(), TurnInput{
			RunID:       "run-1",
			UserMessage: msg,
		})
		if !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("ProcessTurn(%q) err = %v, want ErrEmptyMessage", msg, err)
		}
	}
}

func TestProcessTurnCountsEachAnswerOnce(t *testing.T) {
	completer := &mockCompleter{}
	o := newTestOrchestrator(completer, nil)

	_, err := o.StartRun(context.Background(), StartRunInput{
		RunID:           "run-1",
		InterviewID:     "iv-1",
		Title:           "Backend Engineer Interview",
		DurationMinutes: 30,
		Profile:         Profile{CandidateName: "Ayu"},
	})
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	in := TurnInput{
		RunID:           "run-1",
		InterviewID:     "iv-1",
		Title:           "Backend Engineer Interview",
		DurationMinutes: 30,
		Profile:         Profile{CandidateName: "Ayu"},
		UserMessage:     "I have five years of backend experience, mostly payment systems.",
	}

	first, err := o.ProcessTurn(context.Background(), in)
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if first.Memory.QuestionCount != 1 {
		t.Errorf("after first answer QuestionCount = %d, want 1", first.Memory.QuestionCount)
	}

	in.RecentTurns = []Turn{{Question: "Intro?", Answer: in.UserMessage}}
	second, err := o.ProcessTurn(context.Background(), in)
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if second.Memory.QuestionCount != 2 {
		t.Errorf("after second answer QuestionCount = %d, want 2", second.Memory.QuestionCount)
	}
}

func TestProcessTurnParsesFeedback(t *testing.T) {
	completer := &mockCompleter{replies: []string{"QUESTION: How did you shard the data?\nFEEDBACK: Good detail on the migration."}}
	o := newTestOrchestrator(completer, nil)

	result, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-2",
		InterviewID:     "iv-1",
		Title:           "Backend Engineer Interview",
		DurationMinutes: 30,
		UserMessage:     "We migrated the database to a sharded setup because of scale.",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}

	if result.Question != "How did you shard the data?" {
		t.Errorf("question = %q", result.Question)
	}
	if result.Feedback != "Good detail on the migration." {
		t.Errorf("feedback = %q", result.Feedback)
	}
}

func TestProcessTurnRebuildsMemoryAfterRestart(t *testing.T) {
	// No StartRun for this run ID: the orchestrator must rebuild memory from
	// the persisted turns instead of starting from scratch.
	o := newTestOrchestrator(&mockCompleter{}, nil)

	turns := make([]Turn, 4)
	for i := range turns {
		turns[i] = Turn{Question: fmt.Sprintf("Q%d", i), Answer: fmt.Sprintf("A%d", i)}
	}

	result, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-restarted",
		InterviewID:     "iv-1",
		Title:           "Backend Engineer Interview",
		DurationMinutes: 30,
		UserMessage:     "Here is a longer answer about the systems I have built recently.",
		RecentTurns:     turns,
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}

	if result.Memory.QuestionCount != 5 {
		t.Errorf("QuestionCount = %d, want 4 rebuilt + 1 new", result.Memory.QuestionCount)
	}
	if result.Memory.Stage == StageIntro {
		t.Error("a run five answers in should have left the intro stage")
	}
}

func TestProcessTurnPromptCarriesFirstExchange(t *testing.T) {
	completer := &mockCompleter{}
	o := newTestOrchestrator(completer, nil)

	if _, err := o.StartRun(context.Background(), StartRunInput{
		RunID:           "run-early",
		InterviewID:     "iv-1",
		DurationMinutes: 30,
		Profile:         Profile{CandidateName: "Ayu"},
	}); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	_, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-early",
		InterviewID:     "iv-1",
		DurationMinutes: 30,
		UserMessage:     "And here is my second answer about the follow-up topic.",
		PriorTurnCount:  1,
		RecentTurns: []Turn{
			{Question: "Tell me about yourself.", Answer: "I build Go backends for payments."},
		},
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}

	// The second prompt must already reflect the first exchange, not claim an
	// empty conversation.
	if !strings.Contains(completer.lastUser, "I build Go backends for payments.") {
		t.Errorf("second prompt lost the first answer:\n%s", completer.lastUser)
	}
	if strings.Contains(completer.lastUser, "No previous conversation.") {
		t.Error("second prompt claims no previous conversation despite a real turn")
	}
}

func TestProcessTurnRebuildUsesFullTurnCount(t *testing.T) {
	// A long run restarted mid-flight: only the trailing window of turns is
	// loaded, but the true count says the run is nearly over.
	o := newTestOrchestrator(&mockCompleter{}, nil)

	window := make([]Turn, 5)
	for i := range window {
		window[i] = Turn{Question: fmt.Sprintf("Q%d", i), Answer: fmt.Sprintf("A%d", i)}
	}

	result, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-long-restart",
		InterviewID:     "iv-1",
		DurationMinutes: 30,
		UserMessage:     "A late answer arriving after the process came back up.",
		PriorTurnCount:  10,
		RecentTurns:     window,
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}

	if result.Memory.QuestionCount != 11 {
		t.Errorf("QuestionCount = %d, want 10 rebuilt + 1 new", result.Memory.QuestionCount)
	}
	if result.Memory.Stage != StageClosing {
		t.Errorf("Stage = %v, want %v for a run past its planned duration", result.Memory.Stage, StageClosing)
	}
}

func TestProcessTurnRecordsCoveredTopics(t *testing.T) {
	o := newTestOrchestrator(&mockCompleter{}, nil)

	result, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-topics",
		InterviewID:     "iv-1",
		DurationMinutes: 30,
		UserMessage:     "We sharded the database and put a cache in front of the hot reads.",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}

	covered := map[string]bool{}
	for _, topic := range result.Memory.TopicsCovered {
		covered[topic] = true
	}
	if !covered["database"] || !covered["cache"] {
		t.Errorf("TopicsCovered = %v, want database and cache recorded", result.Memory.TopicsCovered)
	}
}

func TestProcessTurnPropagatesUpstreamErrors(t *testing.T) {
	completer := &mockCompleter{err: fmt.Errorf("completion: %w", ErrUpstreamOverloaded)}
	o := newTestOrchestrator(completer, nil)

	_, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-3",
		InterviewID:     "iv-1",
		DurationMinutes: 30,
		UserMessage:     "An answer that will never get a follow-up question.",
	})
	if !errors.Is(err, ErrUpstreamOverloaded) {
		t.Errorf("err = %v, want ErrUpstreamOverloaded in chain", err)
	}
}

func TestProcessTurnRetrievalIsFailureSoft(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("qdrant unreachable")}
	completer := &mockCompleter{}
	o := newTestOrchestrator(completer, retriever)

	// Put the run in a stage where retrieval is attempted.
	turns := make([]Turn, 3)
	for i := range turns {
		turns[i] = Turn{Question: "Q", Answer: "A"}
	}

	_, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-4",
		InterviewID:     "iv-1",
		DurationMinutes: 30,
		UserMessage:     "A perfectly good answer about distributed systems design.",
		RecentTurns:     turns,
	})
	if err != nil {
		t.Fatalf("retrieval failure must not fail the turn: %v", err)
	}
	if retriever.calls == 0 {
		t.Error("retriever was never consulted in the technical stage")
	}
}

func TestProcessTurnSkipsRetrievalInIntro(t *testing.T) {
	retriever := &mockRetriever{chunks: []string{"chunk"}}
	o := newTestOrchestrator(&mockCompleter{}, retriever)

	_, err := o.ProcessTurn(context.Background(), TurnInput{
		RunID:           "run-5",
		InterviewID:     "iv-1",
		DurationMinutes: 30,
		UserMessage:     "My first answer, still in the introduction stage here.",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if retriever.calls != 0 {
		t.Errorf("retriever consulted %d times during intro, want 0", retriever.calls)
	}
}

func TestEndRunReturnsClosingSummary(t *testing.T) {
	completer := &mockCompleter{replies: []string{"You communicated clearly and handled the technical probes well. Work on quantifying impact."}}
	o := newTestOrchestrator(completer, nil)

	summary := o.EndRun(context.Background(), "run-6", []Turn{{Question: "Q", Answer: "A"}})
	if summary != "You communicated clearly and handled the technical probes well. Work on quantifying impact." {
		t.Errorf("summary = %q", summary)
	}
}

func TestEndRunFallsBackWhenCompletionFails(t *testing.T) {
	completer := &mockCompleter{err: errors.New("boom")}
	o := newTestOrchestrator(completer, nil)

	if _, err := o.StartRun(context.Background(), StartRunInput{
		RunID:           "run-7",
		DurationMinutes: 30,
		Profile:         Profile{CandidateName: "Ayu"},
	}); err == nil {
		t.Fatal("StartRun with a broken completer should fail")
	}

	summary := o.EndRun(context.Background(), "run-7", nil)
	if !strings.Contains(summary, "Interview ended after") {
		t.Errorf("expected deterministic fallback summary, got %q", summary)
	}
}

func TestEndRunDiscardsSessionMemory(t *testing.T) {
	completer := &mockCompleter{}
	store := NewSessionStore()
	o := NewOrchestrator(completer, nil, store)

	if _, err := o.StartRun(context.Background(), StartRunInput{
		RunID:           "run-8",
		DurationMinutes: 30,
	}); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if store.Get("run-8") == nil {
		t.Fatal("memory missing right after StartRun")
	}

	o.EndRun(context.Background(), "run-8", nil)

	if store.Get("run-8") != nil {
		t.Error("memory should be discarded when the run ends")
	}
}

func TestProcessTurnSerializesSameRun(t *testing.T) {
	completer := &slowCompleter{delay: 10 * time.Millisecond}
	o := newTestOrchestrator(completer, nil)

	if _, err := o.StartRun(context.Background(), StartRunInput{
		RunID:           "run-9",
		DurationMinutes: 30,
	}); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	done := make(chan *TurnResult, 2)
	for i := 0; i < 2; i++ {
		go func() {
			result, err := o.ProcessTurn(context.Background(), TurnInput{
				RunID:           "run-9",
				InterviewID:     "iv-1",
				DurationMinutes: 30,
				UserMessage:     "A concurrent answer arriving at the same moment as another.",
			})
			if err != nil {
				t.Errorf("ProcessTurn: %v", err)
				done <- nil
				return
			}
			done <- result
		}()
	}

	counts := map[int]bool{}
	for i := 0; i < 2; i++ {
		if result := <-done; result != nil {
			counts[result.Memory.QuestionCount] = true
		}
	}

	// Serialized turns observe distinct counter values, never the same one.
	if len(counts) != 2 || !counts[1] || !counts[2] {
		t.Errorf("concurrent turns observed counts %v, want {1,2}", counts)
	}
}

type slowCompleter struct {
	delay time.Duration
}

func (s *slowCompleter) Complete(ctx context.Context, system, contextBlock, userPrompt string, temperature float32, maxTokens int32) (string, error) {
	time.Sleep(s.delay)
	return "QUESTION: And then what happened?", nil
}
