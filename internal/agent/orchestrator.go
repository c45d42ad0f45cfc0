package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Completer is the narrow boundary to the external text-completion service.
// Implementations classify their failures into ErrUpstreamOverloaded,
// ErrUpstreamQuota or a plain wrapped error.
type Completer interface {
	Complete(ctx context.Context, system, contextBlock, userPrompt string, temperature float32, maxTokens int32) (string, error)
}

// Retriever supplies semantically related profile excerpts for a query. It is
// optional and failure-soft: retrieval errors never fail a turn.
type Retriever interface {
	RelatedProfileChunks(ctx context.Context, interviewID, query string, limit int) ([]string, error)
}

const (
	openingTemperature  = 0.6
	openingMaxTokens    = 200
	followUpTemperature = 0.6
	followUpMaxTokens   = 300
	closingMaxTokens    = 300
	retrievedChunkLimit = 2
)

// Orchestrator drives one interview turn end to end: memory update, stage
// recompute, context compaction, prompt assembly, the completion call and
// reply parsing. All collaborators are injected; it holds no globals.
type Orchestrator struct {
	completer Completer
	retriever Retriever
	sessions  *SessionStore
	now       func() time.Time
}

func NewOrchestrator(completer Completer, retriever Retriever, sessions *SessionStore) *Orchestrator {
	return &Orchestrator{
		completer: completer,
		retriever: retriever,
		sessions:  sessions,
		now:       time.Now,
	}
}

type StartRunInput struct {
	RunID           string
	InterviewID     string
	Title           string
	DurationMinutes int
	Profile         Profile
}

type StartRunResult struct {
	OpeningQuestion string
	Memory          SessionMemory
}

type TurnInput struct {
	RunID           string
	InterviewID     string
	Title           string
	DurationMinutes int
	Profile         Profile
	UserMessage     string
	// PriorTurnCount is the total number of persisted turns in the run;
	// RecentTurns only carries the trailing window of them.
	PriorTurnCount int
	RecentTurns    []Turn
}

type TurnResult struct {
	Question string
	Feedback string
	Memory   SessionMemory
}

// StartRun initializes session memory for a new run and produces the one
// opening question. The question counter stays at zero until the first
// candidate answer is processed.
func (o *Orchestrator) StartRun(ctx context.Context, in StartRunInput) (*StartRunResult, error) {
	unlock := o.sessions.Lock(in.RunID)
	defer unlock()

	mem := NewSessionMemory(in.Profile, in.DurationMinutes, o.now())
	o.sessions.Put(in.RunID, mem)

	compacted := CompactContext(in.Profile, StageIntro, true, nil)
	prompt := BuildOpeningPrompt(mem, compacted)

	reply, err := o.completer.Complete(ctx, prompt.System, prompt.Context, prompt.User, openingTemperature, openingMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("opening question: %w", err)
	}

	question, _ := ParseReply(reply)

	return &StartRunResult{
		OpeningQuestion: question,
		Memory:          *mem,
	}, nil
}

// ProcessTurn handles one candidate answer and returns the next question,
// optional feedback and the updated memory snapshot. The caller persists the
// turn; turns for the same run are serialized here via the per-run lock.
func (o *Orchestrator) ProcessTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	if strings.TrimSpace(in.UserMessage) == "" {
		return nil, ErrEmptyMessage
	}

	unlock := o.sessions.Lock(in.RunID)
	defer unlock()

	mem := o.sessions.Get(in.RunID)
	if mem == nil {
		// Process restarted mid-run: rebuild from the full persisted turn
		// count, not just the trailing window.
		turnCount := in.PriorTurnCount
		if turnCount < len(in.RecentTurns) {
			turnCount = len(in.RecentTurns)
		}
		start := o.now().Add(-time.Duration(turnCount*minutesPerQuestion) * time.Minute)
		mem = RebuildSessionMemory(in.Profile, in.DurationMinutes, turnCount, start, o.now())
		o.sessions.Put(in.RunID, mem)
		log.Printf("♻️  Rebuilt session memory for run %s from %d persisted turns\n", in.RunID, turnCount)
	}

	mem.RecordAnswer(in.UserMessage, o.now())
	for _, topic := range TechnicalTopics(in.UserMessage) {
		mem.AddTopic(topic)
	}

	summary := BuildConversationSummary(in.RecentTurns)

	retrieved := o.retrieveBackground(ctx, in.InterviewID, in.UserMessage, mem.Stage)
	compacted := CompactContext(in.Profile, mem.Stage, false, retrieved)

	prompt := BuildTurnPrompt(mem, in.Title, compacted, summary, in.UserMessage)

	reply, err := o.completer.Complete(ctx, prompt.System, prompt.Context, prompt.User, followUpTemperature, followUpMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("follow-up question: %w", err)
	}

	question, feedback := ParseReply(reply)

	return &TurnResult{
		Question: question,
		Feedback: feedback,
		Memory:   *mem,
	}, nil
}

// EndRun produces a short closing summary for the run and discards its
// memory. A completion failure degrades to a deterministic summary rather
// than failing the end action.
func (o *Orchestrator) EndRun(ctx context.Context, runID string, recentTurns []Turn) string {
	unlock := o.sessions.Lock(runID)
	defer unlock()

	mem := o.sessions.Get(runID)
	defer o.sessions.Delete(runID)

	questionCount := len(recentTurns)
	candidate := "the candidate"
	if mem != nil {
		questionCount = mem.QuestionCount
		candidate = mem.CandidateName
	}

	fallback := fmt.Sprintf("Interview ended after %d questions with %s.", questionCount, candidate)

	conversation := BuildConversationSummary(recentTurns)
	user := fmt.Sprintf(`Write a short closing summary (3-4 sentences) of this mock interview for the candidate: what went well and one thing to improve.

%s`, conversation)

	reply, err := o.completer.Complete(ctx, StageInstruction(StageClosing, candidate, questionCount), "", user, 0.5, closingMaxTokens)
	if err != nil {
		log.Printf("⚠️  Closing summary generation failed for run %s: %v\n", runID, err)
		return fallback
	}

	if strings.TrimSpace(reply) == "" {
		return fallback
	}
	return strings.TrimSpace(reply)
}

func (o *Orchestrator) retrieveBackground(ctx context.Context, interviewID, query string, stage Stage) []string {
	if o.retriever == nil {
		return nil
	}
	if stage != StageTechnical && stage != StageBehavioral {
		return nil
	}

	chunks, err := o.retriever.RelatedProfileChunks(ctx, interviewID, query, retrievedChunkLimit)
	if err != nil {
		log.Printf("⚠️  Profile retrieval failed: %v\n", err)
		return nil
	}
	return chunks
}
