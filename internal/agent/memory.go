package agent

import "time"

const maxTopics = 10

// SessionMemory is the ephemeral per-run state: one value per active run,
// mutated once per processed answer, discarded when the run ends. It is a
// derived cache, reconstructible from persisted turns plus profile data, and
// is never written to durable storage.
type SessionMemory struct {
	Stage           Stage     `json:"stage"`
	QuestionCount   int       `json:"question_count"`
	LastAnswerDepth float64   `json:"last_answer_depth"`
	TopicsCovered   []string  `json:"topics_covered,omitempty"`
	CandidateName   string    `json:"candidate_name"`
	CVSummary       string    `json:"cv_summary,omitempty"`
	JobSummary      string    `json:"job_description,omitempty"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// NewSessionMemory creates the memory for a fresh run. CandidateName falls
// back to "there" so greeting templates always have something to address.
func NewSessionMemory(profile Profile, durationMinutes int, start time.Time) *SessionMemory {
	name := profile.CandidateName
	if name == "" {
		name = "there"
	}
	if durationMinutes <= 0 {
		durationMinutes = 30
	}

	return &SessionMemory{
		Stage:           StageIntro,
		QuestionCount:   0,
		LastAnswerDepth: 0.5,
		CandidateName:   name,
		CVSummary:       profile.CVSummary,
		JobSummary:      profile.JDSummary,
		StartTime:       start,
		DurationMinutes: durationMinutes,
	}
}

// RebuildSessionMemory reconstructs memory lost to a process restart from the
// persisted turn count. The stage is recomputed from the counters, so a
// rebuilt memory lands in the same stage the live one would be in.
func RebuildSessionMemory(profile Profile, durationMinutes, turnCount int, start, now time.Time) *SessionMemory {
	mem := NewSessionMemory(profile, durationMinutes, start)
	mem.QuestionCount = turnCount
	mem.Stage = ComputeStage(now.Sub(start), mem.DurationMinutes, turnCount)
	return mem
}

// RecordAnswer processes one candidate answer: increments the question
// counter exactly once, rescores depth and advances the stage (never
// backwards).
func (m *SessionMemory) RecordAnswer(answer string, now time.Time) {
	m.QuestionCount++
	m.LastAnswerDepth = AnswerDepth(answer)
	m.Stage = NextStage(m.Stage, now.Sub(m.StartTime), m.DurationMinutes, m.QuestionCount)
}

// AddTopic appends a covered topic, deduplicated, keeping only the most
// recent entries so the memory stays small.
func (m *SessionMemory) AddTopic(topic string) {
	if topic == "" {
		return
	}
	for _, t := range m.TopicsCovered {
		if t == topic {
			return
		}
	}
	m.TopicsCovered = append(m.TopicsCovered, topic)
	if len(m.TopicsCovered) > maxTopics {
		m.TopicsCovered = m.TopicsCovered[len(m.TopicsCovered)-maxTopics:]
	}
}
