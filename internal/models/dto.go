package models

import "time"

type CreateInterviewRequest struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

type UpdateInterviewRequest struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ProcessJDTextRequest struct {
	Text string `json:"text"`
}

type UploadProfileResponse struct {
	InterviewID string `json:"interview_id"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Characters  int    `json:"characters"`
}

type StartRunResponse struct {
	InterviewID     string  `json:"interview_id"`
	RunID           string  `json:"run_id"`
	OpeningQuestion string  `json:"opening_question"`
	Title           string  `json:"title"`
	DurationMinutes int     `json:"duration_minutes"`
	CVSummary       *string `json:"cv_summary,omitempty"`
	JDSummary       *string `json:"jd_summary,omitempty"`
}

type SendMessageRequest struct {
	RunID       string `json:"run_id"`
	UserMessage string `json:"user_message"`
}

type SendMessageResponse struct {
	SessionID string       `json:"session_id"`
	RunID     string       `json:"run_id"`
	AIMessage string       `json:"ai_message"`
	Feedback  *string      `json:"feedback,omitempty"`
	Memory    *MemoryState `json:"memory,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// MemoryState mirrors the ephemeral per-run session memory for API clients.
type MemoryState struct {
	Stage           string   `json:"stage"`
	QuestionCount   int      `json:"question_count"`
	LastAnswerDepth float64  `json:"last_answer_depth"`
	TopicsCovered   []string `json:"topics_covered,omitempty"`
	CandidateName   string   `json:"candidate_name"`
}

type EndRunRequest struct {
	RunID string `json:"run_id"`
}

type EndRunResponse struct {
	InterviewID string `json:"interview_id"`
	RunID       string `json:"run_id"`
	Status      string `json:"status"`
	Summary     string `json:"summary,omitempty"`
}
