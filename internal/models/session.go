package models

import (
	"time"

	"github.com/google/uuid"
)

// Marker values stored in UserMessage for the synthetic turns that open and
// close a run. The opening placeholder is replaced by the candidate's first
// real answer.
const (
	RunStartedMarker = "[INTERVIEW_STARTED]"
	RunEndedMarker   = "[SESSION_ENDED]"
)

// InterviewSession is one conversation turn: the AI question, the candidate's
// answer and optional feedback. Turns are grouped by RunID so the same
// interview setup can be attempted multiple times.
type InterviewSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID uuid.UUID  `gorm:"type:uuid;not null;index" json:"interview_id"`
	RunID       *uuid.UUID `gorm:"type:uuid;index" json:"run_id,omitempty"`
	AIMessage   string     `gorm:"type:text;not null" json:"ai_message"`
	UserMessage string     `gorm:"type:text;not null" json:"user_message"`
	Feedback    *string    `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt   time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}
