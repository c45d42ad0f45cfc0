package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ProfileKind string

const (
	ProfileCV ProfileKind = "cv"
	ProfileJD ProfileKind = "jd"
)

type ExtractionStatus string

const (
	ExtractionNone       ExtractionStatus = "none"
	ExtractionQueued     ExtractionStatus = "queued"
	ExtractionProcessing ExtractionStatus = "processing"
	ExtractionCompleted  ExtractionStatus = "completed"
	ExtractionFailed     ExtractionStatus = "failed"
)

// CandidateDetails is the structured extraction from a CV.
type CandidateDetails struct {
	Name                 string              `json:"name,omitempty"`
	Email                string              `json:"email,omitempty"`
	Location             string              `json:"location,omitempty"`
	TotalExperienceYears string              `json:"total_experience_years,omitempty"`
	CurrentRole          string              `json:"current_role,omitempty"`
	Skills               map[string][]string `json:"skills,omitempty"`
	Projects             []CandidateProject  `json:"projects,omitempty"`
	Education            string              `json:"education,omitempty"`
}

type CandidateProject struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Impact      string   `json:"impact,omitempty"`
}

// JobDetails is the structured extraction from a job description.
type JobDetails struct {
	Role                    string   `json:"role,omitempty"`
	MustHaveSkills          []string `json:"must_have_skills,omitempty"`
	NiceToHaveSkills        []string `json:"nice_to_have_skills,omitempty"`
	RequiredExperienceYears string   `json:"required_experience_years,omitempty"`
	Responsibilities        []string `json:"responsibilities,omitempty"`
}

func (d CandidateDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *CandidateDetails) Scan(value interface{}) error {
	return scanJSON(value, d)
}

func (d JobDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *JobDetails) Scan(value interface{}) error {
	return scanJSON(value, d)
}

func scanJSON(value interface{}, target interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}

	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, target)
}

// InterviewMemory holds the candidate/job profile for one interview: the raw
// extracted text, the LLM-generated summaries and the structured details. One
// row per interview.
type InterviewMemory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"interview_id"`

	CVText    string            `gorm:"type:text" json:"-"`
	CVStatus  ExtractionStatus  `gorm:"type:text;not null;default:'none'" json:"cv_status"`
	CVSummary *string           `gorm:"type:text" json:"cv_summary,omitempty"`
	CVDetails *CandidateDetails `gorm:"type:jsonb" json:"cv_details,omitempty"`

	JDText    string           `gorm:"type:text" json:"-"`
	JDStatus  ExtractionStatus `gorm:"type:text;not null;default:'none'" json:"jd_status"`
	JDSummary *string          `gorm:"type:text" json:"jd_summary,omitempty"`
	JDDetails *JobDetails      `gorm:"type:jsonb" json:"jd_details,omitempty"`

	ErrorMessage *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (InterviewMemory) TableName() string {
	return "interview_memory"
}
