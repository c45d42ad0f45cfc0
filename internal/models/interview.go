package models

import (
	"time"

	"github.com/google/uuid"
)

type Interview struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title           string    `gorm:"type:text;not null" json:"title"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`
	CreatedAt       time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Sessions []InterviewSession `gorm:"foreignKey:InterviewID" json:"-"`
	Memory   *InterviewMemory   `gorm:"foreignKey:InterviewID" json:"-"`
}

func (Interview) TableName() string {
	return "interviews"
}
