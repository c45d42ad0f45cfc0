package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type SessionRepository interface {
	Create(session *models.InterviewSession) error
	FindRecentByRun(interviewID, runID uuid.UUID, limit int) ([]models.InterviewSession, error)
	FindByInterview(interviewID uuid.UUID, limit int) ([]models.InterviewSession, error)
	FindLatest(interviewID uuid.UUID) (*models.InterviewSession, error)
	FindOpeningPlaceholder(interviewID, runID uuid.UUID) (*models.InterviewSession, error)
	UpdateOpeningPlaceholder(id uuid.UUID, aiMessage, userMessage string, feedback *string) error
	CountByRun(interviewID, runID uuid.UUID) (int64, error)
	RunEnded(interviewID, runID uuid.UUID) (bool, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create implements SessionRepository.
func (r *sessionRepository) Create(session *models.InterviewSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindRecentByRun returns the last N turns of a run in chronological order,
// excluding the synthetic start/end marker rows.
func (r *sessionRepository) FindRecentByRun(interviewID, runID uuid.UUID, limit int) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.
		Where("interview_id = ? AND run_id = ?", interviewID, runID).
		Where("user_message NOT IN ?", []string{models.RunStartedMarker, models.RunEndedMarker}).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent sessions: %w", err)
	}

	// Reverse into chronological order
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}

	return sessions, nil
}

// FindByInterview implements SessionRepository.
func (r *sessionRepository) FindByInterview(interviewID uuid.UUID, limit int) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions: %w", err)
	}

	return sessions, nil
}

// FindLatest implements SessionRepository.
func (r *sessionRepository) FindLatest(interviewID uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.
		Where("interview_id = ?", interviewID).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no sessions for interview %s: %w", interviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find latest session: %w", err)
	}

	return &session, nil
}

// FindOpeningPlaceholder implements SessionRepository.
func (r *sessionRepository) FindOpeningPlaceholder(interviewID, runID uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.
		Where("interview_id = ? AND run_id = ? AND user_message = ?",
			interviewID, runID, models.RunStartedMarker).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("opening placeholder for run %s: %w", runID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find opening placeholder: %w", err)
	}

	return &session, nil
}

// UpdateOpeningPlaceholder fills the placeholder row written on run start with
// the candidate's first real answer and the follow-up question.
func (r *sessionRepository) UpdateOpeningPlaceholder(id uuid.UUID, aiMessage, userMessage string, feedback *string) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_message":   aiMessage,
			"user_message": userMessage,
			"feedback":     feedback,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update opening placeholder: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	return nil
}

// CountByRun counts real turns in a run (marker rows excluded).
func (r *sessionRepository) CountByRun(interviewID, runID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.InterviewSession{}).
		Where("interview_id = ? AND run_id = ?", interviewID, runID).
		Where("user_message NOT IN ?", []string{models.RunStartedMarker, models.RunEndedMarker}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

// RunEnded reports whether an end marker exists for the run.
func (r *sessionRepository) RunEnded(interviewID, runID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.InterviewSession{}).
		Where("interview_id = ? AND run_id = ? AND user_message = ?",
			interviewID, runID, models.RunEndedMarker).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check run end marker: %w", err)
	}

	return count > 0, nil
}
