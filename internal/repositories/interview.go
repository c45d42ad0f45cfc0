package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// ErrNotFound is returned by all repositories when the requested row does not
// exist. Callers map it to a 404.
var ErrNotFound = errors.New("record not found")

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	List(limit int) ([]models.Interview, error)
	Update(id uuid.UUID, title string, durationMinutes int) error
	Delete(id uuid.UUID) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// Create implements InterviewRepository.
func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}

	return nil
}

// FindByID implements InterviewRepository.
func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}

		return nil, fmt.Errorf("failed to find interview: %w", err)
	}

	return &interview, nil
}

// List implements InterviewRepository.
func (r *interviewRepository) List(limit int) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interviews, nil
}

// Update implements InterviewRepository.
func (r *interviewRepository) Update(id uuid.UUID, title string, durationMinutes int) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if title != "" {
		updates["title"] = title
	}
	if durationMinutes > 0 {
		updates["duration_minutes"] = durationMinutes
	}

	result := r.db.Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update interview: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("interview %s: %w", id, ErrNotFound)
	}

	return nil
}

// Delete implements InterviewRepository.
func (r *interviewRepository) Delete(id uuid.UUID) error {
	result := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("interview_id = ?", id).Delete(&models.InterviewSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("interview_id = ?", id).Delete(&models.InterviewMemory{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Interview{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}

		return nil
	})

	if result != nil && !errors.Is(result, ErrNotFound) {
		return fmt.Errorf("failed to delete interview: %w", result)
	}

	return result
}
