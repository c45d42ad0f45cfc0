package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type MemoryRepository interface {
	Upsert(memory *models.InterviewMemory) error
	FindByInterview(interviewID uuid.UUID) (*models.InterviewMemory, error)
	SetProfileText(interviewID uuid.UUID, kind models.ProfileKind, text string) error
	UpdateStatus(interviewID uuid.UUID, kind models.ProfileKind, status models.ExtractionStatus) error
	SaveCVExtraction(interviewID uuid.UUID, summary string, details *models.CandidateDetails) error
	SaveJDExtraction(interviewID uuid.UUID, summary string, details *models.JobDetails) error
	UpdateError(interviewID uuid.UUID, kind models.ProfileKind, errorMsg string) error
	FindPendingExtractions(limit int) ([]models.InterviewMemory, error)
	ListAll(limit int) ([]models.InterviewMemory, error)
}

type memoryRepository struct {
	db *gorm.DB
}

func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

// Upsert implements MemoryRepository.
func (r *memoryRepository) Upsert(memory *models.InterviewMemory) error {
	var existing models.InterviewMemory
	err := r.db.Where("interview_id = ?", memory.InterviewID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(memory).Error; err != nil {
			return fmt.Errorf("failed to create interview memory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up interview memory: %w", err)
	}

	memory.ID = existing.ID
	if err := r.db.Save(memory).Error; err != nil {
		return fmt.Errorf("failed to update interview memory: %w", err)
	}

	return nil
}

// FindByInterview implements MemoryRepository.
func (r *memoryRepository) FindByInterview(interviewID uuid.UUID) (*models.InterviewMemory, error) {
	var memory models.InterviewMemory
	if err := r.db.Where("interview_id = ?", interviewID).First(&memory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("memory for interview %s: %w", interviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview memory: %w", err)
	}

	return &memory, nil
}

// SetProfileText stores freshly extracted raw text and queues it for the
// extraction worker. Creates the memory row on first upload.
func (r *memoryRepository) SetProfileText(interviewID uuid.UUID, kind models.ProfileKind, text string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	switch kind {
	case models.ProfileCV:
		updates["cv_text"] = text
		updates["cv_status"] = models.ExtractionQueued
	case models.ProfileJD:
		updates["jd_text"] = text
		updates["jd_status"] = models.ExtractionQueued
	default:
		return fmt.Errorf("unknown profile kind: %s", kind)
	}

	var existing models.InterviewMemory
	err := r.db.Where("interview_id = ?", interviewID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		memory := &models.InterviewMemory{
			ID:          uuid.New(),
			InterviewID: interviewID,
			CVStatus:    models.ExtractionNone,
			JDStatus:    models.ExtractionNone,
		}
		if kind == models.ProfileCV {
			memory.CVText = text
			memory.CVStatus = models.ExtractionQueued
		} else {
			memory.JDText = text
			memory.JDStatus = models.ExtractionQueued
		}
		if err := r.db.Create(memory).Error; err != nil {
			return fmt.Errorf("failed to create interview memory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up interview memory: %w", err)
	}

	result := r.db.Model(&models.InterviewMemory{}).
		Where("interview_id = ?", interviewID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to store profile text: %w", result.Error)
	}

	return nil
}

// UpdateStatus implements MemoryRepository.
func (r *memoryRepository) UpdateStatus(interviewID uuid.UUID, kind models.ProfileKind, status models.ExtractionStatus) error {
	column := "cv_status"
	if kind == models.ProfileJD {
		column = "jd_status"
	}

	result := r.db.Model(&models.InterviewMemory{}).
		Where("interview_id = ?", interviewID).
		Updates(map[string]interface{}{
			column:       status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update extraction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("memory for interview %s: %w", interviewID, ErrNotFound)
	}

	return nil
}

// SaveCVExtraction implements MemoryRepository.
func (r *memoryRepository) SaveCVExtraction(interviewID uuid.UUID, summary string, details *models.CandidateDetails) error {
	result := r.db.Model(&models.InterviewMemory{}).
		Where("interview_id = ?", interviewID).
		Updates(map[string]interface{}{
			"cv_summary": summary,
			"cv_details": details,
			"cv_status":  models.ExtractionCompleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save CV extraction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("memory for interview %s: %w", interviewID, ErrNotFound)
	}

	return nil
}

// SaveJDExtraction implements MemoryRepository.
func (r *memoryRepository) SaveJDExtraction(interviewID uuid.UUID, summary string, details *models.JobDetails) error {
	result := r.db.Model(&models.InterviewMemory{}).
		Where("interview_id = ?", interviewID).
		Updates(map[string]interface{}{
			"jd_summary": summary,
			"jd_details": details,
			"jd_status":  models.ExtractionCompleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save JD extraction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("memory for interview %s: %w", interviewID, ErrNotFound)
	}

	return nil
}

// UpdateError implements MemoryRepository.
func (r *memoryRepository) UpdateError(interviewID uuid.UUID, kind models.ProfileKind, errorMsg string) error {
	column := "cv_status"
	if kind == models.ProfileJD {
		column = "jd_status"
	}

	result := r.db.Model(&models.InterviewMemory{}).
		Where("interview_id = ?", interviewID).
		Updates(map[string]interface{}{
			column:          models.ExtractionFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record extraction error: %w", result.Error)
	}

	return nil
}

// FindPendingExtractions implements MemoryRepository.
func (r *memoryRepository) FindPendingExtractions(limit int) ([]models.InterviewMemory, error) {
	var memories []models.InterviewMemory
	err := r.db.
		Where("cv_status = ? OR jd_status = ?", models.ExtractionQueued, models.ExtractionQueued).
		Order("updated_at ASC").
		Limit(limit).
		Find(&memories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending extractions: %w", err)
	}

	return memories, nil
}

// ListAll implements MemoryRepository. Used by the reindex script.
func (r *memoryRepository) ListAll(limit int) ([]models.InterviewMemory, error) {
	var memories []models.InterviewMemory
	err := r.db.
		Order("updated_at ASC").
		Limit(limit).
		Find(&memories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interview memories: %w", err)
	}

	return memories, nil
}
