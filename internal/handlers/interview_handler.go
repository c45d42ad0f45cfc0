package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type InterviewHandler struct {
	interviewRepo   repositories.InterviewRepository
	qdrantService   services.QdrantService
	defaultDuration int
}

func NewInterviewHandler(
	interviewRepo repositories.InterviewRepository,
	qdrantService services.QdrantService,
	defaultDuration int,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo:   interviewRepo,
		qdrantService:   qdrantService,
		defaultDuration: defaultDuration,
	}
}

// HandleCreate handles POST /interviews
func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateInterviewRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = h.defaultDuration
	}

	interview := &models.Interview{
		ID:              uuid.New(),
		Title:           req.Title,
		DurationMinutes: duration,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := h.interviewRepo.Create(interview); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

// HandleList handles GET /interviews
func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	interviews, err := h.interviewRepo.List(100)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"interviews": interviews,
	})
}

// HandleGet handles GET /interviews/:id
func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(interview)
}

// HandleUpdate handles PUT /interviews/:id
func (h *InterviewHandler) HandleUpdate(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.UpdateInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.interviewRepo.Update(interviewID, req.Title, req.DurationMinutes); err != nil {
		return respondError(c, err)
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(interview)
}

// HandleDelete handles DELETE /interviews/:id
func (h *InterviewHandler) HandleDelete(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if err := h.interviewRepo.Delete(interviewID); err != nil {
		return respondError(c, err)
	}

	// Vector index cleanup is best effort; orphaned chunks are harmless.
	if err := h.qdrantService.DeleteProfile(c.Context(), interviewID.String()); err != nil {
		log.Printf("⚠️  Failed to delete profile chunks for %s: %v\n", interviewID, err)
	}

	return c.JSON(fiber.Map{
		"message": "Interview deleted successfully",
		"id":      interviewID.String(),
	})
}
