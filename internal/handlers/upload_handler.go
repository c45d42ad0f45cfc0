package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type UploadHandler struct {
	interviewRepo  repositories.InterviewRepository
	memoryRepo     repositories.MemoryRepository
	storageService services.StorageService
	pdfParser      services.PDFParserService
	worker         services.Worker
	maxFileSize    int64
}

func NewUploadHandler(
	interviewRepo repositories.InterviewRepository,
	memoryRepo repositories.MemoryRepository,
	storageService services.StorageService,
	pdfParser services.PDFParserService,
	worker services.Worker,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		interviewRepo:  interviewRepo,
		memoryRepo:     memoryRepo,
		storageService: storageService,
		pdfParser:      pdfParser,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleUploadCV handles POST /interviews/:id/upload-cv
func (h *UploadHandler) HandleUploadCV(c *fiber.Ctx) error {
	return h.handleUploadPDF(c, "cv", models.ProfileCV)
}

// HandleUploadJD handles POST /interviews/:id/upload-jd
func (h *UploadHandler) HandleUploadJD(c *fiber.Ctx) error {
	return h.handleUploadPDF(c, "jd", models.ProfileJD)
}

func (h *UploadHandler) handleUploadPDF(c *fiber.Ctx, field string, kind models.ProfileKind) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if _, err := h.interviewRepo.FindByID(interviewID); err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile(field)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Missing '%s' file. Please upload a PDF.", field),
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file, string(kind))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to save file: %v", err),
		})
	}

	text, err := h.pdfParser.ExtractText(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to extract text from PDF",
		})
	}

	if err := h.memoryRepo.SetProfileText(interviewID, kind, text); err != nil {
		return respondError(c, err)
	}

	// LLM extraction happens on the background worker.
	h.worker.EnqueueExtraction(interviewID)

	return c.Status(fiber.StatusAccepted).JSON(models.UploadProfileResponse{
		InterviewID: interviewID.String(),
		Kind:        string(kind),
		Status:      string(models.ExtractionQueued),
		Characters:  len(text),
	})
}

// HandleProcessJDText handles POST /interviews/:id/process-jd-text for job
// descriptions pasted as raw text instead of uploaded as a PDF.
func (h *UploadHandler) HandleProcessJDText(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if _, err := h.interviewRepo.FindByID(interviewID); err != nil {
		return respondError(c, err)
	}

	var req models.ProcessJDTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Job description text cannot be empty",
		})
	}

	if err := h.memoryRepo.SetProfileText(interviewID, models.ProfileJD, services.CleanText(text)); err != nil {
		return respondError(c, err)
	}

	h.worker.EnqueueExtraction(interviewID)

	return c.Status(fiber.StatusAccepted).JSON(models.UploadProfileResponse{
		InterviewID: interviewID.String(),
		Kind:        string(models.ProfileJD),
		Status:      string(models.ExtractionQueued),
		Characters:  len(text),
	})
}

// HandleGetMemory handles GET /interviews/:id/memory
func (h *UploadHandler) HandleGetMemory(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if _, err := h.interviewRepo.FindByID(interviewID); err != nil {
		return respondError(c, err)
	}

	memory, err := h.memoryRepo.FindByInterview(interviewID)
	if err != nil {
		return c.JSON(fiber.Map{
			"interview_id": interviewID.String(),
			"message":      "Memory not yet created. Upload CV and JD first.",
		})
	}

	return c.JSON(memory)
}
