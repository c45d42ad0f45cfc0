package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// ExtractorService turns raw CV/JD text into the summary + structured details
// the interview agent consumes, and indexes the raw text into the vector
// store for per-turn retrieval. Runs on the background worker, not in the
// request path.
type ExtractorService interface {
	ExtractProfile(ctx context.Context, memory *models.InterviewMemory) error
}

type extractorService struct {
	memoryRepo    repositories.MemoryRepository
	geminiService GeminiService
	qdrantService QdrantService
	chunker       TextChunker
	promptBuilder *PromptBuilder
}

func NewExtractorService(
	memoryRepo repositories.MemoryRepository,
	geminiService GeminiService,
	qdrantService QdrantService,
) ExtractorService {
	return &extractorService{
		memoryRepo:    memoryRepo,
		geminiService: geminiService,
		qdrantService: qdrantService,
		chunker:       NewTextChunker(),
		promptBuilder: NewPromptBuilder(),
	}
}

// ExtractProfile implements ExtractorService.
func (e *extractorService) ExtractProfile(ctx context.Context, memory *models.InterviewMemory) error {
	if memory.CVStatus == models.ExtractionQueued {
		if err := e.extractCV(ctx, memory.InterviewID, memory.CVText); err != nil {
			e.memoryRepo.UpdateError(memory.InterviewID, models.ProfileCV, err.Error())
			return fmt.Errorf("failed to extract CV: %w", err)
		}
	}

	if memory.JDStatus == models.ExtractionQueued {
		if err := e.extractJD(ctx, memory.InterviewID, memory.JDText); err != nil {
			e.memoryRepo.UpdateError(memory.InterviewID, models.ProfileJD, err.Error())
			return fmt.Errorf("failed to extract JD: %w", err)
		}
	}

	return nil
}

func (e *extractorService) extractCV(ctx context.Context, interviewID uuid.UUID, cvText string) error {
	if strings.TrimSpace(cvText) == "" {
		return fmt.Errorf("no CV text to extract")
	}

	if err := e.memoryRepo.UpdateStatus(interviewID, models.ProfileCV, models.ExtractionProcessing); err != nil {
		return err
	}

	log.Printf("🤖 Extracting CV profile for interview %s\n", interviewID)

	summaryPrompt := e.promptBuilder.BuildCVSummaryPrompt(cvText)
	summary, err := e.geminiService.GenerateText(ctx, summaryPrompt, 0.3, 1024)
	if err != nil {
		return fmt.Errorf("failed to generate CV summary: %w", err)
	}

	detailsPrompt := e.promptBuilder.BuildCVExtractionPrompt(cvText)
	detailsRaw, err := e.geminiService.GenerateText(ctx, detailsPrompt, 0.2, 2048)
	if err != nil {
		return fmt.Errorf("failed to generate CV details: %w", err)
	}

	var details models.CandidateDetails
	if err := json.Unmarshal([]byte(ExtractJSON(detailsRaw)), &details); err != nil {
		// Summary alone is still useful; keep going without details.
		log.Printf("⚠️  Failed to parse CV details JSON: %v\n", err)
	}

	if err := e.memoryRepo.SaveCVExtraction(interviewID, strings.TrimSpace(summary), &details); err != nil {
		return err
	}

	e.indexProfile(ctx, interviewID, string(models.ProfileCV), cvText)

	log.Printf("✅ CV extraction completed for interview %s\n", interviewID)
	return nil
}

func (e *extractorService) extractJD(ctx context.Context, interviewID uuid.UUID, jdText string) error {
	if strings.TrimSpace(jdText) == "" {
		return fmt.Errorf("no JD text to extract")
	}

	if err := e.memoryRepo.UpdateStatus(interviewID, models.ProfileJD, models.ExtractionProcessing); err != nil {
		return err
	}

	log.Printf("🤖 Extracting JD profile for interview %s\n", interviewID)

	summaryPrompt := e.promptBuilder.BuildJDSummaryPrompt(jdText)
	summary, err := e.geminiService.GenerateText(ctx, summaryPrompt, 0.3, 1024)
	if err != nil {
		return fmt.Errorf("failed to generate JD summary: %w", err)
	}

	detailsPrompt := e.promptBuilder.BuildJDExtractionPrompt(jdText)
	detailsRaw, err := e.geminiService.GenerateText(ctx, detailsPrompt, 0.2, 1024)
	if err != nil {
		return fmt.Errorf("failed to generate JD details: %w", err)
	}

	var details models.JobDetails
	if err := json.Unmarshal([]byte(ExtractJSON(detailsRaw)), &details); err != nil {
		log.Printf("⚠️  Failed to parse JD details JSON: %v\n", err)
	}

	if err := e.memoryRepo.SaveJDExtraction(interviewID, strings.TrimSpace(summary), &details); err != nil {
		return err
	}

	e.indexProfile(ctx, interviewID, string(models.ProfileJD), jdText)

	log.Printf("✅ JD extraction completed for interview %s\n", interviewID)
	return nil
}

// indexProfile chunks and embeds the raw text into the vector store. Indexing
// failures are logged, not fatal: retrieval is an enhancement, the interview
// works without it.
func (e *extractorService) indexProfile(ctx context.Context, interviewID uuid.UUID, kind, text string) {
	chunks := e.chunker.ChunkText(text, 1000, 200)

	for i, chunk := range chunks {
		embedding, err := e.geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Printf("⚠️  Failed to embed %s chunk %d: %v\n", kind, i+1, err)
			continue
		}

		if err := e.qdrantService.UpsertProfileChunk(ctx, interviewID.String(), kind, chunk, embedding); err != nil {
			log.Printf("⚠️  Failed to index %s chunk %d: %v\n", kind, i+1, err)
		}
	}

	log.Printf("📦 Indexed %d %s chunks for interview %s\n", len(chunks), kind, interviewID)
}
