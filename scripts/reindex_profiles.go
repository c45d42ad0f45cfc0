package main

import (
	"context"
	"log"
	"os"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

// Rebuilds the Qdrant profile index from the CV/JD text stored in Postgres.
// Run after wiping the collection or changing the embedding model.
func main() {
	log.Println("🚀 Starting profile reindex...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	memoryRepo := repositories.NewMemoryRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Worker.RetryMaxAttempts,
		cfg.Worker.RetryInitialDelay,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	chunker := services.NewTextChunker()
	ctx := context.Background()

	memories, err := memoryRepo.ListAll(1000)
	if err != nil {
		log.Fatalf("❌ Failed to list interview memories: %v", err)
	}
	log.Printf("📋 Found %d interview memories\n", len(memories))

	successCount := 0
	failCount := 0

	for _, memory := range memories {
		log.Printf("\n📄 Reindexing interview %s", memory.InterviewID)

		// Drop stale chunks before reinserting.
		if err := qdrantService.DeleteProfile(ctx, memory.InterviewID.String()); err != nil {
			log.Printf("   ⚠️  Failed to clear old chunks: %v", err)
		}

		profiles := []struct {
			Kind models.ProfileKind
			Text string
		}{
			{Kind: models.ProfileCV, Text: memory.CVText},
			{Kind: models.ProfileJD, Text: memory.JDText},
		}

		failed := false
		for _, profile := range profiles {
			if strings.TrimSpace(profile.Text) == "" {
				continue
			}

			chunks := chunker.ChunkText(profile.Text, 1000, 200)
			log.Printf("   ✂️  %s: %d chunks", profile.Kind, len(chunks))

			for i, chunk := range chunks {
				embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
				if err != nil {
					log.Printf("   ❌ Failed to embed chunk %d: %v", i+1, err)
					failed = true
					continue
				}

				if err := qdrantService.UpsertProfileChunk(ctx, memory.InterviewID.String(), string(profile.Kind), chunk, embedding); err != nil {
					log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
					failed = true
				}
			}
		}

		if failed {
			failCount++
			continue
		}

		log.Printf("   ✅ Reindexed interview %s", memory.InterviewID)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Successful: %d interviews", successCount)
	log.Printf("   ❌ Failed: %d interviews", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some interviews failed to reindex. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All profiles reindexed successfully!")
}
