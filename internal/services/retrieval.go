package services

import (
	"context"
	"fmt"
)

// RetrievalService bridges the orchestrator to the vector index: it embeds
// the candidate's latest answer and pulls the most related profile chunks.
// Implements agent.Retriever.
type RetrievalService struct {
	gemini GeminiService
	qdrant QdrantService
}

func NewRetrievalService(gemini GeminiService, qdrant QdrantService) *RetrievalService {
	return &RetrievalService{
		gemini: gemini,
		qdrant: qdrant,
	}
}

// RelatedProfileChunks implements agent.Retriever.
func (r *RetrievalService) RelatedProfileChunks(ctx context.Context, interviewID, query string, limit int) ([]string, error) {
	embedding, err := r.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.qdrant.SearchProfile(ctx, embedding, interviewID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search profile chunks: %w", err)
	}

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Text != "" {
			texts = append(texts, chunk.Text)
		}
	}

	return texts, nil
}
