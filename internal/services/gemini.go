package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/ai-interviewer/internal/agent"
)

type GeminiService interface {
	agent.Completer
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	maxRetries int
	retryDelay time.Duration
}

func NewGeminiService(apiKey string, maxRetries int, retryDelay time.Duration) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if maxRetries < 1 {
		maxRetries = 1
	}
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}

	return &geminiService{
		client:     client,
		modelName:  "gemini-2.5-flash",
		embedModel: "text-embedding-004",
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Complete implements agent.Completer: it joins the three prompt blocks,
// calls the model and retries overloaded failures with exponential backoff.
// Quota and other non-transient failures surface immediately.
func (g *geminiService) Complete(ctx context.Context, system, contextBlock, userPrompt string, temperature float32, maxTokens int32) (string, error) {
	var parts []string
	if system != "" {
		parts = append(parts, "<system>\n"+system+"\n</system>")
	}
	if contextBlock != "" {
		parts = append(parts, "<context>\n"+contextBlock+"\n</context>")
	}
	parts = append(parts, "<user>\n"+userPrompt+"\n</user>")

	fullPrompt := strings.Join(parts, "\n\n")

	var lastErr error
	delay := g.retryDelay

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		text, err := g.GenerateText(ctx, fullPrompt, temperature, maxTokens)
		if err == nil {
			return text, nil
		}

		lastErr = classifyUpstreamError(err)

		// Only transient overload is worth retrying.
		if !isRetryable(lastErr) {
			return "", lastErr
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2

		if attempt < g.maxRetries {
			log.Printf("⚠️  Attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		// Fall back to whatever content the candidates carry.
		if len(resp.Candidates) > 0 {
			var textParts []string
			for _, candidate := range resp.Candidates {
				if candidate.Content != nil {
					textParts = append(textParts, fmt.Sprintf("%v", candidate.Content))
				}
			}
			if len(textParts) > 0 {
				log.Println("⚠️  Using fallback string representation of response parts")
				return strings.Join(textParts, "\n"), nil
			}
		}

		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// classifyUpstreamError maps raw SDK failures onto the error taxonomy the
// orchestrator and handlers work with.
func classifyUpstreamError(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "resource_exhausted"), strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", agent.ErrUpstreamQuota, err)
	case strings.Contains(msg, "503"), strings.Contains(msg, "unavailable"), strings.Contains(msg, "overloaded"):
		return fmt.Errorf("%w: %v", agent.ErrUpstreamOverloaded, err)
	default:
		return err
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, agent.ErrUpstreamOverloaded)
}
