package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantService interface {
	InitCollection() error
	UpsertProfileChunk(ctx context.Context, interviewID, kind, text string, embedding []float32) error
	SearchProfile(ctx context.Context, queryEmbedding []float32, interviewID string, limit int) ([]ProfileChunk, error)
	DeleteProfile(ctx context.Context, interviewID string) error
}

type ProfileChunk struct {
	Score float32
	Text  string
	Kind  string
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// newPointID returns a fresh UUID point ID. Numeric IDs derived from a UUID
// fragment collide at realistic chunk counts and overwrite silently.
func newPointID() *qdrant.PointId {
	return qdrant.NewID(uuid.NewString())
}

// UpsertProfileChunk implements QdrantService.
func (q *qdrantService) UpsertProfileChunk(ctx context.Context, interviewID, kind, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      newPointID(),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"interview_id": interviewID,
			"kind":         kind,
			"text":         text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchProfile returns the chunks of one interview's profile most similar to
// the query embedding.
func (q *qdrantService) SearchProfile(ctx context.Context, queryEmbedding []float32, interviewID string, limit int) ([]ProfileChunk, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("interview_id", interviewID),
		},
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []ProfileChunk
	for _, point := range searchResult {
		payload := point.Payload

		chunk := ProfileChunk{Score: point.Score}

		if text, ok := payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				chunk.Text = val.StringValue
			}
		}

		if kind, ok := payload["kind"]; ok {
			if val, ok := kind.GetKind().(*qdrant.Value_StringValue); ok {
				chunk.Kind = val.StringValue
			}
		}

		results = append(results, chunk)
	}

	return results, nil
}

// DeleteProfile implements QdrantService.
func (q *qdrantService) DeleteProfile(ctx context.Context, interviewID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("interview_id", interviewID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete profile chunks: %w", err)
	}

	return nil
}
