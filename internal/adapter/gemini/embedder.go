package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "text-embedding-004"

var (
	// ErrEmptyEmbedding is returned when the API answered without a vector.
	ErrEmptyEmbedding = errors.New("empty embedding received")
	// ErrDimensionMismatch is returned when the vector does not match the
	// dimensionality the index was created with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedder generates fixed-dimension embeddings via the Gemini API. Every
// returned vector is validated against the expected dimension; a mismatch
// is an error, never a silently accepted vector.
type Embedder struct {
	client    *genai.Client
	model     string
	dimension int
}

func NewEmbedder(ctx context.Context, apiKey string, dimension int, opts ...option.ClientOption) (*Embedder, error) {
	opts = append(opts, option.WithAPIKey(apiKey))
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Embedder{client: client, model: defaultModel, dimension: dimension}, nil
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	slog.DebugContext(ctx, "embedding content", "model", e.model, "length", len(text))

	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, ErrEmptyEmbedding
	}
	if got := len(res.Embedding.Values); got != e.dimension {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrDimensionMismatch, e.dimension, got)
	}
	return res.Embedding.Values, nil
}

func (e *Embedder) Close() error {
	return e.client.Close()
}
