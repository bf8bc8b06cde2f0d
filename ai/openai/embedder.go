package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chatgrep/chatgrep/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder  embeddings.Embedder
	modelName string
	logger    *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for embeddings
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:  embedder,
		modelName: config.EmbeddingModel,
		logger:    slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// ModelIdentity returns the configured embedding model name.
func (e *Embedder) ModelIdentity() string {
	return e.modelName
}

// EmbedTexts generates vector embeddings for texts in a single batch call.
// Texts are formulated for the requested mode before being sent, so
// prefix-trained models receive their document/query markers.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string, mode ai.EmbeddingMode) ([][]float32, error) {
	e.logger.Debug("generating embeddings", "count", len(texts), "mode", mode.String())

	formatted := ai.FormatForMode(e.modelName, mode, texts)

	vectors, err := e.embedder.EmbedDocuments(ctx, formatted)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding result mismatch: expected %d, received %d", len(texts), len(vectors))
	}

	return vectors, nil
}
