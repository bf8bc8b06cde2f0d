package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/chatgrep/chatgrep/ai"
	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
)

// batchEmbedder embeds a batch of chunks and persists them atomically.
type batchEmbedder struct {
	chunks         storage.ChunkRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

func newBatchEmbedder(chunks storage.ChunkRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *batchEmbedder {
	return &batchEmbedder{
		chunks:         chunks,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// process embeds the batch in document mode, assigns each vector to its
// chunk by position, and appends the whole batch in one transaction so a
// batch is either fully visible to search or not at all.
func (be *batchEmbedder) process(ctx context.Context, batch []*core.Chunk) error {
	if len(batch) == 0 {
		return nil
	}

	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = be.embedder.EmbedTexts(ctx, texts, ai.ModeDocument)
		return err
	}, be.maxRetries, be.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", be.maxRetries, err)
	}

	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}

	for i := range batch {
		batch[i].Embedding = vectors[i]
	}

	if err := be.chunks.AppendChunks(ctx, batch...); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	return nil
}
