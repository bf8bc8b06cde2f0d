// Copyright 2025 The chatgrep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/chatgrep/chatgrep/ai"
	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/ingestion"
	"github.com/chatgrep/chatgrep/storage"
)

// Config holds configuration for a reembedding run.
type Config struct {
	// BatchSize is the number of messages to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of messages)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder copies an import's messages into a new import and embeds
// their chunks with the current model.
type Reembedder struct {
	imports   storage.ImportRepository
	messages  storage.MessageRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	imports storage.ImportRepository,
	messages storage.MessageRepository,
	chunks storage.ChunkRepository,
	provider ai.Provider,
	config *Config,
	progress io.Writer,
) (*Reembedder, error) {
	if imports == nil {
		return nil, ErrImportRepositoryRequired
	}
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	embedder := provider.Embedder()

	return &Reembedder{
		imports:   imports,
		messages:  messages,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(chunks, embedder, config.MaxRetries, config.RetryDelay),
	}, nil
}

// Run rebuilds the source import under the current embedding model. The
// source import is left untouched; all of its messages are copied into a
// brand-new import, re-chunked, and re-embedded. Returns the new import
// and the number of messages processed.
func (r *Reembedder) Run(ctx context.Context, sourceImportID string) (*core.Import, int, error) {
	source, err := r.imports.GetImport(ctx, sourceImportID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load source import: %w", err)
	}

	total, err := r.messages.CountMessages(ctx, sourceImportID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	target := &core.Import{
		ID:          core.NewImportID(),
		ChatID:      source.ChatID,
		ChatName:    source.ChatName,
		SourceType:  source.SourceType,
		ModelName:   r.embedder.ModelIdentity(),
		Fingerprint: source.Fingerprint,
	}

	if _, err := r.imports.CreateImport(ctx, target); err != nil {
		return nil, 0, fmt.Errorf("failed to create import: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No messages found in import %s (0 messages)\n", sourceImportID)
		return target, 0, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d messages with model %s (batch size: %d)\n",
		total, target.ModelName, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	iterator := NewMessageIterator(r.messages, sourceImportID, r.config.BatchSize)

	err = iterator.ForEach(ctx, func(batch []*core.Message) error {
		copies := make([]*core.Message, len(batch))
		chunks := make([]*core.Chunk, 0, len(batch))
		for i, msg := range batch {
			copied := *msg
			copied.ImportID = target.ID
			copies[i] = &copied

			for ordinal, text := range ingestion.SplitText(msg.Text) {
				chunks = append(chunks, &core.Chunk{
					ImportID:  target.ID,
					MessageID: msg.ID,
					Ordinal:   ordinal,
					Text:      text,
				})
			}
		}

		if err := r.messages.AppendMessages(ctx, copies...); err != nil {
			return fmt.Errorf("failed to copy messages: %w", err)
		}

		if err := r.processor.Process(ctx, chunks); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		tracker.Increment(len(batch))
		return nil
	})

	if err != nil {
		return target, processed, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d messages in %v (%.1f messages/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return target, processed, nil
}
