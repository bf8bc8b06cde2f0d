package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/chatgrep/chatgrep/ai"
	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
)

const (
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second
)

// Pipeline turns a chat export file into a searchable import. It parses the
// transcript, persists messages one by one, and embeds their chunks in
// batches on a worker pool.
type Pipeline struct {
	imports        storage.ImportRepository
	messages       storage.MessageRepository
	chunks         storage.ChunkRepository
	provider       ai.Provider
	pool           *ants.Pool
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = DefaultBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithMaxRetries sets the number of attempts for each embedding call.
func WithMaxRetries(attempts int) Option {
	return func(p *Pipeline) error {
		if attempts < 1 {
			attempts = 1
		}
		p.maxRetries = attempts
		return nil
	}
}

// WithRetryBaseDelay sets the base delay for embedding retry backoff.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(p *Pipeline) error {
		if delay > 0 {
			p.retryBaseDelay = delay
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	imports storage.ImportRepository,
	messages storage.MessageRepository,
	chunks storage.ChunkRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
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

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		imports:        imports,
		messages:       messages,
		chunks:         chunks,
		provider:       provider,
		pool:           pool,
		batchSize:      DefaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestFile reads and ingests a chat export file from disk.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*core.Import, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read transcript file: %w", err)
	}
	return p.Ingest(ctx, data)
}

// Ingest parses a chat export and persists it as a new import. Each run
// produces a fresh import with a generated id, even for a file that was
// ingested before. It returns the created import and the number of
// messages processed.
//
// Messages become visible as they are written; chunk batches become
// visible atomically as each batch finishes embedding. A failed batch
// fails the whole ingestion, which may leave a partially embedded import
// behind.
func (p *Pipeline) Ingest(ctx context.Context, data []byte) (*core.Import, int, error) {
	transcript, err := ParseTranscript(data)
	if err != nil {
		return nil, 0, err
	}

	embedder := p.provider.Embedder()

	imp := &core.Import{
		ID:          core.NewImportID(),
		ChatID:      transcript.ChatID,
		ChatName:    transcript.ChatName,
		SourceType:  transcript.ChatType,
		ModelName:   embedder.ModelIdentity(),
		Fingerprint: core.FingerprintFromContent(data),
	}

	if _, err := p.imports.CreateImport(ctx, imp); err != nil {
		return nil, 0, fmt.Errorf("failed to create import: %w", err)
	}

	p.logger.Info("starting ingestion",
		"importID", imp.ID,
		"chatName", imp.ChatName,
		"model", imp.ModelName,
		"entries", len(transcript.Messages))

	be := newBatchEmbedder(p.chunks, embedder, p.maxRetries, p.retryBaseDelay)
	batcher := NewBatcher[*core.Chunk](p.batchSize)
	ownID := core.OwnParticipantID(transcript.ChatID)

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		batchErr error
	)

	submit := func(batch []*core.Chunk) error {
		wg.Add(1)
		return p.pool.Submit(func() {
			defer wg.Done()
			if err := be.process(ctx, batch); err != nil {
				errMu.Lock()
				if batchErr == nil {
					batchErr = err
				}
				errMu.Unlock()
			}
		})
	}

	failed := func() bool {
		errMu.Lock()
		defer errMu.Unlock()
		return batchErr != nil
	}

	processed := 0
	for _, entry := range transcript.Messages {
		if entry.Text == "" {
			continue
		}
		if failed() {
			break
		}

		message := &core.Message{
			ID:         entry.ID,
			ImportID:   imp.ID,
			Text:       entry.Text,
			Timestamp:  entry.Date,
			SenderID:   entry.SenderID,
			SenderName: entry.SenderName,
			IsSelf:     entry.SenderID != ownID,
		}

		if err := p.messages.AppendMessages(ctx, message); err != nil {
			wg.Wait()
			return imp, processed, fmt.Errorf("failed to store message %d: %w", entry.ID, err)
		}

		chunks := make([]*core.Chunk, 0, 4)
		for ordinal, text := range SplitText(entry.Text) {
			chunks = append(chunks, &core.Chunk{
				ImportID:  imp.ID,
				MessageID: entry.ID,
				Ordinal:   ordinal,
				Text:      text,
			})
		}

		for _, batch := range batcher.Add(chunks...) {
			if err := submit(batch); err != nil {
				wg.Wait()
				return imp, processed, fmt.Errorf("failed to submit batch: %w", err)
			}
		}

		processed++
		if processed%1000 == 0 {
			p.logger.Info("ingestion progress", "importID", imp.ID, "messages", processed)
		}
	}

	if remainder := batcher.Flush(); len(remainder) > 0 && !failed() {
		if err := submit(remainder); err != nil {
			wg.Wait()
			return imp, processed, fmt.Errorf("failed to submit batch: %w", err)
		}
	}

	wg.Wait()

	if failed() {
		return imp, processed, batchErr
	}

	p.logger.Info("ingestion complete", "importID", imp.ID, "messages", processed)
	return imp, processed, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
