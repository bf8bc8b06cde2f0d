package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatgrep/chatgrep/ai"
	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
)

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 20

	// DefaultMinSimilarity is the exclusive similarity floor used when
	// none is requested.
	DefaultMinSimilarity = 0.3
)

// Result is one search hit in caller-facing form.
type Result struct {
	MessageID  int64   `json:"id"`
	ImportID   string  `json:"importId"`
	Text       string  `json:"text"`
	Date       string  `json:"date"` // RFC3339
	SenderID   string  `json:"senderId"`
	SenderName string  `json:"senderName"`
	Similarity float32 `json:"similarity"`
	IsSelf     bool    `json:"isSelf"`
	ChunkText  string  `json:"chunkText"`
	Ordinal    int     `json:"ordinal"`
}

type queryParams struct {
	limit         int
	page          int
	minSimilarity float32
	senderID      string
}

// QueryOption adjusts one search request.
type QueryOption func(*queryParams)

// WithLimit sets the page size. Values below 1 keep the default.
func WithLimit(limit int) QueryOption {
	return func(q *queryParams) {
		if limit > 0 {
			q.limit = limit
		}
	}
}

// WithPage selects a 1-based result page. Values below 1 keep page 1.
func WithPage(page int) QueryOption {
	return func(q *queryParams) {
		if page > 0 {
			q.page = page
		}
	}
}

// WithMinSimilarity sets the exclusive similarity floor: only chunks
// scoring strictly above it are returned.
func WithMinSimilarity(min float32) QueryOption {
	return func(q *queryParams) {
		q.minSimilarity = min
	}
}

// WithSender restricts results to messages from one sender id.
func WithSender(senderID string) QueryOption {
	return func(q *queryParams) {
		q.senderID = senderID
	}
}

// Searcher runs semantic queries over one import at a time.
type Searcher struct {
	imports  storage.ImportRepository
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	imports storage.ImportRepository,
	chunks storage.ChunkRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if imports == nil {
		return nil, ErrImportRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		imports:  imports,
		chunks:   chunks,
		embedder: provider.Embedder(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search finds messages in an import whose chunks are semantically close
// to the query. Results are ordered by descending similarity and
// paginated; one message may appear once per matching chunk.
//
// Search never returns an error: embedding failures, storage failures,
// an unknown import, and a model mismatch are all logged and collapsed
// into an empty result list.
func (s *Searcher) Search(ctx context.Context, query, importID string, opts ...QueryOption) []Result {
	return s.SearchWithMonitor(ctx, query, importID, nil, opts...)
}

// SearchWithMonitor is Search with observation hooks. The monitor receives
// callbacks at each stage of the query pipeline; pass nil for no monitoring.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query, importID string, monitor SearchMonitor, opts ...QueryOption) []Result {
	results, err := s.find(ctx, query, importID, monitor, opts...)
	if err != nil {
		s.logger.Error("search failed", "importID", importID, "err", err)
		return []Result{}
	}
	return results
}

// find is the strict query pipeline behind the soft-failing Search.
func (s *Searcher) find(ctx context.Context, query, importID string, monitor SearchMonitor, opts ...QueryOption) ([]Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	params := queryParams{
		limit:         DefaultLimit,
		page:          1,
		minSimilarity: DefaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(&params)
	}

	if query == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query, importID)

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query}, ai.ModeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query vector, got %d", len(vectors))
	}
	monitor.AfterQueryEmbedding(vectors[0])

	importModel, err := s.imports.GetImportModel(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve import model: %w", err)
	}
	queryModel := s.embedder.ModelIdentity()
	if importModel != queryModel {
		return nil, fmt.Errorf("%w: query uses %q, import was built with %q",
			ErrModelMismatch, queryModel, importModel)
	}
	monitor.AfterModelCheck(importModel)

	matches, err := s.chunks.SimilaritySearch(ctx, storage.SimilarityQuery{
		ImportID:      importID,
		Vector:        vectors[0],
		MinSimilarity: params.minSimilarity,
		Limit:         params.limit,
		Offset:        (params.page - 1) * params.limit,
		SenderID:      params.senderID,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	monitor.AfterSimilaritySearch(matches)

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, toResult(match))
	}
	monitor.Finish(results)

	return results, nil
}

func toResult(match *core.Match) Result {
	return Result{
		MessageID:  match.Message.ID,
		ImportID:   match.Message.ImportID,
		Text:       match.Message.Text,
		Date:       match.Message.Timestamp.Format(time.RFC3339),
		SenderID:   match.Message.SenderID,
		SenderName: match.Message.SenderName,
		Similarity: match.Similarity,
		IsSelf:     match.Message.IsSelf,
		ChunkText:  match.ChunkText,
		Ordinal:    match.Ordinal,
	}
}
