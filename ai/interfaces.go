package ai

import "context"

// EmbeddingMode selects how texts are formulated before embedding.
// Some models distinguish between indexed documents and search queries;
// the same text embedded in both modes is not guaranteed to produce the
// same vector.
type EmbeddingMode int

const (
	// ModeDocument is used when indexing message chunks.
	ModeDocument EmbeddingMode = iota + 1
	// ModeQuery is used when embedding a search query.
	ModeQuery
)

// String returns the mode name for logging.
func (m EmbeddingMode) String() string {
	switch m {
	case ModeDocument:
		return "document"
	case ModeQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedTexts generates one fixed-length vector per input text, in input
	// order. The mode controls query-vs-document formulation for models
	// that require it. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string, mode EmbeddingMode) ([][]float32, error)

	// ModelIdentity returns the stable model name used for compatibility
	// checks. Embedding spaces are not comparable across models, so an
	// import built with one identity must only ever be queried with the
	// same identity.
	ModelIdentity() string
}

// Provider creates and manages the Embedder instance, ensuring resources
// are acquired and released as a unit. Callers hold a Provider for the
// duration of an ingestion or query operation and Close it on every exit
// path.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
