package storage

import (
	"context"

	"github.com/chatgrep/chatgrep/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ImportRepository provides operations for managing import records.
type ImportRepository interface {
	Repository

	// CreateImport persists a new import record and returns its id.
	// Sets CreatedAt if not already set. The record is immutable once
	// written; there is no update operation.
	CreateImport(ctx context.Context, imp *core.Import) (string, error)

	// GetImport retrieves an import by id.
	// Returns ErrNotFound if the import doesn't exist.
	GetImport(ctx context.Context, id string) (*core.Import, error)

	// GetImportModel returns the embedding model name recorded on an import.
	// Returns ErrNotFound if the import doesn't exist.
	GetImportModel(ctx context.Context, id string) (string, error)

	// ListImports retrieves all import records, ordered by id.
	ListImports(ctx context.Context) ([]*core.Import, error)
}

// MessageRepository provides operations for managing transcript messages.
// Messages are always scoped by their owning import; message ids are only
// unique within one import.
type MessageRepository interface {
	Repository

	// AppendMessages persists messages under their import.
	// Messages are immutable once written.
	AppendMessages(ctx context.Context, messages ...*core.Message) error

	// GetMessage retrieves one message by its composite key.
	// Returns ErrNotFound if the message doesn't exist.
	GetMessage(ctx context.Context, importID string, messageID int64) (*core.Message, error)

	// GetMessages retrieves all messages of an import in ascending id order.
	GetMessages(ctx context.Context, importID string) ([]*core.Message, error)

	// CountMessages returns the number of messages stored for an import.
	CountMessages(ctx context.Context, importID string) (int, error)
}

// SimilarityQuery describes one similarity search over an import's chunks.
type SimilarityQuery struct {
	// ImportID scopes the search to one import tree.
	ImportID string

	// Vector is the embedded query, in the import's model space.
	Vector []float32

	// MinSimilarity is the exclusive lower bound: only chunks with
	// similarity strictly greater qualify.
	MinSimilarity float32

	// Limit caps the number of returned rows.
	Limit int

	// Offset skips rows of the full eligible set, computed after
	// filtering and ordering.
	Offset int

	// SenderID, when non-empty, restricts matches to messages from
	// that sender.
	SenderID string
}

// ChunkRepository provides operations for managing embedded chunks.
type ChunkRepository interface {
	Repository

	// AppendChunks persists a batch of embedded chunks as one unit.
	// Either all chunks in the call become visible or none do.
	AppendChunks(ctx context.Context, chunks ...*core.Chunk) error

	// CountChunks returns the number of chunks stored for an import.
	CountChunks(ctx context.Context, importID string) (int, error)

	// SimilaritySearch finds chunks similar to the query vector, joined back
	// to their parent messages. Rows are per chunk, ordered by descending
	// similarity, with query.Offset rows skipped and up to query.Limit rows
	// returned.
	SimilaritySearch(ctx context.Context, query SimilarityQuery) ([]*core.Match, error)
}
