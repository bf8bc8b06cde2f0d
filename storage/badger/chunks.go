package badger

import (
	"context"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) storage.ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close implements storage.Repository. The backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendChunks persists a batch of embedded chunks as one transaction, so
// a query racing an ingestion observes whole batches or nothing.
func (r *ChunkRepository) AppendChunks(ctx context.Context, chunks ...*core.Chunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}
			key := makeChunkKey(chunk.ImportID, chunk.MessageID, chunk.Ordinal)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountChunks returns the number of chunks stored for an import.
func (r *ChunkRepository) CountChunks(ctx context.Context, importID string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix(importID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// SimilaritySearch scans one import's chunks, keeps those whose cosine
// similarity is strictly greater than the threshold, joins each to its
// parent message, then orders by descending similarity and applies
// offset/limit over the full eligible set. Rows are per chunk; a message
// matching through several chunks appears once per chunk.
func (r *ChunkRepository) SimilaritySearch(ctx context.Context, query storage.SimilarityQuery) ([]*core.Match, error) {
	if query.ImportID == "" || len(query.Vector) == 0 || query.Limit <= 0 || query.Offset < 0 {
		return nil, storage.ErrInvalidQuery
	}

	var matches []*core.Match

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix(query.ImportID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Chunks of one message share the parent row; cache the join.
		parents := make(map[int64]*core.Message)

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Embedding) == 0 {
				continue
			}

			similarity := cosineSimilarity(query.Vector, chunk.Embedding)
			if similarity <= query.MinSimilarity {
				continue
			}

			msg, ok := parents[chunk.MessageID]
			if !ok {
				var err error
				msg, err = readMessage(tx, query.ImportID, chunk.MessageID)
				if err != nil {
					return err
				}
				parents[chunk.MessageID] = msg
			}
			if msg == nil {
				// Orphan chunk, parent never committed.
				continue
			}

			if query.SenderID != "" && msg.SenderID != query.SenderID {
				continue
			}

			matches = append(matches, &core.Match{
				Message:    msg,
				Ordinal:    chunk.Ordinal,
				ChunkText:  chunk.Text,
				Similarity: similarity,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Stable sort keeps storage order on exact ties.
	slices.SortStableFunc(matches, func(a, b *core.Match) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if query.Offset >= len(matches) {
		return []*core.Match{}, nil
	}
	matches = matches[query.Offset:]
	if len(matches) > query.Limit {
		matches = matches[:query.Limit]
	}

	return matches, nil
}

// cosineSimilarity computes 1 - cosine_distance between two vectors.
// Returns 0 for zero-magnitude or mismatched-dimension inputs.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
