package ingestion

// DefaultBatchSize is the number of chunks sent to the embedder per request.
const DefaultBatchSize = 256

// Batcher accumulates items and releases them as fixed-size batches in the
// order they were added. The final partial batch is obtained via Flush.
type Batcher[T any] struct {
	size    int
	pending []T
}

// NewBatcher creates a batcher with the given batch size.
// Sizes below 1 fall back to DefaultBatchSize.
func NewBatcher[T any](size int) *Batcher[T] {
	if size < 1 {
		size = DefaultBatchSize
	}
	return &Batcher[T]{size: size}
}

// Add appends items and returns any batches that became full.
// Returned batches never share elements and preserve insertion order.
func (b *Batcher[T]) Add(items ...T) [][]T {
	b.pending = append(b.pending, items...)

	var ready [][]T
	for len(b.pending) >= b.size {
		batch := b.pending[:b.size:b.size]
		b.pending = b.pending[b.size:]
		ready = append(ready, batch)
	}
	return ready
}

// Flush returns the remaining partial batch, or nil if nothing is pending.
func (b *Batcher[T]) Flush() []T {
	if len(b.pending) == 0 {
		return nil
	}
	batch := b.pending
	b.pending = nil
	return batch
}

// Pending reports how many items are waiting for the next batch.
func (b *Batcher[T]) Pending() int {
	return len(b.pending)
}
