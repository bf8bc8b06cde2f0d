package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
	"github.com/chatgrep/chatgrep/storage/badger"
)

func seedMessages(t *testing.T, count int) (storage.MessageRepository, string) {
	t.Helper()

	_, messages, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	importID := core.NewImportID()
	ctx := context.Background()
	for i := 1; i <= count; i++ {
		require.NoError(t, messages.AppendMessages(ctx, &core.Message{
			ID:        int64(i),
			ImportID:  importID,
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC),
			SenderID:  "user1",
		}))
	}

	return messages, importID
}

func TestMessageIterator_BatchesInOrder(t *testing.T) {
	messages, importID := seedMessages(t, 5)
	it := NewMessageIterator(messages, importID, 2)

	var batchSizes []int
	var ids []int64
	err := it.ForEach(context.Background(), func(batch []*core.Message) error {
		batchSizes = append(batchSizes, len(batch))
		for _, m := range batch {
			ids = append(ids, m.ID)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
}

func TestMessageIterator_EmptyImport(t *testing.T) {
	messages, _ := seedMessages(t, 0)
	it := NewMessageIterator(messages, core.NewImportID(), 10)

	calls := 0
	err := it.ForEach(context.Background(), func(batch []*core.Message) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestMessageIterator_StopsOnCallbackError(t *testing.T) {
	messages, importID := seedMessages(t, 5)
	it := NewMessageIterator(messages, importID, 2)

	fnErr := errors.New("stop")
	calls := 0
	err := it.ForEach(context.Background(), func(batch []*core.Message) error {
		calls++
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.Equal(t, 1, calls)
}

func TestMessageIterator_ContextCancelled(t *testing.T) {
	messages, importID := seedMessages(t, 5)
	it := NewMessageIterator(messages, importID, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := it.ForEach(ctx, func(batch []*core.Message) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessageIterator_InvalidBatchSizeUsesDefault(t *testing.T) {
	messages, importID := seedMessages(t, 3)
	it := NewMessageIterator(messages, importID, 0)

	calls := 0
	err := it.ForEach(context.Background(), func(batch []*core.Message) error {
		calls++
		assert.Len(t, batch, 3)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
