package badger

import (
	"context"
	"testing"
	"time"

	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessage(importID string, id int64, text string) *core.Message {
	return &core.Message{
		ID:         id,
		ImportID:   importID,
		Text:       text,
		Timestamp:  time.Now().UTC(),
		SenderID:   "user123456",
		SenderName: "Alice",
	}
}

func TestAppendAndGetMessages(t *testing.T) {
	_, msgRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	importID := core.NewImportID()

	// Append out of id order; reads must come back in id order.
	err = msgRepo.AppendMessages(ctx,
		newTestMessage(importID, 30, "third"),
		newTestMessage(importID, 10, "first"),
		newTestMessage(importID, 20, "second"),
	)
	require.NoError(t, err)

	messages, err := msgRepo.GetMessages(ctx, importID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, int64(10), messages[0].ID)
	assert.Equal(t, int64(20), messages[1].ID)
	assert.Equal(t, int64(30), messages[2].ID)
}

func TestGetMessage(t *testing.T) {
	_, msgRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	importID := core.NewImportID()

	err = msgRepo.AppendMessages(ctx, newTestMessage(importID, 42, "hello"))
	require.NoError(t, err)

	msg, err := msgRepo.GetMessage(ctx, importID, 42)
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)

	_, err = msgRepo.GetMessage(ctx, importID, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMessagesScopedByImport(t *testing.T) {
	_, msgRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	importA := core.NewImportID()
	importB := core.NewImportID()

	// Same source message id in two imports must not collide.
	err = msgRepo.AppendMessages(ctx,
		newTestMessage(importA, 1, "from import A"),
		newTestMessage(importB, 1, "from import B"),
	)
	require.NoError(t, err)

	msgA, err := msgRepo.GetMessage(ctx, importA, 1)
	require.NoError(t, err)
	assert.Equal(t, "from import A", msgA.Text)

	msgB, err := msgRepo.GetMessage(ctx, importB, 1)
	require.NoError(t, err)
	assert.Equal(t, "from import B", msgB.Text)

	count, err := msgRepo.CountMessages(ctx, importA)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAppendMessages_Invalid(t *testing.T) {
	_, msgRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	err = msgRepo.AppendMessages(ctx, &core.Message{ID: 1, ImportID: core.NewImportID()})
	assert.ErrorIs(t, err, core.ErrEmptyText)
}
