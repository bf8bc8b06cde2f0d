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

func newTestImport(modelName string) *core.Import {
	return &core.Import{
		ID:         core.NewImportID(),
		ChatID:     123456,
		ChatName:   "Alice",
		SourceType: "personal_chat",
		ModelName:  modelName,
	}
}

func TestCreateImport(t *testing.T) {
	importRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	imp := newTestImport("embeddinggemma")

	id, err := importRepo.CreateImport(ctx, imp)
	require.NoError(t, err)
	assert.Equal(t, imp.ID, id)
	assert.False(t, imp.CreatedAt.IsZero(), "CreatedAt should be set on create")

	got, err := importRepo.GetImport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, imp.ChatID, got.ChatID)
	assert.Equal(t, imp.ChatName, got.ChatName)
	assert.Equal(t, "embeddinggemma", got.ModelName)
}

func TestCreateImport_DuplicateID(t *testing.T) {
	importRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	imp := newTestImport("embeddinggemma")

	_, err = importRepo.CreateImport(ctx, imp)
	require.NoError(t, err)

	_, err = importRepo.CreateImport(ctx, imp)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestCreateImport_Invalid(t *testing.T) {
	importRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = importRepo.CreateImport(ctx, &core.Import{ID: core.NewImportID()})
	assert.ErrorIs(t, err, core.ErrEmptyModelName)
}

func TestReimportCreatesDistinctImports(t *testing.T) {
	importRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	// Same chat, same model: two ingestion runs must never merge.
	first := newTestImport("embeddinggemma")
	second := newTestImport("embeddinggemma")

	id1, err := importRepo.CreateImport(ctx, first)
	require.NoError(t, err)
	id2, err := importRepo.CreateImport(ctx, second)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)

	imports, err := importRepo.ListImports(ctx)
	require.NoError(t, err)
	assert.Len(t, imports, 2)
}

func TestGetImport_NotFound(t *testing.T) {
	importRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = importRepo.GetImport(context.Background(), core.NewImportID())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetImportModel(t *testing.T) {
	importRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	imp := newTestImport("ai-forever/ru-en-RoSBERTa")

	id, err := importRepo.CreateImport(ctx, imp)
	require.NoError(t, err)

	model, err := importRepo.GetImportModel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ai-forever/ru-en-RoSBERTa", model)

	_, err = importRepo.GetImportModel(ctx, core.NewImportID())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestImportCreatedAtPreserved(t *testing.T) {
	importRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	created := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	imp := newTestImport("embeddinggemma")
	imp.CreatedAt = created

	id, err := importRepo.CreateImport(ctx, imp)
	require.NoError(t, err)

	got, err := importRepo.GetImport(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created))
}
