package chatgrep

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatgrep/chatgrep/ai/mock"
	"github.com/chatgrep/chatgrep/reembed"
	"github.com/chatgrep/chatgrep/search"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.ImportRepository())
		assert.NotNil(t, db.MessageRepository())
		assert.NotNil(t, db.ChunkRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A file path where a directory is needed
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}

func TestDatabase_CloseReleasesProvider(t *testing.T) {
	provider := mock.NewMockProvider()
	db, err := NewDatabase("", WithInMemoryStorage(), WithProvider(provider))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.True(t, provider.Closed())
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := db.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create reembedder", func(t *testing.T) {
		reembedder, err := db.NewReembedder(reembed.DefaultConfig(), os.Stderr)
		require.NoError(t, err)
		require.NotNil(t, reembedder)
	})
}

func TestDatabase_EndToEnd(t *testing.T) {
	db, err := NewDatabase("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	transcript := `{
		"name": "Alice", "type": "personal_chat", "id": 777,
		"messages": [
			{"id": 1, "type": "message", "date": "2024-03-01T10:00:00", "from": "Alice", "from_id": "user123", "text": "Let's plan the trip to the mountains"}
		]
	}`

	imp, processed, err := pipeline.Ingest(ctx, []byte(transcript))
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)

	// The mock embedder is deterministic per mode, so a document-identical
	// query still lands above the floor only if vectors align; use a
	// permissive floor and assert the row shape instead of the score.
	results := searcher.Search(ctx, "trip to the mountains", imp.ID,
		search.WithMinSimilarity(-1))
	require.NotEmpty(t, results)
	assert.Equal(t, imp.ID, results[0].ImportID)
	assert.Equal(t, "Alice", results[0].SenderName)
}
