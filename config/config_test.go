package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "chatgrep.db", cfg.Storage.Path)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedding.Host)
	assert.Equal(t, "embeddinggemma", cfg.Embedding.Model)
	assert.Equal(t, 256, cfg.Ingestion.BatchSize)
	assert.Equal(t, 20, cfg.Search.Limit)
	assert.InDelta(t, 0.3, cfg.Search.MinSimilarity, 1e-6)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ReadsFileAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  path: /data/chats
embedding:
  model: ai-forever/ru-en-RoSBERTa
search:
  limit: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/chats", cfg.Storage.Path)
	assert.Equal(t, "ai-forever/ru-en-RoSBERTa", cfg.Embedding.Model)
	assert.Equal(t, 5, cfg.Search.Limit)

	// Unset fields fall back to defaults.
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedding.Host)
	assert.Equal(t, 256, cfg.Ingestion.BatchSize)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHATGREP_DB", "/env/db")
	t.Setenv("CHATGREP_EMBEDDING_MODEL", "env-model")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: /file/db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/env/db", cfg.Storage.Path)
	assert.Equal(t, "env-model", cfg.Embedding.Model)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Embedding.Model = "custom-model"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-model", loaded.Embedding.Model)
	assert.Equal(t, cfg.Storage.Path, loaded.Storage.Path)
}
