// Copyright 2025 The chatgrep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package chatgrep indexes exported chat transcripts and searches them
// semantically. The Database facade wires the storage backend, the
// repositories, and the embedding provider, and hands out the ingestion,
// search, and reembedding front-ends built on top of them.
package chatgrep

import (
	"io"
	"log/slog"

	"github.com/chatgrep/chatgrep/ai"
	"github.com/chatgrep/chatgrep/ai/openai"
	"github.com/chatgrep/chatgrep/ingestion"
	"github.com/chatgrep/chatgrep/reembed"
	"github.com/chatgrep/chatgrep/search"
	"github.com/chatgrep/chatgrep/storage"
	"github.com/chatgrep/chatgrep/storage/badger"
)

// Database bundles the storage backend, repositories, and the embedding
// provider behind one handle.
type Database struct {
	backend  *badger.Backend
	imports  storage.ImportRepository
	messages storage.MessageRepository
	chunks   storage.ChunkRepository
	provider ai.Provider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the embedding endpoint configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider injects a ready-made AI provider instead of constructing
// one from the AI config. The database takes ownership and closes it.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all data in memory instead of on disk.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens (or creates) a chatgrep database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:  backend,
		imports:  badger.NewImportRepository(backend),
		messages: badger.NewMessageRepository(backend),
		chunks:   badger.NewChunkRepository(backend),
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ImportRepository() storage.ImportRepository {
	return db.imports
}

func (db *Database) MessageRepository() storage.MessageRepository {
	return db.messages
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunks
}

// NewIngestionPipeline builds an ingestion pipeline over this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.imports, db.messages, db.chunks, db.provider, opts...)
}

// NewSearcher builds a searcher over this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.imports, db.chunks, db.provider, opts...)
}

// NewReembedder builds a reembedder over this database.
// progress: where to write progress output (typically os.Stderr)
func (db *Database) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.imports, db.messages, db.chunks, db.provider, cfg, progress)
}
