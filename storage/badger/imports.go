package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
)

// ImportRepository implements storage.ImportRepository for BadgerDB.
type ImportRepository struct {
	backend *Backend
}

var _ storage.ImportRepository = (*ImportRepository)(nil)

// NewImportRepository creates a new ImportRepository.
func NewImportRepository(backend *Backend) storage.ImportRepository {
	return &ImportRepository{backend: backend}
}

// Close implements storage.Repository. The backend owns the database handle.
func (r *ImportRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ImportRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateImport persists a new import record and returns its id.
func (r *ImportRepository) CreateImport(ctx context.Context, imp *core.Import) (string, error) {
	if err := core.ValidateImport(imp); err != nil {
		return "", err
	}

	if imp.CreatedAt.IsZero() {
		imp.CreatedAt = time.Now().UTC()
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeImportKey(imp.ID)

		// Import ids are generated, a collision means a caller bug.
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := tx.Set(key, storage.MarshalImport(imp)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return "", err
	}

	return imp.ID, nil
}

// GetImport retrieves an import by id.
func (r *ImportRepository) GetImport(ctx context.Context, id string) (*core.Import, error) {
	var result *core.Import
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeImportKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalImport(val)
			return err
		})
	}, false)
	return result, err
}

// GetImportModel returns the embedding model name recorded on an import.
func (r *ImportRepository) GetImportModel(ctx context.Context, id string) (string, error) {
	imp, err := r.GetImport(ctx, id)
	if err != nil {
		return "", err
	}
	return imp.ModelName, nil
}

// ListImports retrieves all import records, ordered by id.
func (r *ImportRepository) ListImports(ctx context.Context) ([]*core.Import, error) {
	var results []*core.Import
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeImportScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				imp, err := storage.UnmarshalImport(val)
				if err != nil {
					return err
				}
				results = append(results, imp)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}
