package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
)

// MessageRepository implements storage.MessageRepository for BadgerDB.
type MessageRepository struct {
	backend *Backend
}

var _ storage.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(backend *Backend) storage.MessageRepository {
	return &MessageRepository{backend: backend}
}

// Close implements storage.Repository. The backend owns the database handle.
func (r *MessageRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MessageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendMessages persists messages under their import.
func (r *MessageRepository) AppendMessages(ctx context.Context, messages ...*core.Message) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, msg := range messages {
			if err := core.ValidateMessage(msg); err != nil {
				return err
			}
			key := makeMessageKey(msg.ImportID, msg.ID)
			if err := tx.Set(key, storage.MarshalMessage(msg)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetMessage retrieves one message by its composite key.
func (r *MessageRepository) GetMessage(ctx context.Context, importID string, messageID int64) (*core.Message, error) {
	var result *core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMessage(tx, importID, messageID)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetMessages retrieves all messages of an import in ascending id order.
// The BigEndian key encoding makes iteration order match source numbering.
func (r *MessageRepository) GetMessages(ctx context.Context, importID string) ([]*core.Message, error) {
	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeMessageScanPrefix(importID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				msg, err := storage.UnmarshalMessage(val)
				if err != nil {
					return err
				}
				results = append(results, msg)
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

// CountMessages returns the number of messages stored for an import.
func (r *MessageRepository) CountMessages(ctx context.Context, importID string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeMessageScanPrefix(importID)
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

// readMessage reads one message inside an open transaction.
// Returns nil without error if the message does not exist.
func readMessage(tx *badger.Txn, importID string, messageID int64) (*core.Message, error) {
	item, err := tx.Get(makeMessageKey(importID, messageID))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var msg *core.Message
	err = item.Value(func(val []byte) error {
		msg, err = storage.UnmarshalMessage(val)
		return err
	})
	return msg, err
}
