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

package reembed

import (
	"context"

	"github.com/chatgrep/chatgrep/core"
	"github.com/chatgrep/chatgrep/storage"
)

// DefaultIterationBatchSize is the default number of messages handed to
// the callback per batch.
const DefaultIterationBatchSize = 100

// MessageIterator walks all messages of one import in batches.
type MessageIterator struct {
	repo      storage.MessageRepository
	importID  string
	batchSize int
}

// NewMessageIterator creates an iterator over one import's messages.
// batchSize: number of messages per batch (must be > 0)
func NewMessageIterator(repo storage.MessageRepository, importID string, batchSize int) *MessageIterator {
	if batchSize <= 0 {
		batchSize = DefaultIterationBatchSize
	}

	return &MessageIterator{
		repo:      repo,
		importID:  importID,
		batchSize: batchSize,
	}
}

// ForEach iterates over the import's messages in ascending id order,
// calling fn for each batch. Iteration stops on the first error from fn.
// Context cancellation is checked between batches.
func (it *MessageIterator) ForEach(ctx context.Context, fn func([]*core.Message) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	messages, err := it.repo.GetMessages(ctx, it.importID)
	if err != nil {
		return err
	}

	for i := 0; i < len(messages); i += it.batchSize {
		end := i + it.batchSize
		if end > len(messages) {
			end = len(messages)
		}

		if err := fn(messages[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
