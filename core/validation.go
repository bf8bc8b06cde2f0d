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


package core

import "fmt"

// ValidateImport validates an Import according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - ModelName must not be empty
//
// NOT validated:
//   - Fingerprint (informational, zero is a legal hash value)
//   - CreatedAt (set by the repository at persistence time if zero)
func ValidateImport(imp *Import) error {
	if imp == nil {
		return fmt.Errorf("%w: import is nil", ErrInvalidImport)
	}

	if imp.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidImport, ErrEmptyImportID)
	}

	if imp.ModelName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidImport, ErrEmptyModelName)
	}

	return nil
}

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - ImportID must not be empty
//   - Text must not be empty (empty-text entries are filtered before
//     persistence, so an empty text here is a pipeline bug)
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if msg.ImportID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyImportID)
	}

	if msg.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyText)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - ImportID must not be empty
//   - Ordinal must not be negative
//   - Text must not be empty
//
// NOT validated:
//   - Embedding (populated by the batch embedder just before persistence)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.ImportID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyImportID)
	}

	if chunk.Ordinal < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeOrdinal)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	return nil
}
