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

import "errors"

// Domain validation errors
var (
	// ErrInvalidImport indicates an Import failed validation.
	ErrInvalidImport = errors.New("invalid import")

	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyImportID indicates the ImportID field is empty.
	ErrEmptyImportID = errors.New("import id cannot be empty")

	// ErrEmptyModelName indicates the ModelName field is empty.
	ErrEmptyModelName = errors.New("model name cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNegativeOrdinal indicates a chunk ordinal is negative.
	ErrNegativeOrdinal = errors.New("chunk ordinal cannot be negative")
)
