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


// Package storage provides the storage abstraction layer for chatgrep.
//
// This package defines repository interfaces that decouple storage
// implementation from the ingestion and search pipelines. The persisted
// model is three related record types owned top-down: an Import owns its
// Messages, which own their Chunks. Message ids are only unique within an
// import, so all message and chunk operations key by the composite
// (import id, message id[, ordinal]).
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return interface types to enforce
// abstraction and keep alternative backends swappable:
//
//	repo, err := badger.NewImportRepository(backend)  // returns storage.ImportRepository
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Thread Safety
//
// All repository implementations must be thread-safe. Concurrent
// ingestions write disjoint import trees; concurrent queries are
// read-only and need no coordination.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
