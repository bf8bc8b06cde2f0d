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


// Package ai defines the embedding collaborator contract used by the
// ingestion and search pipelines.
//
// The package is built around two interfaces:
//
//   - Embedder: batch text embedding with document/query mode and a stable
//     model identity used for import compatibility checks
//   - Provider: lifecycle management so the embedding handle is acquired
//     and released as a unit around each operation
//
// Model differences are handled as a closed set of families behind the one
// Embedder capability: FamilyForModel is a pure mapping from model name to
// family, and FormatForMode applies the family's query/document prefixes.
// There is no per-model type hierarchy.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM) via langchaingo
//   - ai/mock: deterministic test doubles
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// interface types to enforce abstraction. Test constructors
// (mock.NewMockEmbedder) return concrete types so tests can inject
// behavior and assert call counts.
package ai
