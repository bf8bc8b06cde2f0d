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

// Package search runs semantic queries against ingested imports.
//
// The Searcher embeds the query text in query mode, verifies the query
// model matches the model the import was built with, and delegates to the
// chunk store's similarity search. Results are paginated and returned in
// a caller-facing shape with RFC3339 timestamps.
//
// The public Search methods fail soft: any error along the way is logged
// and collapsed into an empty result list, so a degraded search never
// surfaces as a crash to the caller.
package search
