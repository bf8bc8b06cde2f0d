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

package ingestion

import (
	"regexp"
	"strings"
)

// chunkBoundary marks the characters that end a sentence-like fragment.
var chunkBoundary = regexp.MustCompile(`[.,\n]`)

// SplitText splits message text into sentence-like fragments for embedding.
// Fragments are separated by periods, commas, and newlines; each fragment is
// trimmed of surrounding whitespace and empty fragments are dropped.
//
// If splitting yields no usable fragments, the whole trimmed text is returned
// as a single fragment, so any text containing a non-whitespace character
// produces at least one fragment. Whitespace-only text produces none.
func SplitText(text string) []string {
	parts := chunkBoundary.Split(text, -1)

	fragments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			fragments = append(fragments, part)
		}
	}

	if len(fragments) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	return fragments
}
