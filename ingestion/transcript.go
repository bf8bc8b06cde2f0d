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
	"encoding/json"
	"fmt"
	"time"
)

// transcriptDateLayout is the timestamp format used by chat export files.
const transcriptDateLayout = "2006-01-02T15:04:05"

// Transcript is a parsed chat export. Messages holds only the entries that
// are regular messages with plain string text, in file order; service
// entries and rich-text entries are dropped during parsing.
type Transcript struct {
	ChatID   int64
	ChatName string
	ChatType string
	Messages []TranscriptMessage
}

// TranscriptMessage is a single plain-text message from a chat export.
type TranscriptMessage struct {
	ID         int64
	Text       string
	Date       time.Time
	SenderID   string
	SenderName string
}

type rawTranscript struct {
	Name     *string       `json:"name"`
	Type     *string       `json:"type"`
	ID       *int64        `json:"id"`
	Messages *[]rawMessage `json:"messages"`
}

type rawMessage struct {
	ID     int64           `json:"id"`
	Type   string          `json:"type"`
	Date   string          `json:"date"`
	From   string          `json:"from"`
	FromID string          `json:"from_id"`
	Text   json.RawMessage `json:"text"`
}

// ParseTranscript decodes a chat export file. It fails with
// ErrMalformedTranscript when the JSON cannot be decoded, a required
// top-level field (name, type, id, messages) is absent, or a message
// carries an unparseable date.
func ParseTranscript(data []byte) (*Transcript, error) {
	var raw rawTranscript
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTranscript, err)
	}

	switch {
	case raw.Name == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedTranscript, "name")
	case raw.Type == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedTranscript, "type")
	case raw.ID == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedTranscript, "id")
	case raw.Messages == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedTranscript, "messages")
	}

	transcript := &Transcript{
		ChatID:   *raw.ID,
		ChatName: *raw.Name,
		ChatType: *raw.Type,
	}

	for _, entry := range *raw.Messages {
		if entry.Type != "message" {
			continue
		}

		// Rich text (formatting entities, links) arrives as a JSON array
		// instead of a plain string. Only plain strings are searchable.
		var text string
		if err := json.Unmarshal(entry.Text, &text); err != nil {
			continue
		}

		date, err := time.Parse(transcriptDateLayout, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: message %d has invalid date %q", ErrMalformedTranscript, entry.ID, entry.Date)
		}

		transcript.Messages = append(transcript.Messages, TranscriptMessage{
			ID:         entry.ID,
			Text:       text,
			Date:       date,
			SenderID:   entry.FromID,
			SenderName: entry.From,
		})
	}

	return transcript, nil
}
