package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `{
	"name": "Alice",
	"type": "personal_chat",
	"id": 777,
	"messages": [
		{"id": 1, "type": "message", "date": "2024-03-01T10:00:00", "from": "Alice", "from_id": "user123", "text": "Hello world. How are you?"},
		{"id": 2, "type": "service", "date": "2024-03-01T10:01:00", "text": "pinned a message"},
		{"id": 3, "type": "message", "date": "2024-03-01T10:02:00", "from": "Me", "from_id": "user777", "text": [{"type": "link", "text": "https://example.com"}]},
		{"id": 4, "type": "message", "date": "2024-03-01T10:03:00", "from": "Me", "from_id": "user777", "text": "Fine, thanks"}
	]
}`

func TestParseTranscript(t *testing.T) {
	tr, err := ParseTranscript([]byte(sampleTranscript))
	require.NoError(t, err)

	assert.Equal(t, int64(777), tr.ChatID)
	assert.Equal(t, "Alice", tr.ChatName)
	assert.Equal(t, "personal_chat", tr.ChatType)

	// The service entry and the rich-text entry are dropped.
	require.Len(t, tr.Messages, 2)

	first := tr.Messages[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Hello world. How are you?", first.Text)
	assert.Equal(t, "user123", first.SenderID)
	assert.Equal(t, "Alice", first.SenderName)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), first.Date)

	second := tr.Messages[1]
	assert.Equal(t, int64(4), second.ID)
	assert.Equal(t, "Fine, thanks", second.Text)
}

func TestParseTranscript_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing name", `{"type": "personal_chat", "id": 1, "messages": []}`},
		{"missing type", `{"name": "x", "id": 1, "messages": []}`},
		{"missing id", `{"name": "x", "type": "personal_chat", "messages": []}`},
		{"missing messages", `{"name": "x", "type": "personal_chat", "id": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTranscript([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformedTranscript)
		})
	}
}

func TestParseTranscript_InvalidJSON(t *testing.T) {
	_, err := ParseTranscript([]byte("not json"))
	assert.ErrorIs(t, err, ErrMalformedTranscript)
}

func TestParseTranscript_InvalidDate(t *testing.T) {
	data := `{
		"name": "x", "type": "personal_chat", "id": 1,
		"messages": [{"id": 1, "type": "message", "date": "yesterday", "from_id": "user1", "text": "hi"}]
	}`
	_, err := ParseTranscript([]byte(data))
	assert.ErrorIs(t, err, ErrMalformedTranscript)
}

func TestParseTranscript_EmptyMessages(t *testing.T) {
	tr, err := ParseTranscript([]byte(`{"name": "x", "type": "personal_chat", "id": 1, "messages": []}`))
	require.NoError(t, err)
	assert.Empty(t, tr.Messages)
}
