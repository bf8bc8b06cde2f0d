package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// Fingerprint is a 64-bit content hash of a raw transcript file.
// It is recorded on an Import for external deduplication and cleanup
// tooling; it never participates in identity.
type Fingerprint uint64

// FingerprintFromContent computes a deterministic Fingerprint from raw
// transcript bytes using BLAKE2b hashing.
func FingerprintFromContent(data []byte) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// NewImportID generates a globally unique identifier for an Import.
// Import ids are always generated, never derived from source data, so the
// same chat can be re-imported under a different model without collision.
func NewImportID() string {
	return uuid.NewString()
}

// selfSenderPrefix is the prefix the source export uses for the chat's own
// participant identity. The derivation is a heuristic tied to the export
// format and must not change.
const selfSenderPrefix = "user"

// OwnParticipantID returns the sender identity string that marks a message
// as coming from the chat's own participant.
func OwnParticipantID(chatID int64) string {
	return selfSenderPrefix + strconv.FormatInt(chatID, 10)
}

// Import represents one ingestion job: a chat source bound to the embedding
// model used to index it. Imports are created once at the start of ingestion
// and never mutated; ModelName is the sole authority for which model a
// query must use against this import's chunks.
type Import struct {
	ID          string
	ChatID      int64
	ChatName    string
	SourceType  string
	ModelName   string
	Fingerprint Fingerprint
	CreatedAt   time.Time
}

// Message represents one transcript entry. Message ids come from the source
// transcript and are unique only within their import; always key by the
// composite (ImportID, ID).
type Message struct {
	ID         int64
	ImportID   string
	Text       string
	Timestamp  time.Time
	SenderID   string
	SenderName string
	IsSelf     bool
}

// Chunk is an embedded fragment of one message's text, the unit of
// similarity search. The tuple (ImportID, MessageID, Ordinal) is unique.
type Chunk struct {
	ImportID  string
	MessageID int64
	Ordinal   int
	Text      string
	Embedding []float32
}

// Match represents one similarity-search row: a chunk whose embedding
// cleared the threshold, joined back to its parent message. A message can
// match through any of its chunks, so one message may appear in multiple
// matches.
type Match struct {
	Message    *Message
	Ordinal    int
	ChunkText  string
	Similarity float32
}
