package badger

import "encoding/binary"

// Key prefixes for different record types. Import ids are fixed-length
// UUID strings, so string concatenation with ":" separators stays
// unambiguous; message ids and ordinals are encoded BigEndian so
// lexicographic key order matches numeric source order.
const (
	importRecordPrefix  = "imprec"
	messageRecordPrefix = "msgrec"
	chunkRecordPrefix   = "chkrec"
)

// makeImportKey generates a key for an import record by id.
func makeImportKey(id string) []byte {
	return []byte(importRecordPrefix + ":" + id)
}

// makeImportScanPrefix generates the prefix covering all import records.
func makeImportScanPrefix() []byte {
	return []byte(importRecordPrefix + ":")
}

// makeMessageKey generates a composite key for a message record.
// Format: prefix:importID:messageID
func makeMessageKey(importID string, messageID int64) []byte {
	prefix := messageRecordPrefix + ":" + importID + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(messageID))
	return buf
}

// makeMessageScanPrefix generates the prefix covering one import's messages.
func makeMessageScanPrefix(importID string) []byte {
	return []byte(messageRecordPrefix + ":" + importID + ":")
}

// makeChunkKey generates a composite key for a chunk record.
// Format: prefix:importID:messageID:ordinal
func makeChunkKey(importID string, messageID int64, ordinal int) []byte {
	prefix := chunkRecordPrefix + ":" + importID + ":"
	buf := make([]byte, len(prefix)+12)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(messageID))
	offset += 8
	binary.BigEndian.PutUint32(buf[offset:], uint32(ordinal))
	return buf
}

// makeChunkScanPrefix generates the prefix covering one import's chunks.
func makeChunkScanPrefix(importID string) []byte {
	return []byte(chunkRecordPrefix + ":" + importID + ":")
}
