package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted domain types. Timestamps
// are stored as Unix microseconds, so round-tripped times carry microsecond
// precision.

var float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)

// FingerprintMUS serializes Fingerprint values.
var FingerprintMUS = fingerprintMUS{}

type fingerprintMUS struct{}

var _ mus.Serializer[Fingerprint] = fingerprintMUS{}

func (s fingerprintMUS) Marshal(v Fingerprint, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s fingerprintMUS) Unmarshal(bs []byte) (v Fingerprint, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return Fingerprint(u), n, err
}

func (s fingerprintMUS) Size(v Fingerprint) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s fingerprintMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// timeMicroMUS serializes time.Time as Unix microseconds.
type timeMicroMUS struct{}

var _ mus.Serializer[time.Time] = timeMicroMUS{}

func (s timeMicroMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMicroMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func (s timeMicroMUS) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func (s timeMicroMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var timeMUS = timeMicroMUS{}

// ImportMUS serializes Import records.
var ImportMUS = importMUS{}

type importMUS struct{}

var _ mus.Serializer[Import] = importMUS{}

func (s importMUS) Marshal(v Import, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += varint.Int64.Marshal(v.ChatID, bs[n:])
	n += ord.String.Marshal(v.ChatName, bs[n:])
	n += ord.String.Marshal(v.SourceType, bs[n:])
	n += ord.String.Marshal(v.ModelName, bs[n:])
	n += FingerprintMUS.Marshal(v.Fingerprint, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return
}

func (s importMUS) Unmarshal(bs []byte) (v Import, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.ChatID, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ChatName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SourceType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ModelName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Fingerprint, n1, err = FingerprintMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s importMUS) Size(v Import) (size int) {
	size = ord.String.Size(v.ID)
	size += varint.Int64.Size(v.ChatID)
	size += ord.String.Size(v.ChatName)
	size += ord.String.Size(v.SourceType)
	size += ord.String.Size(v.ModelName)
	size += FingerprintMUS.Size(v.Fingerprint)
	size += timeMUS.Size(v.CreatedAt)
	return
}

func (s importMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// MessageMUS serializes Message records.
var MessageMUS = messageMUS{}

type messageMUS struct{}

var _ mus.Serializer[Message] = messageMUS{}

func (s messageMUS) Marshal(v Message, bs []byte) (n int) {
	n = varint.Int64.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.ImportID, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += timeMUS.Marshal(v.Timestamp, bs[n:])
	n += ord.String.Marshal(v.SenderID, bs[n:])
	n += ord.String.Marshal(v.SenderName, bs[n:])
	n += ord.Bool.Marshal(v.IsSelf, bs[n:])
	return
}

func (s messageMUS) Unmarshal(bs []byte) (v Message, n int, err error) {
	var n1 int
	if v.ID, n, err = varint.Int64.Unmarshal(bs); err != nil {
		return
	}
	if v.ImportID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Timestamp, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SenderID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SenderName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.IsSelf, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s messageMUS) Size(v Message) (size int) {
	size = varint.Int64.Size(v.ID)
	size += ord.String.Size(v.ImportID)
	size += ord.String.Size(v.Text)
	size += timeMUS.Size(v.Timestamp)
	size += ord.String.Size(v.SenderID)
	size += ord.String.Size(v.SenderName)
	size += ord.Bool.Size(v.IsSelf)
	return
}

func (s messageMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// ChunkMUS serializes Chunk records, including the embedding vector.
var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

var _ mus.Serializer[Chunk] = chunkMUS{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.ImportID, bs)
	n += varint.Int64.Marshal(v.MessageID, bs[n:])
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += float32SliceMUS.Marshal(v.Embedding, bs[n:])
	return
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	if v.ImportID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.MessageID, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Embedding, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.ImportID)
	size += varint.Int64.Size(v.MessageID)
	size += varint.Int.Size(v.Ordinal)
	size += ord.String.Size(v.Text)
	size += float32SliceMUS.Size(v.Embedding)
	return
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
