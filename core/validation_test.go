package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateImport(t *testing.T) {
	tests := []struct {
		name    string
		imp     *Import
		wantErr error
	}{
		{
			name: "valid import",
			imp: &Import{
				ID:        NewImportID(),
				ChatID:    42,
				ChatName:  "Alice",
				ModelName: "embeddinggemma",
				CreatedAt: time.Now().UTC(),
			},
			wantErr: nil,
		},
		{
			name:    "nil import",
			imp:     nil,
			wantErr: ErrInvalidImport,
		},
		{
			name: "missing id",
			imp: &Import{
				ModelName: "embeddinggemma",
			},
			wantErr: ErrEmptyImportID,
		},
		{
			name: "missing model name",
			imp: &Import{
				ID: NewImportID(),
			},
			wantErr: ErrEmptyModelName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImport(tt.imp)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateImport() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateImport() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		wantErr error
	}{
		{
			name: "valid message",
			msg: &Message{
				ID:        7,
				ImportID:  NewImportID(),
				Text:      "hello there",
				Timestamp: time.Now().UTC(),
				SenderID:  "user42",
			},
			wantErr: nil,
		},
		{
			name:    "nil message",
			msg:     nil,
			wantErr: ErrInvalidMessage,
		},
		{
			name: "missing import id",
			msg: &Message{
				ID:   7,
				Text: "hello",
			},
			wantErr: ErrEmptyImportID,
		},
		{
			name: "empty text",
			msg: &Message{
				ID:       7,
				ImportID: NewImportID(),
			},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMessage() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				ImportID:  NewImportID(),
				MessageID: 7,
				Ordinal:   0,
				Text:      "hello there",
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "negative ordinal",
			chunk: &Chunk{
				ImportID:  NewImportID(),
				MessageID: 7,
				Ordinal:   -1,
				Text:      "hello",
			},
			wantErr: ErrNegativeOrdinal,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				ImportID:  NewImportID(),
				MessageID: 7,
				Ordinal:   0,
			},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
