package ingestion

import "errors"

var (
	// ErrImportRepositoryRequired is returned when an import repository is not provided.
	ErrImportRepositoryRequired = errors.New("import repository required")

	// ErrMessageRepositoryRequired is returned when a message repository is not provided.
	ErrMessageRepositoryRequired = errors.New("message repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrMalformedTranscript is returned when the transcript JSON is missing
	// required top-level fields or cannot be decoded.
	ErrMalformedTranscript = errors.New("malformed transcript")

	// ErrInvalidMaxAttempts is returned when RetryWithBackoff is called with
	// a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
)
