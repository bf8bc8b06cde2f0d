// Package reembed rebuilds an existing import under a different embedding
// model. The source import is never touched: its messages are copied into
// a brand-new import, re-chunked, and re-embedded with the current model.
//
// This package supports batch processing, progress tracking, retry logic
// with exponential backoff, and vector normalization.
package reembed
