// Package ingestion turns exported chat transcripts into searchable
// imports. It parses the transcript JSON, persists messages, splits
// their text into chunks, and embeds the chunks in batches using a
// worker pool.
package ingestion
