// Package mock provides test double implementations of the ai interfaces.
//
// The mocks allow tests to run without an external embedding service and
// enable controlled, deterministic behavior:
//
//   - MockEmbedder: returns deterministic, mode-aware vectors derived from
//     a hash of the input text
//   - MockProvider: wraps a MockEmbedder and records whether Close was called
//
// Custom behavior can be injected through the EmbedTextsFunc field, and
// call counts checked with CallCount.
package mock
