package search

import (
	"log/slog"

	"github.com/chatgrep/chatgrep/core"
)

// SearchMonitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate steps during a search.
type SearchMonitor interface {
	Start(query, importID string)
	AfterQueryEmbedding(vector []float32)
	AfterModelCheck(model string)
	AfterSimilaritySearch(matches []*core.Match)
	Finish(results []Result)
}

// noopMonitor is a no-op implementation of SearchMonitor.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                     {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)       {}
func (n *noopMonitor) AfterModelCheck(_ string)              {}
func (n *noopMonitor) AfterSimilaritySearch(_ []*core.Match) {}
func (n *noopMonitor) Finish(_ []Result)                     {}

// loggingMonitor reports each pipeline stage through a slog logger.
type loggingMonitor struct {
	logger *slog.Logger
}

// NewLoggingMonitor returns a SearchMonitor that logs each stage at debug
// level. A nil logger falls back to slog.Default().
func NewLoggingMonitor(logger *slog.Logger) SearchMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingMonitor{logger: logger}
}

var _ SearchMonitor = (*loggingMonitor)(nil)

func (m *loggingMonitor) Start(query, importID string) {
	m.logger.Debug("search started", "query", query, "importID", importID)
}

func (m *loggingMonitor) AfterQueryEmbedding(vector []float32) {
	m.logger.Debug("query embedded", "dimensions", len(vector))
}

func (m *loggingMonitor) AfterModelCheck(model string) {
	m.logger.Debug("model verified", "model", model)
}

func (m *loggingMonitor) AfterSimilaritySearch(matches []*core.Match) {
	m.logger.Debug("similarity search done", "matches", len(matches))
}

func (m *loggingMonitor) Finish(results []Result) {
	m.logger.Debug("search finished", "results", len(results))
}
