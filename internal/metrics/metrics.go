package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	TermsProcessed     int64
	ArticlesAccepted   int64
	BlocklistDrops     int64
	FeedErrors         int64
	ScoredMatches      int64
	DirectMatches      int64
	EnrichmentFailures int64
	EmailsSent         int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementTermsProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TermsProcessed++
}

func (m *Metrics) IncrementArticlesAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesAccepted++
}

func (m *Metrics) IncrementBlocklistDrops() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BlocklistDrops++
}

func (m *Metrics) IncrementFeedErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedErrors++
}

func (m *Metrics) IncrementScoredMatches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoredMatches++
}

func (m *Metrics) IncrementDirectMatches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DirectMatches++
}

func (m *Metrics) IncrementEnrichmentFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnrichmentFailures++
}

func (m *Metrics) IncrementEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"terms_processed":            m.TermsProcessed,
		"articles_accepted":          m.ArticlesAccepted,
		"blocklist_drops":            m.BlocklistDrops,
		"feed_errors":                m.FeedErrors,
		"scored_matches":             m.ScoredMatches,
		"direct_source_matches":      m.DirectMatches,
		"enrichment_failures":        m.EnrichmentFailures,
		"emails_sent":                m.EmailsSent,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
