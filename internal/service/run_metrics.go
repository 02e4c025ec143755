package service

import (
	"fmt"
	"sync"
	"time"
)

// RunMetrics tracks statistics about one prediction run
type RunMetrics struct {
	mu            sync.RWMutex
	StartTime     time.Time
	Duration      time.Duration
	HistoryRows   int
	RejectedRows  int
	TotalMatchups int
	Predicted     int
	Skipped       int
	Errors        int
}

// NewRunMetrics creates a new metrics tracker
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *RunMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.HistoryRows = 0
	m.RejectedRows = 0
	m.TotalMatchups = 0
	m.Predicted = 0
	m.Skipped = 0
	m.Errors = 0
}

// RecordHistory records the history table sizes
func (m *RunMetrics) RecordHistory(rows, rejected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryRows = rows
	m.RejectedRows = rejected
}

// RecordPrediction increments the predicted matchup count
func (m *RunMetrics) RecordPrediction() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Predicted++
}

// RecordSkip increments the skipped matchup count
func (m *RunMetrics) RecordSkip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped++
}

// RecordError increments the error count
func (m *RunMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// ErrorCount returns the current error count
func (m *RunMetrics) ErrorCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Errors
}

// String returns a formatted string representation of metrics
func (m *RunMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"RunMetrics{History=%d (%d rejected), Matchups=%d, Predicted=%d, Skipped=%d, Errors=%d, Duration=%v}",
		m.HistoryRows,
		m.RejectedRows,
		m.TotalMatchups,
		m.Predicted,
		m.Skipped,
		m.Errors,
		m.Duration,
	)
}
