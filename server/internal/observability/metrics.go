package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects per-operation request counters.
type Metrics struct {
	mu sync.Mutex

	requestTotal    atomic.Int64
	requestFailed   atomic.Int64
	requestFallback atomic.Int64

	operations map[string]*OperationMetrics

	// Latency window, oldest first.
	durations    []time.Duration
	maxDurations int
}

// OperationMetrics holds counters for one API operation.
type OperationMetrics struct {
	count         atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
	fallbackCount atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		operations:   make(map[string]*OperationMetrics),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// RecordRequest records a completed request.
func (m *Metrics) RecordRequest(operation string, duration time.Duration) {
	m.requestTotal.Add(1)
	om := m.operation(operation)
	om.count.Add(1)
	om.totalDuration.Add(duration.Milliseconds())

	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()
}

// RecordFailure records a request rejected with an error.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.operation(operation).errorCount.Add(1)
}

// RecordFallback records a request answered with a fallback value.
func (m *Metrics) RecordFallback(operation string) {
	m.requestFallback.Add(1)
	m.operation(operation).fallbackCount.Add(1)
}

func (m *Metrics) operation(name string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.operations[name]
	if !ok {
		om = &OperationMetrics{}
		m.operations[name] = om
	}
	return om
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.requestFallback.Store(0)

	m.mu.Lock()
	m.operations = make(map[string]*OperationMetrics)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := make(map[string]*OperationSnapshot, len(m.operations))
	for name, om := range m.operations {
		count := om.count.Load()
		var avg int64
		if count > 0 {
			avg = om.totalDuration.Load() / count
		}
		ops[name] = &OperationSnapshot{
			Count:         count,
			ErrorCount:    om.errorCount.Load(),
			FallbackCount: om.fallbackCount.Load(),
			AvgLatencyMs:  avg,
		}
	}

	return &MetricsSnapshot{
		RequestTotal:    m.requestTotal.Load(),
		RequestFailed:   m.requestFailed.Load(),
		RequestFallback: m.requestFallback.Load(),
		P50LatencyMs:    percentile(m.durations, 0.50).Milliseconds(),
		P95LatencyMs:    percentile(m.durations, 0.95).Milliseconds(),
		Operations:      ops,
	}
}

func percentile(ds []time.Duration, q float64) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), ds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal    int64                         `json:"request_total"`
	RequestFailed   int64                         `json:"request_failed"`
	RequestFallback int64                         `json:"request_fallback"`
	P50LatencyMs    int64                         `json:"p50_latency_ms"`
	P95LatencyMs    int64                         `json:"p95_latency_ms"`
	Operations      map[string]*OperationSnapshot `json:"operations"`
}

// OperationSnapshot represents metrics for a specific operation.
type OperationSnapshot struct {
	Count         int64 `json:"count"`
	ErrorCount    int64 `json:"error_count"`
	FallbackCount int64 `json:"fallback_count"`
	AvgLatencyMs  int64 `json:"avg_latency_ms"`
}
