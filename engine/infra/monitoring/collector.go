package monitoring

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Snapshot is a point-in-time view of the collector's counters.
type Snapshot struct {
	TotalRequests      int64   `json:"total_requests"`
	SuccessfulRequests int64   `json:"successful_requests"`
	FailedRequests     int64   `json:"failed_requests"`
	ToolCalls          int64   `json:"tool_calls"`
	RetrievalCalls     int64   `json:"retrieval_calls"`
	AvgResponseTimeMS  float64 `json:"average_response_time_ms"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
}

// Collector tracks agent operation counts. It is injected into the
// orchestrator rather than living as process-global state so the core stays
// testable in isolation. All methods are safe for concurrent use.
type Collector struct {
	mu            sync.Mutex
	startedAt     time.Time
	total         int64
	successful    int64
	failed        int64
	toolCalls     int64
	retrievals    int64
	responseTimes []float64

	requestCounter   metric.Int64Counter
	toolCounter      metric.Int64Counter
	retrievalCounter metric.Int64Counter
	latencyHist      metric.Float64Histogram
}

// movingWindow bounds the response-time average to the most recent requests.
const movingWindow = 100

func NewCollector() *Collector {
	c := &Collector{startedAt: time.Now()}
	meter := otel.Meter("geoassist.agent")
	c.requestCounter, _ = meter.Int64Counter("geoassist_requests_total")
	c.toolCounter, _ = meter.Int64Counter("geoassist_tool_calls_total")
	c.retrievalCounter, _ = meter.Int64Counter("geoassist_retrieval_calls_total")
	c.latencyHist, _ = meter.Float64Histogram("geoassist_request_duration_seconds")
	return c
}

func (c *Collector) IncrementRequests(ctx context.Context) {
	c.mu.Lock()
	c.total++
	c.mu.Unlock()
	if c.requestCounter != nil {
		c.requestCounter.Add(ctx, 1)
	}
}

func (c *Collector) IncrementToolCalls(ctx context.Context) {
	c.mu.Lock()
	c.toolCalls++
	c.mu.Unlock()
	if c.toolCounter != nil {
		c.toolCounter.Add(ctx, 1)
	}
}

func (c *Collector) IncrementRetrievalCalls(ctx context.Context) {
	c.mu.Lock()
	c.retrievals++
	c.mu.Unlock()
	if c.retrievalCounter != nil {
		c.retrievalCounter.Add(ctx, 1)
	}
}

func (c *Collector) IncrementSuccessful() {
	c.mu.Lock()
	c.successful++
	c.mu.Unlock()
}

func (c *Collector) IncrementFailed() {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

func (c *Collector) RecordResponseTime(ctx context.Context, d time.Duration) {
	c.mu.Lock()
	c.responseTimes = append(c.responseTimes, float64(d.Milliseconds()))
	if len(c.responseTimes) > movingWindow {
		c.responseTimes = c.responseTimes[len(c.responseTimes)-movingWindow:]
	}
	c.mu.Unlock()
	if c.latencyHist != nil {
		c.latencyHist.Record(ctx, d.Seconds())
	}
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	avg := 0.0
	if len(c.responseTimes) > 0 {
		sum := 0.0
		for _, t := range c.responseTimes {
			sum += t
		}
		avg = sum / float64(len(c.responseTimes))
	}
	return Snapshot{
		TotalRequests:      c.total,
		SuccessfulRequests: c.successful,
		FailedRequests:     c.failed,
		ToolCalls:          c.toolCalls,
		RetrievalCalls:     c.retrievals,
		AvgResponseTimeMS:  avg,
		UptimeSeconds:      time.Since(c.startedAt).Seconds(),
	}
}

// Reset clears all counters. Used by tests.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total, c.successful, c.failed, c.toolCalls, c.retrievals = 0, 0, 0, 0, 0
	c.responseTimes = nil
	c.startedAt = time.Now()
}
