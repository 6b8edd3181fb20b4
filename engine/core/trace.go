package core

import (
	"sync"
	"time"
)

// StepStatus classifies a trace step outcome.
type StepStatus string

const (
	StepOK       StepStatus = "ok"
	StepFailed   StepStatus = "failed"
	StepDegraded StepStatus = "degraded"
)

// StepRecord is one entry in a request trace.
type StepRecord struct {
	StepName   string     `json:"step_name"`
	StartedAt  time.Time  `json:"started_at"`
	DurationMS int64      `json:"duration_ms"`
	Status     StepStatus `json:"status"`
	Detail     string     `json:"detail,omitempty"`
}

// Trace is the ordered, append-only record of one request's phases. A single
// request owns it, but retrieval branches and compound-question branches
// append from concurrent goroutines, so writes are guarded.
type Trace struct {
	mu        sync.Mutex
	RequestID string       `json:"request_id"`
	Steps     []StepRecord `json:"steps"`
}

func NewTrace(requestID string) *Trace {
	return &Trace{RequestID: requestID}
}

// Append records a completed step. Safe for concurrent use.
func (t *Trace) Append(name string, startedAt time.Time, status StepStatus, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Steps = append(t.Steps, StepRecord{
		StepName:   name,
		StartedAt:  startedAt,
		DurationMS: time.Since(startedAt).Milliseconds(),
		Status:     status,
		Detail:     detail,
	})
}

// Has reports whether a step with the given name was recorded.
func (t *Trace) Has(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.Steps {
		if t.Steps[i].StepName == name {
			return true
		}
	}
	return false
}
