// Package metrics counts invocation outcomes and produces the summary report
// printed after a batch run.
package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Metrics collects invocation counters. Counters use atomic operations so a
// single instance can be shared by every invocation of a run.
type Metrics struct {
	mu sync.RWMutex

	invocations    int64 // Invocations started
	warnings       int64 // Binding warnings raised
	argumentErrors int64 // Local argument conflicts
	serviceErrors  int64 // Remote faults
	cancellations  int64 // Caller-aborted invocations
	errors         int64 // Other failures (preflight, selection)
	skipped        int64 // Pipeline records that could not be bound

	processingTime time.Duration // Total time spent in invocations
	startTime      time.Time     // When the run started
}

// NewMetrics creates a new Metrics instance with initialized counters
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordInvocation increments the invocation counter
func (m *Metrics) RecordInvocation() {
	atomic.AddInt64(&m.invocations, 1)
}

// RecordWarning increments the binding warning counter
func (m *Metrics) RecordWarning() {
	atomic.AddInt64(&m.warnings, 1)
}

// RecordArgumentError increments the argument error counter
func (m *Metrics) RecordArgumentError() {
	atomic.AddInt64(&m.argumentErrors, 1)
}

// RecordServiceError increments the service error counter
func (m *Metrics) RecordServiceError() {
	atomic.AddInt64(&m.serviceErrors, 1)
}

// RecordCancellation increments the cancellation counter
func (m *Metrics) RecordCancellation() {
	atomic.AddInt64(&m.cancellations, 1)
}

// RecordError increments the counter for failures outside the other classes
func (m *Metrics) RecordError() {
	atomic.AddInt64(&m.errors, 1)
}

// RecordSkipped increments the skipped record counter
func (m *Metrics) RecordSkipped() {
	atomic.AddInt64(&m.skipped, 1)
}

// RecordProcessingTime adds the duration of one invocation
func (m *Metrics) RecordProcessingTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingTime += d
}

// Report is the summary of a run.
type Report struct {
	StartTime      time.Time     `json:"startTime"`
	EndTime        time.Time     `json:"endTime"`
	Invocations    int64         `json:"invocations"`
	Succeeded      int64         `json:"succeeded"`
	Warnings       int64         `json:"warnings"`
	ArgumentErrors int64         `json:"argumentErrors"`
	ServiceErrors  int64         `json:"serviceErrors"`
	Cancellations  int64         `json:"cancellations"`
	OtherErrors    int64         `json:"otherErrors"`
	Skipped        int64         `json:"skipped"`
	Duration       time.Duration `json:"duration"`
	AverageCall    time.Duration `json:"averageCall"`
}

// GenerateReport snapshots the counters into a Report.
func (m *Metrics) GenerateReport() Report {
	endTime := time.Now()

	m.mu.RLock()
	processing := m.processingTime
	m.mu.RUnlock()

	r := Report{
		StartTime:      m.startTime,
		EndTime:        endTime,
		Invocations:    atomic.LoadInt64(&m.invocations),
		Warnings:       atomic.LoadInt64(&m.warnings),
		ArgumentErrors: atomic.LoadInt64(&m.argumentErrors),
		ServiceErrors:  atomic.LoadInt64(&m.serviceErrors),
		Cancellations:  atomic.LoadInt64(&m.cancellations),
		OtherErrors:    atomic.LoadInt64(&m.errors),
		Skipped:        atomic.LoadInt64(&m.skipped),
		Duration:       endTime.Sub(m.startTime),
	}
	r.Succeeded = r.Invocations - r.ArgumentErrors - r.ServiceErrors - r.Cancellations - r.OtherErrors
	if r.Invocations > 0 {
		r.AverageCall = processing / time.Duration(r.Invocations)
	}
	return r
}

// MarshalJSON renders durations as strings.
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(&struct {
		Alias
		Duration    string `json:"duration"`
		AverageCall string `json:"averageCall"`
	}{
		Alias:       Alias(r),
		Duration:    r.Duration.String(),
		AverageCall: r.AverageCall.String(),
	})
}

// String returns a human-readable summary for console output.
func (r Report) String() string {
	return fmt.Sprintf(
		"Completed %d invocations in %s\n"+
			"Succeeded: %d\n"+
			"Warnings: %d\n"+
			"Failed: %d argument, %d service, %d canceled, %d other\n"+
			"Skipped records: %d",
		r.Invocations,
		r.Duration,
		r.Succeeded,
		r.Warnings,
		r.ArgumentErrors, r.ServiceErrors, r.Cancellations, r.OtherErrors,
		r.Skipped,
	)
}
