package metrics

import (
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestMetricsHappyPath(t *testing.T) {
	m := NewMetrics()

	// Record some metrics
	for i := 0; i < 5; i++ {
		m.RecordInvocation()
	}
	m.RecordWarning()
	m.RecordWarning()
	m.RecordArgumentError()
	m.RecordServiceError()
	m.RecordCancellation()
	m.RecordSkipped()
	m.RecordProcessingTime(40 * time.Millisecond)
	m.RecordProcessingTime(60 * time.Millisecond)

	// Simulate some processing time
	time.Sleep(50 * time.Millisecond)

	report := m.GenerateReport()

	if report.Invocations != 5 {
		t.Errorf("expected 5 invocations, got %d", report.Invocations)
	}
	if report.Succeeded != 2 {
		t.Errorf("expected 2 succeeded, got %d", report.Succeeded)
	}
	if report.Warnings != 2 {
		t.Errorf("expected 2 warnings, got %d", report.Warnings)
	}
	if report.Skipped != 1 {
		t.Errorf("expected 1 skipped record, got %d", report.Skipped)
	}
	if report.AverageCall != 20*time.Millisecond {
		t.Errorf("expected 20ms average call, got %v", report.AverageCall)
	}
	if report.Duration < 50*time.Millisecond {
		t.Errorf("expected duration >= 50ms, got %v", report.Duration)
	}

	str := report.String()
	if !strings.Contains(str, "Completed 5 invocations") {
		t.Errorf("unexpected string representation: %s", str)
	}
}

func TestReportJSON(t *testing.T) {
	m := NewMetrics()
	m.RecordInvocation()
	m.RecordError()

	data, err := json.Marshal(m.GenerateReport())
	if err != nil {
		t.Fatalf("failed to marshal report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal report: %v", err)
	}
	if _, ok := decoded["duration"].(string); !ok {
		t.Errorf("expected duration rendered as string, got %T", decoded["duration"])
	}
	if decoded["otherErrors"] != float64(1) {
		t.Errorf("expected otherErrors 1, got %v", decoded["otherErrors"])
	}
	if decoded["succeeded"] != float64(0) {
		t.Errorf("expected succeeded 0, got %v", decoded["succeeded"])
	}
}
