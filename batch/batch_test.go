package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/auditmanager/types"
	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/command"
	"github.com/gurre/awsbind/integration/mock"
	"github.com/gurre/awsbind/services/auditmanager"
)

const records = `{"Name":"q1","FrameworkId":"fw-1","Role":[{"RoleArn":"arn:aws:iam::111122223333:role/Auditor","RoleType":"PROCESS_OWNER"}]}
"q2"
{"Unknown":1}

{"Name":"q3","FrameworkId":"fw-1","Role":[{"RoleArn":"arn:aws:iam::111122223333:role/Auditor","RoleType":"PROCESS_OWNER"}]}
`

type mockSink struct {
	values []any
	err    error
}

func (m *mockSink) Write(ctx context.Context, v any) error {
	if m.err != nil {
		return m.err
	}
	m.values = append(m.values, v)
	return nil
}

func (m *mockSink) Close(ctx context.Context) error { return nil }

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func assessmentNames(t *testing.T, values []any) []string {
	t.Helper()
	var names []string
	for _, v := range values {
		a, ok := v.(*types.Assessment)
		if !ok {
			t.Fatalf("expected *types.Assessment, got %T", v)
		}
		names = append(names, *a.Metadata.Name)
	}
	return names
}

func TestRunnerHappyPath(t *testing.T) {
	client := mock.NewAuditManagerClient()
	env := &command.Env{Clients: &aws.Clients{AuditManager: client}}
	sink := &mockSink{}
	var progress bytes.Buffer

	runner := NewRunner(auditmanager.CreateAssessment, env, sink,
		Config{InputURI: writeInput(t, records)}, nil, &progress)

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := strings.Join(assessmentNames(t, sink.values), ","); got != "q1,q2,q3" {
		t.Errorf("unexpected outputs %s", got)
	}
	if report.Invocations != 3 || report.Succeeded != 3 {
		t.Errorf("expected 3 successful invocations, got %+v", report)
	}
	if report.Skipped != 1 {
		t.Errorf("expected 1 skipped record, got %d", report.Skipped)
	}
	// the bare "q2" record lacks FrameworkId and Role
	if report.Warnings != 2 {
		t.Errorf("expected 2 warnings, got %d", report.Warnings)
	}
	if !strings.Contains(progress.String(), "Completed 3 invocations") {
		t.Errorf("expected the report on the progress writer, got %q", progress.String())
	}
}

func TestRunnerFromLine(t *testing.T) {
	client := mock.NewAuditManagerClient()
	env := &command.Env{Clients: &aws.Clients{AuditManager: client}}
	sink := &mockSink{}

	runner := NewRunner(auditmanager.CreateAssessment, env, sink,
		Config{InputURI: "file://" + writeInput(t, records), FromLine: 3}, nil, nil)

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := strings.Join(assessmentNames(t, sink.values), ","); got != "q3" {
		t.Errorf("unexpected outputs %s", got)
	}
	if report.Invocations != 1 || report.Skipped != 1 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestRunnerStopsOnFailure(t *testing.T) {
	client := mock.NewAuditManagerClient()
	client.Err = &types.ValidationException{Message: stringPtr("bad framework")}
	env := &command.Env{Clients: &aws.Clients{AuditManager: client}}

	runner := NewRunner(auditmanager.CreateAssessment, env, &mockSink{},
		Config{InputURI: writeInput(t, records)}, nil, nil)

	report, err := runner.Run(context.Background())
	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected *LineError, got %v", err)
	}
	if lineErr.Line != 1 {
		t.Errorf("expected failure on line 1, got %d", lineErr.Line)
	}
	var svcErr *command.ServiceError
	if !errors.As(err, &svcErr) {
		t.Errorf("expected the service error to be wrapped, got %v", err)
	}
	if len(client.Calls()) != 1 || report.ServiceErrors != 1 {
		t.Errorf("expected a single failed call, got %d calls and %+v", len(client.Calls()), report)
	}
}

func TestRunnerContinueOnError(t *testing.T) {
	client := mock.NewAuditManagerClient()
	client.Err = &types.ValidationException{Message: stringPtr("bad framework")}
	env := &command.Env{Clients: &aws.Clients{AuditManager: client}}
	sink := &mockSink{}

	runner := NewRunner(auditmanager.CreateAssessment, env, sink,
		Config{InputURI: writeInput(t, records), ContinueOnError: true}, nil, nil)

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.ServiceErrors != 3 || len(sink.values) != 0 {
		t.Errorf("expected 3 service errors and no output, got %+v", report)
	}
}

func TestRunnerArgumentErrorStops(t *testing.T) {
	client := mock.NewAuditManagerClient()
	env := &command.Env{Clients: &aws.Clients{AuditManager: client}}

	opts := command.Options{Select: "^Name", PassThru: true}
	runner := NewRunner(auditmanager.CreateAssessment, env, &mockSink{},
		Config{InputURI: writeInput(t, records), Options: opts, ContinueOnError: true}, nil, nil)

	_, err := runner.Run(context.Background())
	var argErr *command.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected *ArgumentError, got %v", err)
	}
	if len(client.Calls()) != 0 {
		t.Errorf("expected no calls, got %v", client.Calls())
	}
}

func TestRunnerS3Input(t *testing.T) {
	s3 := mock.NewS3Client()
	s3.AddFile("input-bucket", "records/assess.jsonl", []byte(records))
	client := mock.NewAuditManagerClient()
	env := &command.Env{Clients: &aws.Clients{AuditManager: client, S3: s3, Streamer: s3}}
	sink := &mockSink{}

	cfg := Config{
		InputURI:  "s3://input-bucket/records/assess.jsonl",
		ReportURI: "s3://report-bucket/run/report.json",
		Options:   command.Options{Select: "^Name"},
	}
	var progress bytes.Buffer
	runner := NewRunner(auditmanager.CreateAssessment, env, sink, cfg, &SinkUploader{S3: s3}, &progress)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(sink.values) != 3 || sink.values[1] != "q2" {
		t.Errorf("expected selected names, got %v", sink.values)
	}

	data, ok := s3.File("report-bucket", "run/report.json")
	if !ok {
		t.Fatal("expected the report to be uploaded")
	}
	if !strings.Contains(string(data), `"invocations":3`) {
		t.Errorf("unexpected report %s", data)
	}
	if !strings.Contains(progress.String(), "Report uploaded to s3://report-bucket/run/report.json") {
		t.Errorf("expected an upload notice, got %q", progress.String())
	}
}

func TestRunnerInputErrors(t *testing.T) {
	env := &command.Env{Clients: &aws.Clients{AuditManager: mock.NewAuditManagerClient()}}

	tests := []string{
		filepath.Join(t.TempDir(), "missing.jsonl"),
		"s3://bucket-only",
		"s3://bucket/key-without-streamer",
		"https://example.com/records",
	}
	for _, uri := range tests {
		t.Run(uri, func(t *testing.T) {
			runner := NewRunner(auditmanager.CreateAssessment, env, &mockSink{}, Config{InputURI: uri}, nil, nil)
			if _, err := runner.Run(context.Background()); err == nil {
				t.Errorf("expected error for %s", uri)
			}
		})
	}
}

func TestRunnerCancelled(t *testing.T) {
	client := mock.NewAuditManagerClient()
	env := &command.Env{Clients: &aws.Clients{AuditManager: client}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(auditmanager.CreateAssessment, env, &mockSink{},
		Config{InputURI: writeInput(t, records)}, nil, nil)
	_, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.Calls()) != 0 {
		t.Errorf("expected no calls, got %v", client.Calls())
	}
}

func stringPtr(s string) *string { return &s }
