package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gurre/awsbind/aws"
	"github.com/gurre/awsbind/integration/mock"
)

type assessment struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)
	ctx := context.Background()

	if err := sink.Write(ctx, nil); err != nil {
		t.Fatalf("Write(nil) failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nil to write nothing, got %q", buf.String())
	}

	if err := sink.Write(ctx, assessment{Id: "a-0001", Status: "ACTIVE"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "{\n  \"id\": \"a-0001\",\n  \"status\": \"ACTIVE\"\n}\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	if err := sink.Write(ctx, make(chan int)); err == nil {
		t.Error("expected encode failure")
	}
	if err := sink.Close(ctx); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.jsonl")
	sink, err := NewFileSink("file://" + path)
	if err != nil {
		t.Fatalf("failed to create file sink: %v", err)
	}
	ctx := context.Background()

	for _, id := range []string{"a-0001", "a-0002"} {
		if err := sink.Write(ctx, assessment{Id: id}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := sink.Write(ctx, nil); err != nil {
		t.Fatalf("Write(nil) failed: %v", err)
	}
	if err := sink.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[1] != `{"id":"a-0002","status":""}` {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestS3Sink(t *testing.T) {
	client := mock.NewS3Client()
	sink, err := Open("s3://results-bucket/run/output.jsonl", client, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx := context.Background()

	if err := sink.Write(ctx, "widget-1"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Write(ctx, assessment{Id: "a-0001"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if client.Puts() != 0 {
		t.Error("expected no upload before Close")
	}
	if err := sink.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, ok := client.File("results-bucket", "run/output.jsonl")
	if !ok {
		t.Fatal("expected the object to be uploaded")
	}
	want := "\"widget-1\"\n{\"id\":\"a-0001\",\"status\":\"\"}\n"
	if string(data) != want {
		t.Errorf("unexpected object content %q", data)
	}
	if ct := client.ContentTypes["results-bucket/run/output.jsonl"]; ct != "application/x-ndjson" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestS3SinkUploadFailure(t *testing.T) {
	client := mock.NewS3Client()
	client.PutErr = errors.New("access denied")
	sink, err := NewS3Sink(client, "s3://results-bucket/out.jsonl")
	if err != nil {
		t.Fatalf("failed to create S3 sink: %v", err)
	}
	if err := sink.Close(context.Background()); err == nil {
		t.Error("expected upload failure")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		uri     string
		client  bool
		wantErr bool
	}{
		{uri: ""},
		{uri: "file://" + filepath.Join(t.TempDir(), "o.jsonl")},
		{uri: "s3://bucket/key", client: true},
		{uri: "s3://bucket/key", wantErr: true},
		{uri: "s3://bucket", client: true, wantErr: true},
		{uri: "ftp://host/file", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			var client aws.S3Client
			if tt.client {
				client = mock.NewS3Client()
			}
			_, err := Open(tt.uri, client, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Errorf("Open(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
		})
	}
}
