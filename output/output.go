// Package output writes selected command results as JSON to standard output,
// a local file or an S3 object.
package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	json "github.com/goccy/go-json"
	"github.com/gurre/awsbind/aws"
)

// Sink receives command results. A nil value writes nothing.
// Results are only guaranteed to be stored after Close returns.
type Sink interface {
	Write(ctx context.Context, v any) error
	Close(ctx context.Context) error
}

// Open returns the sink named by uri: "" for w, file:// for a local JSON-lines
// file and s3:// for a JSON-lines object uploaded on Close.
func Open(uri string, client aws.S3Client, w io.Writer) (Sink, error) {
	switch {
	case uri == "":
		return NewWriterSink(w), nil
	case strings.HasPrefix(uri, "file://"):
		return NewFileSink(uri)
	case strings.HasPrefix(uri, "s3://"):
		if client == nil {
			return nil, fmt.Errorf("output URI %s needs an S3 client", uri)
		}
		return NewS3Sink(client, uri)
	}
	return nil, fmt.Errorf("unsupported output URI: %s", uri)
}

// WriterSink writes each result as indented JSON.
type WriterSink struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write encodes v followed by a newline.
func (s *WriterSink) Write(ctx context.Context, v any) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Close is a no-op; the writer belongs to the caller.
func (s *WriterSink) Close(ctx context.Context) error { return nil }

// FileSink writes one JSON document per line to a local file, replacing any
// previous content.
type FileSink struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewFileSink creates the file named by a file:// URI. The path must be absolute.
func NewFileSink(uri string) (*FileSink, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid file URI: %w", err)
	}
	if u.Scheme != "file" {
		return nil, fmt.Errorf("invalid file URI scheme: %s", u.Scheme)
	}
	cleanPath := filepath.Clean(u.Path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("output path must be absolute: %s", cleanPath)
	}
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &FileSink{path: cleanPath, file: f}, nil
}

// Write appends v as one line.
func (s *FileSink) Write(ctx context.Context, v any) error {
	if v == nil {
		return nil
	}
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// Close closes the file.
func (s *FileSink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", s.path, err)
	}
	return nil
}

// S3Sink collects results in memory and uploads them as a single JSON-lines
// object on Close.
type S3Sink struct {
	client aws.S3Client
	bucket string
	key    string

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewS3Sink creates a sink for the object named by an s3://bucket/key URI.
func NewS3Sink(client aws.S3Client, uri string) (*S3Sink, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid S3 URI: %w", err)
	}
	if u.Scheme != "s3" {
		return nil, fmt.Errorf("invalid S3 URI scheme: %s", u.Scheme)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("S3 URI must name a bucket and key: %s", uri)
	}
	return &S3Sink{client: client, bucket: u.Host, key: key}, nil
}

// Write buffers v as one line.
func (s *S3Sink) Write(ctx context.Context, v any) error {
	if v == nil {
		return nil
	}
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Write(line)
	s.buf.WriteByte('\n')
	return nil
}

// Close uploads the buffered results.
func (s *S3Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(s.buf.Bytes()),
		ContentType: awssdk.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload output to s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
