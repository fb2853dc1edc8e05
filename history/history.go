// Package history records every invocation and its outcome so a session can be
// reviewed after the fact. Stores exist for memory, local files, S3 objects and
// DynamoDB tables.
package history

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	json "github.com/goccy/go-json"
	"github.com/gurre/awsbind/aws"
)

// Entry is one recorded invocation.
// Example:
//
//	entries, err := store.List(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range entries {
//	    fmt.Printf("%s %s:%s %s\n", e.Time.Format(time.RFC3339), e.Service, e.Operation, e.ErrorKind)
//	}
type Entry struct {
	Service   string          `json:"service"`             // Service identifier
	Operation string          `json:"operation"`           // Operation name
	Time      time.Time       `json:"time"`                // When the invocation started
	Duration  time.Duration   `json:"duration"`            // Wall time of the invocation
	Request   json.RawMessage `json:"request,omitempty"`   // Translated request envelope
	Output    json.RawMessage `json:"output,omitempty"`    // Selected output
	ErrorKind string          `json:"errorKind,omitempty"` // argument|service|canceled|error
	Error     string          `json:"error,omitempty"`     // Error message
}

// NewEntry builds an Entry, encoding request and output as JSON. Values that
// cannot be encoded are left out rather than failing the record.
func NewEntry(service, operation string, start time.Time, elapsed time.Duration,
	request, output any, kind string, err error) Entry {
	e := Entry{
		Service:   service,
		Operation: operation,
		Time:      start.UTC(),
		Duration:  elapsed,
		Request:   encode(request),
		Output:    encode(output),
		ErrorKind: kind,
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

func encode(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return nil
	}
	return data
}

// Store appends and lists history entries.
// Example:
//
//	store, err := history.Open("file:///tmp/awsbind-history.jsonl", clients, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = store.Append(ctx, entry)
type Store interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// Open returns the store named by uri: "" for memory, file:// for a local
// JSON-lines file, s3:// for a JSON-lines object and ddb:// for a DynamoDB
// table partitioned by session.
func Open(uri string, clients *aws.Clients, session string) (Store, error) {
	switch {
	case uri == "":
		return NewMemoryStore(), nil
	case strings.HasPrefix(uri, "file://"):
		return NewFileStore(uri)
	case clients == nil:
		return nil, fmt.Errorf("history URI %s needs AWS clients", uri)
	case strings.HasPrefix(uri, "s3://"):
		return NewS3Store(clients.S3, uri)
	case strings.HasPrefix(uri, "ddb://"):
		return NewDynamoDBStore(clients.DynamoDB, uri, session)
	}
	return nil, fmt.Errorf("unsupported history URI: %s", uri)
}

// S3Store keeps the history as a JSON-lines object in S3. Each Append rewrites
// the object, which suits interactive sessions, not high-volume batches.
type S3Store struct {
	client aws.S3Client
	bucket string
	key    string
	mu     sync.Mutex
}

// NewS3Store creates a new S3Store instance from an S3 URI.
func NewS3Store(client aws.S3Client, uri string) (*S3Store, error) {
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

	return &S3Store{
		client: client,
		bucket: u.Host,
		key:    key,
	}, nil
}

func (s *S3Store) read(ctx context.Context) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return data, nil
}

// Append adds e to the end of the history object.
func (s *S3Store) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(ctx)
	if err != nil {
		return err
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(existing) + len(line) + 1)
	buf.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.Write(line)
	buf.WriteByte('\n')

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// List returns every entry in the history object.
func (s *S3Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeLines(bytes.NewReader(data))
}

// FileStore keeps the history as a JSON-lines file on the local filesystem.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a new FileStore instance from a file URI.
// The path must be absolute and is cleaned to prevent path traversal attacks.
func NewFileStore(uri string) (*FileStore, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid file URI: %w", err)
	}
	if u.Scheme != "file" {
		return nil, fmt.Errorf("invalid file URI scheme: %s", u.Scheme)
	}

	cleanPath := filepath.Clean(u.Path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("history path must be absolute: %s", cleanPath)
	}

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &FileStore{
		path: cleanPath,
	}, nil
}

// Append writes e as one line at the end of the file.
func (f *FileStore) Append(ctx context.Context, e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// List reads every entry from the file. A missing file is an empty history.
func (f *FileStore) List(ctx context.Context) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return decodeLines(file)
}

func decodeLines(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("failed to decode history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	return entries, nil
}
