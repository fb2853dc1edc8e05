// Package mock provides in-memory fakes of the AWS client interfaces for tests.
package mock

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Client is a mock implementation of aws.S3Client and s3streamer.Streamer
type S3Client struct {
	// Maps bucket/key to object content
	Files map[string][]byte
	// Maps bucket/key to content type
	ContentTypes map[string]string
	// PutErr fails every PutObject when set
	PutErr error

	mu   sync.Mutex
	puts int
}

// NewS3Client creates a new mock S3 client
func NewS3Client() *S3Client {
	return &S3Client{
		Files:        make(map[string][]byte),
		ContentTypes: make(map[string]string),
	}
}

func bucketKey(bucket, key string) string {
	return bucket + "/" + key
}

// AddFile stores content under bucket/key
func (m *S3Client) AddFile(bucket, key string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[bucketKey(bucket, key)] = content
}

// File returns the content stored under bucket/key
func (m *S3Client) File(bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[bucketKey(bucket, key)]
	return data, ok
}

// Puts returns the number of PutObject calls
func (m *S3Client) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// GetObject implements the S3Client interface for reading objects
func (m *S3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	content, ok := m.File(aws.ToString(params.Bucket), aws.ToString(params.Key))
	if !ok {
		return nil, &types.NoSuchKey{
			Message: aws.String(fmt.Sprintf("The specified key does not exist: %s", aws.ToString(params.Key))),
		}
	}

	contentLength := int64(len(content))
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(content)),
		ContentLength: &contentLength,
	}, nil
}

// PutObject implements the S3Client interface for writing objects
func (m *S3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.PutErr != nil {
		return nil, m.PutErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	k := bucketKey(aws.ToString(params.Bucket), aws.ToString(params.Key))
	m.Files[k] = data
	m.ContentTypes[k] = aws.ToString(params.ContentType)
	m.puts++

	etag := fmt.Sprintf("\"%x\"", len(data))
	return &s3.PutObjectOutput{ETag: aws.String(etag)}, nil
}

// Stream reads an object line by line, skipping the first offset bytes.
// The callback receives each line and the byte offset just past it.
func (m *S3Client) Stream(ctx context.Context, bucket, key string, offset int64, fn func([]byte, int64) error) error {
	key = strings.TrimPrefix(key, bucket+"/")
	content, ok := m.File(bucket, key)
	if !ok {
		return fmt.Errorf("mock S3: key not found: %s", bucketKey(bucket, key))
	}
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}

	scanner := bufio.NewScanner(bytes.NewReader(content[offset:]))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	pos := offset
	for scanner.Scan() {
		pos += int64(len(scanner.Bytes())) + 1
		if err := fn(scanner.Bytes(), pos); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error scanning lines: %w", err)
	}
	return nil
}
