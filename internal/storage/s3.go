package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage implements Storage for S3-compatible object stores.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	prefix  string
	tempDir string
}

// S3Config holds configuration for S3 storage.
type S3Config struct {
	Endpoint        string // for S3-compatible services like MinIO, B2, etc.
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	ForcePathStyle  bool // required for MinIO and some S3-compatible services
	TempDir         string
}

// NewS3Storage creates a new S3 storage instance.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			)),
			awsconfig.WithRegion(cfg.Region),
		)
	} else {
		// Environment / IAM-role credentials.
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		tempDir: cfg.TempDir,
	}, nil
}

func (s *S3Storage) buildKey(key string) string {
	if s.prefix == "" {
		return key
	}
	prefix := s.prefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + key
}

// Writer buffers to a temp file and uploads on Close.
func (s *S3Storage) Writer(key string) (io.WriteCloser, error) {
	tempFile, err := os.CreateTemp(s.tempDir, "promptvault-s3-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &s3Writer{
		storage:  s,
		key:      s.buildKey(key),
		tempFile: tempFile,
		tempPath: tempFile.Name(),
	}, nil
}

func (s *S3Storage) Reader(key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.buildKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return result.Body, nil
}

func (s *S3Storage) Exists(key string) (bool, error) {
	_, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.buildKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if object exists: %w", err)
	}
	return true, nil
}

func (s *S3Storage) Delete(key string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.buildKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// s3Writer implements io.WriteCloser for S3 uploads.
type s3Writer struct {
	storage  *S3Storage
	key      string
	tempFile *os.File
	tempPath string
	closed   bool
	mu       sync.Mutex
}

func (w *s3Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, fmt.Errorf("cannot write to closed writer")
	}
	return w.tempFile.Write(p)
}

func (w *s3Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	defer os.Remove(w.tempPath)

	if err := w.tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	file, err := os.Open(w.tempPath)
	if err != nil {
		return fmt.Errorf("failed to reopen temp file: %w", err)
	}
	defer file.Close()

	_, err = w.storage.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(w.storage.bucket),
		Key:    aws.String(w.key),
		Body:   file, // stream directly from disk
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}
	return nil
}
