// Package storage keeps uploaded image bytes in one of several object
// storage backends selected by configuration.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/imagegallery/gallery/internal/infrastructure/config"
)

// ObjectStorage defines common object operations across backends.
// Get returns domain.ErrObjectNotFound for missing keys.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
	name    string
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(name string, backend ObjectStorage) *Storage {
	return &Storage{backend: backend, name: name}
}

// New builds the backend selected by cfg.Backend and makes sure its bucket
// (or directory) exists.
func New(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.Backend {
	case "", "disk":
		backend, err = NewDiskStore(cfg.UploadDir)
	case "minio":
		backend, err = NewMinioClient(cfg.MinIO)
	case "s3":
		backend, err = NewS3Client(ctx, cfg.S3)
	case "gcs":
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("storage %s: %w", cfg.Backend, err)
	}

	s := NewStorage(cfg.Backend, backend)
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("storage %s: ensure bucket: %w", cfg.Backend, err)
	}
	return s, nil
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an object from the configured bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// Backend returns the configured backend name.
func (s *Storage) Backend() string {
	return s.name
}
