package ports

import (
	"context"
	"io"

	"github.com/imagegallery/gallery/internal/core/domain"
)

// ObjectStore holds uploaded image bytes.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NameReserver claims a generated storage name so that no two uploads can
// share it. Reserve reports false when the name is already held.
type NameReserver interface {
	Reserve(ctx context.Context, name string) (bool, error)
}

// UploadInput is a single validated multipart file plus its metadata.
// AuthorID must come from the verified token, never from form fields.
type UploadInput struct {
	Title       string
	AuthorID    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult describes a stored upload.
type UploadResult struct {
	ID       string
	Name     string
	Src      string
	AuthorID string
	Format   domain.ImageFormat
}

// UploadService validates, stores and records uploaded images.
type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
}
