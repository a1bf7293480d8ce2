package ports

import (
	"context"

	"github.com/imagegallery/gallery/internal/core/domain"
)

// ImageRepository defines persistence operations for image documents.
type ImageRepository interface {
	Find(ctx context.Context, filter ImageFilter) ([]domain.Image, error)
	// Update reports whether a document was matched and actually modified.
	Update(ctx context.Context, id string, update ImageUpdate) (bool, error)
	// Create inserts the image and returns the store-assigned identifier.
	Create(ctx context.Context, img *domain.Image) (string, error)
}
