package ports

import (
	"context"

	"github.com/imagegallery/gallery/internal/core/domain"
)

// ImageFilter carries the optional query parameters for listing images.
// Empty fields are not applied.
type ImageFilter struct {
	NamePattern string // case-insensitive substring of the image name
	Author      string // exact author username
}

// ImageUpdate is a partial update; nil fields are left untouched.
type ImageUpdate struct {
	Name *string
}

// IsEmpty reports whether the update carries no fields.
func (u ImageUpdate) IsEmpty() bool {
	return u.Name == nil
}

// NewImageInput carries the fields of a freshly uploaded image.
type NewImageInput struct {
	Name     string
	Src      string
	AuthorID string
}

// ImageService is the image metadata provider.
type ImageService interface {
	Query(ctx context.Context, filter ImageFilter) ([]domain.ImageView, error)
	Update(ctx context.Context, id string, update ImageUpdate) (bool, error)
	Create(ctx context.Context, in NewImageInput) (string, error)
}
