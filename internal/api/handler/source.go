package handler

import "github.com/imagegallery/gallery/internal/core/ports"

// ServiceSource hands out the store-backed services. It returns
// domain.ErrNotReady until the database connection is established.
type ServiceSource interface {
	Services() (*ports.Services, error)
}
