package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

// --- Request → Service input ---

func toImageFilter(c echo.Context) ports.ImageFilter {
	return ports.ImageFilter{
		NamePattern: strings.TrimSpace(c.QueryParam("name")),
		Author:      strings.TrimSpace(c.QueryParam("author")),
	}
}

// --- Service output → Response ---

// toImageView renders a fresh upload. The author is the uploader, whose
// profile always exists.
func toImageView(r *ports.UploadResult) domain.ImageView {
	return domain.ImageView{
		ID:   r.ID,
		Name: r.Name,
		Src:  r.Src,
		Author: domain.User{
			ID:       r.AuthorID,
			Username: r.AuthorID,
		},
	}
}
