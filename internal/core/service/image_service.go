package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

// ImageService is the image metadata provider. It joins image documents to
// their authors' profiles and applies partial updates.
type ImageService struct {
	images ports.ImageRepository
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewImageService(images ports.ImageRepository, users ports.UserRepository, log zerolog.Logger) *ImageService {
	return &ImageService{images: images, users: users, log: log}
}

// Query returns the images matching filter with their authors attached.
// Authors are resolved with one batch lookup; dangling references resolve to
// domain.UnknownUser. Result order is whatever the store returns.
func (s *ImageService) Query(ctx context.Context, filter ports.ImageFilter) ([]domain.ImageView, error) {
	images, err := s.images.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}

	views := make([]domain.ImageView, 0, len(images))
	if len(images) == 0 {
		return views, nil
	}

	authors, err := s.resolveAuthors(ctx, images)
	if err != nil {
		return nil, err
	}

	for _, img := range images {
		author, ok := authors[img.AuthorID]
		if !ok {
			author = domain.UnknownUser()
		}
		views = append(views, domain.ImageView{
			ID:     img.ID,
			Name:   img.Name,
			Src:    img.Src,
			Author: author,
		})
	}
	return views, nil
}

func (s *ImageService) resolveAuthors(ctx context.Context, images []domain.Image) (map[string]domain.User, error) {
	seen := make(map[string]struct{}, len(images))
	usernames := make([]string, 0, len(images))
	for _, img := range images {
		if _, dup := seen[img.AuthorID]; dup {
			continue
		}
		seen[img.AuthorID] = struct{}{}
		usernames = append(usernames, img.AuthorID)
	}

	users, err := s.users.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}

	byUsername := make(map[string]domain.User, len(users))
	for _, u := range users {
		byUsername[u.Username] = u
	}
	return byUsername, nil
}

// Update merges the supplied fields into the image with the given id. It
// reports false when nothing matched or nothing changed.
func (s *ImageService) Update(ctx context.Context, id string, update ports.ImageUpdate) (bool, error) {
	if update.IsEmpty() {
		return false, nil
	}

	modified, err := s.images.Update(ctx, id, update)
	if err != nil {
		return false, fmt.Errorf("update image %s: %w", id, err)
	}
	if modified {
		s.log.Info().Str("image_id", id).Msg("image updated")
	}
	return modified, nil
}

// Create records a new image and returns its identifier.
func (s *ImageService) Create(ctx context.Context, in ports.NewImageInput) (string, error) {
	id, err := s.images.Create(ctx, &domain.Image{
		Name:     in.Name,
		Src:      in.Src,
		AuthorID: in.AuthorID,
	})
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}

	s.log.Info().Str("image_id", id).Str("author", in.AuthorID).Msg("image created")
	return id, nil
}
