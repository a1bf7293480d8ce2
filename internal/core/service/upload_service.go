package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

const (
	// PublicUploadPrefix is the URL path stored images are served under.
	PublicUploadPrefix = "/uploads/"

	maxNameAttempts = 3
)

var ErrNameExhausted = errors.New("could not reserve a unique file name")

// UploadService is the upload pipeline: it validates the declared type and
// size, writes the bytes under a freshly generated name and records the image.
type UploadService struct {
	store    ports.ObjectStore
	images   ports.ImageService
	reserver ports.NameReserver // optional
	maxSize  int64
	log      zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewUploadService wires the pipeline. reserver may be nil.
func NewUploadService(store ports.ObjectStore, images ports.ImageService, reserver ports.NameReserver, log zerolog.Logger) *UploadService {
	return &UploadService{
		store:    store,
		images:   images,
		reserver: reserver,
		maxSize:  domain.MaxUploadSize,
		log:      log,
		now:      time.Now,
		newID:    uuid.New,
	}
}

// Upload validates and persists a single image. Nothing is written when the
// declared type or size is rejected.
func (s *UploadService) Upload(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	if strings.TrimSpace(in.Title) == "" || in.Body == nil {
		return nil, domain.ErrMissingField
	}
	if in.AuthorID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	format, ok := domain.FormatForContentType(in.ContentType)
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}
	if in.Size > s.maxSize {
		return nil, domain.ErrFileTooLarge
	}

	name, err := s.reserveName(ctx, format)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, name, io.LimitReader(in.Body, s.maxSize), in.Size, format.ContentType()); err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	src := PublicUploadPrefix + name
	id, err := s.images.Create(ctx, ports.NewImageInput{
		Name:     in.Title,
		Src:      src,
		AuthorID: in.AuthorID,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, name); delErr != nil {
			s.log.Error().Err(delErr).Str("file", name).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	s.log.Info().
		Str("image_id", id).
		Str("file", name).
		Str("author", in.AuthorID).
		Int64("size", in.Size).
		Msg("image uploaded")

	return &ports.UploadResult{
		ID:       id,
		Name:     in.Title,
		Src:      src,
		AuthorID: in.AuthorID,
		Format:   format,
	}, nil
}

// reserveName generates a storage name and, when a reserver is configured,
// claims it. A reserver outage falls back to the generated name since its
// random component already makes collisions negligible.
func (s *UploadService) reserveName(ctx context.Context, format domain.ImageFormat) (string, error) {
	for range maxNameAttempts {
		name := StoredName(s.now(), s.newID(), format)
		if s.reserver == nil {
			return name, nil
		}

		ok, err := s.reserver.Reserve(ctx, name)
		if err != nil {
			s.log.Warn().Err(err).Str("file", name).Msg("name reservation unavailable")
			return name, nil
		}
		if ok {
			return name, nil
		}
		s.log.Debug().Str("file", name).Msg("generated name already reserved, retrying")
	}
	return "", ErrNameExhausted
}

// StoredName builds "<unix-millis>-<uuid>.<ext>". The client's file name is
// never used.
func StoredName(t time.Time, id uuid.UUID, format domain.ImageFormat) string {
	return fmt.Sprintf("%d-%s.%s", t.UnixMilli(), id, format.Extension())
}
