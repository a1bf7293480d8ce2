package handler

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/api/metrics"
	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

const (
	uploadFileField = "image"
	uploadNameField = "name"

	// multipart overhead allowed on top of the file itself
	formOverhead int64 = 1 << 20
)

// UploadHandler accepts image uploads and serves stored files back.
type UploadHandler struct {
	source  ServiceSource
	objects ports.ObjectStore
	maxSize int64
	log     zerolog.Logger
}

func NewUploadHandler(source ServiceSource, objects ports.ObjectStore, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{source: source, objects: objects, maxSize: domain.MaxUploadSize, log: log}
}

// UploadAuthResponder renders authentication failures in the upload envelope.
func UploadAuthResponder(c echo.Context, code int, msg string) error {
	if code == http.StatusUnauthorized {
		msg = msgUnauthorized
	}
	return c.JSON(code, uploadErrorResponse{Message: msg})
}

// Upload handles POST /api/images.
//
// @Summary      Upload an image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file    true  "PNG or JPEG, at most 5 MiB"
// @Param        name   formData  string  true  "Display name"
// @Success      201    {object}  domain.ImageView
// @Failure      400    {object}  uploadErrorResponse
// @Failure      401    {object}  uploadErrorResponse
// @Failure      403    {object}  uploadErrorResponse
// @Failure      503    {object}  uploadErrorResponse
// @Failure      500    {object}  uploadErrorResponse
// @Router       /api/images [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxSize+formOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return h.reject(c, domain.ErrFileTooLarge)
		}
		return h.reject(c, domain.ErrMissingField)
	}
	defer func() { _ = form.RemoveAll() }()

	files := form.File[uploadFileField]
	total := 0
	for _, fhs := range form.File {
		total += len(fhs)
	}
	if total > 1 {
		return h.reject(c, domain.ErrFileCount)
	}

	var title string
	if v := form.Value[uploadNameField]; len(v) > 0 {
		title = strings.TrimSpace(v[0])
	}
	if len(files) == 0 || title == "" {
		return h.reject(c, domain.ErrMissingField)
	}

	fh := files[0]
	if fh.Size > h.maxSize {
		return h.reject(c, domain.ErrFileTooLarge)
	}

	svcs, err := h.source.Services()
	if err != nil {
		return h.reject(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return h.reject(c, err)
	}
	defer f.Close()

	result, err := svcs.Uploads.Upload(req.Context(), ports.UploadInput{
		Title:       title,
		AuthorID:    ctxUsername(c),
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return h.reject(c, err)
	}

	metrics.UploadsTotal.WithLabelValues(string(result.Format)).Inc()
	metrics.UploadBytes.Observe(float64(fh.Size))
	return c.JSON(http.StatusCreated, toImageView(result))
}

// reject writes err in the upload envelope and counts it.
func (h *UploadHandler) reject(c echo.Context, err error) error {
	metrics.UploadRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()

	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrFileCount):
		return c.JSON(http.StatusBadRequest, uploadErrorResponse{Error: "Bad Request", Message: err.Error()})
	case errors.Is(err, domain.ErrMissingField):
		return c.JSON(http.StatusBadRequest, uploadErrorResponse{Message: msgMissingImageOrName})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, uploadErrorResponse{Message: msgUnauthorized})
	case errors.Is(err, domain.ErrNotReady):
		return c.JSON(http.StatusServiceUnavailable, uploadErrorResponse{Message: msgNotReady})
	}

	h.log.Error().Err(err).Str("user", ctxUsername(c)).Msg("upload failed")
	return c.JSON(http.StatusInternalServerError, uploadErrorResponse{Message: "Failed to upload image"})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, domain.ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, domain.ErrFileCount):
		return "file_count"
	case errors.Is(err, domain.ErrMissingField):
		return "missing_field"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, domain.ErrNotReady):
		return "not_ready"
	default:
		return "storage"
	}
}

// Serve handles GET /uploads/:name by streaming the stored object.
func (h *UploadHandler) Serve(c echo.Context) error {
	name := c.Param("name")
	if name == "" || name != path.Base(name) {
		return echo.ErrNotFound
	}

	rc, err := h.objects.Get(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			return echo.ErrNotFound
		}
		h.log.Error().Err(err).Str("file", name).Msg("read upload failed")
		return err
	}
	defer rc.Close()

	contentType := "application/octet-stream"
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for _, f := range []domain.ImageFormat{domain.FormatPNG, domain.FormatJPEG} {
		if f.Extension() == ext {
			contentType = f.ContentType()
		}
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Stream(http.StatusOK, contentType, rc)
}
