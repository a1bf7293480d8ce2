package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/api/metrics"
	"github.com/imagegallery/gallery/internal/core/ports"
)

// ImageHandler serves the image list and rename endpoints.
type ImageHandler struct {
	source ServiceSource
	delay  time.Duration
	log    zerolog.Logger
}

// NewImageHandler builds an ImageHandler. A positive listDelay pauses every
// list response, which the frontend uses to exercise its loading state.
func NewImageHandler(source ServiceSource, listDelay time.Duration, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{source: source, delay: listDelay, log: log}
}

// List handles GET /api/images.
//
// @Summary      List images
// @Tags         images
// @Produce      json
// @Param        author  query     string  false  "Exact author username"
// @Param        name    query     string  false  "Case-insensitive substring of the image name"
// @Success      200     {array}   domain.ImageView
// @Failure      503     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /api/images [get]
func (h *ImageHandler) List(c echo.Context) error {
	if h.delay > 0 {
		select {
		case <-time.After(h.delay):
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	svcs, err := h.source.Services()
	if err != nil {
		return respondError(c, h.log, err)
	}

	filter := toImageFilter(c)
	start := time.Now()
	views, err := svcs.Images.Query(c.Request().Context(), filter)
	metrics.ImageQueryDuration.
		WithLabelValues(strconv.FormatBool(filter != ports.ImageFilter{})).
		Observe(time.Since(start).Seconds())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, views)
}

// Rename handles PATCH /api/images/:id. Any authenticated user may rename
// any image.
//
// @Summary      Rename an image
// @Tags         images
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Image id"
// @Param        body  body      renameRequest  true  "New name"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/images/{id} [patch]
func (h *ImageHandler) Rename(c echo.Context) error {
	var req renameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	svcs, err := h.source.Services()
	if err != nil {
		return respondError(c, h.log, err)
	}

	id := c.Param("id")
	modified, err := svcs.Images.Update(c.Request().Context(), id, ports.ImageUpdate{Name: &req.Name})
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !modified {
		metrics.ImageRenamesTotal.WithLabelValues("unmatched").Inc()
		return c.JSON(http.StatusNotFound, errorResponse{Error: msgImageNotFound})
	}

	metrics.ImageRenamesTotal.WithLabelValues("modified").Inc()
	h.log.Info().
		Str("image_id", id).
		Str("by", ctxUsername(c)).
		Msg("image renamed")
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
