package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/core/domain"
)

// Client-facing messages.
const (
	msgNotReady           = "Database not ready"
	msgMissingCredentials = "Missing username or password"
	msgUsernameTaken      = "Username already taken"
	msgInvalidCredentials = "Invalid username or password"
	msgImageNotFound      = "Image not found or not modified"
	msgMissingImageOrName = "Missing image or name"
	msgUnauthorized       = "Unauthorized"
	msgInternal           = "internal server error"
)

// ErrorStatus maps a known domain error to its HTTP status and client
// message. ok is false for errors that should surface as a 500.
func ErrorStatus(err error) (code int, msg string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusServiceUnavailable, msgNotReady, true
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusBadRequest, msgMissingCredentials, true
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, msgUsernameTaken, true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials, true
	case errors.Is(err, domain.ErrImageNotFound), errors.Is(err, domain.ErrObjectNotFound):
		return http.StatusNotFound, msgImageNotFound, true
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrFileCount):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest, msgMissingImageOrName, true
	}
	return http.StatusInternalServerError, msgInternal, false
}

// respondError writes err as {"error": msg}. Unexpected errors are logged and
// replaced by a generic message.
func respondError(c echo.Context, log zerolog.Logger, err error) error {
	code, msg, ok := ErrorStatus(err)
	if !ok {
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.JSON(code, errorResponse{Error: msg})
}
