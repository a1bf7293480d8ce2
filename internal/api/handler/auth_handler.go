package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/api/metrics"
	"github.com/imagegallery/gallery/internal/core/domain"
)

type AuthHandler struct {
	source ServiceSource
	log    zerolog.Logger
}

func NewAuthHandler(source ServiceSource, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{source: source, log: log}
}

// bindCredentials reads {username, password}. The username is trimmed; the
// password is taken verbatim.
func bindCredentials(c echo.Context) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return req, false
	}
	return req, true
}

// Register creates a new user account and returns a session token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	req, ok := bindCredentials(c)
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "rejected").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingCredentials})
	}

	svcs, err := h.source.Services()
	if err != nil {
		return respondError(c, h.log, err)
	}

	token, err := svcs.Auth.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", authResult(err)).Inc()
		return respondError(c, h.log, err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	return c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

// Login verifies a username and password and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	req, ok := bindCredentials(c)
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingCredentials})
	}

	svcs, err := h.source.Services()
	if err != nil {
		return respondError(c, h.log, err)
	}

	token, err := svcs.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", authResult(err)).Inc()
		return respondError(c, h.log, err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func authResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrMissingCredentials),
		errors.Is(err, domain.ErrPasswordTooLong):
		return "rejected"
	default:
		return "error"
	}
}
