package api

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/imagegallery/gallery/docs"
	"github.com/imagegallery/gallery/internal/api/handler"
	"github.com/imagegallery/gallery/internal/api/middleware"
	"github.com/imagegallery/gallery/internal/core/ports"
	"github.com/imagegallery/gallery/internal/pkg/token"
	"github.com/imagegallery/gallery/internal/web"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Services  handler.ServiceSource
	Readiness *handler.ReadinessHandler
	Objects   ports.ObjectStore
	Tokens    *token.Issuer
	Frontend  fs.FS
	ListDelay time.Duration
	Log       zerolog.Logger

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// apiPrefixes are never answered by the frontend file server.
var apiPrefixes = []string{"/api/", "/auth/", "/uploads/", "/health", "/metrics", "/swagger/"}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(d.Registry)))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Services, d.Log)
	imageHandler := handler.NewImageHandler(d.Services, d.ListDelay, d.Log)
	uploadHandler := handler.NewUploadHandler(d.Services, d.Objects, d.Log)
	requireAuth := middleware.Auth(d.Tokens)
	uploadAuth := middleware.AuthWithResponder(d.Tokens, handler.UploadAuthResponder)

	// --- Auth routes ---
	jsonLimit := echomiddleware.BodyLimit("64K")
	e.POST("/auth/register", authHandler.Register, jsonLimit)
	e.POST("/auth/login", authHandler.Login, jsonLimit)

	// --- Image routes ---
	e.GET("/api/images", imageHandler.List)
	e.PATCH("/api/images/:id", imageHandler.Rename, jsonLimit, requireAuth)
	e.POST("/api/images", uploadHandler.Upload, uploadAuth)
	e.GET("/uploads/:name", uploadHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/api/hello", healthHandler.Hello)
	e.GET("/health", healthHandler.Liveness)      // liveness  – is the process alive?
	e.GET("/health/ready", d.Readiness.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", promHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Frontend ---
	if d.Frontend != nil {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:       ".",
			Filesystem: http.FS(d.Frontend),
			Skipper:    isAPIPath,
		}))
		index := web.IndexHandler(d.Frontend)
		for _, route := range web.AppRoutes {
			e.GET(route, index)
		}
	}

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "gallery",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func promHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func isAPIPath(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range apiPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
