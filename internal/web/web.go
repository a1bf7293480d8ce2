// Package web serves the single-page frontend.
//
// A built frontend in the configured static directory takes precedence; when
// that directory has no index.html the bundled shell in static/ is used.
package web

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

//go:embed static
var bundled embed.FS

const indexFile = "index.html"

// AppRoutes are the client-side routes answered with the app shell.
var AppRoutes = []string{"/", "/login", "/register", "/upload", "/images/:id"}

// FS returns the frontend file system and whether it came from staticDir.
func FS(staticDir string) (fs.FS, bool, error) {
	if staticDir != "" {
		if _, err := os.Stat(filepath.Join(staticDir, indexFile)); err == nil {
			return os.DirFS(staticDir), true, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
	}
	sub, err := fs.Sub(bundled, "static")
	if err != nil {
		return nil, false, err
	}
	return sub, false, nil
}

// IndexHandler answers with index.html from fsys.
func IndexHandler(fsys fs.FS) echo.HandlerFunc {
	return func(c echo.Context) error {
		b, err := fs.ReadFile(fsys, indexFile)
		if err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, b)
	}
}
