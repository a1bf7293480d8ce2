package handler

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

var nopLog = zerolog.Nop()

type stubSource struct {
	svcs *ports.Services
	err  error
}

func (s stubSource) Services() (*ports.Services, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.svcs, nil
}

func readySource(svcs ports.Services) stubSource {
	return stubSource{svcs: &svcs}
}

var notReady = stubSource{err: domain.ErrNotReady}

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (string, error)
	loginFn    func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (string, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

type stubImageService struct {
	queryFn  func(ctx context.Context, f ports.ImageFilter) ([]domain.ImageView, error)
	updateFn func(ctx context.Context, id string, u ports.ImageUpdate) (bool, error)
}

func (s *stubImageService) Query(ctx context.Context, f ports.ImageFilter) ([]domain.ImageView, error) {
	return s.queryFn(ctx, f)
}

func (s *stubImageService) Update(ctx context.Context, id string, u ports.ImageUpdate) (bool, error) {
	return s.updateFn(ctx, id, u)
}

func (s *stubImageService) Create(context.Context, ports.NewImageInput) (string, error) {
	return "", nil
}

type stubUploadService struct {
	uploadFn func(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error)
}

func (s *stubUploadService) Upload(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	return s.uploadFn(ctx, in)
}

type memStore map[string][]byte

func (m memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	m[key] = b
	return err
}

func (m memStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m[key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m memStore) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
