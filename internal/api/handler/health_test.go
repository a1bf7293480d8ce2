package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/core/ports"
	"github.com/imagegallery/gallery/internal/infrastructure/readiness"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Hello(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/hello", nil), rec)

	if err := NewHealthHandler().Hello(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "Hello world" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func readinessOf(t *testing.T, h *ReadinessHandler) (int, readinessResponse) {
	code, resp, _ := readinessBody(t, h)
	return code, resp
}

func readinessBody(t *testing.T, h *ReadinessHandler) (int, readinessResponse, string) {
	t.Helper()
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp, rec.Body.String()
}

func TestReadinessHandler_Connecting(t *testing.T) {
	h := NewReadinessHandler(readiness.New(nil), zerolog.Nop())
	h.AddCheck("mongodb", func(context.Context) error {
		t.Fatalf("checks must not run before the store is ready")
		return nil
	})

	code, resp := readinessOf(t, h)
	if code != http.StatusServiceUnavailable || resp.Status != "degraded" {
		t.Fatalf("unexpected readiness %d %+v", code, resp)
	}
	if resp.Dependencies["store"].Status != "connecting" {
		t.Fatalf("unexpected store status %+v", resp.Dependencies["store"])
	}
}

func TestReadinessHandler_Failed(t *testing.T) {
	tr := readiness.New(nil)
	tr.SetFailed(errors.New("server selection timeout"))

	var logs bytes.Buffer
	code, resp, body := readinessBody(t, NewReadinessHandler(tr, zerolog.New(&logs)))
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if resp.Dependencies["store"].Status != "failed" {
		t.Fatalf("unexpected store status %+v", resp.Dependencies["store"])
	}
	if strings.Contains(body, "server selection timeout") {
		t.Fatalf("failure cause leaked to the client: %s", body)
	}
	if !strings.Contains(logs.String(), "server selection timeout") {
		t.Fatalf("failure cause not logged: %s", logs.String())
	}
}

func TestReadinessHandler_ReadyWithChecks(t *testing.T) {
	tr := readiness.New(nil)
	tr.SetReady(&ports.Services{})
	h := NewReadinessHandler(tr, zerolog.Nop())
	h.AddCheck("mongodb", func(context.Context) error { return nil })

	code, resp := readinessOf(t, h)
	if code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("unexpected readiness %d %+v", code, resp)
	}

	h.AddCheck("redis", func(context.Context) error { return errors.New("dial tcp 10.0.0.7:6379: connection refused") })
	code, resp, body := readinessBody(t, h)
	if code != http.StatusServiceUnavailable || resp.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("unexpected readiness %d %+v", code, resp)
	}
	if strings.Contains(body, "10.0.0.7") {
		t.Fatalf("failure cause leaked to the client: %s", body)
	}
}
