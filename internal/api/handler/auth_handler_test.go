package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.Error
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, username, password string) (string, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "tok", nil
		},
	}
	h := NewAuthHandler(readySource(ports.Services{Auth: stub}), nopLog)

	c, rec := newJSONContext(e, http.MethodPost, "/auth/register", `{"username":" alice ","password":"secret"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tok" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrUserExists
		},
	}
	h := NewAuthHandler(readySource(ports.Services{Auth: stub}), nopLog)

	c, rec := newJSONContext(e, http.MethodPost, "/auth/register", `{"username":"bob","password":"pw"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if msg := decodeError(t, rec.Body.Bytes()); msg != "Username already taken" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAuthHandler_MissingFields(t *testing.T) {
	bodies := []string{
		`{"username":"bob"}`,
		`{"password":"pw"}`,
		`{"username":"   ","password":"pw"}`,
		`not json`,
	}
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (string, error) {
			t.Fatalf("service should not be called")
			return "", nil
		},
		loginFn: func(context.Context, string, string) (string, error) {
			t.Fatalf("service should not be called")
			return "", nil
		},
	}
	h := NewAuthHandler(readySource(ports.Services{Auth: stub}), nopLog)

	for _, body := range bodies {
		for name, fn := range map[string]echo.HandlerFunc{"register": h.Register, "login": h.Login} {
			e := newEcho()
			c, rec := newJSONContext(e, http.MethodPost, "/auth/"+name, body)
			if err := fn(c); err != nil {
				t.Fatalf("%s: handler error: %v", name, err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s %s: expected 400, got %d", name, body, rec.Code)
			}
			if msg := decodeError(t, rec.Body.Bytes()); msg != "Missing username or password" {
				t.Fatalf("unexpected message %q", msg)
			}
		}
	}
}

func TestAuthHandler_NotReady(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(notReady, nopLog)

	c, rec := newJSONContext(e, http.MethodPost, "/auth/login", `{"username":"bob","password":"pw"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if msg := decodeError(t, rec.Body.Bytes()); msg != "Database not ready" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"success", nil, http.StatusOK},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unexpected", errors.New("socket closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubAuthService{
				loginFn: func(context.Context, string, string) (string, error) {
					if tt.err != nil {
						return "", tt.err
					}
					return "tok", nil
				},
			}
			h := NewAuthHandler(readySource(ports.Services{Auth: stub}), nopLog)

			c, rec := newJSONContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw"}`)
			if err := h.Login(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusInternalServerError {
				if msg := decodeError(t, rec.Body.Bytes()); msg != "internal server error" {
					t.Fatalf("internal detail leaked: %q", msg)
				}
			}
		})
	}
}
