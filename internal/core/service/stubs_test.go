package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubCredentialRepo struct {
	creds     map[string]domain.Credential
	createErr error
	deleted   []string
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{creds: make(map[string]domain.Credential)}
}

func (r *stubCredentialRepo) FindByUsername(_ context.Context, username string) (*domain.Credential, error) {
	c, ok := r.creds[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &c, nil
}

func (r *stubCredentialRepo) Create(_ context.Context, cred *domain.Credential) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.creds[cred.ID]; exists {
		return domain.ErrUserExists
	}
	r.creds[cred.ID] = *cred
	return nil
}

func (r *stubCredentialRepo) Delete(_ context.Context, username string) error {
	delete(r.creds, username)
	r.deleted = append(r.deleted, username)
	return nil
}

type stubUserRepo struct {
	users     map[string]domain.User
	ensureErr error
	findErr   error
	lookups   [][]string // arguments of every FindByUsernames call
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *stubUserRepo) Ensure(_ context.Context, u domain.User) error {
	if r.ensureErr != nil {
		return r.ensureErr
	}
	if _, ok := r.users[u.Username]; !ok {
		r.users[u.Username] = u
	}
	return nil
}

func (r *stubUserRepo) FindByUsernames(_ context.Context, usernames []string) ([]domain.User, error) {
	r.lookups = append(r.lookups, append([]string(nil), usernames...))
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.User
	for _, name := range usernames {
		if u, ok := r.users[name]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// stubImageRepo mirrors the Mongo repository semantics: case-insensitive
// substring on name, exact author, and "modified" only when a value changed.
type stubImageRepo struct {
	mu        sync.Mutex
	images    map[string]domain.Image
	nextID    int
	findErr   error
	createErr error
}

func newStubImageRepo(images ...domain.Image) *stubImageRepo {
	r := &stubImageRepo{images: make(map[string]domain.Image)}
	for _, img := range images {
		r.images[img.ID] = img
	}
	return r
}

func (r *stubImageRepo) Find(_ context.Context, f ports.ImageFilter) ([]domain.Image, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Image
	for _, img := range r.images {
		if f.Author != "" && img.AuthorID != f.Author {
			continue
		}
		if f.NamePattern != "" && !strings.Contains(strings.ToLower(img.Name), strings.ToLower(f.NamePattern)) {
			continue
		}
		out = append(out, img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubImageRepo) Update(_ context.Context, id string, u ports.ImageUpdate) (bool, error) {
	img, ok := r.images[id]
	if !ok {
		return false, nil
	}
	if u.Name == nil || *u.Name == img.Name {
		return false, nil
	}
	img.Name = *u.Name
	r.images[id] = img
	return true, nil
}

func (r *stubImageRepo) Create(_ context.Context, img *domain.Image) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	r.nextID++
	id := fmt.Sprintf("img-%d", r.nextID)
	clone := *img
	clone.ID = id
	r.images[id] = clone
	return id, nil
}

// ---------------------------------------------------------------------------
// Storage stubs
// ---------------------------------------------------------------------------

type stubObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
	deleted []string
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *stubObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	s.types[key] = contentType
	return nil
}

func (s *stubObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *stubObjectStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type stubReserver struct {
	mu    sync.Mutex
	taken map[string]bool
	err   error
	// denyFirst makes the first n reservations fail as collisions.
	denyFirst int
	calls     int
}

func (r *stubReserver) Reserve(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	if r.calls <= r.denyFirst {
		return false, nil
	}
	if r.taken == nil {
		r.taken = make(map[string]bool)
	}
	if r.taken[name] {
		return false, nil
	}
	r.taken[name] = true
	return true, nil
}

var errBoom = errors.New("boom")
