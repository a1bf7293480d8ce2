// Package readiness tracks whether the store-backed services are available.
//
// The database connection is established in the background after the HTTP
// server starts. Until it succeeds, every store-backed endpoint answers 503;
// if it never succeeds the tracker stays Failed and the process keeps serving
// 503 instead of exiting.
package readiness

import (
	"sync"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

type State int

const (
	Connecting State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Tracker holds the current State and, once Ready, the service bundle.
type Tracker struct {
	mu       sync.RWMutex
	state    State
	services *ports.Services
	err      error
	onChange func(State)
}

// New returns a Tracker in the Connecting state. onChange, if non-nil, is
// called after every transition.
func New(onChange func(State)) *Tracker {
	t := &Tracker{state: Connecting, onChange: onChange}
	t.notify(Connecting)
	return t
}

// SetReady publishes the services and marks the tracker Ready.
func (t *Tracker) SetReady(services *ports.Services) {
	t.mu.Lock()
	t.state = Ready
	t.services = services
	t.err = nil
	t.mu.Unlock()
	t.notify(Ready)
}

// SetFailed records a permanent connection failure.
func (t *Tracker) SetFailed(err error) {
	t.mu.Lock()
	t.state = Failed
	t.services = nil
	t.err = err
	t.mu.Unlock()
	t.notify(Failed)
}

func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Err returns the failure recorded by SetFailed.
func (t *Tracker) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Services returns the bundle, or domain.ErrNotReady unless the tracker is Ready.
func (t *Tracker) Services() (*ports.Services, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.state != Ready {
		return nil, domain.ErrNotReady
	}
	return t.services, nil
}

func (t *Tracker) notify(s State) {
	if t.onChange != nil {
		t.onChange(s)
	}
}
