// Package session holds the server-side admin session state: an
// ephemeral authenticated flag keyed by session id, bounded by the
// cookie lifetime or an explicit logout.
package session

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idSize     = 32
)

// Manager tracks authenticated admin sessions in memory. Sessions
// expire maxAge after their last validated use (sliding expiry, in
// step with the cookie).
type Manager struct {
	mu       sync.Mutex
	sessions map[string]time.Time // id -> expiry
	maxAge   time.Duration
	now      func() time.Time
}

// NewManager returns a manager whose sessions live for maxAge past
// their last use.
func NewManager(maxAge time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]time.Time),
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Create registers a new authenticated session and returns its id.
func (m *Manager) Create() string {
	id := gonanoid.MustGenerate(idAlphabet, idSize)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = m.now().Add(m.maxAge)
	return id
}

// Validate reports whether id names a live authenticated session and
// slides its expiry forward. Expired sessions are dropped on sight.
func (m *Manager) Validate(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.sessions[id]
	if !ok {
		return false
	}
	if m.now().After(expiry) {
		delete(m.sessions, id)
		return false
	}
	m.sessions[id] = m.now().Add(m.maxAge)
	return true
}

// Destroy removes the session unconditionally. Unknown ids are fine.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
