package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewManager(24 * time.Hour)

	id := m.Create()
	require.NotEmpty(t, id)
	assert.True(t, m.Validate(id))

	m.Destroy(id)
	assert.False(t, m.Validate(id))

	// Destroying again is harmless.
	m.Destroy(id)
}

func TestUnknownSessionInvalid(t *testing.T) {
	m := NewManager(24 * time.Hour)
	assert.False(t, m.Validate("nope"))
}

func TestSlidingExpiry(t *testing.T) {
	m := NewManager(time.Hour)
	now := time.Unix(0, 0)
	m.now = func() time.Time { return now }

	id := m.Create()

	// Touch the session every 40 minutes; it must stay alive well
	// past the original hour.
	for i := 0; i < 4; i++ {
		now = now.Add(40 * time.Minute)
		require.True(t, m.Validate(id), "touch %d", i)
	}

	// Left alone past maxAge it expires, and expiry is permanent.
	now = now.Add(2 * time.Hour)
	assert.False(t, m.Validate(id))
	now = now.Add(-2 * time.Hour)
	assert.False(t, m.Validate(id), "expired sessions are dropped, not revived")
}

func TestSessionIDsUnique(t *testing.T) {
	m := NewManager(time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := m.Create()
		require.False(t, seen[id])
		seen[id] = true
	}
}
