package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceRegisterAndLookup(t *testing.T) {
	registry := NewPresenceRegistry()
	s := userSession(1)

	prev := registry.Register(1, s)
	assert.Nil(t, prev)

	found, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Same(t, s, found)
	assert.True(t, registry.Online(1))
}

func TestPresenceRegisterReplacesPrevious(t *testing.T) {
	registry := NewPresenceRegistry()
	first := userSession(1)
	second := userSession(1)

	require.Nil(t, registry.Register(1, first))
	prev := registry.Register(1, second)
	assert.Same(t, first, prev)

	found, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Same(t, second, found)
}

func TestPresenceUnregisterOwnSession(t *testing.T) {
	registry := NewPresenceRegistry()
	s := userSession(1)
	registry.Register(1, s)

	assert.True(t, registry.Unregister(1, s))
	assert.False(t, registry.Online(1))
}

func TestPresenceUnregisterStaleSessionKeepsUserOnline(t *testing.T) {
	registry := NewPresenceRegistry()
	stale := userSession(1)
	fresh := userSession(1)

	registry.Register(1, stale)
	registry.Register(1, fresh)

	// The old connection's teardown must not knock the reconnect offline.
	assert.False(t, registry.Unregister(1, stale))
	assert.True(t, registry.Online(1))

	assert.True(t, registry.Unregister(1, fresh))
	assert.False(t, registry.Online(1))
}

func TestPresenceUnregisterUnknownUser(t *testing.T) {
	registry := NewPresenceRegistry()
	assert.False(t, registry.Unregister(42, userSession(42)))
}
