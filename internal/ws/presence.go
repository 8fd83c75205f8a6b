package ws

import (
	"sync"
	"time"
)

// PresenceRegistry maps a user id to its live session. Single slot per
// user: a fresh registration replaces the previous session. Absence means
// offline. Rebuilt from zero on restart; presence is never persisted here.
type PresenceRegistry struct {
	mu      sync.RWMutex
	entries map[int]*presenceEntry
}

type presenceEntry struct {
	session  *Session
	lastSeen time.Time
}

// NewPresenceRegistry creates an empty registry.
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{entries: make(map[int]*presenceEntry)}
}

// Register binds the user to the session, replacing any existing entry, and
// returns the previous session if one existed so the caller can tell a
// reconnect from a genuine online transition.
func (r *PresenceRegistry) Register(userID int, s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prev *Session
	if entry, ok := r.entries[userID]; ok {
		prev = entry.session
	}
	r.entries[userID] = &presenceEntry{session: s, lastSeen: time.Now()}
	return prev
}

// Unregister removes the entry only when the caller's session still owns
// it, so a stale disconnect cannot race a fresh reconnect offline. Reports
// whether removal occurred.
func (r *PresenceRegistry) Unregister(userID int, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if !ok || entry.session != s {
		return false
	}
	delete(r.entries, userID)
	return true
}

// Lookup returns the user's live session, if any.
func (r *PresenceRegistry) Lookup(userID int) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[userID]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

// Online reports whether the user currently has a live session.
func (r *PresenceRegistry) Online(userID int) bool {
	_, ok := r.Lookup(userID)
	return ok
}
