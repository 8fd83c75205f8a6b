package ws

import "sync"

// RoomRouter tracks which sessions are joined to which rooms and fans
// events out to them. Rooms have no identity beyond their member set:
// delivering to an empty room is a no-op, and a session joining after a
// delivery does not receive it.
type RoomRouter struct {
	mu          sync.RWMutex
	rooms       map[string]map[*Session]bool
	memberships map[*Session]map[string]bool
	sessions    map[*Session]bool
}

// NewRoomRouter creates an empty router.
func NewRoomRouter() *RoomRouter {
	return &RoomRouter{
		rooms:       make(map[string]map[*Session]bool),
		memberships: make(map[*Session]map[string]bool),
		sessions:    make(map[*Session]bool),
	}
}

// Attach registers a session for global broadcasts. Called once on connect.
func (r *RoomRouter) Attach(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = true
}

// Detach removes the session from every room and from global broadcasts.
// Called once on disconnect.
func (r *RoomRouter) Detach(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(s)
	delete(r.sessions, s)
}

// Join adds the session to a room. Idempotent.
func (r *RoomRouter) Join(s *Session, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[*Session]bool)
	}
	r.rooms[roomID][s] = true
	if _, ok := r.memberships[s]; !ok {
		r.memberships[s] = make(map[string]bool)
	}
	r.memberships[s][roomID] = true
}

// Leave removes the session from a room.
func (r *RoomRouter) Leave(s *Session, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(s, roomID)
}

// LeaveAll removes the session from every room it joined.
func (r *RoomRouter) LeaveAll(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(s)
}

func (r *RoomRouter) removeLocked(s *Session) {
	for roomID := range r.memberships[s] {
		r.leaveLocked(s, roomID)
	}
	delete(r.memberships, s)
}

func (r *RoomRouter) leaveLocked(s *Session, roomID string) {
	if members, ok := r.rooms[roomID]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
	if joined, ok := r.memberships[s]; ok {
		delete(joined, roomID)
	}
}

// InRoom reports current membership.
func (r *RoomRouter) InRoom(s *Session, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID][s]
}

// Deliver sends the frame to every session currently in the room.
func (r *RoomRouter) Deliver(roomID string, payload []byte) {
	r.deliverExcept(roomID, nil, payload)
}

// DeliverExcept sends the frame to the room, skipping one session
// (typically the sender of a typing event).
func (r *RoomRouter) DeliverExcept(roomID string, except *Session, payload []byte) {
	r.deliverExcept(roomID, except, payload)
}

func (r *RoomRouter) deliverExcept(roomID string, except *Session, payload []byte) {
	r.mu.RLock()
	members := make([]*Session, 0, len(r.rooms[roomID]))
	for s := range r.rooms[roomID] {
		if s != except {
			members = append(members, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range members {
		s.enqueue(payload)
	}
}

// DeliverToSession unicasts a frame, independent of room membership.
func (r *RoomRouter) DeliverToSession(s *Session, payload []byte) {
	s.enqueue(payload)
}

// Broadcast sends the frame to every attached session except the origin.
// Used for the global presence events.
func (r *RoomRouter) Broadcast(origin *Session, payload []byte) {
	r.mu.RLock()
	targets := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		if s != origin {
			targets = append(targets, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range targets {
		s.enqueue(payload)
	}
}
