package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomJoinAndDeliver(t *testing.T) {
	router := NewRoomRouter()
	a, b, c := userSession(1), userSession(2), userSession(3)
	for _, s := range []*Session{a, b, c} {
		router.Attach(s)
	}

	router.Join(a, "1-2")
	router.Join(b, "1-2")

	router.Deliver("1-2", []byte(`{"event":"message:receive"}`))

	receiveEvent(t, a)
	receiveEvent(t, b)
	requireNoEvent(t, c)
}

func TestRoomJoinIdempotent(t *testing.T) {
	router := NewRoomRouter()
	a := userSession(1)
	router.Attach(a)

	router.Join(a, "1-2")
	router.Join(a, "1-2")

	router.Deliver("1-2", []byte(`{"event":"message:receive"}`))
	receiveEvent(t, a)
	requireNoEvent(t, a)
}

func TestDeliverToEmptyRoomIsNoOp(t *testing.T) {
	router := NewRoomRouter()
	router.Deliver("nobody-here", []byte(`{}`))
}

func TestDeliverExceptSkipsSender(t *testing.T) {
	router := NewRoomRouter()
	a, b := userSession(1), userSession(2)
	router.Attach(a)
	router.Attach(b)
	router.Join(a, "group-1")
	router.Join(b, "group-1")

	router.DeliverExcept("group-1", a, []byte(`{"event":"group:typing:user"}`))

	receiveEvent(t, b)
	requireNoEvent(t, a)
}

func TestLeaveRemovesSingleMembership(t *testing.T) {
	router := NewRoomRouter()
	a := userSession(1)
	router.Attach(a)
	router.Join(a, "1-2")
	router.Join(a, "group-7")

	router.Leave(a, "1-2")

	assert.False(t, router.InRoom(a, "1-2"))
	assert.True(t, router.InRoom(a, "group-7"))
}

func TestLeaveAllRemovesEveryMembership(t *testing.T) {
	router := NewRoomRouter()
	a := userSession(1)
	router.Attach(a)
	router.Join(a, "1-2")
	router.Join(a, "group-7")

	router.LeaveAll(a)

	assert.False(t, router.InRoom(a, "1-2"))
	assert.False(t, router.InRoom(a, "group-7"))

	router.Deliver("1-2", []byte(`{}`))
	router.Deliver("group-7", []byte(`{}`))
	requireNoEvent(t, a)
}

func TestDetachStopsBroadcasts(t *testing.T) {
	router := NewRoomRouter()
	a, b := userSession(1), userSession(2)
	router.Attach(a)
	router.Attach(b)
	router.Join(a, "1-2")

	router.Detach(a)

	router.Broadcast(nil, []byte(`{"event":"user:online"}`))
	router.Deliver("1-2", []byte(`{}`))

	receiveEvent(t, b)
	requireNoEvent(t, a)
}

func TestBroadcastExcludesOrigin(t *testing.T) {
	router := NewRoomRouter()
	a, b := userSession(1), userSession(2)
	router.Attach(a)
	router.Attach(b)

	router.Broadcast(a, []byte(`{"event":"user:online"}`))

	receiveEvent(t, b)
	requireNoEvent(t, a)
}
