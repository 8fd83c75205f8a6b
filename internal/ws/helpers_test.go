package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"guardian-chat/internal/auth"
)

func testSession(claims auth.Claims) *Session {
	return newSession(nil, claims, "127.0.0.1", "", "", "")
}

func userSession(userID int) *Session {
	return testSession(auth.Claims{UserID: userID, Role: "child"})
}

// receiveEvent pops one outbound frame from the session's send buffer.
func receiveEvent(t *testing.T, s *Session) Envelope {
	t.Helper()
	select {
	case payload := <-s.send:
		var envelope Envelope
		require.NoError(t, json.Unmarshal(payload, &envelope))
		return envelope
	case <-time.After(time.Second):
		t.Fatal("expected an outbound event, got none")
		return Envelope{}
	}
}

// requireNoEvent asserts the session's send buffer is empty.
func requireNoEvent(t *testing.T, s *Session) {
	t.Helper()
	select {
	case payload := <-s.send:
		t.Fatalf("expected no outbound event, got %s", payload)
	default:
	}
}

func inbound(t *testing.T, event string, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(Envelope{Event: event, Data: raw})
	require.NoError(t, err)
	return frame
}
