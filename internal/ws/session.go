package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"guardian-chat/internal/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 64
)

// Session is one live client connection. It is owned by its read loop; the
// only cross-goroutine surface is the buffered send channel and the
// immutable handshake fields.
type Session struct {
	ID          string
	Claims      auth.Claims
	IP          string
	DeviceID    string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time

	// userID is zero until the session identifies. Written only by the
	// session's own event loop.
	userID int

	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newSession(conn *websocket.Conn, claims auth.Claims, ip, deviceID, requestID, traceID string) *Session {
	return &Session{
		ID:          uuid.NewString(),
		Claims:      claims,
		IP:          ip,
		DeviceID:    deviceID,
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
	}
}

// UserID returns the identified user, or zero while the session is anonymous.
func (s *Session) UserID() int {
	return s.userID
}

// enqueue hands a frame to the write pump. Frames for a closed or saturated
// session are dropped; delivery here is best effort by contract.
func (s *Session) enqueue(payload []byte) bool {
	if payload == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// writePump serializes all writes to the connection and keeps it alive with
// pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()
	for {
		select {
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump processes inbound events in arrival order until the connection
// closes, then tears the session down.
func (s *Session) readPump(coordinator *Coordinator) (closeReason string) {
	defer func() {
		coordinator.Disconnect(s)
		s.close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return err.Error()
		}
		coordinator.HandleEvent(s, raw)
	}
}
