package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"guardian-chat/internal/auth"
	"guardian-chat/internal/observability"
)

// Handler upgrades authenticated HTTP requests into live sessions.
type Handler struct {
	coordinator *Coordinator
	validator   *auth.TokenValidator
}

// NewHandler constructs a Handler.
func NewHandler(coordinator *Coordinator, validator *auth.TokenValidator) *Handler {
	return &Handler{coordinator: coordinator, validator: validator}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handle validates the token, upgrades the connection and runs the session
// until it closes.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("guardian-chat/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	claims, err := h.validator.Validate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	session := newSession(conn,
		claims,
		observability.IPFromRequest(c.Request),
		observability.DeviceIDFromRequest(c.Request),
		observability.RequestIDFromRequest(c.Request),
		span.SpanContext().TraceID().String(),
	)

	h.coordinator.Connect(session)
	h.publishSessionEvent(ctx, "ws_connect", session, "")

	go session.writePump()
	go func() {
		reason := session.readPump(h.coordinator)
		h.publishSessionEvent(context.Background(), "ws_disconnect", session, reason)
	}()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	return c.Query("token")
}

func (h *Handler) publishSessionEvent(ctx context.Context, name string, s *Session, reason string) {
	_ = observability.PublishEvent(ctx, observability.RoutingKeySessions, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload: map[string]interface{}{
			"session": map[string]interface{}{
				"conn_id":     s.ID,
				"event":       name,
				"duration_ms": time.Since(s.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   s.Claims.UserID,
				"device_id": s.DeviceID,
				"ip":        s.IP,
			},
		},
	}, observability.BuildHeaders(s.RequestID, s.TraceID))
}
