package telemetry

import (
	"context"
	"log"
	"time"
)

// Publisher is the subset of the event publisher the audit emitter needs.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error
}

// AuditEmitter publishes structured audit records for security-relevant
// actions (alert creation, alert review, privileged room joins).
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
}

// AuditEnvelope is the wire form of one audit record.
type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *int         `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

// AuditPayload carries the record body.
type AuditPayload struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// NewAuditEmitter constructs an emitter; a nil publisher yields a no-op.
func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
	}
}

// Emit publishes one audit record. Failures are logged, never propagated.
func (e *AuditEmitter) Emit(ctx context.Context, level, text, requestID string, userID *int) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        userID,
		Payload: AuditPayload{
			Level: level,
			Text:  text,
		},
	}

	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if err := e.publisher.PublishJSON(ctx, e.routingKey, envelope, headers); err != nil {
		log.Printf("audit publish failed: %v", err)
	}
}
