package observability

// Routing keys for the audit stream.
const (
	RoutingKeySessions = "guardian.sessions"
	RoutingKeyAlerts   = "guardian.alerts"
	RoutingKeyAudit    = "guardian.audit"
)

// EventEnvelope wraps every published observability event.
type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// BuildHeaders assembles correlation headers for a published event.
func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
