// Package alerts turns a positive classification verdict into a persisted
// alert and a broadcast to the monitoring audience. The ordering contract
// is persist-then-broadcast: an alert that could not be durably recorded is
// never announced.
package alerts

import (
	"context"
	"fmt"
	"log"
	"time"

	"guardian-chat/internal/models"
	"guardian-chat/internal/observability"
	"guardian-chat/internal/repositories"
	"guardian-chat/internal/telemetry"
)

// criticalThreshold is the confidence above which an alert is critical
// rather than high.
const criticalThreshold = 0.95

// BroadcastFunc delivers an outbound event to the monitoring room.
type BroadcastFunc func(event string, data interface{})

// AlertEvent is the payload broadcast to monitoring sessions.
type AlertEvent struct {
	Alert           models.AlertView `json:"alert"`
	ConversationKey string           `json:"conversationKey"`
	Timestamp       time.Time        `json:"timestamp"`
}

// Dispatcher persists and announces alerts. Invoked at most once per
// triggering message by the session coordinator.
type Dispatcher struct {
	alerts    repositories.AlertRepository
	users     repositories.UserRepository
	broadcast BroadcastFunc
	audit     *telemetry.AuditEmitter
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(alerts repositories.AlertRepository, users repositories.UserRepository, broadcast BroadcastFunc, audit *telemetry.AuditEmitter) *Dispatcher {
	return &Dispatcher{alerts: alerts, users: users, broadcast: broadcast, audit: audit}
}

// Severity derives the alert severity from the classifier confidence.
func Severity(confidence float64) string {
	if confidence > criticalThreshold {
		return models.SeverityCritical
	}
	return models.SeverityHigh
}

// Dispatch records one alert and broadcasts it to the monitoring room. A
// persistence failure skips the broadcast entirely and is returned to the
// caller for logging; it is never retried here.
func (d *Dispatcher) Dispatch(ctx context.Context, conversationKey string, bullyID, victimID int, content string, confidence float64) error {
	alert := models.Alert{
		ConversationKey: conversationKey,
		VictimID:        victimID,
		BullyID:         bullyID,
		MessageContent:  content,
		BullyingType:    models.BullyingTypeGeneral,
		Confidence:      confidence,
		Severity:        Severity(confidence),
	}

	persisted, err := d.alerts.CreateAlert(ctx, alert)
	if err != nil {
		return fmt.Errorf("persist alert: %w", err)
	}

	view := d.enrich(ctx, persisted)

	observability.IncAlertDispatched(persisted.Severity)
	_ = observability.PublishEvent(ctx, observability.RoutingKeyAlerts, observability.EventEnvelope{
		EventType: "alerts",
		EventName: "alert_created",
		Payload:   view,
	}, nil)
	d.audit.Emit(ctx, "WARN",
		fmt.Sprintf("alert %d created severity=%s conversation=%s", persisted.ID, persisted.Severity, conversationKey),
		"", &bullyID)

	if d.broadcast != nil {
		d.broadcast("alert:new", AlertEvent{
			Alert:           view,
			ConversationKey: conversationKey,
			Timestamp:       time.Now(),
		})
	}
	return nil
}

// enrich resolves display identities for the monitoring audience. Best
// effort: a lookup failure still announces the bare alert.
func (d *Dispatcher) enrich(ctx context.Context, alert models.Alert) models.AlertView {
	view := models.AlertView{Alert: alert}
	users, err := d.users.BulkUsers(ctx, []int{alert.VictimID, alert.BullyID})
	if err != nil {
		log.Printf("alert enrich failed: %v", err)
		return view
	}
	for _, u := range users {
		switch u.ID {
		case alert.VictimID:
			view.VictimUsername = u.Username
		case alert.BullyID:
			view.BullyUsername = u.Username
		}
	}
	return view
}
