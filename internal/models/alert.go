package models

import "time"

// Alert severities, derived from the classifier confidence at dispatch time.
const (
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert review states. An alert is created pending and only mutated by a
// reviewer afterwards.
const (
	AlertStatusPending   = "pending"
	AlertStatusReviewed  = "reviewed"
	AlertStatusResolved  = "resolved"
	AlertStatusDismissed = "dismissed"
)

// BullyingTypeGeneral is the default classification bucket for new alerts.
const BullyingTypeGeneral = "general_harassment"

// Alert is the persisted record of a classifier-flagged message.
type Alert struct {
	ID              int       `db:"id" json:"id"`
	ConversationKey string    `db:"conversation_key" json:"conversation_key"`
	VictimID        int       `db:"victim_id" json:"victim_id"`
	BullyID         int       `db:"bully_id" json:"bully_id"`
	MessageContent  string    `db:"message_content" json:"message_content"`
	BullyingType    string    `db:"bullying_type" json:"bullying_type"`
	Confidence      float64   `db:"confidence" json:"confidence"`
	Severity        string    `db:"severity" json:"severity"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// AlertView is an alert enriched with display identities for the monitoring
// audience.
type AlertView struct {
	Alert
	VictimUsername string `json:"victim_username,omitempty"`
	BullyUsername  string `json:"bully_username,omitempty"`
}

// AlertStats summarizes alert counts for the monitoring dashboard.
type AlertStats struct {
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Critical int `db:"critical" json:"critical"`
}

// ValidAlertStatus reports whether s is a status a reviewer may set.
func ValidAlertStatus(s string) bool {
	switch s {
	case AlertStatusReviewed, AlertStatusResolved, AlertStatusDismissed:
		return true
	}
	return false
}
