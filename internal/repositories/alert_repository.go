package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"guardian-chat/internal/models"
)

var ErrAlertNotFound = errors.New("alert not found")

const alertColumns = `id, conversation_key, victim_id, bully_id, message_content, bullying_type, confidence, severity, status, created_at`

// AlertRepository persists and reviews safety alerts.
type AlertRepository interface {
	CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error)
	ListAlerts(ctx context.Context, limit int) ([]models.Alert, error)
	UpdateStatus(ctx context.Context, alertID int, status string) (models.Alert, error)
	Stats(ctx context.Context) (models.AlertStats, error)
}

// AlertRepo is a sqlx-backed repository.
type AlertRepo struct {
	db *sqlx.DB
}

// NewAlertRepo constructs AlertRepo.
func NewAlertRepo(db *sqlx.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

// CreateAlert stores a new alert in pending state.
func (r *AlertRepo) CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error) {
	var out models.Alert
	err := r.db.QueryRowxContext(ctx, `INSERT INTO alerts (conversation_key, victim_id, bully_id, message_content, bullying_type, confidence, severity)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+alertColumns,
		alert.ConversationKey, alert.VictimID, alert.BullyID, alert.MessageContent, alert.BullyingType, alert.Confidence, alert.Severity).
		StructScan(&out)
	return out, err
}

// ListAlerts returns the most recent alerts, newest first.
func (r *AlertRepo) ListAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.SelectContext(ctx, &alerts, `SELECT `+alertColumns+` FROM alerts ORDER BY created_at DESC LIMIT $1`, limit)
	return alerts, err
}

// UpdateStatus transitions an alert to a reviewer-set status.
func (r *AlertRepo) UpdateStatus(ctx context.Context, alertID int, status string) (models.Alert, error) {
	var out models.Alert
	err := r.db.QueryRowxContext(ctx, `UPDATE alerts SET status=$2 WHERE id=$1 RETURNING `+alertColumns, alertID, status).
		StructScan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Alert{}, ErrAlertNotFound
	}
	return out, err
}

// Stats aggregates alert counts for the dashboard.
func (r *AlertRepo) Stats(ctx context.Context) (models.AlertStats, error) {
	var stats models.AlertStats
	err := r.db.GetContext(ctx, &stats, `SELECT
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status='pending') AS pending,
        COUNT(*) FILTER (WHERE severity='critical') AS critical
        FROM alerts`)
	return stats, err
}
