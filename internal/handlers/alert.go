package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"guardian-chat/internal/models"
	"guardian-chat/internal/repositories"
	"guardian-chat/internal/telemetry"
)

const alertListLimit = 100

// AlertHandler serves the alert review API for monitoring users.
type AlertHandler struct {
	alertRepo repositories.AlertRepository
	userRepo  repositories.UserRepository
	audit     *telemetry.AuditEmitter
}

// NewAlertHandler builds an AlertHandler.
func NewAlertHandler(alertRepo repositories.AlertRepository, userRepo repositories.UserRepository, audit *telemetry.AuditEmitter) *AlertHandler {
	return &AlertHandler{alertRepo: alertRepo, userRepo: userRepo, audit: audit}
}

// ListAlerts returns the most recent alerts with display identities.
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alertRepo.ListAlerts(c.Request.Context(), alertListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load alerts"})
		return
	}

	ids := make([]int, 0, len(alerts)*2)
	seen := map[int]struct{}{}
	for _, a := range alerts {
		for _, id := range []int{a.VictimID, a.BullyID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	usernames := map[int]string{}
	if len(ids) > 0 {
		users, err := h.userRepo.BulkUsers(c.Request.Context(), ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
			return
		}
		for _, u := range users {
			usernames[u.ID] = u.Username
		}
	}

	views := make([]models.AlertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, models.AlertView{
			Alert:          a,
			VictimUsername: usernames[a.VictimID],
			BullyUsername:  usernames[a.BullyID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(views), "alerts": views})
}

// UpdateAlertStatus transitions an alert to a reviewer-set status.
func (h *AlertHandler) UpdateAlertStatus(c *gin.Context) {
	alertID, err := strconv.Atoi(c.Param("alert_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidAlertStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	alert, err := h.alertRepo.UpdateStatus(c.Request.Context(), alertID, req.Status)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrAlertNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not update alert"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO",
		"alert "+strconv.Itoa(alertID)+" status set to "+req.Status,
		requestIDFromContext(c), userIDFromContext(c))

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// AlertStats summarizes alert counts for the dashboard.
func (h *AlertHandler) AlertStats(c *gin.Context) {
	stats, err := h.alertRepo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
