package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"guardian-chat/internal/repositories"
)

// MessageHandler serves history backfill for clients joining a
// conversation after live delivery.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	groupRepo   repositories.GroupRepository
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, groupRepo repositories.GroupRepository) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo, groupRepo: groupRepo}
}

// GetConversationMessages returns the direct-message history between the
// caller and another user, oldest first.
func (h *MessageHandler) GetConversationMessages(c *gin.Context) {
	otherID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	userID := c.GetInt("userID")

	msgs, err := h.messageRepo.ListDirectMessages(c.Request.Context(), userID, otherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ListGroups returns the groups the caller belongs to.
func (h *MessageHandler) ListGroups(c *gin.Context) {
	userID := c.GetInt("userID")
	groups, err := h.groupRepo.ListGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup returns one group's details to its members.
func (h *MessageHandler) GetGroup(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	userID := c.GetInt("userID")

	member, err := h.groupRepo.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a group member"})
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrGroupNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not load group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

// GetGroupMessages returns a group's history to members, oldest first.
func (h *MessageHandler) GetGroupMessages(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	userID := c.GetInt("userID")

	member, err := h.groupRepo.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a group member"})
		return
	}

	msgs, err := h.messageRepo.ListGroupMessages(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
