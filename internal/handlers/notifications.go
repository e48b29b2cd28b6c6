package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialfusion/backend/internal/util"
)

// GetNotifications lists the caller's notifications, newest first
// GET /api/v1/notifications
func (h *Handlers) GetNotifications(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	notifications, err := h.notifications.ListForUser(c.Request.Context(), currentUser.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch notifications",
		})
		return
	}

	unread, err := h.notifications.UnreadCount(c.Request.Context(), currentUser.ID)
	if err != nil {
		unread = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
		"unread_count":  unread,
	})
}

// GetUnreadCount returns how many notifications are unread
// GET /api/v1/notifications/unread
func (h *Handlers) GetUnreadCount(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	unread, err := h.notifications.UnreadCount(c.Request.Context(), currentUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to count unread notifications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": unread})
}

// MarkNotificationsRead marks the given notifications as read. Only the
// caller's own notifications are affected.
// POST /api/v1/notifications/read
func (h *Handlers) MarkNotificationsRead(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		NotificationIDs []string `json:"notification_ids" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	updated, err := h.notifications.MarkRead(c.Request.Context(), currentUser.ID, req.NotificationIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "update_failed",
			"message": "Failed to mark notifications read",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// MarkNotificationRead marks a single notification as read. Missing and
// foreign notifications both read as not found.
// POST /api/v1/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkRead(c.Request.Context(), currentUser.ID, []string{c.Param("id")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "update_failed",
			"message": "Failed to mark notification read",
		})
		return
	}
	if updated == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Notification not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// MarkAllNotificationsRead marks every unread notification as read
// POST /api/v1/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), currentUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "update_failed",
			"message": "Failed to mark notifications read",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
