package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/service"
)

// NotificationHandler handles notification HTTP requests.
type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications handles GET /api/v1/notifications - the caller's own.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	page, err := h.notificationService.ListByUser(c.Request.Context(), callerID, parsePageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetNotification handles GET /api/v1/notifications/:id
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	n, err := h.notificationService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n.UserID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, n)
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

// DeleteNotification handles DELETE /api/v1/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
