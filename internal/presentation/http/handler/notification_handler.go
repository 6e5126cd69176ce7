package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
)

// NotificationHandler serves the in-app notification feed
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns a cursor page of the caller's notifications, newest first
// @Summary List Notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size" default(15)
// @Param unread_only query bool false "Only unread notifications"
// @Success 200 {object} response.APIResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var q request.NotificationQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Direction != "" && q.Direction != pagination.CursorDirectionNext {
		response.BadRequest(c, "Notifications can only be paged forward")
		return
	}

	result, err := h.notificationService.ListNotifications(c.Request.Context(), userID, &q.CursorParams, q.UnreadOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notifications retrieved successfully", result)
}

// MarkRead marks one notification read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification marked as read", nil)
}

// MarkAllRead marks every notification the caller can see as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	count, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notifications marked as read", gin.H{"updated": count})
}
