package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventdesk/eventdesk/internal/service"
	"github.com/eventdesk/eventdesk/internal/transport/middleware"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) GetMyNotifications(c *gin.Context) {
	callerID := middleware.CallerID(c)

	notifications, err := h.notificationService.GetUserNotifications(c.Request.Context(), callerID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
		Meta: map[string]interface{}{
			"total": len(notifications),
		},
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID); err != nil {
		fail(c, err)
		return
	}

	ok(c, "Notification marked as read", nil)
}
