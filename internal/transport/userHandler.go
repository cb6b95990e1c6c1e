package transport

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventdesk/eventdesk/internal/service"
	"github.com/eventdesk/eventdesk/internal/transport/middleware"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	created(c, "User registered successfully", user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "", user)
}

// GetAttendedEvents returns the caller's attended-events set.
func (h *UserHandler) GetAttendedEvents(c *gin.Context) {
	callerID := middleware.CallerID(c)

	events, err := h.userService.GetAttendedEvents(c.Request.Context(), callerID)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "", gin.H{"event_ids": events})
}
