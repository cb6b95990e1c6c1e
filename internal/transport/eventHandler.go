package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventdesk/eventdesk/internal/service"
	"github.com/eventdesk/eventdesk/internal/transport/middleware"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.OrganizerID = middleware.CallerID(c)

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	created(c, "Event created successfully", event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid event ID")
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "", event)
}

func (h *EventHandler) GetUpcomingEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	events, err := h.eventService.GetUpcomingEvents(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Events retrieved successfully",
		Data:    events,
		Meta: map[string]interface{}{
			"total": len(events),
			"limit": limit,
		},
	})
}

// GetAllEvents lists every event regardless of status, paginated.
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	events, err := h.eventService.GetAllEvents(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	start := offset
	if start > len(events) {
		start = len(events)
	}
	end := start + limit
	if end > len(events) {
		end = len(events)
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Events retrieved successfully",
		Data:    events[start:end],
		Meta: map[string]interface{}{
			"total":    len(events),
			"limit":    limit,
			"offset":   offset,
			"has_more": end < len(events),
		},
	})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid event ID")
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), eventID, middleware.CallerID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "Event updated successfully", event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid event ID")
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), eventID, middleware.CallerID(c)); err != nil {
		fail(c, err)
		return
	}

	ok(c, "Event deleted successfully", nil)
}
