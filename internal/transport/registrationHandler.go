package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventdesk/eventdesk/internal/entity"
	"github.com/eventdesk/eventdesk/internal/service"
	"github.com/eventdesk/eventdesk/internal/transport/middleware"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
}

func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// UpdateStatusRequest carries the organizer's target status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.UserID = middleware.CallerID(c)

	registration, err := h.registrationService.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	created(c, "Registration created successfully", registration)
}

func (h *RegistrationHandler) GetMyRegistrations(c *gin.Context) {
	callerID := middleware.CallerID(c)

	registrations, err := h.registrationService.GetUserRegistrations(c.Request.Context(), callerID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Registrations retrieved successfully",
		Data:    registrations,
		Meta: map[string]interface{}{
			"total": len(registrations),
		},
	})
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	registrationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid registration ID")
		return
	}

	if err := h.registrationService.Cancel(c.Request.Context(), registrationID, middleware.CallerID(c)); err != nil {
		fail(c, err)
		return
	}

	ok(c, "Registration cancelled successfully", nil)
}

// CheckRegistration reports whether the caller holds an active registration
// for the event.
func (h *RegistrationHandler) CheckRegistration(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid event ID")
		return
	}

	registered, err := h.registrationService.IsRegistered(c.Request.Context(), eventID, middleware.CallerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "", gin.H{"is_registered": registered})
}

func (h *RegistrationHandler) GetEventRegistrations(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid event ID")
		return
	}

	registrations, err := h.registrationService.GetEventRegistrations(c.Request.Context(), eventID, middleware.CallerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Event registrations retrieved successfully",
		Data:    registrations,
		Meta: map[string]interface{}{
			"event_id": eventID,
			"total":    len(registrations),
		},
	})
}

func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	registrationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid registration ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, err := parseRegistrationStatus(req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	registration, err := h.registrationService.SetStatus(c.Request.Context(), registrationID, middleware.CallerID(c), status)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "Registration status updated successfully", registration)
}

func (h *RegistrationHandler) ConfirmPayment(c *gin.Context) {
	registrationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid registration ID")
		return
	}

	var req service.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.RegistrationID = registrationID
	req.CallerID = middleware.CallerID(c)

	registration, err := h.registrationService.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "Payment confirmed successfully", registration)
}

func parseRegistrationStatus(status string) (entity.RegistrationStatus, error) {
	switch status {
	case "pending":
		return entity.RegistrationStatusPending, nil
	case "confirmed":
		return entity.RegistrationStatusConfirmed, nil
	case "cancelled":
		return entity.RegistrationStatusCancelled, nil
	case "attended":
		return entity.RegistrationStatusAttended, nil
	default:
		return "", entity.ErrInvalidStatus
	}
}
