package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventdesk/eventdesk/internal/entity"
)

// SuccessResponse is the envelope for every 2xx reply.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is the envelope for every non-2xx reply.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func ok(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFromError(err), ErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// statusFromError maps service sentinels to HTTP statuses. Anything
// unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrRegistrationNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrAlreadyRegistered),
		errors.Is(err, entity.ErrUserAlreadyExists),
		errors.Is(err, entity.ErrInvalidDates),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrEventNotPublished),
		errors.Is(err, entity.ErrEventInPast),
		errors.Is(err, entity.ErrTicketTypeNotFound),
		errors.Is(err, entity.ErrInsufficientSeats),
		errors.Is(err, entity.ErrAlreadyCancelled),
		errors.Is(err, entity.ErrNotPayable),
		errors.Is(err, entity.ErrAlreadyPaid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
