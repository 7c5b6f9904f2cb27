package handlers

import (
	"context"
	"errors"
	"net/http"

	"brew_control/internal/controller"
	"brew_control/internal/models"

	"github.com/gin-gonic/gin"
)

const errInvalidBodyPref = "invalid body: "

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, controller.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response. Client errors carry the service
// message; server errors carry userMsg only.
func (h *Handler) logAndJSONError(c *gin.Context, err error, userMsg, logKey string, kv ...interface{}) {
	code := statusFor(err)
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "code", code}, kv...)
		if id, ok := operatorID(c); ok {
			fields = append(fields, "operator", id)
		}
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	msg := userMsg
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	c.JSON(code, gin.H{"error": msg})
}

func (h *Handler) badBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
}
