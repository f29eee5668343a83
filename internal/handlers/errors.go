package handlers

import (
	"errors"
	"net/http"

	powerwizard "power_wizard"
	"power_wizard/internal/deploy"
	"power_wizard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInternal        = "internal error"
	errInvalidBodyPref = "invalid body: "
)

// statusFor maps service and collaborator errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, deploy.ErrUnknownDeployment):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, deploy.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoMove):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, powerwizard.ErrorResponse{Error: userMsg})
}

// respondError writes err with its mapped status. Caller mistakes are logged
// at info and echoed back; everything else is logged as an error and hidden.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logAndJSONError(c, code, errInternal, logKey, err, kv...)
		return
	}
	if h.log != nil {
		h.log.Infow(logKey, append([]interface{}{"err", err, "status", code}, kv...)...)
	}
	c.JSON(code, powerwizard.ErrorResponse{Error: err.Error()})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, powerwizard.ErrorResponse{Error: errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}
