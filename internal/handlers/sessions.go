package handlers

import (
	"net/http"

	powerwizard "power_wizard"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  power_wizard.StatusResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, powerwizard.StatusResponse{Status: statusOK})
}

// @Summary      Start a wizard session
// @Description  Creates a session at the welcome step and returns the bearer token that addresses it.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      power_wizard.StartSessionRequest  false  "Entry point"
// @Success      201   {object}  service.StartResult
// @Failure      400   {object}  power_wizard.ErrorResponse
// @Failure      500   {object}  power_wizard.ErrorResponse
// @Router       /api/v1/sessions [post]
func (h *Handler) startSession(c *gin.Context) {
	var input powerwizard.StartSessionRequest
	if c.Request.ContentLength != 0 {
		if ok := h.bindJSONOrBadRequest(c, &input); !ok {
			return
		}
	}

	res, err := h.services.Wizard.Start(c.Request.Context(), input.EntryPoint)
	if err != nil {
		h.respondError(c, "session_start_failed", err, "entry_point", input.EntryPoint)
		return
	}
	if h.log != nil {
		h.log.Infow("session_started", "session_id", res.Session.ID, "entry_point", res.Session.State.Funnel.EntryPoint)
	}
	c.JSON(http.StatusCreated, res)
}
