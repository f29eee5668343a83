package handlers

import (
	"net/http"

	powerwizard "power_wizard"
	"power_wizard/internal/wizard"

	"github.com/gin-gonic/gin"
)

// @Summary      Get the wizard session
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  service.SessionView
// @Failure      401  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard [get]
// @Security     BearerAuth
func (h *Handler) getWizard(c *gin.Context) {
	view, err := h.services.Wizard.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, "wizard_get_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Update wizard state
// @Description  Shallow merge: every top-level key present replaces the stored value wholesale.
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        body  body      wizard.Partial  true  "Partial state"
// @Success      200   {object}  service.SessionView
// @Failure      400   {object}  power_wizard.ErrorResponse
// @Failure      401   {object}  power_wizard.ErrorResponse
// @Failure      404   {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard [patch]
// @Security     BearerAuth
func (h *Handler) updateWizard(c *gin.Context) {
	var p wizard.Partial
	if ok := h.bindJSONOrBadRequest(c, &p); !ok {
		return
	}
	view, err := h.services.Wizard.Update(c.Request.Context(), sessionID(c), p)
	if err != nil {
		h.respondError(c, "wizard_update_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Go to the next step
// @Description  A step that is not complete yet answers 200 with blocked=true and a hint.
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  service.StepResult
// @Failure      401  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Failure      409  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/next [post]
// @Security     BearerAuth
func (h *Handler) nextStep(c *gin.Context) {
	res, err := h.services.Wizard.Next(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, "wizard_next_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Go to the previous step
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  service.StepResult
// @Failure      401  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Failure      409  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/back [post]
// @Security     BearerAuth
func (h *Handler) prevStep(c *gin.Context) {
	res, err := h.services.Wizard.Back(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, "wizard_back_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Jump to an earlier step
// @Tags         wizard
// @Produce      json
// @Param        step  path      string  true  "Step id"  example(address)
// @Success      200   {object}  service.StepResult
// @Failure      400   {object}  power_wizard.ErrorResponse
// @Failure      401   {object}  power_wizard.ErrorResponse
// @Failure      404   {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/goto/{step} [post]
// @Security     BearerAuth
func (h *Handler) gotoStep(c *gin.Context) {
	step := c.Param("step")
	res, err := h.services.Wizard.GoTo(c.Request.Context(), sessionID(c), step)
	if err != nil {
		h.respondError(c, "wizard_goto_failed", err, "session_id", sessionID(c), "step", step)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Start over
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  service.SessionView
// @Failure      401  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/reset [post]
// @Security     BearerAuth
func (h *Handler) resetWizard(c *gin.Context) {
	view, err := h.services.Wizard.Reset(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, "wizard_reset_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Record the address check result
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        body  body      power_wizard.ConfirmAddressRequest  true  "Check result"
// @Success      200   {object}  service.SessionView
// @Failure      400   {object}  power_wizard.ErrorResponse
// @Failure      401   {object}  power_wizard.ErrorResponse
// @Failure      404   {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/address/confirm [post]
// @Security     BearerAuth
func (h *Handler) confirmAddress(c *gin.Context) {
	var req powerwizard.ConfirmAddressRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	view, err := h.services.Wizard.ConfirmAddress(c.Request.Context(), sessionID(c), *req.Validated)
	if err != nil {
		h.respondError(c, "wizard_confirm_address_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Select a plan
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        body  body      power_wizard.SelectPlanRequest  true  "Plan"
// @Success      200   {object}  service.SessionView
// @Failure      400   {object}  power_wizard.ErrorResponse
// @Failure      401   {object}  power_wizard.ErrorResponse
// @Failure      404   {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/plan [post]
// @Security     BearerAuth
func (h *Handler) selectPlan(c *gin.Context) {
	var req powerwizard.SelectPlanRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	view, err := h.services.Wizard.SelectPlan(c.Request.Context(), sessionID(c), req.PlanID)
	if err != nil {
		h.respondError(c, "wizard_select_plan_failed", err, "session_id", sessionID(c), "plan_id", req.PlanID)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Clear the selected plan
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  service.SessionView
// @Failure      401  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/plan [delete]
// @Security     BearerAuth
func (h *Handler) clearPlan(c *gin.Context) {
	view, err := h.services.Wizard.ClearPlan(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, "wizard_clear_plan_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, view)
}
