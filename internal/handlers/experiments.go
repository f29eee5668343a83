package handlers

import (
	"net/http"

	powerwizard "power_wizard"

	"github.com/gin-gonic/gin"
)

// @Summary      A/B variant for a visitor
// @Description  Returns the stored variant, assigning A or B with equal odds on first request.
// @Tags         experiments
// @Produce      json
// @Param        testId   path      string  true  "Experiment id"  example(hero-copy)
// @Param        visitor  query     string  true  "Visitor id"
// @Success      200  {object}  power_wizard.VariantResponse
// @Failure      400  {object}  power_wizard.ErrorResponse
// @Failure      500  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/experiments/{testId} [get]
func (h *Handler) assignVariant(c *gin.Context) {
	testID, visitorID := c.Param("testId"), c.Query("visitor")
	variant, err := h.services.Experiments.Assign(c.Request.Context(), visitorID, testID)
	if err != nil {
		h.respondError(c, "experiment_assign_failed", err, "test_id", testID, "visitor", visitorID)
		return
	}
	c.JSON(http.StatusOK, powerwizard.VariantResponse{
		TestID:    testID,
		VisitorID: visitorID,
		Variant:   variant,
	})
}

// @Summary      Deployment status
// @Tags         deployments
// @Produce      json
// @Param        id   path      string  true  "Deployment id"
// @Success      200  {object}  deploy.Status
// @Failure      400  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Failure      500  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/deployments/{id} [get]
func (h *Handler) deploymentStatus(c *gin.Context) {
	id := c.Param("id")
	st, err := h.services.Deployments.Status(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "deployment_status_failed", err, "deployment_id", id)
		return
	}
	c.JSON(http.StatusOK, st)
}
