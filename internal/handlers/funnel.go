package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	powerwizard "power_wizard"
	"power_wizard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseRange reads the optional from/to query values. A date-only 'to' covers
// the whole day. It writes the 400 itself and reports false on bad input.
func parseRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, powerwizard.ErrorResponse{Error: errFromInvalid})
			return from, to, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, powerwizard.ErrorResponse{Error: errToInvalid})
			return from, to, false
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	return from, to, true
}

// @Summary      List funnel events
// @Description  Filter by session, date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and type. A date-only 'to' is end-of-day inclusive.
// @Tags         funnel
// @Security     BearerAuth
// @Produce      json
// @Param        session  query   string  false  "Session id"
// @Param        from     query   string  false  "Start of range"  example(2026-03-01)
// @Param        to       query   string  false  "End of range. Date-only treated as end of day."  example(2026-03-31)
// @Param        type     query   string  false  "Event type"  Enums(SESSION_STARTED,STEP_COMPLETED,STEP_REVISITED,STEP_BLOCKED,STEP_BACK,PLAN_SELECTED,ADDRESS_CONFIRMED,WIZARD_RESET)
// @Success      200   {object}  power_wizard.EventsResponse
// @Failure      400   {object}  power_wizard.ErrorResponse
// @Failure      401   {object}  power_wizard.ErrorResponse
// @Failure      403   {object}  power_wizard.ErrorResponse
// @Failure      500   {object}  power_wizard.ErrorResponse
// @Router       /api/v1/funnel/events [get]
func (h *Handler) getFunnelEvents(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	f := service.FunnelFilter{
		SessionID: c.Query("session"),
		From:      from,
		To:        to,
		Type:      c.Query("type"),
	}
	events, err := h.services.Funnel.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, "funnel_list_failed", err, "from", from, "to", to, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, powerwizard.EventsResponse{
		Count:  len(events),
		Events: events,
	})
}

// @Summary      Funnel summary per step
// @Tags         funnel
// @Security     BearerAuth
// @Produce      json
// @Param        from  query   string  false  "Start of range"
// @Param        to    query   string  false  "End of range. Date-only treated as end of day."
// @Success      200   {object}  power_wizard.SummaryResponse
// @Failure      400   {object}  power_wizard.ErrorResponse
// @Failure      401   {object}  power_wizard.ErrorResponse
// @Failure      403   {object}  power_wizard.ErrorResponse
// @Failure      500   {object}  power_wizard.ErrorResponse
// @Router       /api/v1/funnel/summary [get]
func (h *Handler) getFunnelSummary(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	steps, err := h.services.Funnel.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.respondError(c, "funnel_summary_failed", err, "from", from, "to", to)
		return
	}
	resp := powerwizard.SummaryResponse{Steps: steps}
	if !from.IsZero() {
		resp.From = &from
	}
	if !to.IsZero() {
		resp.To = &to
	}
	c.JSON(http.StatusOK, resp)
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-03-01T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
