package power_wizard

import (
	"time"

	"power_wizard/internal/models"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error" example:"session not found"`
}

// StatusResponse is returned by /health.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// StartSessionRequest is the optional body of POST /api/v1/sessions.
type StartSessionRequest struct {
	// Where the shopper entered the funnel, e.g. "zip-search". Defaults to "direct".
	EntryPoint string `json:"entry_point" example:"zip-search"`
}

// ConfirmAddressRequest reports the outcome of the external address check.
type ConfirmAddressRequest struct {
	Validated *bool `json:"validated" binding:"required" example:"true"`
}

// SelectPlanRequest selects a catalog plan for the session.
type SelectPlanRequest struct {
	PlanID string `json:"plan_id" binding:"required" example:"gexa-saver-supreme-12"`
}

// EventsResponse lists funnel events.
type EventsResponse struct {
	Count  int                  `json:"count"`
	Events []models.FunnelEvent `json:"events"`
}

// SummaryResponse is the per-step funnel aggregate.
type SummaryResponse struct {
	From  *time.Time           `json:"from,omitempty"`
	To    *time.Time           `json:"to,omitempty"`
	Steps []models.StepSummary `json:"steps"`
}

// VariantResponse is an A/B assignment.
type VariantResponse struct {
	TestID    string `json:"test_id" example:"hero-copy"`
	VisitorID string `json:"visitor_id" example:"v-123"`
	Variant   string `json:"variant" example:"A"`
}
