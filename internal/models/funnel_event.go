package models

import "time"

// Funnel event types.
const (
	EventSessionStarted   = "SESSION_STARTED"
	EventStepCompleted    = "STEP_COMPLETED"
	EventStepRevisited    = "STEP_REVISITED"
	EventStepBlocked      = "STEP_BLOCKED"
	EventStepBack         = "STEP_BACK"
	EventPlanSelected     = "PLAN_SELECTED"
	EventAddressConfirmed = "ADDRESS_CONFIRMED"
	EventWizardReset      = "WIZARD_RESET"
)

// FunnelEvent is a single funnel log entry.
type FunnelEvent struct {
	EventID     string    `json:"event_id"`
	SessionID   string    `json:"session_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Step        string    `json:"step,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

// StepSummary aggregates funnel events for one step.
type StepSummary struct {
	Step      string `json:"step"`
	Completed int    `json:"completed"`
	Revisited int    `json:"revisited"`
	Blocked   int    `json:"blocked"`
	Back      int    `json:"back"`
}
