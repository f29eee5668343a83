package models

import "time"

// Session is the persisted wizard session: state plus navigator position.
type Session struct {
	ID             string      `json:"id"`
	Step           string      `json:"step"`
	StepEnteredAt  time.Time   `json:"step_entered_at"`
	SelectionToken uint64      `json:"selection_token"`
	State          WizardState `json:"state"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// VariantAssignment is a persisted A/B test bucket.
type VariantAssignment struct {
	VisitorID  string    `json:"visitor_id"`
	TestID     string    `json:"test_id"`
	Variant    string    `json:"variant"`
	AssignedAt time.Time `json:"assigned_at"`
}
