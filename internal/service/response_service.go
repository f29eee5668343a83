package service

import (
	"time"

	"power_wizard/internal/models"
	"power_wizard/internal/planfilter"
)

// StepView describes the active step of a session.
type StepView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Progress   int    `json:"progress"` // percent, rounded
	CanProceed bool   `json:"can_proceed"`
	CanGoBack  bool   `json:"can_go_back"`
}

// SessionView is a session plus the values derived from its state.
type SessionView struct {
	Session        models.Session `json:"session"`
	Step           StepView       `json:"step"`
	EstimatedUsage int            `json:"estimated_usage"`
}

// StartResult is a new session and the token that addresses it.
type StartResult struct {
	SessionView
	Token          string    `json:"token"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
}

// StepResult is the outcome of a navigation request. Blocked is a normal
// outcome, not an error: the step stays put and Hint says why.
type StepResult struct {
	SessionView
	Blocked bool   `json:"blocked"`
	Hint    string `json:"hint,omitempty"`
}

// FunnelFilter supports history filtering by session, time range and type.
type FunnelFilter struct {
	SessionID string
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string    // "", "STEP_COMPLETED", "PLAN_SELECTED", ...
}

// ComparisonQuery holds the filter inputs that are not part of the session state.
type ComparisonQuery struct {
	Search    string
	Providers []string
	ShowAll   bool
	Sort      planfilter.SortOption
}

// CatalogQuery is a ComparisonQuery for callers without a session.
// Usage <= 0 falls back to the preview usage.
type CatalogQuery struct {
	ComparisonQuery
	Preferences models.PlanPreferences
	Usage       int
}

// PlanQuote is a plan priced at a given usage.
type PlanQuote struct {
	models.Plan
	EstimatedMonthlyBill float64 `json:"estimated_monthly_bill"`
}

// Comparison is what the comparison surface renders.
type Comparison struct {
	Usage          int         `json:"usage"`
	Sort           string      `json:"sort"`
	Plans          []PlanQuote `json:"plans"`
	TopThree       []PlanQuote `json:"top_three"`
	BestMatch      *PlanQuote  `json:"best_match,omitempty"`
	Empty          bool        `json:"empty"`
	Total          int         `json:"total"` // catalog size before filtering
	SelectedPlanID string      `json:"selected_plan_id,omitempty"`
}

// Estimate is a usage and bill preview for a home profile.
type Estimate struct {
	Usage        int         `json:"usage"`
	BestMatch    *PlanQuote  `json:"best_match,omitempty"`
	CheapestBill *PlanQuote  `json:"cheapest_bill,omitempty"`
	TopThree     []PlanQuote `json:"top_three"`
}
