package models

import "time"

// PropertyType is the kind of home service is being set up for.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyCondo     PropertyType = "condo"
	PropertyTownhome  PropertyType = "townhome"
)

// Valid reports whether p is one of the known property types.
func (p PropertyType) Valid() bool {
	switch p {
	case PropertyApartment, PropertyHouse, PropertyCondo, PropertyTownhome:
		return true
	}
	return false
}

// ContractTerm is the contract length a shopper prefers.
type ContractTerm string

const (
	TermMonthToMonth ContractTerm = "month-to-month"
	Term6Months      ContractTerm = "6"
	Term12Months     ContractTerm = "12"
	Term24Months     ContractTerm = "24"
	Term36Months     ContractTerm = "36"
)

type Address struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	IsValidated bool   `json:"is_validated"`
}

type HomeProfile struct {
	SquareFootage float64 `json:"square_footage"`
	Occupants     int     `json:"occupants"`
	HasEV         bool    `json:"has_ev"`
	HasPool       bool    `json:"has_pool"`
	HasSolar      bool    `json:"has_solar"`
}

// PlanPreferences are the shopper's filter choices. MaxRate is the single
// source of truth for the rate slider.
type PlanPreferences struct {
	ContractTerm             *ContractTerm `json:"contract_term"`
	IsRenewable              bool          `json:"is_renewable"`
	HasSatisfactionGuarantee bool          `json:"has_satisfaction_guarantee"`
	RequiresNoDeposit        bool          `json:"requires_no_deposit"`
	MaxRate                  *float64      `json:"max_rate"`
}

// SelectedPlan is either fully populated or the zero value.
type SelectedPlan struct {
	ID                   string  `json:"id,omitempty"`
	Name                 string  `json:"name,omitempty"`
	Provider             string  `json:"provider,omitempty"`
	Term                 string  `json:"term,omitempty"`
	Rate                 float64 `json:"rate,omitempty"`
	EstimatedMonthlyBill float64 `json:"estimated_monthly_bill,omitempty"`
}

// IsEmpty reports whether no plan is selected.
func (s SelectedPlan) IsEmpty() bool { return s.ID == "" }

type PersonalInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ServiceDetails struct {
	ESIID            string `json:"esiid,omitempty"` // electric service identifier
	PaperlessBilling bool   `json:"paperless_billing"`
	Autopay          bool   `json:"autopay"`
	CriticalCare     bool   `json:"critical_care"`
	Notes            string `json:"notes,omitempty"`
}

type OrderConfirmation struct {
	AcceptedTerms bool       `json:"accepted_terms"`
	OrderNumber   string     `json:"order_number,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
}

// Funnel tracks step completion for analytics. CompletedSteps holds each id
// at most once, in completion order.
type Funnel struct {
	EntryPoint     string           `json:"entry_point"`
	CompletedSteps []string         `json:"completed_steps"`
	TimeOnSteps    map[string]int64 `json:"time_on_steps"` // milliseconds
	RevisitedSteps []string         `json:"revisited_steps"`
}

// WizardState is the whole session-wide wizard aggregate.
type WizardState struct {
	PropertyType      PropertyType      `json:"property_type"`
	Address           Address           `json:"address"`
	HomeProfile       HomeProfile       `json:"home_profile"`
	PlanPreferences   PlanPreferences   `json:"plan_preferences"`
	SelectedPlan      SelectedPlan      `json:"selected_plan"`
	PersonalInfo      PersonalInfo      `json:"personal_info"`
	ServiceDetails    ServiceDetails    `json:"service_details"`
	OrderConfirmation OrderConfirmation `json:"order_confirmation"`
	Funnel            Funnel            `json:"funnel"`
	MoveInDate        *string           `json:"move_in_date"` // YYYY-MM-DD
	StartTime         time.Time         `json:"start_time"`
}
