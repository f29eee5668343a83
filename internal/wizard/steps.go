// Package wizard holds the sign-up wizard state store and the step
// navigation controller.
package wizard

import (
	"strings"

	"power_wizard/internal/models"
)

// StepID identifies a wizard step.
type StepID string

const (
	StepWelcome             StepID = "welcome"
	StepAddress             StepID = "address"
	StepAddressConfirmation StepID = "address-confirmation"
	StepHomeProfile         StepID = "home-profile"
	StepPlanFilters         StepID = "plan-filters"
	StepPlanSelection       StepID = "plan-selection"
	StepPersonalDetails     StepID = "personal-details"
	StepServiceDetails      StepID = "service-details"
	StepConfirmation        StepID = "confirmation"
	StepProofDocument       StepID = "proof-document"
	StepChecklist           StepID = "checklist"
)

// Rule reports whether the wizard may leave a step going forward.
type Rule func(models.WizardState) bool

// Step describes one wizard step.
type Step struct {
	ID        StepID
	Title     string
	Hint      string // shown when forward navigation is blocked
	CanLeave  Rule
	AllowNext bool
	AllowBack bool
}

var steps = []Step{
	{ID: StepWelcome, Title: "Welcome", CanLeave: always, AllowNext: true},
	{ID: StepAddress, Title: "Service address", Hint: "Enter the street address where you need service.", CanLeave: hasStreet, AllowNext: true, AllowBack: true},
	{ID: StepAddressConfirmation, Title: "Confirm address", Hint: "Confirm your service address to continue.", CanLeave: addressValidated, AllowNext: true, AllowBack: true},
	{ID: StepHomeProfile, Title: "Your home", Hint: "Tell us your home type and size.", CanLeave: hasHomeProfile, AllowNext: true, AllowBack: true},
	{ID: StepPlanFilters, Title: "Plan preferences", CanLeave: always, AllowNext: true, AllowBack: true},
	{ID: StepPlanSelection, Title: "Choose a plan", Hint: "Select a plan to continue.", CanLeave: hasSelectedPlan, AllowNext: true, AllowBack: true},
	{ID: StepPersonalDetails, Title: "About you", Hint: "Name, email and phone are required.", CanLeave: hasPersonalInfo, AllowNext: true, AllowBack: true},
	{ID: StepServiceDetails, Title: "Service details", Hint: "Pick a move-in or start date.", CanLeave: hasMoveInDate, AllowNext: true, AllowBack: true},
	{ID: StepConfirmation, Title: "Review and confirm", Hint: "Accept the terms of service to place your order.", CanLeave: acceptedTerms, AllowNext: true, AllowBack: true},
	{ID: StepProofDocument, Title: "Proof of residence", CanLeave: always, AllowNext: true, AllowBack: true},
	{ID: StepChecklist, Title: "Move-in checklist", CanLeave: never, AllowBack: true},
}

var stepIndex = func() map[StepID]int {
	m := make(map[StepID]int, len(steps))
	for i, s := range steps {
		m[s.ID] = i
	}
	return m
}()

// Steps returns the ordered step table.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// StepCount is the number of steps.
func StepCount() int { return len(steps) }

// Lookup returns the descriptor for id.
func Lookup(id StepID) (Step, bool) {
	i, ok := stepIndex[id]
	if !ok {
		return Step{}, false
	}
	return steps[i], true
}

// IndexOf returns the position of id in the step order, or -1.
func IndexOf(id StepID) int {
	if i, ok := stepIndex[id]; ok {
		return i
	}
	return -1
}

func always(models.WizardState) bool { return true }

func never(models.WizardState) bool { return false }

func hasStreet(s models.WizardState) bool { return notBlank(s.Address.Street) }

func addressValidated(s models.WizardState) bool { return s.Address.IsValidated }

func hasHomeProfile(s models.WizardState) bool {
	return s.PropertyType.Valid() && s.HomeProfile.SquareFootage > 0
}

func hasSelectedPlan(s models.WizardState) bool { return s.SelectedPlan.ID != "" }

func hasPersonalInfo(s models.WizardState) bool {
	p := s.PersonalInfo
	return notBlank(p.FirstName) && notBlank(p.LastName) && notBlank(p.Email) && notBlank(p.Phone)
}

func hasMoveInDate(s models.WizardState) bool { return s.MoveInDate != nil && notBlank(*s.MoveInDate) }

func acceptedTerms(s models.WizardState) bool { return s.OrderConfirmation.AcceptedTerms }

func notBlank(s string) bool { return strings.TrimSpace(s) != "" }
