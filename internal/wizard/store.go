package wizard

import (
	"time"

	"power_wizard/internal/catalog"
	"power_wizard/internal/models"
)

// Partial is a shallow update of WizardState. Every non-nil field replaces the
// corresponding top-level state field wholesale; nested objects are not
// merged, so callers send the complete nested value they want stored.
//
// SelectedPlan and Funnel are intentionally absent: plan selection goes
// through BeginSelection/CommitSelection and the funnel is owned by the
// Navigator. An empty MoveInDate clears the date.
type Partial struct {
	PropertyType      *models.PropertyType      `json:"property_type,omitempty"`
	Address           *models.Address           `json:"address,omitempty"`
	HomeProfile       *models.HomeProfile       `json:"home_profile,omitempty"`
	PlanPreferences   *models.PlanPreferences   `json:"plan_preferences,omitempty"`
	PersonalInfo      *models.PersonalInfo      `json:"personal_info,omitempty"`
	ServiceDetails    *models.ServiceDetails    `json:"service_details,omitempty"`
	OrderConfirmation *models.OrderConfirmation `json:"order_confirmation,omitempty"`
	MoveInDate        *string                   `json:"move_in_date,omitempty"`
}

// IsEmpty reports whether p would change nothing.
func (p Partial) IsEmpty() bool {
	return p.PropertyType == nil && p.Address == nil && p.HomeProfile == nil &&
		p.PlanPreferences == nil && p.PersonalInfo == nil && p.ServiceDetails == nil &&
		p.OrderConfirmation == nil && p.MoveInDate == nil
}

// Store owns one session's WizardState. It is not safe for concurrent use;
// callers serialize access per session.
type Store struct {
	state          models.WizardState
	selectionToken uint64
}

// NewStore returns a store holding the initial empty state.
func NewStore(entryPoint string, now time.Time) *Store {
	return &Store{state: initialState(entryPoint, now)}
}

// RestoreStore wraps a previously persisted state.
func RestoreStore(state models.WizardState, selectionToken uint64) *Store {
	if state.Funnel.TimeOnSteps == nil {
		state.Funnel.TimeOnSteps = map[string]int64{}
	}
	return &Store{state: state, selectionToken: selectionToken}
}

func initialState(entryPoint string, now time.Time) models.WizardState {
	return models.WizardState{
		Funnel: models.Funnel{
			EntryPoint:     entryPoint,
			CompletedSteps: []string{},
			TimeOnSteps:    map[string]int64{},
			RevisitedSteps: []string{},
		},
		StartTime: now.UTC(),
	}
}

// State returns a copy of the current state. The funnel slices and map are
// copied so callers cannot mutate the store through the result.
func (s *Store) State() models.WizardState {
	st := s.state
	st.Funnel.CompletedSteps = append([]string{}, s.state.Funnel.CompletedSteps...)
	st.Funnel.RevisitedSteps = append([]string{}, s.state.Funnel.RevisitedSteps...)
	st.Funnel.TimeOnSteps = make(map[string]int64, len(s.state.Funnel.TimeOnSteps))
	for k, v := range s.state.Funnel.TimeOnSteps {
		st.Funnel.TimeOnSteps[k] = v
	}
	return st
}

// SelectionToken is the latest token handed out by BeginSelection.
func (s *Store) SelectionToken() uint64 { return s.selectionToken }

// Update shallow-merges p into the state. It never fails; a malformed partial
// is a caller error.
func (s *Store) Update(p Partial) {
	if p.PropertyType != nil {
		s.state.PropertyType = *p.PropertyType
	}
	if p.Address != nil {
		s.state.Address = *p.Address
	}
	if p.HomeProfile != nil {
		s.state.HomeProfile = *p.HomeProfile
	}
	if p.PlanPreferences != nil {
		s.state.PlanPreferences = *p.PlanPreferences
	}
	if p.PersonalInfo != nil {
		s.state.PersonalInfo = *p.PersonalInfo
	}
	if p.ServiceDetails != nil {
		s.state.ServiceDetails = *p.ServiceDetails
	}
	if p.OrderConfirmation != nil {
		s.state.OrderConfirmation = *p.OrderConfirmation
	}
	if p.MoveInDate != nil {
		if *p.MoveInDate == "" {
			s.state.MoveInDate = nil
		} else {
			d := *p.MoveInDate
			s.state.MoveInDate = &d
		}
	}
}

// CanProceed reports whether forward navigation out of step is allowed.
// Unknown steps never proceed.
func (s *Store) CanProceed(step StepID) bool {
	desc, ok := Lookup(step)
	if !ok || !desc.AllowNext {
		return false
	}
	return desc.CanLeave(s.state)
}

// ConfirmAddress is the only way is_validated becomes true.
func (s *Store) ConfirmAddress(validated bool) {
	s.state.Address.IsValidated = validated
}

// BeginSelection starts a plan selection and returns its token. Any earlier
// selection still in flight is superseded.
func (s *Store) BeginSelection() uint64 {
	s.selectionToken++
	return s.selectionToken
}

// CommitSelection stores sel if token is still the latest selection.
// It reports whether the selection was applied.
func (s *Store) CommitSelection(token uint64, sel models.SelectedPlan) bool {
	if token != s.selectionToken {
		return false
	}
	s.state.SelectedPlan = sel
	return true
}

// ClearSelection empties the selected plan and supersedes in-flight selections.
func (s *Store) ClearSelection() {
	s.selectionToken++
	s.state.SelectedPlan = models.SelectedPlan{}
}

// Reset replaces the state with the initial empty state, keeping the entry point.
func (s *Store) Reset(now time.Time) {
	s.state = initialState(s.state.Funnel.EntryPoint, now)
	s.selectionToken++
}

// funnel gives the navigator write access to the funnel.
func (s *Store) funnel() *models.Funnel { return &s.state.Funnel }

// SelectionFor builds a fully populated selection from a catalog plan.
func SelectionFor(plan models.Plan, usage int) models.SelectedPlan {
	return models.SelectedPlan{
		ID:                   plan.ID,
		Name:                 plan.Name,
		Provider:             plan.Provider,
		Term:                 plan.Term,
		Rate:                 plan.Rate,
		EstimatedMonthlyBill: catalog.EstimateBill(plan, usage),
	}
}
