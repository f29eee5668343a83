package wizard

import (
	"errors"
	"math"
	"time"
)

var (
	ErrStepBlocked    = errors.New("current step is incomplete")
	ErrNoNextStep     = errors.New("already at the last step")
	ErrNoPreviousStep = errors.New("already at the first step")
	ErrUnknownStep    = errors.New("unknown step")
)

// Transition describes what a successful navigation did.
type Transition struct {
	From      StepID
	To        StepID
	Elapsed   time.Duration // time spent on From during this visit
	Revisited bool          // From had been completed before
	Forward   bool
}

// Navigator moves through the ordered steps, gating forward moves on the
// store's CanProceed and recording funnel telemetry.
type Navigator struct {
	store     *Store
	now       func() time.Time
	current   int
	enteredAt time.Time
}

// NewNavigator starts at the welcome step.
func NewNavigator(store *Store, now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}
	return &Navigator{store: store, now: now, enteredAt: now()}
}

// RestoreNavigator resumes at step, which was entered at enteredAt.
func RestoreNavigator(store *Store, step StepID, enteredAt time.Time, now func() time.Time) (*Navigator, error) {
	i := IndexOf(step)
	if i < 0 {
		return nil, ErrUnknownStep
	}
	if now == nil {
		now = time.Now
	}
	return &Navigator{store: store, now: now, current: i, enteredAt: enteredAt}, nil
}

// Current is the active step.
func (n *Navigator) Current() StepID { return steps[n.current].ID }

// EnteredAt is when the active step was entered.
func (n *Navigator) EnteredAt() time.Time { return n.enteredAt }

// CanProceed reports whether Next would advance.
func (n *Navigator) CanProceed() bool { return n.store.CanProceed(n.Current()) }

// Next advances one step if the current step's rule passes. A blocked move
// returns ErrStepBlocked and changes nothing.
func (n *Navigator) Next() (Transition, error) {
	if !steps[n.current].AllowNext || n.current == len(steps)-1 {
		return Transition{}, ErrNoNextStep
	}
	if !n.CanProceed() {
		return Transition{}, ErrStepBlocked
	}

	from := n.Current()
	f := n.store.funnel()
	revisited := containsStep(f.CompletedSteps, string(from))
	if revisited {
		f.RevisitedSteps = append(f.RevisitedSteps, string(from))
	} else {
		f.CompletedSteps = append(f.CompletedSteps, string(from))
	}
	elapsed := n.leave()
	n.enter(n.current + 1)

	return Transition{From: from, To: n.Current(), Elapsed: elapsed, Revisited: revisited, Forward: true}, nil
}

// Back moves to the previous step without validation.
func (n *Navigator) Back() (Transition, error) {
	if n.current == 0 || !steps[n.current].AllowBack {
		return Transition{}, ErrNoPreviousStep
	}
	from := n.Current()
	elapsed := n.leave()
	n.enter(n.current - 1)
	return Transition{From: from, To: n.Current(), Elapsed: elapsed}, nil
}

// GoTo jumps backwards to an earlier step. Forward jumps are refused with
// ErrStepBlocked since they would skip validation.
func (n *Navigator) GoTo(step StepID) (Transition, error) {
	target := IndexOf(step)
	if target < 0 {
		return Transition{}, ErrUnknownStep
	}
	if target > n.current {
		return Transition{}, ErrStepBlocked
	}
	from := n.Current()
	if target == n.current {
		return Transition{From: from, To: from}, nil
	}
	elapsed := n.leave()
	n.enter(target)
	return Transition{From: from, To: n.Current(), Elapsed: elapsed}, nil
}

// RewindToAddressConfirmation moves back to address-confirmation when the
// active step is past it and the address is not validated. Steps after the
// confirmation never run with an unvalidated address.
func (n *Navigator) RewindToAddressConfirmation() (Transition, bool) {
	target := IndexOf(StepAddressConfirmation)
	if n.current <= target || n.store.State().Address.IsValidated {
		return Transition{}, false
	}
	from := n.Current()
	elapsed := n.leave()
	n.enter(target)
	return Transition{From: from, To: n.Current(), Elapsed: elapsed}, true
}

// Reset returns to the welcome step. Funnel data lives in the store and is
// reset with it.
func (n *Navigator) Reset() {
	n.enter(0)
}

// Progress is the percentage through the wizard, rounded.
func (n *Navigator) Progress() int {
	return ProgressOf(n.Current())
}

// ProgressOf computes the rounded progress percentage for step.
func ProgressOf(step StepID) int {
	i := IndexOf(step)
	if i < 0 {
		return 0
	}
	return int(math.Round(float64(i) / float64(len(steps)-1) * 100))
}

// leave accumulates the time spent on the current step.
func (n *Navigator) leave() time.Duration {
	elapsed := n.now().Sub(n.enteredAt)
	if elapsed < 0 {
		elapsed = 0
	}
	f := n.store.funnel()
	if f.TimeOnSteps == nil {
		f.TimeOnSteps = map[string]int64{}
	}
	f.TimeOnSteps[string(n.Current())] += elapsed.Milliseconds()
	return elapsed
}

func (n *Navigator) enter(i int) {
	n.current = i
	n.enteredAt = n.now()
}

func containsStep(list []string, step string) bool {
	for _, s := range list {
		if s == step {
			return true
		}
	}
	return false
}
