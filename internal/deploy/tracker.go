package deploy

import (
	"sync"

	"github.com/felixgeelhaar/statekit"
)

const (
	statePending  statekit.StateID = statekit.StateID(StatePending)
	stateBuilding statekit.StateID = statekit.StateID(StateBuilding)
	stateReady    statekit.StateID = statekit.StateID(StateReady)
	stateError    statekit.StateID = statekit.StateID(StateError)
)

const (
	eventBuild statekit.EventType = "BUILD"
	eventReady statekit.EventType = "READY"
	eventFail  statekit.EventType = "FAIL"
)

// events maps a (from, to) pair to the machine event that performs it.
// Pairs that are missing are ignored by Observe, which is what keeps a
// deployment from moving backwards.
var events = map[State]map[State]statekit.EventType{
	StatePending: {
		StateBuilding: eventBuild,
		StateReady:    eventReady,
		StateError:    eventFail,
	},
	StateBuilding: {
		StateReady: eventReady,
		StateError: eventFail,
	},
}

// trail is the machine context: the states a deployment went through.
type trail struct {
	History []State
}

func recordState(ctx **trail, ev statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if st, ok := ev.Payload.(Status); ok {
		(*ctx).History = append((*ctx).History, st.State)
	}
}

func newDeployMachine() (*statekit.MachineConfig[*trail], error) {
	return statekit.NewMachine[*trail]("deployment").
		WithInitial(statePending).
		WithContext(&trail{}).
		WithAction("record", recordState).
		State(statePending).
			On(eventBuild).Target(stateBuilding).Do("record").
			On(eventReady).Target(stateReady).Do("record").
			On(eventFail).Target(stateError).Do("record").
			Done().
		State(stateBuilding).
			On(eventReady).Target(stateReady).Do("record").
			On(eventFail).Target(stateError).Do("record").
			Done().
		State(stateReady).
			Final().
			Done().
		State(stateError).
			Final().
			Done().
		Build()
}

// Tracker follows one deployment. Once ready or error it never changes again,
// so a late or stale update cannot revive a finished deployment.
type Tracker struct {
	mu     sync.Mutex
	interp *statekit.Interpreter[*trail]
	trail  *trail
	status Status
}

// NewTracker starts tracking id in the pending state.
func NewTracker(id string) (*Tracker, error) {
	machine, err := newDeployMachine()
	if err != nil {
		return nil, err
	}
	tr := &trail{History: []State{StatePending}}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **trail) {
		*c = tr
	})
	interp.Start()
	return &Tracker{
		interp: interp,
		trail:  tr,
		status: Status{ID: id, State: StatePending},
	}, nil
}

// Observe feeds a freshly reported status into the tracker and reports
// whether the tracked status changed.
func (t *Tracker) Observe(s Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interp.Done() || !s.State.Valid() {
		return false
	}
	s.ID = t.status.ID
	cur := State(t.interp.State().Value)
	if s.State == cur {
		if s == t.status {
			return false
		}
		t.status = s
		return true
	}

	ev, ok := events[cur][s.State]
	if !ok {
		return false
	}
	t.interp.Send(statekit.Event{Type: ev, Payload: s})
	if !t.interp.Matches(statekit.StateID(s.State)) {
		return false
	}
	t.status = s
	return true
}

// Status returns the tracked status.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Done reports whether the deployment reached a terminal state.
func (t *Tracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interp.Done()
}

// History lists the states the deployment went through, starting with pending.
func (t *Tracker) History() []State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]State(nil), t.trail.History...)
}
