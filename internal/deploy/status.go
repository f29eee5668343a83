// Package deploy reports the progress of a site deployment. Providers report
// raw statuses; a Tracker keeps terminal states sticky and a Poller watches a
// deployment until it finishes.
package deploy

import (
	"context"
	"errors"
)

// State of a deployment.
type State string

const (
	StatePending  State = "pending"
	StateBuilding State = "building"
	StateReady    State = "ready"
	StateError    State = "error"
)

// Terminal reports whether no further transitions happen from s.
func (s State) Terminal() bool { return s == StateReady || s == StateError }

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StatePending, StateBuilding, StateReady, StateError:
		return true
	}
	return false
}

// Status is a point-in-time deployment status.
type Status struct {
	ID        string `json:"id"`
	State     State  `json:"state"`
	DeployURL string `json:"deploy_url,omitempty"`
	ClaimURL  string `json:"claim_url,omitempty"`
}

var (
	ErrInvalidID         = errors.New("invalid deployment id")
	ErrUnknownDeployment = errors.New("deployment not found")
)

// StatusProvider looks up the current status of a deployment.
type StatusProvider interface {
	GetStatus(ctx context.Context, id string) (Status, error)
}
