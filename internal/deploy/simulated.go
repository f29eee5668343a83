package deploy

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBuildAfter = 2 * time.Second
	DefaultReadyAfter = 6 * time.Second
	DefaultRetention  = 10 * time.Minute
	DefaultMaxTracked = 10000
	maxIDLength       = 64
	pruneEvery        = time.Minute
)

// SimulatedProvider stands in for a real deployment backend. A deployment is
// first seen on its first query and then moves pending -> building -> ready
// as time passes. Ids marked with Fail end in error instead of ready.
//
// Finished deployments are forgotten Retention after they became ready, and
// at most MaxTracked ids are remembered; the oldest goes first. A forgotten
// id starts over at pending.
type SimulatedProvider struct {
	BuildAfter time.Duration
	ReadyAfter time.Duration
	Retention  time.Duration
	MaxTracked int

	mu        sync.Mutex
	now       func() time.Time
	baseURL   string
	firstSeen map[string]time.Time
	failing   map[string]bool
	lastPrune time.Time
}

// NewSimulatedProvider returns a provider whose ready deployments live under baseURL.
func NewSimulatedProvider(baseURL string, now func() time.Time) *SimulatedProvider {
	if now == nil {
		now = time.Now
	}
	return &SimulatedProvider{
		BuildAfter: DefaultBuildAfter,
		ReadyAfter: DefaultReadyAfter,
		Retention:  DefaultRetention,
		MaxTracked: DefaultMaxTracked,
		now:        now,
		baseURL:    strings.TrimRight(baseURL, "/"),
		firstSeen:  map[string]time.Time{},
		failing:    map[string]bool{},
	}
}

// Fail makes the deployment id end in the error state.
func (p *SimulatedProvider) Fail(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[id] = true
}

// GetStatus implements StatusProvider.
func (p *SimulatedProvider) GetStatus(ctx context.Context, id string) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxIDLength {
		return Status{}, ErrInvalidID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	first, ok := p.firstSeen[id]
	if !ok {
		p.prune(now)
		first = now
		p.firstSeen[id] = now
	}
	elapsed := now.Sub(first)

	st := Status{ID: id, State: StatePending}
	switch {
	case elapsed < p.BuildAfter:
	case p.failing[id]:
		st.State = StateError
	case elapsed < p.ReadyAfter:
		st.State = StateBuilding
	default:
		st.State = StateReady
		st.DeployURL = p.baseURL + "/" + id
		st.ClaimURL = p.baseURL + "/claim/" + id
	}
	return st, nil
}

// Tracked is the number of deployment ids currently remembered.
func (p *SimulatedProvider) Tracked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.firstSeen)
}

// prune drops finished deployments past retention, at most once per
// pruneEvery, then evicts the oldest ids while the map is full. Callers hold mu.
func (p *SimulatedProvider) prune(now time.Time) {
	if now.Sub(p.lastPrune) >= pruneEvery {
		p.lastPrune = now
		horizon := p.ReadyAfter + p.Retention
		for id, first := range p.firstSeen {
			if now.Sub(first) > horizon {
				delete(p.firstSeen, id)
			}
		}
	}
	for p.MaxTracked > 0 && len(p.firstSeen) >= p.MaxTracked {
		p.evictOldest()
	}
}

func (p *SimulatedProvider) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, first := range p.firstSeen {
		if oldestID == "" || first.Before(oldest) {
			oldestID, oldest = id, first
		}
	}
	delete(p.firstSeen, oldestID)
}
