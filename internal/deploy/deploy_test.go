package deploy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSimulatedProvider_Progression(t *testing.T) {
	t.Parallel()

	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewSimulatedProvider("https://sites.example.com/", c.Now)
	ctx := context.Background()

	st, err := p.GetStatus(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, st.State)
	assert.Empty(t, st.DeployURL)

	c.Advance(DefaultBuildAfter)
	st, _ = p.GetStatus(ctx, "site-1")
	assert.Equal(t, StateBuilding, st.State)

	c.Advance(DefaultReadyAfter)
	st, _ = p.GetStatus(ctx, "site-1")
	assert.Equal(t, StateReady, st.State)
	assert.Equal(t, "https://sites.example.com/site-1", st.DeployURL)
	assert.Equal(t, "https://sites.example.com/claim/site-1", st.ClaimURL)
}

func TestSimulatedProvider_Failing(t *testing.T) {
	t.Parallel()

	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewSimulatedProvider("https://sites.example.com", c.Now)
	p.Fail("broken")

	st, _ := p.GetStatus(context.Background(), "broken")
	assert.Equal(t, StatePending, st.State)
	c.Advance(DefaultBuildAfter)
	st, _ = p.GetStatus(context.Background(), "broken")
	assert.Equal(t, StateError, st.State)
}

func TestSimulatedProvider_BoundedTracking(t *testing.T) {
	t.Parallel()

	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewSimulatedProvider("https://sites.example.com", c.Now)
	p.MaxTracked = 5
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		c.Advance(time.Millisecond)
		_, err := p.GetStatus(ctx, fmt.Sprintf("site-%d", i))
		require.NoError(t, err)
		require.LessOrEqual(t, p.Tracked(), 5)
	}

	// the newest ids survive eviction
	c.Advance(DefaultBuildAfter)
	st, _ := p.GetStatus(ctx, "site-99")
	assert.Equal(t, StateBuilding, st.State)
	assert.Equal(t, 5, p.Tracked())
}

func TestSimulatedProvider_ForgetsFinishedAfterRetention(t *testing.T) {
	t.Parallel()

	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewSimulatedProvider("https://sites.example.com", c.Now)
	ctx := context.Background()

	_, _ = p.GetStatus(ctx, "old")
	c.Advance(DefaultReadyAfter)
	st, _ := p.GetStatus(ctx, "old")
	require.Equal(t, StateReady, st.State)

	c.Advance(DefaultRetention + pruneEvery)
	_, _ = p.GetStatus(ctx, "new")
	assert.Equal(t, 1, p.Tracked())

	st, _ = p.GetStatus(ctx, "old")
	assert.Equal(t, StatePending, st.State, "a forgotten id starts over")
}

func TestSimulatedProvider_InvalidID(t *testing.T) {
	t.Parallel()

	p := NewSimulatedProvider("", nil)
	_, err := p.GetStatus(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidID)

	long := make([]byte, maxIDLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = p.GetStatus(context.Background(), string(long))
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestTracker_Forward(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker("d1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, tr.Status().State)
	assert.False(t, tr.Done())

	assert.False(t, tr.Observe(Status{State: StatePending}))
	assert.True(t, tr.Observe(Status{State: StateBuilding}))
	assert.True(t, tr.Observe(Status{State: StateReady, DeployURL: "https://x/d1"}))
	assert.True(t, tr.Done())
	assert.Equal(t, Status{ID: "d1", State: StateReady, DeployURL: "https://x/d1"}, tr.Status())
	assert.Equal(t, []State{StatePending, StateBuilding, StateReady}, tr.History())
}

func TestTracker_TerminalIsSticky(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker("d2")
	require.NoError(t, err)
	require.True(t, tr.Observe(Status{State: StateError}))

	assert.False(t, tr.Observe(Status{State: StateBuilding}))
	assert.False(t, tr.Observe(Status{State: StateReady, DeployURL: "https://x"}))
	assert.False(t, tr.Observe(Status{State: StateError, ClaimURL: "https://claim"}))
	assert.Equal(t, StateError, tr.Status().State)
	assert.Empty(t, tr.Status().ClaimURL)
}

func TestTracker_NoRegression(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker("d3")
	require.NoError(t, err)
	require.True(t, tr.Observe(Status{State: StateBuilding}))
	assert.False(t, tr.Observe(Status{State: StatePending}))
	assert.False(t, tr.Observe(Status{State: "exploded"}))
	assert.Equal(t, StateBuilding, tr.Status().State)
}

// scripted returns the queued statuses in order, then repeats the last one.
type scripted struct {
	mu    sync.Mutex
	queue []Status
	errs  []error
	calls int
}

func (s *scripted) GetStatus(_ context.Context, id string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return Status{}, s.errs[i]
	}
	if i >= len(s.queue) {
		i = len(s.queue) - 1
	}
	st := s.queue[i]
	st.ID = id
	return st, nil
}

func TestPoller_WatchUntilTerminal(t *testing.T) {
	t.Parallel()

	prov := &scripted{
		queue: []Status{
			{State: StatePending},
			{State: StatePending},
			{State: StateBuilding},
			{State: StateBuilding},
			{State: StateReady, DeployURL: "https://x/d"},
		},
		errs: []error{nil, errors.New("timeout")},
	}
	var seen []State
	final, err := NewPoller(prov, time.Millisecond).Watch(context.Background(), "d", func(s Status) {
		seen = append(seen, s.State)
	})
	require.NoError(t, err)
	assert.Equal(t, StateReady, final.State)
	assert.Equal(t, []State{StatePending, StateBuilding, StateReady}, seen)
}

func TestPoller_StopsOnCancel(t *testing.T) {
	t.Parallel()

	prov := &scripted{queue: []Status{{State: StateBuilding}}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	final, err := NewPoller(prov, time.Millisecond).Watch(ctx, "d", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateBuilding, final.State)
}

func TestPoller_InvalidID(t *testing.T) {
	t.Parallel()

	p := NewPoller(NewSimulatedProvider("", nil), 0)
	assert.Equal(t, DefaultPollInterval, p.Interval())
	_, err := p.Watch(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrInvalidID)
}
