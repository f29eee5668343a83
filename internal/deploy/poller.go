package deploy

import (
	"context"
	"errors"
	"time"
)

const DefaultPollInterval = time.Second

// Poller polls a StatusProvider at a fixed interval.
type Poller struct {
	provider StatusProvider
	interval time.Duration
}

// NewPoller returns a poller; a non-positive interval uses DefaultPollInterval.
func NewPoller(provider StatusProvider, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{provider: provider, interval: interval}
}

// Interval is the polling period.
func (p *Poller) Interval() time.Duration { return p.interval }

// Watch polls id until it reaches a terminal state or ctx is canceled. fn is
// called with every status change, including the first observed status.
// Transient provider errors are skipped; invalid or unknown ids end the watch.
func (p *Poller) Watch(ctx context.Context, id string, fn func(Status)) (Status, error) {
	tracker, err := NewTracker(id)
	if err != nil {
		return Status{}, err
	}

	first := true
	poll := func() error {
		st, err := p.provider.GetStatus(ctx, id)
		if err != nil {
			if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrUnknownDeployment) {
				return err
			}
			return nil
		}
		if tracker.Observe(st) || first {
			first = false
			if fn != nil {
				fn(tracker.Status())
			}
		}
		return nil
	}

	if err := poll(); err != nil {
		return Status{}, err
	}
	if tracker.Done() {
		return tracker.Status(), nil
	}

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return tracker.Status(), ctx.Err()
		case <-t.C:
			if err := poll(); err != nil {
				return tracker.Status(), err
			}
			if tracker.Done() {
				return tracker.Status(), nil
			}
		}
	}
}
