package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"power_wizard/internal/models"
	"power_wizard/internal/repository"
	"power_wizard/internal/wizard"
)

type FunnelService struct {
	eventRepo repository.EventRepo
}

func NewFunnelService(eventRepo repository.EventRepo) *FunnelService {
	return &FunnelService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeRange prepares the time bounds and validates their order.
func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = normalizeToUTC(from), normalizeToUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrValidation, errInvalidTimeRange)
	}
	return from, to, nil
}

func (s *FunnelService) List(ctx context.Context, f FunnelFilter) ([]models.FunnelEvent, error) {
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, repository.EventFilter{
		SessionID: strings.TrimSpace(f.SessionID),
		From:      from,
		To:        to,
		Type:      normalizeEventType(f.Type),
	})
}

// Summary aggregates completed, revisited, blocked and back counts per step,
// in wizard step order. Steps without events are included with zero counts.
func (s *FunnelService) Summary(ctx context.Context, from, to time.Time) ([]models.StepSummary, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	counts, err := s.eventRepo.CountByStep(ctx, from, to)
	if err != nil {
		return nil, err
	}

	steps := wizard.Steps()
	out := make([]models.StepSummary, len(steps))
	idx := make(map[string]int, len(steps))
	for i, st := range steps {
		out[i] = models.StepSummary{Step: string(st.ID)}
		idx[string(st.ID)] = i
	}
	for _, c := range counts {
		i, ok := idx[c.Step]
		if !ok {
			continue
		}
		switch c.Type {
		case models.EventStepCompleted:
			out[i].Completed += c.Count
		case models.EventStepRevisited:
			out[i].Revisited += c.Count
		case models.EventStepBlocked:
			out[i].Blocked += c.Count
		case models.EventStepBack:
			out[i].Back += c.Count
		}
	}
	return out, nil
}
