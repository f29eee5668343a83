package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"power_wizard/internal/models"
	"power_wizard/internal/repository"
)

const (
	VariantA = "A"
	VariantB = "B"
)

var experimentKey = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)

type ExperimentService struct {
	variants repository.VariantRepo
	rand     func() float64
	now      func() time.Time
}

func NewExperimentService(variants repository.VariantRepo, rnd func() float64, now func() time.Time) *ExperimentService {
	if rnd == nil {
		rnd = rand.Float64
	}
	if now == nil {
		now = time.Now
	}
	return &ExperimentService{variants: variants, rand: rnd, now: now}
}

// Assign returns the stored variant for (visitor, test) or assigns A or B
// with equal probability and stores it.
func (s *ExperimentService) Assign(ctx context.Context, visitorID, testID string) (string, error) {
	if !experimentKey.MatchString(visitorID) || !experimentKey.MatchString(testID) {
		return "", fmt.Errorf("%w: visitor and test ids must be 1-64 characters of [A-Za-z0-9_.:-]", ErrValidation)
	}

	existing, err := s.variants.Get(ctx, visitorID, testID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.Variant, nil
	}

	variant := VariantA
	if s.rand() >= 0.5 {
		variant = VariantB
	}
	if err := s.variants.Save(ctx, models.VariantAssignment{
		VisitorID:  visitorID,
		TestID:     testID,
		Variant:    variant,
		AssignedAt: s.now().UTC(),
	}); err != nil {
		return "", err
	}

	// A concurrent assignment may have won the insert; the stored row is authoritative.
	stored, err := s.variants.Get(ctx, visitorID, testID)
	if err != nil {
		return "", err
	}
	if stored != nil {
		return stored.Variant, nil
	}
	return variant, nil
}
