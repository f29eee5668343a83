package service

import (
	"context"
	"fmt"

	"power_wizard/internal/catalog"
	"power_wizard/internal/estimator"
	"power_wizard/internal/models"
	"power_wizard/internal/planfilter"
	"power_wizard/internal/repository"
)

const (
	minSideBySide = 2
	maxSideBySide = 3
)

type PlansService struct {
	catalog  *catalog.Catalog
	sessions repository.SessionRepo
}

func NewPlansService(cat *catalog.Catalog, sessions repository.SessionRepo) *PlansService {
	return &PlansService{catalog: cat, sessions: sessions}
}

// Compare runs the filter engine with the session's preferences at the
// session's estimated usage.
func (s *PlansService) Compare(ctx context.Context, sessionID string, q ComparisonQuery) (Comparison, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return Comparison{}, err
	}
	st := sess.State
	cmp := s.compare(planfilter.Query{
		Preferences: st.PlanPreferences,
		Search:      q.Search,
		MaxRate:     st.PlanPreferences.MaxRate,
		Providers:   q.Providers,
		ShowAll:     q.ShowAll,
		Sort:        q.Sort,
		Usage:       usageFor(st),
	})
	cmp.SelectedPlanID = st.SelectedPlan.ID
	return cmp, nil
}

// Browse is Compare for callers without a session.
func (s *PlansService) Browse(_ context.Context, q CatalogQuery) (Comparison, error) {
	if q.Preferences.ContractTerm != nil {
		if _, ok := planfilter.TermLabel(*q.Preferences.ContractTerm); !ok {
			return Comparison{}, fmt.Errorf("%w: unknown contract term %q", ErrValidation, *q.Preferences.ContractTerm)
		}
	}
	usage := q.Usage
	if usage <= 0 {
		usage = estimator.DefaultPreviewUsage
	}
	return s.compare(planfilter.Query{
		Preferences: q.Preferences,
		Search:      q.Search,
		MaxRate:     q.Preferences.MaxRate,
		Providers:   q.Providers,
		ShowAll:     q.ShowAll,
		Sort:        q.Sort,
		Usage:       usage,
	}), nil
}

// SideBySide quotes two or three plans in the requested order.
func (s *PlansService) SideBySide(_ context.Context, ids []string, usage int) ([]PlanQuote, error) {
	if len(ids) < minSideBySide || len(ids) > maxSideBySide {
		return nil, fmt.Errorf("%w: compare %d to %d plans", ErrValidation, minSideBySide, maxSideBySide)
	}
	if usage <= 0 {
		usage = estimator.DefaultPreviewUsage
	}
	out := make([]PlanQuote, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("%w: plan %q listed twice", ErrValidation, id)
		}
		seen[id] = true
		p, ok := s.catalog.ByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
		}
		out = append(out, quote(p, usage))
	}
	return out, nil
}

// Estimate previews usage and the headline plans for a home profile.
func (s *PlansService) Estimate(profile models.HomeProfile, pt models.PropertyType) Estimate {
	usage := estimator.EstimateUsage(profile, pt)
	est := Estimate{Usage: usage, TopThree: []PlanQuote{}}

	byBill := planfilter.Apply(s.catalog.Plans(), planfilter.Query{Sort: planfilter.SortBill, Usage: usage})
	if len(byBill.Plans) > 0 {
		q := quote(byBill.Plans[0], usage)
		est.CheapestBill = &q
	}
	est.TopThree = quoteAll(byBill.TopThree, usage)
	if best, ok := s.catalog.BestMatch(); ok {
		q := quote(best, usage)
		est.BestMatch = &q
	}
	return est
}

func (s *PlansService) compare(q planfilter.Query) Comparison {
	q.Sort = planfilter.ParseSort(string(q.Sort))
	res := planfilter.Apply(s.catalog.Plans(), q)
	cmp := Comparison{
		Usage:    q.Usage,
		Sort:     string(q.Sort),
		Plans:    quoteAll(res.Plans, q.Usage),
		TopThree: quoteAll(res.TopThree, q.Usage),
		Empty:    res.Empty,
		Total:    s.catalog.Len(),
	}
	for _, p := range res.Plans {
		if p.BestMatch {
			bq := quote(p, q.Usage)
			cmp.BestMatch = &bq
			break
		}
	}
	return cmp
}

func quote(p models.Plan, usage int) PlanQuote {
	return PlanQuote{Plan: p, EstimatedMonthlyBill: catalog.EstimateBill(p, usage)}
}

func quoteAll(plans []models.Plan, usage int) []PlanQuote {
	out := make([]PlanQuote, 0, len(plans))
	for _, p := range plans {
		out = append(out, quote(p, usage))
	}
	return out
}
