// Package planfilter applies shopper preferences and a sort order to the plan
// catalog and derives the "top three" comparison subset.
package planfilter

import (
	"sort"
	"strings"

	"power_wizard/internal/catalog"
	"power_wizard/internal/models"
)

// SortOption selects the ordering of filtered plans.
type SortOption string

const (
	SortBestMatch SortOption = "bestMatch"
	SortPrice     SortOption = "price"
	SortRating    SortOption = "rating"
	SortBill      SortOption = "bill"
)

// ParseSort maps a query value to a SortOption, defaulting to SortBestMatch.
func ParseSort(s string) SortOption {
	switch SortOption(strings.TrimSpace(s)) {
	case SortPrice:
		return SortPrice
	case SortRating:
		return SortRating
	case SortBill:
		return SortBill
	default:
		return SortBestMatch
	}
}

// TopCount is the size of the comparison subset.
const TopCount = 3

// termLabels maps contract-term preferences to the catalog's canonical labels.
var termLabels = map[models.ContractTerm]string{
	models.TermMonthToMonth: "Month-to-month",
	models.Term6Months:      "6 months",
	models.Term12Months:     "12 months",
	models.Term24Months:     "24 months",
	models.Term36Months:     "36 months",
}

// TermLabel returns the canonical label for a contract term.
func TermLabel(term models.ContractTerm) (string, bool) {
	label, ok := termLabels[term]
	return label, ok
}

// TermLabels returns a copy of the term label table.
func TermLabels() map[models.ContractTerm]string {
	out := make(map[models.ContractTerm]string, len(termLabels))
	for k, v := range termLabels {
		out[k] = v
	}
	return out
}

// Query holds every input of the filter engine.
//
// ShowAll suspends the preference-derived filters (term, features, MaxRate)
// only; Providers and Search always apply.
type Query struct {
	Preferences models.PlanPreferences
	Search      string
	MaxRate     *float64
	Providers   []string
	ShowAll     bool
	Sort        SortOption
	Usage       int // kWh used by SortBill
}

// Result is the engine output. An empty result is a normal outcome.
type Result struct {
	Plans    []models.Plan
	TopThree []models.Plan
	Empty    bool
}

// Apply filters, sorts and derives the top-three subset.
func Apply(plans []models.Plan, q Query) Result {
	sorted := FilterAndSort(plans, q)
	return Result{
		Plans:    sorted,
		TopThree: TopThree(sorted),
		Empty:    len(sorted) == 0,
	}
}

// FilterAndSort returns a new slice; the input is not modified.
func FilterAndSort(plans []models.Plan, q Query) []models.Plan {
	out := Filter(plans, q)
	Sort(out, q.Sort, q.Usage)
	return out
}

// Filter keeps the plans matching q, preserving input order.
func Filter(plans []models.Plan, q Query) []models.Plan {
	providers := make(map[string]struct{}, len(q.Providers))
	for _, p := range q.Providers {
		providers[p] = struct{}{}
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		if !q.ShowAll && !matchesPreferences(p, q) {
			continue
		}
		if len(providers) > 0 {
			if _, ok := providers[p.Provider]; !ok {
				continue
			}
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesPreferences(p models.Plan, q Query) bool {
	pref := q.Preferences
	if pref.ContractTerm != nil {
		label, _ := TermLabel(*pref.ContractTerm)
		if p.Term != label {
			return false
		}
	}
	if pref.IsRenewable && !p.HasFeature(models.FeatureRenewable) {
		return false
	}
	if pref.HasSatisfactionGuarantee && !p.HasFeature(models.FeatureGuarantee) {
		return false
	}
	if pref.RequiresNoDeposit && !p.HasFeature(models.FeatureNoDeposit) {
		return false
	}
	if q.MaxRate != nil && p.Rate > *q.MaxRate {
		return false
	}
	return true
}

func matchesSearch(p models.Plan, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Provider), needle) {
		return true
	}
	return p.Incentives != nil && strings.Contains(strings.ToLower(*p.Incentives), needle)
}

// Sort orders plans in place. All orderings are stable.
func Sort(plans []models.Plan, by SortOption, usage int) {
	switch by {
	case SortPrice:
		sort.SliceStable(plans, func(i, j int) bool { return plans[i].Rate < plans[j].Rate })
	case SortRating:
		sort.SliceStable(plans, func(i, j int) bool { return plans[i].Satisfaction > plans[j].Satisfaction })
	case SortBill:
		bills := make(map[string]float64, len(plans))
		for _, p := range plans {
			bills[p.ID] = catalog.EstimateBill(p, usage)
		}
		sort.SliceStable(plans, func(i, j int) bool { return bills[plans[i].ID] < bills[plans[j].ID] })
	default:
		sort.SliceStable(plans, func(i, j int) bool { return plans[i].BestMatch && !plans[j].BestMatch })
	}
}

// TopThree returns the first TopCount plans. A best-match plan sorted past the
// cut is spliced in at index 1 so it always stays visible.
func TopThree(sorted []models.Plan) []models.Plan {
	n := TopCount
	if len(sorted) < n {
		n = len(sorted)
	}
	top := make([]models.Plan, n, TopCount+1)
	copy(top, sorted[:n])

	bestIdx := -1
	for i, p := range sorted {
		if p.BestMatch {
			bestIdx = i
			break
		}
	}
	if bestIdx < TopCount {
		return top
	}

	top = append(top, models.Plan{})
	copy(top[2:], top[1:])
	top[1] = sorted[bestIdx]
	return top[:TopCount]
}
