package catalog

import "power_wizard/internal/models"

// EstimateBill returns the dollar amount of the tier nearest to usage.
// Ties go to the tier declared first; amounts are never interpolated.
func EstimateBill(plan models.Plan, usage int) float64 {
	tier, ok := NearestTier(plan, usage)
	if !ok {
		return 0
	}
	return tier.Amount
}

// NearestTier picks the bill tier closest to usage.
func NearestTier(plan models.Plan, usage int) (models.BillTier, bool) {
	if len(plan.EstimatedBill) == 0 {
		return models.BillTier{}, false
	}
	best := plan.EstimatedBill[0]
	bestDiff := absInt(best.Usage - usage)
	for _, tier := range plan.EstimatedBill[1:] {
		if d := absInt(tier.Usage - usage); d < bestDiff {
			best, bestDiff = tier, d
		}
	}
	return best, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
