// Package estimator derives a monthly kWh estimate from the home profile.
package estimator

import (
	"math"

	"power_wizard/internal/models"
)

// Usage model coefficients (kWh per month).
const (
	MinimumUsage        = 500
	KWhPerSquareFoot    = 0.5
	KWhPerOccupant      = 300.0
	EVUsage             = 300.0
	PoolUsage           = 500.0
	SolarOffset         = 400.0
	AttachedHomeFactor  = 0.85 // apartments, condos and townhomes share walls
	DefaultPreviewUsage = 1000
)

// EstimateUsage returns the estimated monthly usage in kWh, never below MinimumUsage.
func EstimateUsage(profile models.HomeProfile, propertyType models.PropertyType) int {
	usage := profile.SquareFootage * KWhPerSquareFoot
	usage += float64(profile.Occupants) * KWhPerOccupant
	if profile.HasEV {
		usage += EVUsage
	}
	if profile.HasPool {
		usage += PoolUsage
	}
	if profile.HasSolar {
		usage -= SolarOffset
	}
	if isAttached(propertyType) {
		usage *= AttachedHomeFactor
	}

	rounded := int(math.Round(usage))
	if rounded < MinimumUsage {
		return MinimumUsage
	}
	return rounded
}

func isAttached(pt models.PropertyType) bool {
	switch pt {
	case models.PropertyApartment, models.PropertyCondo, models.PropertyTownhome:
		return true
	}
	return false
}
