// Package filter narrows a ranked result list by caller criteria.
// Ordering is the ranker's job; filtering never reorders.
package filter

import (
	"github.com/shopspring/decimal"

	"faresearch/internal/models"
)

func Apply(results []models.RankedResult, f *models.SearchFilters) []models.RankedResult {
	if f == nil {
		return results
	}

	out := make([]models.RankedResult, 0, len(results))
	for _, r := range results {
		if f.PriceMax != nil && r.Price.GreaterThan(decimal.NewFromFloat(*f.PriceMax)) {
			continue
		}
		if f.MaxStops != nil && r.Stops > *f.MaxStops {
			continue
		}
		if len(f.Carriers) > 0 && !carriersAllowed(r.Carriers, f.Carriers) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// carriersAllowed reports whether every carrier on the itinerary is in
// the allow-list.
func carriersAllowed(carriers, allowed []string) bool {
	allow := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		allow[c] = true
	}
	for _, c := range carriers {
		if !allow[c] {
			return false
		}
	}
	return true
}
