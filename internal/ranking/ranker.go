// Package ranking flattens raw offers into the compact result shape and
// orders them. Rank is pure: same input, same output.
package ranking

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"faresearch/internal/models"
	"faresearch/pkg/currency"
)

// maxResults truncates the ranked list.
const maxResults = 12

// durationPattern accepts only the PT[nH][nM] family. Day components or
// other ISO-8601 forms render as empty text rather than a partial guess.
var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// Rank simplifies offers and sorts them by ascending price, ties broken
// by ascending stop count. The sort is stable, so deeper ties keep
// input order. Output is capped at 12 entries.
func Rank(offers []models.RawOffer) []models.RankedResult {
	results := make([]models.RankedResult, 0, len(offers))
	for _, offer := range offers {
		results = append(results, simplify(offer))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if c := results[i].Price.Cmp(results[j].Price); c != 0 {
			return c < 0
		}
		return results[i].Stops < results[j].Stops
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func simplify(offer models.RawOffer) models.RankedResult {
	// Unparseable prices rank as free rather than erroring out.
	price, err := decimal.NewFromString(offer.Price.GrandTotal)
	if err != nil {
		price = decimal.Zero
	}

	var itinerary models.Itinerary
	if len(offer.Itineraries) > 0 {
		itinerary = offer.Itineraries[0]
	}

	stops := len(itinerary.Segments) - 1
	if stops < 0 {
		stops = 0
	}

	legs := make([]string, 0, len(itinerary.Segments))
	seen := make(map[string]bool)
	carriers := make([]string, 0, len(itinerary.Segments))
	for _, seg := range itinerary.Segments {
		legs = append(legs, fmt.Sprintf("%s→%s (%s%s)", seg.Departure.IATACode, seg.Arrival.IATACode, seg.CarrierCode, seg.Number))
		if seg.CarrierCode != "" && !seen[seg.CarrierCode] {
			seen[seg.CarrierCode] = true
			carriers = append(carriers, seg.CarrierCode)
		}
	}
	sort.Strings(carriers)

	return models.RankedResult{
		Price:        price,
		PriceText:    currency.Format(price, offer.Price.Currency),
		Currency:     offer.Price.Currency,
		DurationText: humanDuration(itinerary.Duration),
		Stops:        stops,
		Route:        strings.Join(legs, ", "),
		Carriers:     carriers,
		OfferID:      offer.ID,
	}
}

// humanDuration renders "PT7H30M" as "7h 30m". Anything outside the
// hours/minutes family comes back empty.
func humanDuration(iso string) string {
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}
	hours, minutes := m[1], m[2]
	switch {
	case hours != "" && minutes != "":
		return hours + "h " + minutes + "m"
	case hours != "":
		return hours + "h"
	case minutes != "":
		return minutes + "m"
	default:
		return ""
	}
}
