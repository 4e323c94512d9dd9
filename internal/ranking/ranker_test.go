package ranking

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faresearch/internal/models"
)

func offer(id, total string, segments ...models.Segment) models.RawOffer {
	return models.RawOffer{
		ID:    id,
		Price: models.OfferPrice{Currency: "USD", GrandTotal: total},
		Itineraries: []models.Itinerary{
			{Duration: "PT6H15M", Segments: segments},
		},
	}
}

func seg(from, to, carrier, number string) models.Segment {
	return models.Segment{
		Departure:   models.SegmentPoint{IATACode: from},
		Arrival:     models.SegmentPoint{IATACode: to},
		CarrierCode: carrier,
		Number:      number,
	}
}

func TestRankSortsByPriceThenStops(t *testing.T) {
	offers := []models.RawOffer{
		offer("a", "450.00", seg("JFK", "DEN", "UA", "11"), seg("DEN", "LAX", "UA", "12")),
		offer("b", "300.00", seg("JFK", "LAX", "AA", "100")),
		offer("c", "450.00", seg("JFK", "LAX", "DL", "200")),
	}

	ranked := Rank(offers)

	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].OfferID)
	assert.Equal(t, "c", ranked[1].OfferID, "fewer stops wins the price tie")
	assert.Equal(t, "a", ranked[2].OfferID)
}

func TestRankStableBeyondSortKeys(t *testing.T) {
	offers := []models.RawOffer{
		offer("first", "200.00", seg("JFK", "LAX", "AA", "1")),
		offer("second", "200.00", seg("JFK", "LAX", "DL", "2")),
	}

	ranked := Rank(offers)

	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].OfferID)
	assert.Equal(t, "second", ranked[1].OfferID)
}

func TestRankTruncatesToTwelve(t *testing.T) {
	var offers []models.RawOffer
	for i := 0; i < 20; i++ {
		offers = append(offers, offer(fmt.Sprintf("o%d", i), fmt.Sprintf("%d.00", 100+i), seg("JFK", "LAX", "AA", "1")))
	}

	assert.Len(t, Rank(offers), 12)
}

func TestRankUnparseablePriceRanksAsFree(t *testing.T) {
	offers := []models.RawOffer{
		offer("paid", "99.00", seg("JFK", "LAX", "AA", "1")),
		offer("broken", "not-a-number", seg("JFK", "LAX", "AA", "2")),
	}

	ranked := Rank(offers)

	require.Len(t, ranked, 2)
	assert.Equal(t, "broken", ranked[0].OfferID)
	assert.True(t, ranked[0].Price.Equal(decimal.Zero))
}

func TestRankRouteAndCarriers(t *testing.T) {
	ranked := Rank([]models.RawOffer{
		offer("x", "500.00",
			seg("JFK", "ORD", "UA", "500"),
			seg("ORD", "LAX", "AA", "21"),
			seg("LAX", "SFO", "UA", "77"),
		),
	})

	require.Len(t, ranked, 1)
	assert.Equal(t, "JFK→ORD (UA500), ORD→LAX (AA21), LAX→SFO (UA77)", ranked[0].Route)
	assert.Equal(t, []string{"AA", "UA"}, ranked[0].Carriers)
	assert.Equal(t, 2, ranked[0].Stops)
}

func TestRankEmptyItinerary(t *testing.T) {
	ranked := Rank([]models.RawOffer{{
		ID:    "bare",
		Price: models.OfferPrice{Currency: "USD", GrandTotal: "10.00"},
	}})

	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].Stops)
	assert.Equal(t, "", ranked[0].Route)
	assert.Equal(t, "", ranked[0].DurationText)
}

func TestHumanDuration(t *testing.T) {
	cases := map[string]string{
		"PT7H30M": "7h 30m",
		"PT3H":    "3h",
		"PT45M":   "45m",
		"PT":      "",
		"P1DT":    "",
		"P1DT2H":  "",
		"PT2H30S": "",
		"7h30m":   "",
		"":        "",
	}
	for iso, want := range cases {
		assert.Equal(t, want, humanDuration(iso), "input %q", iso)
	}
}

func TestRankMalformedDurationDoesNotPanic(t *testing.T) {
	o := offer("d", "120.00", seg("JFK", "LAX", "AA", "1"))
	o.Itineraries[0].Duration = "P1DT"

	ranked := Rank([]models.RawOffer{o})

	require.Len(t, ranked, 1)
	assert.Equal(t, "", ranked[0].DurationText)
}
