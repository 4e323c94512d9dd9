package combos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faresearch/internal/models"
)

var now = time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

func baseQuery() models.SearchQuery {
	return models.SearchQuery{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2026-09-10",
		Adults:        1,
		Cabin:         models.CabinEconomy,
		Currency:      "USD",
		MaxResults:    20,
	}
}

func TestPlanDropsDepartBeforeToday(t *testing.T) {
	raw := []RawCandidate{
		{Origin: "JFK", Destination: "LAX", Depart: "2026-08-31"},
		{Origin: "JFK", Destination: "LAX", Depart: "2026-09-01"},
	}

	plan := Plan(baseQuery(), raw, now)

	require.Len(t, plan, 1)
	assert.Equal(t, "2026-09-01", plan[0].Query.DepartureDate)
}

func TestPlanDropsUnparseableDepart(t *testing.T) {
	raw := []RawCandidate{
		{Depart: "next tuesday"},
		{Depart: ""},
	}

	assert.Empty(t, Plan(baseQuery(), raw, now))
}

func TestPlanDropsReturnBeforeDepart(t *testing.T) {
	// Invalid combos are dropped outright, never date-repaired.
	raw := []RawCandidate{
		{Depart: "2026-09-11", Return: "2026-09-09"},
		{Depart: "2026-09-11", Return: "2026-09-15"},
	}

	plan := Plan(baseQuery(), raw, now)

	require.Len(t, plan, 1)
	require.NotNil(t, plan[0].Query.ReturnDate)
	assert.Equal(t, "2026-09-15", *plan[0].Query.ReturnDate)
}

func TestPlanNormalizesCodesAndInheritsEndpoints(t *testing.T) {
	raw := []RawCandidate{
		{Origin: " ewr ", Depart: "2026-09-10"},
	}

	plan := Plan(baseQuery(), raw, now)

	require.Len(t, plan, 1)
	assert.Equal(t, "EWR", plan[0].Query.Origin)
	assert.Equal(t, "LAX", plan[0].Query.Destination)
}

func TestPlanTruncatesDateTimes(t *testing.T) {
	raw := []RawCandidate{
		{Depart: "2026-09-10T08:00:00Z"},
	}

	plan := Plan(baseQuery(), raw, now)

	require.Len(t, plan, 1)
	assert.Equal(t, "2026-09-10", plan[0].Query.DepartureDate)
}

func TestPlanScoringPrefersOriginalEndpointsAndSmallDrift(t *testing.T) {
	raw := []RawCandidate{
		{Origin: "EWR", Destination: "LAX", Depart: "2026-09-10"}, // -2
		{Origin: "JFK", Destination: "LAX", Depart: "2026-09-11"}, // -3
		{Origin: "EWR", Destination: "BUR", Depart: "2026-09-13"}, // +3
		{Origin: "JFK", Destination: "LAX", Depart: "2026-09-10"}, // -4
	}

	plan := Plan(baseQuery(), raw, now)

	require.Len(t, plan, 4)
	assert.Equal(t, -4, plan[0].Score)
	assert.Equal(t, -3, plan[1].Score)
	assert.Equal(t, "2026-09-11", plan[1].Query.DepartureDate)
	assert.Equal(t, -2, plan[2].Score)
	assert.Equal(t, "EWR", plan[2].Query.Origin)
	assert.Equal(t, 3, plan[3].Score)
}

func TestPlanStableForEqualScores(t *testing.T) {
	raw := []RawCandidate{
		{Origin: "EWR", Destination: "LAX", Depart: "2026-09-10"},
		{Origin: "LGA", Destination: "LAX", Depart: "2026-09-10"},
	}

	plan := Plan(baseQuery(), raw, now)

	require.Len(t, plan, 2)
	assert.Equal(t, "EWR", plan[0].Query.Origin)
	assert.Equal(t, "LGA", plan[1].Query.Origin)
}

func TestPlanCapsCandidateCount(t *testing.T) {
	var raw []RawCandidate
	for i := 0; i < 15; i++ {
		raw = append(raw, RawCandidate{Depart: fmt.Sprintf("2026-09-%02d", 10+i)})
	}

	assert.Len(t, Plan(baseQuery(), raw, now), maxCandidates)
}

func TestDecodeCandidatesStrict(t *testing.T) {
	valid := []byte(`[{"origin":"JFK","destination":"LAX","depart":"2026-09-10"}]`)
	decoded := DecodeCandidates(valid)
	require.Len(t, decoded, 1)
	assert.Equal(t, "JFK", decoded[0].Origin)

	for name, payload := range map[string]string{
		"garbage":        `not json at all`,
		"wrong shape":    `{"candidates": []}`,
		"unknown fields": `[{"origin":"JFK","airline":"AA"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			out := DecodeCandidates([]byte(payload))
			assert.NotNil(t, out)
			assert.Empty(t, out)
		})
	}
}

func TestStaticProposerShiftsDatesAndAirports(t *testing.T) {
	base := baseQuery()
	raw, err := StaticProposer{}.Propose(context.Background(), base)

	require.NoError(t, err)
	require.NotEmpty(t, raw)

	var sawShift, sawNearbyOrigin bool
	for _, rc := range raw {
		if rc.Origin == "JFK" && rc.Depart == "2026-09-11" {
			sawShift = true
		}
		if rc.Origin == "EWR" && rc.Depart == base.DepartureDate {
			sawNearbyOrigin = true
		}
	}
	assert.True(t, sawShift, "expected a +1 day shift of the base query")
	assert.True(t, sawNearbyOrigin, "expected a nearby-origin candidate")
}
