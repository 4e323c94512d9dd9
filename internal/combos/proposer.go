package combos

import (
	"context"
	"time"

	"faresearch/internal/airports"
	"faresearch/internal/models"
)

// Proposer generates raw fallback candidates for a base query. The
// records it returns are untrusted and always go through Plan.
type Proposer interface {
	Propose(ctx context.Context, base models.SearchQuery) ([]RawCandidate, error)
}

// StaticProposer derives combos from the airport reference table and a
// fixed set of date shifts. It stands in for a smarter external
// proposer and needs no network.
type StaticProposer struct {
	// DateShifts in days relative to the base departure; defaults to
	// +1, -1, +2.
	DateShifts []int
}

func (p StaticProposer) Propose(_ context.Context, base models.SearchQuery) ([]RawCandidate, error) {
	depart, err := time.Parse(models.DateLayout, base.DepartureDate)
	if err != nil {
		return nil, err
	}
	var ret time.Time
	hasReturn := base.ReturnDate != nil
	if hasReturn {
		ret, err = time.Parse(models.DateLayout, *base.ReturnDate)
		if err != nil {
			hasReturn = false
		}
	}

	shifts := p.DateShifts
	if len(shifts) == 0 {
		shifts = []int{1, -1, 2}
	}

	var out []RawCandidate

	// Same endpoints, shifted dates.
	for _, days := range shifts {
		rc := RawCandidate{
			Origin:      base.Origin,
			Destination: base.Destination,
			Depart:      depart.AddDate(0, 0, days).Format(models.DateLayout),
		}
		if hasReturn {
			rc.Return = ret.AddDate(0, 0, days).Format(models.DateLayout)
		}
		out = append(out, rc)
	}

	// Nearby origin airports, original dates.
	for _, alt := range airports.Nearby(base.Origin) {
		rc := RawCandidate{
			Origin:      alt,
			Destination: base.Destination,
			Depart:      base.DepartureDate,
		}
		if hasReturn {
			rc.Return = *base.ReturnDate
		}
		out = append(out, rc)
	}

	// Nearby destination airports, original dates.
	for _, alt := range airports.Nearby(base.Destination) {
		rc := RawCandidate{
			Origin:      base.Origin,
			Destination: alt,
			Depart:      base.DepartureDate,
		}
		if hasReturn {
			rc.Return = *base.ReturnDate
		}
		out = append(out, rc)
	}

	return out, nil
}
