// Package combos turns untrusted fallback proposals (shifted dates,
// nearby airports) into a validated, scored list of alternative queries.
package combos

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"faresearch/internal/models"
)

// maxCandidates caps how many alternatives one search will ever race.
const maxCandidates = 10

// RawCandidate is one untrusted record from a proposer. Empty endpoint
// fields inherit the base query's endpoints.
type RawCandidate struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Depart      string `json:"depart"`
	Return      string `json:"return,omitempty"`
}

// Candidate is a validated alternative query with its ordering score.
// Lower scores race first.
type Candidate struct {
	Query models.SearchQuery
	Score int
}

// DecodeCandidates strictly decodes a proposer payload. Anything that
// does not parse as a candidate list yields an empty typed list — the
// planner never errors on garbage input, it just has nothing to try.
func DecodeCandidates(data []byte) []RawCandidate {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var out []RawCandidate
	if err := dec.Decode(&out); err != nil {
		return []RawCandidate{}
	}
	return out
}

// Plan validates, scores and orders raw candidates against the base
// query. Dropped outright (never repaired): unparseable depart dates,
// departs before today's UTC date, and return dates earlier than their
// own depart date.
func Plan(base models.SearchQuery, raw []RawCandidate, now time.Time) []Candidate {
	today := truncateDate(now.UTC())
	baseDepart, baseErr := time.Parse(models.DateLayout, base.DepartureDate)

	candidates := make([]Candidate, 0, len(raw))
	for _, rc := range raw {
		origin := strings.ToUpper(strings.TrimSpace(rc.Origin))
		if origin == "" {
			origin = base.Origin
		}
		destination := strings.ToUpper(strings.TrimSpace(rc.Destination))
		if destination == "" {
			destination = base.Destination
		}

		depart := truncateDateString(rc.Depart)
		departAt, err := time.Parse(models.DateLayout, depart)
		if err != nil {
			continue
		}
		if departAt.Before(today) {
			continue
		}

		var ret *string
		if s := truncateDateString(rc.Return); s != "" {
			retAt, err := time.Parse(models.DateLayout, s)
			if err != nil {
				continue
			}
			if retAt.Before(departAt) {
				continue
			}
			ret = &s
		}

		q := base
		q.Origin = origin
		q.Destination = destination
		q.DepartureDate = depart
		q.ReturnDate = ret

		score := 0
		if origin == base.Origin {
			score -= 2
		}
		if destination == base.Destination {
			score -= 2
		}
		if baseErr == nil {
			score += daysBetween(departAt, baseDepart)
		}
		candidates = append(candidates, Candidate{Query: q, Score: score})

		if len(candidates) == maxCandidates {
			break
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	return candidates
}

func truncateDateString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	return s
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
