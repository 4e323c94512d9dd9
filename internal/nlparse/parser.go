// Package nlparse turns free-text travel requests into partial query
// fields. It is a thin collaborator: whatever it extracts still goes
// through the same validation as structured input, and a smarter
// implementation can be swapped in behind the Parser interface.
package nlparse

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"faresearch/internal/airports"
	"faresearch/internal/models"
)

type Parser interface {
	Parse(ctx context.Context, text string) (models.SearchQuery, error)
}

// HeuristicParser extracts fields with regular expressions and the
// airport reference table. It never errors; unknown text just yields
// fewer fields.
type HeuristicParser struct{}

var (
	routePattern   = regexp.MustCompile(`(?i)\bfrom\s+([A-Za-z]{3})\b.*?\bto\s+([A-Za-z]{3})\b`)
	codesPattern   = regexp.MustCompile(`\b([A-Z]{3})\b`)
	isoDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	adultsPattern  = regexp.MustCompile(`(?i)\b(\d+)\s+(?:adults?|passengers?|people)\b`)
)

func (HeuristicParser) Parse(_ context.Context, text string) (models.SearchQuery, error) {
	var q models.SearchQuery

	if m := routePattern.FindStringSubmatch(text); m != nil {
		q.Origin = strings.ToUpper(m[1])
		q.Destination = strings.ToUpper(m[2])
	} else if codes := codesPattern.FindAllString(text, 2); len(codes) == 2 {
		q.Origin = codes[0]
		q.Destination = codes[1]
	} else if origin, destination, ok := splitCities(text); ok {
		q.Origin = origin
		q.Destination = destination
	}

	if dates := isoDatePattern.FindAllString(text, 2); len(dates) > 0 {
		q.DepartureDate = dates[0]
		if len(dates) > 1 {
			ret := dates[1]
			q.ReturnDate = &ret
		}
	} else if d, ok := parseLooseDate(text); ok {
		q.DepartureDate = d
	}

	if m := adultsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.Adults = n
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "premium economy"):
		q.Cabin = models.CabinPremiumEconomy
	case strings.Contains(lower, "first class"), strings.Contains(lower, "first-class"):
		q.Cabin = models.CabinFirst
	case strings.Contains(lower, "business"):
		q.Cabin = models.CabinBusiness
	case strings.Contains(lower, "economy"):
		q.Cabin = models.CabinEconomy
	}

	return q, nil
}

// splitCities matches city names on either side of "to".
func splitCities(text string) (string, string, bool) {
	parts := strings.SplitN(strings.ToLower(text), " to ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	origin, ok := airports.ByCity(parts[0])
	if !ok {
		return "", "", false
	}
	destination, ok := airports.ByCity(parts[1])
	if !ok {
		return "", "", false
	}
	return origin.Code, destination.Code, true
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var looseDatePattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})\b`)

// parseLooseDate handles "June 14" style dates, resolved to the next
// occurrence from today.
func parseLooseDate(text string) (string, bool) {
	m := looseDatePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	month := months[strings.ToLower(m[1])]
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}

	now := time.Now().UTC()
	candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate.Format(models.DateLayout), true
}
