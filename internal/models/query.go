package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used everywhere in the API.
const DateLayout = "2006-01-02"

type Cabin string

const (
	CabinEconomy        Cabin = "ECONOMY"
	CabinPremiumEconomy Cabin = "PREMIUM_ECONOMY"
	CabinBusiness       Cabin = "BUSINESS"
	CabinFirst          Cabin = "FIRST"
)

// ParseCabin maps loose caller input ("business", "premium economy") onto
// the upstream cabin enum.
func ParseCabin(s string) (Cabin, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	switch Cabin(norm) {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return Cabin(norm), true
	}
	return "", false
}

type SearchFilters struct {
	PriceMax *float64 `json:"price_max,omitempty"`
	MaxStops *int     `json:"max_stops,omitempty"`
	Carriers []string `json:"carriers,omitempty"`
}

type SearchQuery struct {
	Origin        string         `json:"origin" validate:"omitempty,len=3,alpha"`
	Destination   string         `json:"destination" validate:"omitempty,len=3,alpha"`
	DepartureDate string         `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    *string        `json:"return_date,omitempty"`
	Adults        int            `json:"adults" validate:"omitempty,min=1,max=9"`
	Cabin         Cabin          `json:"cabin,omitempty"`
	Currency      string         `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	MaxResults    int            `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
	Filters       *SearchFilters `json:"filters,omitempty"`
}

// Validate normalizes the query in place and reports missing required
// fields. A return date earlier than the departure date is repaired to
// "no return date" rather than rejected.
func (q *SearchQuery) Validate() error {
	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	if q.Origin == "" {
		return ErrMissingOrigin
	}
	if q.Destination == "" {
		return ErrMissingDestination
	}
	q.DepartureDate = strings.TrimSpace(q.DepartureDate)
	if q.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	if len(q.DepartureDate) > len(DateLayout) {
		q.DepartureDate = q.DepartureDate[:len(DateLayout)]
	}
	depart, err := time.Parse(DateLayout, q.DepartureDate)
	if err != nil {
		return ErrInvalidDepartureDate
	}
	if q.ReturnDate != nil {
		ret := strings.TrimSpace(*q.ReturnDate)
		if len(ret) > len(DateLayout) {
			ret = ret[:len(DateLayout)]
		}
		rt, err := time.Parse(DateLayout, ret)
		if err != nil || rt.Before(depart) {
			q.ReturnDate = nil
		} else {
			q.ReturnDate = &ret
		}
	}
	if q.Adults < 1 {
		q.Adults = 1
	}
	if c, ok := ParseCabin(string(q.Cabin)); ok {
		q.Cabin = c
	} else {
		q.Cabin = CabinEconomy
	}
	q.Currency = strings.ToUpper(strings.TrimSpace(q.Currency))
	if q.Currency == "" {
		q.Currency = "USD"
	}
	if q.MaxResults <= 0 {
		q.MaxResults = 20
	}
	if q.MaxResults > 50 {
		q.MaxResults = 50
	}
	return nil
}

// WithCabin returns a copy of the query with the cabin replaced.
func (q SearchQuery) WithCabin(c Cabin) SearchQuery {
	q.Cabin = c
	return q
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin        ValidationError = "origin is required"
	ErrMissingDestination   ValidationError = "destination is required"
	ErrMissingDepartureDate ValidationError = "departure_date is required"
	ErrInvalidDepartureDate ValidationError = "departure_date must be YYYY-MM-DD"
)
