// Package airports is a small static reference table: enough airport
// metadata for combo proposals and free-text lookups, nothing more.
package airports

import (
	"sort"
	"strings"
)

type Airport struct {
	Code   string
	City   string
	Nearby []string
}

var byCode = map[string]Airport{
	"JFK": {Code: "JFK", City: "New York", Nearby: []string{"EWR", "LGA"}},
	"EWR": {Code: "EWR", City: "Newark", Nearby: []string{"JFK", "LGA"}},
	"LGA": {Code: "LGA", City: "New York", Nearby: []string{"JFK", "EWR"}},
	"LAX": {Code: "LAX", City: "Los Angeles", Nearby: []string{"BUR", "SNA", "ONT"}},
	"BUR": {Code: "BUR", City: "Burbank", Nearby: []string{"LAX", "ONT"}},
	"SNA": {Code: "SNA", City: "Santa Ana", Nearby: []string{"LAX", "ONT"}},
	"ONT": {Code: "ONT", City: "Ontario", Nearby: []string{"LAX", "SNA"}},
	"SFO": {Code: "SFO", City: "San Francisco", Nearby: []string{"OAK", "SJC"}},
	"OAK": {Code: "OAK", City: "Oakland", Nearby: []string{"SFO", "SJC"}},
	"SJC": {Code: "SJC", City: "San Jose", Nearby: []string{"SFO", "OAK"}},
	"ORD": {Code: "ORD", City: "Chicago", Nearby: []string{"MDW"}},
	"MDW": {Code: "MDW", City: "Chicago", Nearby: []string{"ORD"}},
	"BOS": {Code: "BOS", City: "Boston", Nearby: []string{"PVD"}},
	"PVD": {Code: "PVD", City: "Providence", Nearby: []string{"BOS"}},
	"MIA": {Code: "MIA", City: "Miami", Nearby: []string{"FLL"}},
	"FLL": {Code: "FLL", City: "Fort Lauderdale", Nearby: []string{"MIA"}},
	"SEA": {Code: "SEA", City: "Seattle", Nearby: []string{}},
	"DEN": {Code: "DEN", City: "Denver", Nearby: []string{}},
	"IAD": {Code: "IAD", City: "Washington", Nearby: []string{"DCA", "BWI"}},
	"DCA": {Code: "DCA", City: "Washington", Nearby: []string{"IAD", "BWI"}},
	"BWI": {Code: "BWI", City: "Baltimore", Nearby: []string{"IAD", "DCA"}},
	"LHR": {Code: "LHR", City: "London", Nearby: []string{"LGW", "STN"}},
	"LGW": {Code: "LGW", City: "London", Nearby: []string{"LHR", "STN"}},
	"STN": {Code: "STN", City: "London", Nearby: []string{"LHR", "LGW"}},
	"CDG": {Code: "CDG", City: "Paris", Nearby: []string{"ORY"}},
	"ORY": {Code: "ORY", City: "Paris", Nearby: []string{"CDG"}},
	"AMS": {Code: "AMS", City: "Amsterdam", Nearby: []string{}},
	"FRA": {Code: "FRA", City: "Frankfurt", Nearby: []string{}},
	"NRT": {Code: "NRT", City: "Tokyo", Nearby: []string{"HND"}},
	"HND": {Code: "HND", City: "Tokyo", Nearby: []string{"NRT"}},
	"SIN": {Code: "SIN", City: "Singapore", Nearby: []string{}},
	"CGK": {Code: "CGK", City: "Jakarta", Nearby: []string{"HLP"}},
	"HLP": {Code: "HLP", City: "Jakarta", Nearby: []string{"CGK"}},
	"DPS": {Code: "DPS", City: "Denpasar", Nearby: []string{}},
	"DXB": {Code: "DXB", City: "Dubai", Nearby: []string{}},
	"SYD": {Code: "SYD", City: "Sydney", Nearby: []string{}},
}

func Lookup(code string) (Airport, bool) {
	a, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// Nearby returns alternate airports for a code, empty when unknown.
func Nearby(code string) []string {
	a, ok := Lookup(code)
	if !ok {
		return nil
	}
	return a.Nearby
}

var codesSorted = func() []string {
	codes := make([]string, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}()

// ByCity finds the first airport (in code order, so the match is
// deterministic) whose city name appears in text. Case-insensitive,
// meant for loose free-text matching.
func ByCity(text string) (Airport, bool) {
	lower := strings.ToLower(text)
	for _, code := range codesSorted {
		a := byCode[code]
		if strings.Contains(lower, strings.ToLower(a.City)) {
			return a, true
		}
	}
	return Airport{}, false
}
