package models

// RawOffer is one priced itinerary as returned by the upstream
// flight-offer API. It is decoded as-is and handed by value to the
// ranking layer; nothing outside the wire shape is kept.
type RawOffer struct {
	ID          string      `json:"id"`
	Price       OfferPrice  `json:"price"`
	Itineraries []Itinerary `json:"itineraries"`
}

type OfferPrice struct {
	Currency   string `json:"currency"`
	GrandTotal string `json:"grandTotal"`
}

type Itinerary struct {
	// Duration is an ISO-8601 duration, e.g. "PT7H30M".
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Departure   SegmentPoint `json:"departure"`
	Arrival     SegmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
}

type SegmentPoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at,omitempty"`
}
