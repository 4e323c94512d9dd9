package models

import "github.com/shopspring/decimal"

// RankedResult is the compact, ordering-stable view of one offer.
type RankedResult struct {
	Price        decimal.Decimal `json:"price"`
	PriceText    string          `json:"price_text"`
	Currency     string          `json:"currency"`
	DurationText string          `json:"duration_text"`
	Stops        int             `json:"stops"`
	Route        string          `json:"route"`
	Carriers     []string        `json:"carriers"`
	OfferID      string          `json:"offer_id"`
}

// SearchOutcome is the single value the orchestrator hands back to its
// caller. UsedQuery is the query that actually produced the results, or
// the original query when nothing did.
type SearchOutcome struct {
	Results            []RankedResult `json:"results"`
	UsedQuery          SearchQuery    `json:"used_query"`
	ExpandedByFallback bool           `json:"expanded_by_fallback"`
	Note               string         `json:"note,omitempty"`
}

type SearchMetadata struct {
	SearchID     string `json:"search_id"`
	TotalResults int    `json:"total_results"`
	SearchTimeMs int64  `json:"search_time_ms"`
	CacheHit     bool   `json:"cache_hit"`
}

type SearchResponse struct {
	SearchCriteria     SearchQuery    `json:"search_criteria"`
	Metadata           SearchMetadata `json:"metadata"`
	Results            []RankedResult `json:"results"`
	UsedQuery          SearchQuery    `json:"used_query"`
	ExpandedByFallback bool           `json:"expanded_by_fallback"`
	Note               string         `json:"note,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
