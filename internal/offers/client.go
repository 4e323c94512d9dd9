// Package offers is the client for the upstream flight-offer API. One
// Search call is one HTTP round trip with a cached bearer credential
// attached.
package offers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"faresearch/internal/models"
	"faresearch/internal/ratelimit"
)

const offersPath = "/v2/shopping/flight-offers"

// maxErrorBody caps how much of an upstream error body we keep around.
const maxErrorBody = 2048

// UpstreamError is any non-2xx response from the flight-offer API.
// Only 503 and 504 are worth retrying.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Transient() bool {
	return e.Status == http.StatusServiceUnavailable || e.Status == http.StatusGatewayTimeout
}

// TokenSource supplies the bearer credential; failures surface as
// *auth.Error and are never handled here. A 401 from the offers
// endpoint is likewise not retried locally — expiry handling lives in
// the token cache, retry policy in the caller.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *ratelimit.Limiter
	log     zerolog.Logger
}

func NewClient(cfg Config, tokens TokenSource, limiter *ratelimit.Limiter, log zerolog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		tokens:  tokens,
		limiter: limiter,
		log:     log,
	}
}

type offersEnvelope struct {
	Data []models.RawOffer `json:"data"`
}

// Search issues one flight-offer query and returns the raw offers.
func (c *Client) Search(ctx context.Context, q models.SearchQuery) ([]models.RawOffer, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "offers"); err != nil {
			return nil, err
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+offersPath, nil)
	if err != nil {
		return nil, fmt.Errorf("offers request: %w", err)
	}
	req.URL.RawQuery = searchParams(q).Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	c.log.Debug().
		Str("origin", q.Origin).
		Str("destination", q.Destination).
		Str("departure_date", q.DepartureDate).
		Str("cabin", string(q.Cabin)).
		Msg("querying flight offers")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("offers request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var envelope offersEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("offers response: %w", err)
	}
	return envelope.Data, nil
}

func searchParams(q models.SearchQuery) url.Values {
	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartureDate)
	if q.ReturnDate != nil {
		params.Set("returnDate", *q.ReturnDate)
	}
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("travelClass", string(q.Cabin))
	params.Set("currencyCode", q.Currency)
	params.Set("max", strconv.Itoa(q.MaxResults))
	return params
}
