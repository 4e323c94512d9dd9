package offers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faresearch/internal/auth"
	"faresearch/internal/models"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(ctx context.Context) (string, error) {
	return s.token, s.err
}

func query() models.SearchQuery {
	ret := "2026-09-20"
	return models.SearchQuery{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2026-09-10",
		ReturnDate:    &ret,
		Adults:        2,
		Cabin:         models.CabinBusiness,
		Currency:      "USD",
		MaxResults:    20,
	}
}

func TestSearchSendsCredentialAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		assert.Equal(t, offersPath, r.URL.Path)

		params := r.URL.Query()
		assert.Equal(t, "JFK", params.Get("originLocationCode"))
		assert.Equal(t, "LAX", params.Get("destinationLocationCode"))
		assert.Equal(t, "2026-09-10", params.Get("departureDate"))
		assert.Equal(t, "2026-09-20", params.Get("returnDate"))
		assert.Equal(t, "2", params.Get("adults"))
		assert.Equal(t, "BUSINESS", params.Get("travelClass"))
		assert.Equal(t, "USD", params.Get("currencyCode"))
		assert.Equal(t, "20", params.Get("max"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []models.RawOffer{
				{ID: "1", Price: models.OfferPrice{Currency: "USD", GrandTotal: "512.30"}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, staticTokens{token: "tok-abc"}, nil, zerolog.Nop())
	found, err := client.Search(context.Background(), query())

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "512.30", found[0].Price.GrandTotal)
}

func TestSearchOmitsReturnDateWhenAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["returnDate"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	q := query()
	q.ReturnDate = nil

	client := NewClient(Config{BaseURL: srv.URL}, staticTokens{token: "t"}, nil, zerolog.Nop())
	found, err := client.Search(context.Background(), q)

	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchNon2xxIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"detail":"no route"}]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, staticTokens{token: "t"}, nil, zerolog.Nop())
	_, err := client.Search(context.Background(), query())

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusNotFound, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Body, "no route")
	assert.False(t, upstreamErr.Transient())
}

func TestUpstreamErrorTransientStatuses(t *testing.T) {
	assert.True(t, (&UpstreamError{Status: http.StatusServiceUnavailable}).Transient())
	assert.True(t, (&UpstreamError{Status: http.StatusGatewayTimeout}).Transient())
	assert.False(t, (&UpstreamError{Status: http.StatusUnauthorized}).Transient())
	assert.False(t, (&UpstreamError{Status: http.StatusBadRequest}).Transient())
}

func TestSearchPropagatesAuthError(t *testing.T) {
	want := &auth.Error{Reason: "client credentials not configured"}
	client := NewClient(Config{BaseURL: "http://localhost:0"}, staticTokens{err: want}, nil, zerolog.Nop())

	_, err := client.Search(context.Background(), query())

	var authErr *auth.Error
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, want.Reason, authErr.Reason)
}

func TestSearchHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{BaseURL: srv.URL}, staticTokens{token: "t"}, nil, zerolog.Nop())
	_, err := client.Search(ctx, query())

	require.Error(t, err)
}
