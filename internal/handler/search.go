package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"faresearch/internal/auth"
	"faresearch/internal/cache"
	"faresearch/internal/filter"
	"faresearch/internal/models"
	"faresearch/internal/nlparse"
)

// Searcher is the orchestrator seam the handler talks to.
type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery) (models.SearchOutcome, error)
}

// SearchRequest is either a structured query or free text; when both
// are present the structured fields win.
type SearchRequest struct {
	models.SearchQuery
	FreeText string `json:"query,omitempty"`
}

type SearchHandler struct {
	searcher Searcher
	parser   nlparse.Parser
	cache    cache.Cache
	validate *validator.Validate
}

func NewSearchHandler(searcher Searcher, parser nlparse.Parser, c cache.Cache) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		parser:   parser,
		cache:    c,
		validate: validator.New(),
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	q := req.SearchQuery
	if req.FreeText != "" {
		parsed, err := h.parser.Parse(ctx, req.FreeText)
		if err != nil {
			return badRequest(c, "unparseable_query", "Could not understand the request: "+err.Error())
		}
		q = merge(q, parsed)
	}

	if err := q.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}
	if err := h.validate.Struct(q); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	if outcome, found := h.cache.Get(ctx, q); found {
		return respond(c, q, outcome, startTime, true)
	}

	outcome, err := h.searcher.Search(ctx, q)
	if err != nil {
		var validationErr models.ValidationError
		if errors.As(err, &validationErr) {
			return badRequest(c, "validation_error", validationErr.Error())
		}
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "auth_error",
				Message: "Upstream credential failure: " + authErr.Reason,
				Code:    http.StatusBadGateway,
			})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: "Failed to search flights: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	_ = h.cache.Set(ctx, q, outcome)
	return respond(c, q, outcome, startTime, false)
}

func respond(c echo.Context, q models.SearchQuery, outcome models.SearchOutcome, startTime time.Time, cacheHit bool) error {
	results := filter.Apply(outcome.Results, q.Filters)

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: q,
		Metadata: models.SearchMetadata{
			SearchID:     uuid.NewString(),
			TotalResults: len(results),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
			CacheHit:     cacheHit,
		},
		Results:            results,
		UsedQuery:          outcome.UsedQuery,
		ExpandedByFallback: outcome.ExpandedByFallback,
		Note:               outcome.Note,
	})
}

// merge fills empty structured fields from the parsed free text.
func merge(structured, parsed models.SearchQuery) models.SearchQuery {
	if structured.Origin == "" {
		structured.Origin = parsed.Origin
	}
	if structured.Destination == "" {
		structured.Destination = parsed.Destination
	}
	if structured.DepartureDate == "" {
		structured.DepartureDate = parsed.DepartureDate
	}
	if structured.ReturnDate == nil {
		structured.ReturnDate = parsed.ReturnDate
	}
	if structured.Adults == 0 {
		structured.Adults = parsed.Adults
	}
	if structured.Cabin == "" {
		structured.Cabin = parsed.Cabin
	}
	return structured
}

func badRequest(c echo.Context, kind, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
