// Package orchestrator drives the search-with-fallback flow: a primary
// query, then a bounded race over widened alternatives, then a one-shot
// cabin downgrade, whichever first produces offers.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"faresearch/internal/async"
	"faresearch/internal/auth"
	"faresearch/internal/combos"
	"faresearch/internal/models"
	"faresearch/internal/ranking"
)

// OfferSearcher is the one upstream operation the orchestrator needs.
type OfferSearcher interface {
	Search(ctx context.Context, q models.SearchQuery) ([]models.RawOffer, error)
}

type Config struct {
	PrimaryAttempts  int
	PrimaryTimeout   time.Duration
	PrimaryBackoff   time.Duration
	CandidateTimeout time.Duration
	RaceLimit        int
	DowngradeTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PrimaryAttempts:  2,
		PrimaryTimeout:   9500 * time.Millisecond,
		PrimaryBackoff:   300 * time.Millisecond,
		CandidateTimeout: 7500 * time.Millisecond,
		RaceLimit:        4,
		DowngradeTimeout: 3800 * time.Millisecond,
	}
}

const (
	noteNoOffers        = "no offers found; the search could not be widened"
	noteNoOffersWidened = "no offers found after widening to nearby airports and dates"
	noteEconomyFallback = "business class was unavailable; showing economy fares instead"
)

// errNoOffers marks a candidate that answered cleanly but empty.
var errNoOffers = errors.New("no offers")

type Orchestrator struct {
	client   OfferSearcher
	proposer combos.Proposer
	cfg      Config
	log      zerolog.Logger
}

func New(client OfferSearcher, proposer combos.Proposer, cfg Config, log zerolog.Logger) *Orchestrator {
	if cfg.PrimaryAttempts < 1 {
		cfg.PrimaryAttempts = 1
	}
	if cfg.RaceLimit < 1 {
		cfg.RaceLimit = 1
	}
	return &Orchestrator{
		client:   client,
		proposer: proposer,
		cfg:      cfg,
		log:      log,
	}
}

// Search runs the full flow for one query. Validation and credential
// failures surface as errors; every other failure is absorbed into the
// outcome (a phase that fails is a phase that missed).
func (o *Orchestrator) Search(ctx context.Context, q models.SearchQuery) (models.SearchOutcome, error) {
	if err := q.Validate(); err != nil {
		return models.SearchOutcome{}, err
	}

	log := o.log.With().
		Str("search_id", uuid.NewString()).
		Str("origin", q.Origin).
		Str("destination", q.Destination).
		Str("departure_date", q.DepartureDate).
		Logger()

	// Primary.
	found, err := async.Do(ctx, func(ctx context.Context) ([]models.RawOffer, error) {
		return o.client.Search(ctx, q)
	}, o.cfg.PrimaryAttempts, o.cfg.PrimaryTimeout, o.cfg.PrimaryBackoff)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			return models.SearchOutcome{}, err
		}
		log.Warn().Err(err).Msg("primary search missed")
	}
	if len(found) > 0 {
		log.Info().Int("offers", len(found)).Msg("primary search hit")
		return outcome(q, found, false, ""), nil
	}

	// Expanding.
	winner, attempted, err := o.expand(ctx, q, log)
	if err != nil {
		return models.SearchOutcome{}, err
	}
	if winner != nil {
		log.Info().
			Str("used_origin", winner.query.Origin).
			Str("used_departure", winner.query.DepartureDate).
			Int("offers", len(winner.offers)).
			Msg("widened search hit")
		return outcome(winner.query, winner.offers, true, ""), nil
	}

	// Downgrading. Business-only, one short best-effort shot, failures
	// swallowed. The substitution is always visible via the note.
	if q.Cabin == models.CabinBusiness {
		economy := q.WithCabin(models.CabinEconomy)
		downCtx, cancel := context.WithTimeout(ctx, o.cfg.DowngradeTimeout)
		found, err := o.client.Search(downCtx, economy)
		cancel()
		if err != nil {
			log.Debug().Err(err).Msg("economy downgrade missed")
		} else if len(found) > 0 {
			log.Info().Int("offers", len(found)).Msg("economy downgrade hit")
			return outcome(economy, found, true, noteEconomyFallback), nil
		}
	}

	note := noteNoOffers
	if attempted {
		note = noteNoOffersWidened
	}
	return models.SearchOutcome{
		Results:            []models.RankedResult{},
		UsedQuery:          q,
		ExpandedByFallback: attempted,
		Note:               note,
	}, nil
}

type raceWin struct {
	query  models.SearchQuery
	offers []models.RawOffer
}

// expand races the planner's candidates with bounded concurrency. The
// returned bool reports whether any candidate was actually raced. An
// AuthError seen by any candidate aborts the request.
func (o *Orchestrator) expand(ctx context.Context, base models.SearchQuery, log zerolog.Logger) (*raceWin, bool, error) {
	raw, err := o.proposer.Propose(ctx, base)
	if err != nil {
		log.Warn().Err(err).Msg("combo proposer failed")
		return nil, false, nil
	}
	candidates := combos.Plan(base, raw, time.Now())
	if len(candidates) == 0 {
		return nil, false, nil
	}
	log.Debug().Int("candidates", len(candidates)).Msg("racing widened queries")

	var authMu sync.Mutex
	var authFailure error

	ops := make([]async.Operation[raceWin], len(candidates))
	for i, candidate := range candidates {
		query := candidate.Query
		ops[i] = func(ctx context.Context) (raceWin, error) {
			found, err := async.Do(ctx, func(ctx context.Context) ([]models.RawOffer, error) {
				return o.client.Search(ctx, query)
			}, 1, o.cfg.CandidateTimeout, 0)
			if err != nil {
				var authErr *auth.Error
				if errors.As(err, &authErr) {
					authMu.Lock()
					if authFailure == nil {
						authFailure = err
					}
					authMu.Unlock()
				}
				return raceWin{}, err
			}
			if len(found) == 0 {
				return raceWin{}, errNoOffers
			}
			return raceWin{query: query, offers: found}, nil
		}
	}

	win, ok := async.Race(ctx, ops, o.cfg.RaceLimit)
	if !ok {
		authMu.Lock()
		defer authMu.Unlock()
		if authFailure != nil {
			return nil, true, authFailure
		}
		return nil, true, nil
	}
	return &win, true, nil
}

func outcome(q models.SearchQuery, offers []models.RawOffer, expanded bool, note string) models.SearchOutcome {
	return models.SearchOutcome{
		Results:            ranking.Rank(offers),
		UsedQuery:          q,
		ExpandedByFallback: expanded,
		Note:               note,
	}
}
