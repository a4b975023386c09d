// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver runs the full query-to-URL pipeline: normalize the raw
// query, extract intent, build the search dork, call the search provider,
// normalize and rank the candidates, and merge the marketplace's native
// filter parameters onto the winner. A single Resolve call is a linear
// pipeline with no shared mutable state, so concurrent calls need no
// locking.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/obeidat/sooqlink/internal/filters"
	"github.com/obeidat/sooqlink/internal/httputil"
	"github.com/obeidat/sooqlink/internal/intent"
	"github.com/obeidat/sooqlink/internal/rank"
	"github.com/obeidat/sooqlink/internal/rules"
	"github.com/obeidat/sooqlink/internal/search"
	"github.com/obeidat/sooqlink/internal/textnorm"
	"github.com/obeidat/sooqlink/internal/urlnorm"
	"github.com/obeidat/sooqlink/pkg/types"
)

// Searcher is the slice of the search client the resolver needs. Tests
// substitute a stub; production wiring passes *search.Client.
type Searcher interface {
	Search(ctx context.Context, dork string, maxResults int) (search.Output, error)
}

// Request is one resolution request. Caller-supplied price/year values take
// precedence over values extracted from the free-text query.
type Request struct {
	Query string

	PriceFrom *int
	PriceTo   *int
	YearFrom  *int
	YearTo    *int

	// Location is an optional city token; it is stripped from the product
	// phrase and merged back as the city filter.
	Location string

	// Strict quotes the product phrase and adds an inurl: hint to the dork.
	Strict bool

	// MaxResults overrides the configured per-call result count when > 0.
	MaxResults int
}

// Resolver wires the pipeline components together. Safe for concurrent use.
type Resolver struct {
	cfg       types.ResolverConfig
	extractor *intent.Extractor
	norm      *urlnorm.Normalizer
	ranker    *rank.Ranker
	searcher  Searcher
	log       zerolog.Logger
}

// New builds a Resolver with a production search client. A missing API key
// surfaces here as a configuration error.
func New(cfg types.ResolverConfig, logger zerolog.Logger) (*Resolver, error) {
	r, err := loadComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	client, err := search.NewClient(cfg.Search, r.norm, logger)
	if err != nil {
		return nil, err
	}
	r.searcher = client
	return r, nil
}

// NewWithSearcher builds a Resolver around a caller-supplied search
// implementation.
func NewWithSearcher(cfg types.ResolverConfig, searcher Searcher, logger zerolog.Logger) (*Resolver, error) {
	r, err := loadComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	r.searcher = searcher
	return r, nil
}

func loadComponents(cfg types.ResolverConfig, logger zerolog.Logger) (*Resolver, error) {
	rls := rules.Default()
	if cfg.RulesFile != "" {
		loaded, err := rules.Load(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("loading rules file: %w", err)
		}
		rls = loaded
	}

	return &Resolver{
		cfg:       cfg,
		extractor: intent.NewExtractor(rls),
		norm:      urlnorm.NewNormalizer(rls, cfg.Market),
		ranker:    rank.New(rank.DefaultWeights()),
		log:       logger,
	}, nil
}

// Resolve runs the pipeline for one request. It returns an error only for
// upstream search failures; every other outcome, including invalid input
// and no match, is a structured result the caller can render.
func (r *Resolver) Resolve(ctx context.Context, req Request) (types.ResolutionResult, error) {
	res := types.ResolutionResult{Timestamp: time.Now().UTC()}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		res.Status = types.StatusInvalidInput
		res.Summary = "empty query"
		return res, nil
	}
	if msg := validateBounds(req); msg != "" {
		res.Status = types.StatusInvalidInput
		res.Summary = msg
		return res, nil
	}

	res.Intent = r.extract(query, req)

	var priceLo, priceHi int
	if res.Intent.PriceFrom != nil {
		priceLo = *res.Intent.PriceFrom
	}
	if res.Intent.PriceTo != nil {
		priceHi = *res.Intent.PriceTo
	}
	// A lone upper bound is still the anchor for a single-price dork.
	if res.Intent.PriceMode == types.PriceSingle && res.Intent.PriceFrom == nil {
		priceLo = priceHi
	}
	if req.Strict {
		res.Dork = intent.BuildStrictDork(res.Intent.ProductText, res.Intent.Location,
			priceLo, priceHi, res.Intent.PriceMode, r.cfg.Market)
	} else {
		res.Dork = intent.BuildDork(res.Intent.ProductText, res.Intent.Location,
			priceLo, priceHi, res.Intent.PriceMode, r.cfg.Market)
	}

	out, err := r.searcher.Search(ctx, res.Dork, req.MaxResults)
	if err != nil {
		res.Status = types.StatusSearchFailed
		res.Summary = fmt.Sprintf("search failed: %v", err)
		var serr *search.Error
		if errors.As(err, &serr) {
			res.Dork = serr.Dork
		}
		return res, err
	}
	res.CandidatesTried = out.URLsTried

	candidates := make([]types.NormalizedCandidate, 0, len(out.Candidates))
	for _, c := range out.Candidates {
		candidates = append(candidates, r.norm.Candidate(c.URL))
	}

	best, ok := r.ranker.Best(candidates, res.Intent)
	if !ok {
		res.Status = types.StatusNoMatch
		res.Summary = "no category page matched the query"
		return res, nil
	}
	res.CategoryURL = best.URL

	if !r.allowedCategory(best.URL) {
		res.Status = types.StatusPartial
		res.Summary = "category found but failed domain validation; returning it unfiltered"
		r.log.Warn().Str("url", best.URL).Msg("winning category outside allowed domains")
		return res, nil
	}

	res.FinalURL = filters.Merge(best.URL, filters.Filters{
		PriceFrom: res.Intent.PriceFrom,
		PriceTo:   res.Intent.PriceTo,
		YearFrom:  res.Intent.YearFrom,
		YearTo:    res.Intent.YearTo,
		Currency:  r.cfg.Market.PriceCurrency,
		City:      res.Intent.Location,
		Query:     res.Intent.ProductText,
	})
	res.Status = types.StatusResolved
	res.Summary = fmt.Sprintf("resolved to %s (score %d, %d candidates tried)",
		res.CategoryURL, best.Score, res.CandidatesTried)

	if r.cfg.CheckLiveness {
		res.CategoryAlive = httputil.ProbeAlive(ctx, res.CategoryURL, r.cfg.Search.UserAgent)
		// A page can answer 200 and still be an expired-listing shell;
		// the marker phrases in the body are the real signal.
		if res.CategoryAlive != nil && *res.CategoryAlive {
			text := httputil.FetchText(ctx, res.CategoryURL, r.cfg.Search.UserAgent)
			if urlnorm.PageUnavailable(text) {
				dead := false
				res.CategoryAlive = &dead
			}
		}
	}

	r.log.Info().
		Str("category", res.CategoryURL).
		Int("score", best.Score).
		Int("tried", res.CandidatesTried).
		Msg("resolution complete")
	return res, nil
}

// extract builds the ParsedIntent, applying caller-supplied overrides on
// top of what the text yields.
func (r *Resolver) extract(query string, req Request) types.ParsedIntent {
	it := types.ParsedIntent{
		Location:       strings.TrimSpace(req.Location),
		HasStorageHint: r.extractor.HasStorageHint(query),
		HasYearHint:    r.extractor.HasYearHint(query, req.YearFrom, req.YearTo),
		Keywords:       r.extractor.Keywords(query),
	}
	it.ProductText = r.extractor.CleanProductText(query, req.Location)
	// Price and year tokens are carried by their own intent fields; the
	// product anchor feeding the dork and slug scoring holds only the
	// product words. A phrase that is nothing but filter tokens keeps the
	// cleaned text so the anchor never silently disappears.
	if stripped := textnorm.StripPriceTokens(it.ProductText); stripped != "" {
		it.ProductText = stripped
	}

	if lo, hi, mode := r.extractor.PriceRange(query); mode != types.PriceNone {
		it.PriceFrom, it.PriceTo = &lo, &hi
		it.PriceMode = mode
	}
	if req.PriceFrom != nil || req.PriceTo != nil {
		it.PriceFrom, it.PriceTo = copyInt(req.PriceFrom), copyInt(req.PriceTo)
		it.PriceMode = overrideMode(req.PriceFrom, req.PriceTo)
	}
	orderBounds(it.PriceFrom, it.PriceTo)

	if from, to, ok := r.extractor.YearRange(query); ok {
		it.YearFrom, it.YearTo = &from, &to
	}
	if req.YearFrom != nil || req.YearTo != nil {
		it.YearFrom, it.YearTo = copyInt(req.YearFrom), copyInt(req.YearTo)
	}
	orderBounds(it.YearFrom, it.YearTo)

	return it
}

// overrideMode classifies caller-supplied price bounds for dork building:
// two distinct bounds are a range, anything else an anchor price.
func overrideMode(from, to *int) types.PriceMode {
	if from != nil && to != nil && *from != *to {
		return types.PriceRange
	}
	return types.PriceSingle
}

// orderBounds swaps the pointed-to values so from <= to. The intent holds
// copies, never the caller's ints.
func orderBounds(from, to *int) {
	if from != nil && to != nil && *from > *to {
		*from, *to = *to, *from
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// validateBounds rejects caller-supplied values the marketplace cannot
// represent. Returns a summary string, empty when the request is valid.
func validateBounds(req Request) string {
	for _, p := range []*int{req.PriceFrom, req.PriceTo} {
		if p != nil && *p < 0 {
			return fmt.Sprintf("price %d out of range: must be non-negative", *p)
		}
	}
	for _, y := range []*int{req.YearFrom, req.YearTo} {
		if y != nil && (*y < intent.MinYear || *y > intent.MaxYear) {
			return fmt.Sprintf("year %d out of range [%d, %d]", *y, intent.MinYear, intent.MaxYear)
		}
	}
	return ""
}

// allowedCategory checks the winning URL against the configured domain
// allow-list, falling back to the marketplace domain when the list is empty.
func (r *Resolver) allowedCategory(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	domains := r.cfg.Search.AllowedDomains
	if len(domains) == 0 {
		domains = []string{r.cfg.Market.Domain}
	}
	for _, d := range domains {
		if u.Host == d {
			return true
		}
	}
	return false
}
