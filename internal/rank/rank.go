// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores normalized candidate URLs against the parsed intent
// and picks the single best category page. Scoring is deterministic: equal
// scores keep the candidates' input order.
package rank

import (
	"sort"
	"strings"

	"github.com/obeidat/sooqlink/internal/textnorm"
	"github.com/obeidat/sooqlink/internal/urlnorm"
	"github.com/obeidat/sooqlink/pkg/types"
)

// Weights holds the scoring constants. The defaults are empirically tuned
// against the marketplace's taxonomy; they are configurable rather than
// fixed truths.
type Weights struct {
	KeywordInPath    int `yaml:"keyword_in_path"`
	KeywordElsewhere int `yaml:"keyword_elsewhere"`

	// Depth bands: [DepthMidLo, DepthMidHi] is the taxonomy sweet spot,
	// anything past DepthDeep is over-specific.
	DepthMidLo  int `yaml:"depth_mid_lo"`
	DepthMidHi  int `yaml:"depth_mid_hi"`
	DepthDeep   int `yaml:"depth_deep"`
	DepthMid    int `yaml:"depth_mid"`
	DepthShallow int `yaml:"depth_shallow"`
	DepthPenalty int `yaml:"depth_penalty"`

	SlugBonus int `yaml:"slug_bonus"`

	// Storage policy: a storage segment the user never asked for is
	// noise; one they asked for is signal.
	StorageUnwantedPenalty int `yaml:"storage_unwanted_penalty"`
	StorageAbsentBonus     int `yaml:"storage_absent_bonus"`
	StorageWantedBonus     int `yaml:"storage_wanted_bonus"`

	// Year policy: when the user supplies a year filter downstream, a
	// year-locked category would double-constrain, so it is demoted.
	YearRedundantPenalty int `yaml:"year_redundant_penalty"`
}

// DefaultWeights returns the reference scoring constants.
func DefaultWeights() Weights {
	return Weights{
		KeywordInPath:          10,
		KeywordElsewhere:       5,
		DepthMidLo:             3,
		DepthMidHi:             6,
		DepthDeep:              8,
		DepthMid:               10,
		DepthShallow:           5,
		DepthPenalty:           -10,
		SlugBonus:              15,
		StorageUnwantedPenalty: -20,
		StorageAbsentBonus:     5,
		StorageWantedBonus:     15,
		YearRedundantPenalty:   -15,
	}
}

// Ranker scores candidates with a fixed weight set. Safe for concurrent use.
type Ranker struct {
	w Weights
}

// New builds a Ranker.
func New(w Weights) *Ranker {
	return &Ranker{w: w}
}

// Rank filters, conditionally rewrites, deduplicates, and scores the
// candidates, returning them in descending score order. Listing pages and
// malformed URLs never survive. The returned slice is empty when nothing
// survives; that is a normal outcome.
func (r *Ranker) Rank(candidates []types.NormalizedCandidate, it types.ParsedIntent) []types.ScoredCandidate {
	slug := textnorm.Slugify(it.ProductText)

	var scored []types.ScoredCandidate
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if c.URL == "" || c.IsListingPage || c.IsMalformed {
			continue
		}

		// Strip filter-style segments the pipeline will re-apply (or
		// that the user never asked for), keeping the original flags
		// for the policy adjustments below.
		hadStorage := c.HasStorageSegment
		hadYear := c.HasYearSegment
		processed := c.URL
		if hadStorage && !it.HasStorageHint {
			processed = urlnorm.RemoveStorageSegment(processed)
		}
		if hadYear && it.HasYearHint {
			processed = urlnorm.RemoveYearSegment(processed)
		}

		if seen[processed] {
			continue
		}
		seen[processed] = true

		depth := urlnorm.PathDepth(processed)
		keywordScore := r.keywordScore(processed, it.Keywords)

		score := keywordScore
		switch {
		case depth >= r.w.DepthMidLo && depth <= r.w.DepthMidHi:
			score += r.w.DepthMid
		case depth < r.w.DepthMidLo:
			score += r.w.DepthShallow
		case depth > r.w.DepthDeep:
			score += r.w.DepthPenalty
		}
		if slug != "" && strings.Contains(strings.ToLower(processed), slug) {
			score += r.w.SlugBonus
		}
		if !it.HasStorageHint {
			if hadStorage {
				score += r.w.StorageUnwantedPenalty
			} else {
				score += r.w.StorageAbsentBonus
			}
		} else if hadStorage {
			score += r.w.StorageWantedBonus
		}
		if it.HasYearHint && hadYear {
			score += r.w.YearRedundantPenalty
		}

		scored = append(scored, types.ScoredCandidate{
			NormalizedCandidate: types.NormalizedCandidate{
				URL:               processed,
				HasStorageSegment: urlnorm.HasStorageSegment(processed),
				HasYearSegment:    urlnorm.HasYearSegment(processed),
				PathDepth:         depth,
			},
			Score:        score,
			KeywordScore: keywordScore,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Best returns the top-ranked candidate, or false when none survives.
func (r *Ranker) Best(candidates []types.NormalizedCandidate, it types.ParsedIntent) (types.ScoredCandidate, bool) {
	scored := r.Rank(candidates, it)
	if len(scored) == 0 {
		return types.ScoredCandidate{}, false
	}
	return scored[0], true
}

// keywordScore sums per-keyword bonuses: a keyword inside the URL path
// counts full, one anywhere else in the URL counts half.
func (r *Ranker) keywordScore(rawURL string, keywords []string) int {
	if rawURL == "" || len(keywords) == 0 {
		return 0
	}
	urlLower := strings.ToLower(rawURL)
	pathLower := strings.ToLower(urlnorm.PathOf(rawURL))

	score := 0
	for _, kw := range keywords {
		if !strings.Contains(urlLower, kw) {
			continue
		}
		if strings.Contains(pathLower, kw) {
			score += r.w.KeywordInPath
		} else {
			score += r.w.KeywordElsewhere
		}
	}
	return score
}
