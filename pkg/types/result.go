// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sooqlink resolution
// pipeline: parsed intent, candidate URLs, and the resolution result
// returned to callers.
package types

import "time"

// PriceMode classifies how a price was expressed in the user's query.
type PriceMode int

const (
	// PriceNone means no price signal was found.
	PriceNone PriceMode = iota
	// PriceSingle means a lone anchor price was found; both bounds carry it.
	PriceSingle
	// PriceRange means an explicit lo-hi range was found.
	PriceRange
)

func (m PriceMode) String() string {
	switch m {
	case PriceSingle:
		return "single"
	case PriceRange:
		return "range"
	default:
		return "none"
	}
}

// Status classifies the outcome of a resolution attempt.
type Status int

const (
	// StatusResolved means a category URL was found and filters were merged.
	StatusResolved Status = iota
	// StatusPartial means a category URL was found but the final filtered
	// URL could not be built (e.g. the category failed domain validation).
	StatusPartial
	// StatusNoMatch means search succeeded but no candidate survived
	// filtering and ranking. This is a normal outcome, not an error.
	StatusNoMatch
	// StatusInvalidInput means the query or caller-supplied filters were
	// rejected before any search was attempted.
	StatusInvalidInput
	// StatusSearchFailed means the external search provider call failed.
	StatusSearchFailed
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusPartial:
		return "partial"
	case StatusNoMatch:
		return "no_match"
	case StatusInvalidInput:
		return "invalid_input"
	case StatusSearchFailed:
		return "search_failed"
	default:
		return "unknown"
	}
}

// ParsedIntent is the structured interpretation of a free-text query.
// Optional numeric fields are nil when the signal was absent. When both
// bounds of a pair are present, From <= To.
type ParsedIntent struct {
	// ProductText is the cleaned free-text phrase anchoring search-query
	// construction and keyword scoring. May be empty.
	ProductText string `json:"product_text" yaml:"product_text"`

	PriceFrom *int      `json:"price_from,omitempty" yaml:"price_from,omitempty"`
	PriceTo   *int      `json:"price_to,omitempty" yaml:"price_to,omitempty"`
	PriceMode PriceMode `json:"-" yaml:"-"`

	YearFrom *int `json:"year_from,omitempty" yaml:"year_from,omitempty"`
	YearTo   *int `json:"year_to,omitempty" yaml:"year_to,omitempty"`

	// Location is an optional city/region token supplied by the caller.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// HasStorageHint and HasYearHint record whether the user's own words
	// carried those signals, independent of values a caller supplies.
	// They drive the ranker's storage/year policies.
	HasStorageHint bool `json:"has_storage_hint" yaml:"has_storage_hint"`
	HasYearHint    bool `json:"has_year_hint" yaml:"has_year_hint"`

	// Keywords are the scoring tokens extracted from the original query,
	// so brand/model tokens participate even if stripped from ProductText.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// CandidateURL is one raw external-search hit.
type CandidateURL struct {
	URL     string `json:"url" yaml:"url"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// NormalizedCandidate is a CandidateURL after path and pagination
// normalization, tagged with the derived signals the ranker consumes.
type NormalizedCandidate struct {
	URL               string `json:"url" yaml:"url"`
	IsListingPage     bool   `json:"is_listing_page" yaml:"is_listing_page"`
	IsMalformed       bool   `json:"is_malformed" yaml:"is_malformed"`
	HasStorageSegment bool   `json:"has_storage_segment" yaml:"has_storage_segment"`
	HasYearSegment    bool   `json:"has_year_segment" yaml:"has_year_segment"`

	// PathDepth counts non-numeric path segments; numeric segments are
	// IDs or filter values, not taxonomy levels.
	PathDepth int `json:"path_depth" yaml:"path_depth"`
}

// ScoredCandidate is a NormalizedCandidate with its ranking score attached.
type ScoredCandidate struct {
	NormalizedCandidate `yaml:",inline"`

	Score int `json:"score" yaml:"score"`

	// KeywordScore is the keyword-overlap component, kept separately as a
	// diagnostic and tie-break signal.
	KeywordScore int `json:"keyword_score" yaml:"keyword_score"`
}

// ResolutionResult is the engine's output for one resolution request.
type ResolutionResult struct {
	Status Status `json:"-" yaml:"-"`

	// CategoryURL is the winning normalized candidate, or empty if none.
	CategoryURL string `json:"category_url" yaml:"category_url"`

	// FinalURL is CategoryURL with the marketplace's native filter
	// parameters merged in, or empty on partial/no match.
	FinalURL string `json:"final_url" yaml:"final_url"`

	Intent ParsedIntent `json:"intent" yaml:"intent"`

	// Dork is the search-provider query string that was attempted, kept
	// for diagnostics.
	Dork string `json:"dork" yaml:"dork"`

	// Summary is a human-readable description of the outcome.
	Summary string `json:"summary" yaml:"summary"`

	// CandidatesTried is how many URLs the search provider returned
	// before validation and dedup.
	CandidatesTried int `json:"candidates_tried" yaml:"candidates_tried"`

	// CategoryAlive reports the optional liveness probe: nil when the
	// probe was skipped or inconclusive.
	CategoryAlive *bool `json:"category_alive,omitempty" yaml:"category_alive,omitempty"`

	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
