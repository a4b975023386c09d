// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package urlnorm canonicalizes marketplace URLs: legacy path prefixes are
// rewritten to their current form, pagination parameters stripped, and
// listing pages, malformed URLs, and filter-style path segments (storage
// sizes, model years) detected so the ranker can reason about them.
package urlnorm

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/obeidat/sooqlink/internal/rules"
	"github.com/obeidat/sooqlink/pkg/types"
)

var (
	listingIDRe = regexp.MustCompile(`/\d{6,}`)

	storageSegRe = regexp.MustCompile(`(?i)/\d+[-\s]?(?:gb|tb)\b`)
	yearSegRe    = regexp.MustCompile(`/(?:19|20)\d{2}(/|$)`)

	multiSlashRe = regexp.MustCompile(`/+`)
	pageParamRe  = regexp.MustCompile(`([&?])page=\d+&?`)
	numericSegRe = regexp.MustCompile(`^\d+$`)
)

// Normalizer rewrites marketplace URLs according to an ordered rule table.
type Normalizer struct {
	rewrites []rules.Pair

	// carsCanonical is the fixed category URL that tag-style Arabic car
	// pages collapse to.
	carsCanonical string
}

// NewNormalizer builds a Normalizer for the given marketplace domain.
func NewNormalizer(r rules.Rules, market types.MarketConfig) *Normalizer {
	return &Normalizer{
		rewrites:      r.PathRewrites,
		carsCanonical: "https://" + market.Domain + "/ar/cars/cars-for-sale",
	}
}

// NormalizeLegacyPath percent-decodes the URL and applies the rewrite table
// in order. A tag-style URL carrying the Arabic cars marker collapses to
// the one canonical cars category page.
func (n *Normalizer) NormalizeLegacyPath(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	decoded, err := url.PathUnescape(rawURL)
	if err != nil {
		decoded = rawURL
	}
	for _, p := range n.rewrites {
		decoded = strings.ReplaceAll(decoded, p.From, p.To)
	}
	if strings.Contains(decoded, "/tags/") && strings.Contains(decoded, "سيارات") {
		return n.carsCanonical
	}
	return decoded
}

// StripPaginationParam removes the page query parameter while preserving
// the relative order of all other parameters. A URL that does not parse
// falls back to a regex-based removal rather than failing.
func StripPaginationParam(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		out := pageParamRe.ReplaceAllString(rawURL, "$1")
		return strings.TrimRight(out, "?&")
	}
	if u.RawQuery == "" {
		return rawURL
	}

	var kept []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		key, _, _ := strings.Cut(pair, "=")
		if pair == "" || key == "page" {
			continue
		}
		kept = append(kept, pair)
	}
	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}

// IsListingPage reports whether the URL points at a single listing: the
// marketplace assigns listings long numeric path IDs (6+ digits), while
// category paths carry none.
func IsListingPage(rawURL string) bool {
	return listingIDRe.MatchString(rawURL)
}

// IsMalformed reports whether the URL is unusable as a category page:
// double-encoded separators, an encoded slash ahead of any literal '?',
// or the transitional "listing-serp" search-results marker.
func IsMalformed(rawURL string) bool {
	if rawURL == "" {
		return true
	}
	lower := strings.ToLower(rawURL)
	if strings.Contains(rawURL, "?/") || strings.Contains(lower, "?%2f") {
		return true
	}
	if idx := strings.Index(lower, "%2f"); idx >= 0 {
		if q := strings.Index(rawURL[:idx], "?"); q < 0 {
			return true
		}
	}
	return strings.Contains(lower, "listing-serp")
}

// PathDepth counts the path segments that are not purely numeric; numeric
// segments are IDs or filter values, not taxonomy levels.
func PathDepth(rawURL string) int {
	if rawURL == "" {
		return 0
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return 0
	}
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" && !numericSegRe.MatchString(seg) {
			depth++
		}
	}
	return depth
}

// HasStorageSegment reports whether the path carries a storage-size
// segment such as /128gb or /1-tb.
func HasStorageSegment(rawURL string) bool {
	return storageSegRe.MatchString(PathOf(rawURL))
}

// HasYearSegment reports whether the path carries a model-year segment.
func HasYearSegment(rawURL string) bool {
	return yearSegRe.MatchString(PathOf(rawURL))
}

// RemoveStorageSegment deletes a storage-size path segment and collapses
// the resulting slashes.
func RemoveStorageSegment(rawURL string) string {
	return rewritePath(rawURL, func(path string) string {
		return storageSegRe.ReplaceAllString(path, "")
	})
}

// RemoveYearSegment deletes a model-year path segment and collapses the
// resulting slashes.
func RemoveYearSegment(rawURL string) string {
	return rewritePath(rawURL, func(path string) string {
		return yearSegRe.ReplaceAllString(path, "$1")
	})
}

// Candidate runs the full normalization over one raw search hit and tags
// it with the signals the ranker consumes.
func (n *Normalizer) Candidate(rawURL string) types.NormalizedCandidate {
	u := n.NormalizeLegacyPath(rawURL)
	u = StripPaginationParam(u)
	return types.NormalizedCandidate{
		URL:               u,
		IsListingPage:     IsListingPage(u),
		IsMalformed:       IsMalformed(u),
		HasStorageSegment: HasStorageSegment(u),
		HasYearSegment:    HasYearSegment(u),
		PathDepth:         PathDepth(u),
	}
}

// PathOf returns the URL's path component, or the input itself when it
// does not parse.
func PathOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// rewritePath applies fn to the URL's path, collapses duplicate slashes,
// and trims a trailing slash unless the path is root.
func rewritePath(rawURL string, fn func(string) string) string {
	if rawURL == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	path := fn(u.Path)
	path = multiSlashRe.ReplaceAllString(path, "/")
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	u.Path = path
	u.RawPath = ""
	return u.String()
}
