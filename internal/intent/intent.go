// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intent extracts structured filters from free-text marketplace
// queries: price ranges, year ranges, storage hints, and a cleaned product
// phrase. Extraction never fails; absence of a signal is a valid result,
// not an error.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/obeidat/sooqlink/internal/rules"
	"github.com/obeidat/sooqlink/internal/textnorm"
	"github.com/obeidat/sooqlink/pkg/types"
)

const (
	// MinYear and MaxYear bound what counts as a plausible model year.
	// Tokens outside the range are treated as not-a-year, never as errors.
	MinYear = 1900
	MaxYear = 2030
)

var (
	// Price amounts are capped at 7 digits so phone numbers and listing
	// IDs are never misread as prices.
	priceRangeRe  = regexp.MustCompile(`(?i)\b(\d{1,7})\s*(?:-|–|—|to|الى|حتى)\s*(\d{1,7})\b`)
	priceWordRe   = regexp.MustCompile(`(?i)\bprice\b`)
	bareNumberRe  = regexp.MustCompile(`\b\d{1,7}\b`)
	arabicPriceRe = regexp.MustCompile(`سعر`)

	yearDashRangeRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b\s*[-–—]\s*\b((?:19|20)\d{2})\b`)
	yearWordRangeRe = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\b\s*(?:to|حتى|الى)\s*\b((?:19|20)\d{2})\b`)
	singleYearRe    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	storageHintRe = regexp.MustCompile(`(?i)\b\d+\s*(gb|tb)\b`)

	trailingPunctRe = regexp.MustCompile(`[:\-—]+$`)
	stopWordRe      = regexp.MustCompile(`(?i)\b(price|the|a|an)\b`)
	wordRe          = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Extractor parses query text into a ParsedIntent. It is stateless apart
// from its synonym table and safe for concurrent use.
type Extractor struct {
	synonyms []synonymRule
}

type synonymRule struct {
	re *regexp.Regexp
	to string
}

// NewExtractor builds an Extractor applying the given synonym rules in order.
func NewExtractor(r rules.Rules) *Extractor {
	e := &Extractor{}
	for _, p := range r.Synonyms {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(p.From) + `\b`)
		if err != nil {
			continue
		}
		e.synonyms = append(e.synonyms, synonymRule{re: re, to: p.To})
	}
	return e
}

// PriceRange extracts a price filter from the query. A well-formed
// "N <sep> M" pattern yields an ordered range; otherwise, if the text
// carries the word "price"/"سعر", the last bare integer becomes a single
// anchor price with both bounds equal.
func (e *Extractor) PriceRange(query string) (lo, hi int, mode types.PriceMode) {
	if query == "" {
		return 0, 0, types.PriceNone
	}
	q := textnorm.Normalize(query)

	// A query can carry both a year range and a price range
	// ("Micra 2010-2014 price 1000-6000"); a pair of plausible model
	// years is a year signal, not a price, so such matches are skipped.
	for _, m := range priceRangeRe.FindAllStringSubmatch(q, -1) {
		a, errA := strconv.Atoi(m[1])
		b, errB := strconv.Atoi(m[2])
		if errA != nil || errB != nil {
			continue
		}
		if validYear(a) && validYear(b) {
			continue
		}
		if a > b {
			a, b = b, a
		}
		return a, b, types.PriceRange
	}

	if arabicPriceRe.MatchString(q) || priceWordRe.MatchString(q) {
		nums := bareNumberRe.FindAllString(q, -1)
		if len(nums) > 0 {
			if p, err := strconv.Atoi(nums[len(nums)-1]); err == nil {
				return p, p, types.PriceSingle
			}
		}
	}

	return 0, 0, types.PriceNone
}

// YearRange extracts a model-year filter: a dash range first, then a
// "to"-style range, then a lone 19xx/20xx token (both bounds equal).
// Years outside [MinYear, MaxYear] are treated as not found.
func (e *Extractor) YearRange(query string) (from, to int, ok bool) {
	if query == "" {
		return 0, 0, false
	}
	q := textnorm.Normalize(query)

	for _, re := range []*regexp.Regexp{yearDashRangeRe, yearWordRangeRe} {
		m := re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		a, errA := strconv.Atoi(m[1])
		b, errB := strconv.Atoi(m[2])
		if errA != nil || errB != nil || !validYear(a) || !validYear(b) {
			continue
		}
		if a > b {
			a, b = b, a
		}
		return a, b, true
	}

	if m := singleYearRe.FindString(q); m != "" {
		if y, err := strconv.Atoi(m); err == nil && validYear(y) {
			return y, y, true
		}
	}

	return 0, 0, false
}

func validYear(y int) bool {
	return y >= MinYear && y <= MaxYear
}

// CleanProductText strips filter vocabulary from the query: the words
// "price"/"سعر", the supplied location token, trailing punctuation runs.
// Whitespace is collapsed and the synonym table applied by whole word.
// When cleaning would leave an empty phrase the trimmed original is
// returned instead, so the search anchor never silently disappears.
func (e *Extractor) CleanProductText(query, locationHint string) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ""
	}

	t := priceWordRe.ReplaceAllString(trimmed, "")
	t = arabicPriceRe.ReplaceAllString(t, "")

	if lh := strings.ToLower(strings.TrimSpace(locationHint)); lh != "" {
		if re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(lh) + `\b`); err == nil {
			t = re.ReplaceAllString(t, "")
		}
	}

	t = trailingPunctRe.ReplaceAllString(strings.TrimSpace(t), "")
	t = textnorm.CollapseSpaces(t)

	for _, s := range e.synonyms {
		t = s.re.ReplaceAllString(t, s.to)
	}

	if t == "" {
		return trimmed
	}
	return t
}

// HasStorageHint reports whether the user's own words mention a storage
// size ("128gb", "1 tb").
func (e *Extractor) HasStorageHint(query string) bool {
	return query != "" && storageHintRe.MatchString(query)
}

// HasYearHint reports whether a year filter is in play: either the caller
// supplied explicit bounds or the query text itself carries a year token.
func (e *Extractor) HasYearHint(query string, yearFrom, yearTo *int) bool {
	if yearFrom != nil || yearTo != nil {
		return true
	}
	if query == "" {
		return false
	}
	return singleYearRe.MatchString(textnorm.Normalize(strings.ToLower(query)))
}

// Keywords tokenizes the original query into scoring keywords: stop words
// and price vocabulary removed, tokens of at least two characters (or any
// bare number) kept, everything lowercased with digits normalized.
func (e *Extractor) Keywords(query string) []string {
	if query == "" {
		return nil
	}
	q := textnorm.Normalize(strings.ToLower(strings.TrimSpace(query)))
	q = stopWordRe.ReplaceAllString(q, "")
	q = arabicPriceRe.ReplaceAllString(q, "")

	var keywords []string
	for _, w := range wordRe.FindAllString(q, -1) {
		if len([]rune(w)) >= 2 || isDigits(w) {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// numberRe matches amounts with optional thousands separators, including
// the Arabic separator forms, and an optional decimal part.
var numberRe = regexp.MustCompile(`(?:\d{1,3}(?:[,.\x{066B}\x{066C}]\d{3})+|\d+)(?:\.\d+)?`)

// pricePatterns are tried in order: currency-suffixed amounts win over
// bare numbers so "3 rooms 9000 JOD" reads the price, not the room count.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(` + numberRe.String() + `)\s*(?:دينار|JOD|JD|د\.)`),
	regexp.MustCompile(`(?i)(` + numberRe.String() + `)\s*(?:din|jod|jd|د\.)`),
	regexp.MustCompile(`(` + numberRe.String() + `)`),
}

var separatorRe = regexp.MustCompile(`[,.\x{066B}\x{066C}]`)

// PriceFromText parses a price out of arbitrary listing text. Thousands
// separators are dropped before parsing, so "1,500 JOD" yields 1500.
func (e *Extractor) PriceFromText(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	t := textnorm.Normalize(text)

	for _, pat := range pricePatterns {
		m := pat.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		cleaned := separatorRe.ReplaceAllString(m[1], "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		return int(f), true
	}
	return 0, false
}
