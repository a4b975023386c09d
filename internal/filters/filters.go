// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filters injects the marketplace's native filter parameters into a
// category URL. Existing parameters keep their relative order, values are
// sanitized before they enter the URL, and merging is idempotent: applying
// the same filters twice yields the same URL.
package filters

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Marketplace query-parameter names.
const (
	paramPriceFrom = "price_from"
	paramPriceTo   = "price_to"
	paramCurrency  = "price_currency"
	paramYearFrom  = "Car_Year_from"
	paramYearTo    = "Car_Year_to"
	paramCity      = "city"
	paramQuery     = "q"
	paramSearch    = "search"
	paramPage      = "page"
)

// maxValueLen caps user-supplied parameter values; anything longer is cut.
const maxValueLen = 120

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Filters holds the values to merge. Nil numeric fields and empty strings
// are skipped.
type Filters struct {
	PriceFrom *int
	PriceTo   *int
	YearFrom  *int
	YearTo    *int

	// Currency is the marketplace currency code, set whenever either
	// price bound is present.
	Currency int

	City  string
	Query string
}

// pair is one query-string parameter, order-preserving.
type pair struct {
	key   string
	value string
}

// Merge rewrites baseURL's query string with the marketplace's filter
// parameters: price and year bounds, city, free-text q, and the search=true
// marker the marketplace needs to treat the URL as an active filtered
// search. Any page parameter is dropped. An empty baseURL merges to empty.
func Merge(baseURL string, f Filters) string {
	if baseURL == "" {
		return baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	pairs := parsePairs(u.RawQuery)
	pairs = remove(pairs, paramPage)

	if f.PriceFrom != nil {
		pairs = set(pairs, paramPriceFrom, strconv.Itoa(*f.PriceFrom))
	}
	if f.PriceTo != nil {
		pairs = set(pairs, paramPriceTo, strconv.Itoa(*f.PriceTo))
	}
	if f.PriceFrom != nil || f.PriceTo != nil {
		pairs = set(pairs, paramCurrency, strconv.Itoa(f.Currency))
	}
	if f.YearFrom != nil {
		pairs = set(pairs, paramYearFrom, strconv.Itoa(*f.YearFrom))
	}
	if f.YearTo != nil {
		pairs = set(pairs, paramYearTo, strconv.Itoa(*f.YearTo))
	}
	if city := Sanitize(f.City); city != "" {
		pairs = set(pairs, paramCity, city)
	}
	if q := Sanitize(f.Query); q != "" {
		pairs = set(pairs, paramQuery, q)
	}
	pairs = set(pairs, paramSearch, "true")

	u.RawQuery = encodePairs(pairs)
	return u.String()
}

// Sanitize prepares a user-supplied value for URL placement: trimmed,
// HTML/script tags stripped, and length-capped. The cap backs up to a rune
// boundary so Arabic text is never cut mid-character. The value is escaped
// at serialization time, not here.
func Sanitize(v string) string {
	v = strings.TrimSpace(tagRe.ReplaceAllString(v, ""))
	if len(v) > maxValueLen {
		cut := maxValueLen
		for cut > 0 && !utf8.RuneStart(v[cut]) {
			cut--
		}
		v = v[:cut]
	}
	return v
}

// parsePairs decodes a raw query string into ordered key/value pairs.
// Undecodable components are kept verbatim rather than dropped.
func parsePairs(rawQuery string) []pair {
	if rawQuery == "" {
		return nil
	}
	var pairs []pair
	for _, component := range strings.Split(rawQuery, "&") {
		if component == "" {
			continue
		}
		k, v, _ := strings.Cut(component, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		if dv, err := url.QueryUnescape(v); err == nil {
			v = dv
		}
		pairs = append(pairs, pair{key: k, value: v})
	}
	return pairs
}

// set updates the first pair with the given key or appends a new one,
// keeping insertion order stable so merging is idempotent.
func set(pairs []pair, key, value string) []pair {
	for i := range pairs {
		if pairs[i].key == key {
			pairs[i].value = value
			return pairs
		}
	}
	return append(pairs, pair{key: key, value: value})
}

func remove(pairs []pair, key string) []pair {
	out := pairs[:0]
	for _, p := range pairs {
		if p.key != key {
			out = append(out, p)
		}
	}
	return out
}

func encodePairs(pairs []pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
