// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm canonicalizes mixed Arabic/Latin query text: Arabic-Indic
// digits and separators become ASCII, phrases become URL slugs, and price
// tokens can be stripped from display text. All functions are pure and
// idempotent.
package textnorm

import (
	"regexp"
	"strings"
)

// arabicIndic maps Arabic-Indic digits and the Arabic thousands/decimal/comma
// separators to their ASCII equivalents.
var arabicIndic = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
	'٬': ',', '٫': '.', '،': ',',
}

// Normalize converts Arabic-Indic digits and separators to ASCII. Empty
// input yields empty output; no other characters are touched.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if mapped, ok := arabicIndic[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	priceWordRe   = regexp.MustCompile(`(?i)\bprice\b`)
	arabicPriceRe = regexp.MustCompile(`سعر`)
	priceRangeRe  = regexp.MustCompile(`\b\d{1,7}\s*[-–—]\s*\d{1,7}\b`)
	currencyAmtRe = regexp.MustCompile(`(?i)\b\d{1,7}\s*(?:JOD|JD|دينار|د\.أ|d\.)`)
)

// Slugify returns a lowercase, hyphenated, URL-safe form of text: digits
// normalized, punctuation dropped, whitespace runs collapsed to single
// hyphens.
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	s = Normalize(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.Trim(s, "-")
}

// StripPriceTokens removes price vocabulary from display text: the words
// "price"/"سعر", bare N-M ranges, and currency-suffixed amounts. The result
// is whitespace-collapsed. Used to build the q= phrase so the marketplace's
// own text search is not polluted by filter values.
func StripPriceTokens(text string) string {
	if text == "" {
		return ""
	}
	t := strings.TrimSpace(Normalize(text))
	t = priceWordRe.ReplaceAllString(t, "")
	t = arabicPriceRe.ReplaceAllString(t, "")
	t = priceRangeRe.ReplaceAllString(t, "")
	t = currencyAmtRe.ReplaceAllString(t, "")
	return CollapseSpaces(t)
}

// CollapseSpaces trims and collapses runs of whitespace to single spaces.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
