// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import (
	"fmt"
	"strings"

	"github.com/obeidat/sooqlink/internal/textnorm"
	"github.com/obeidat/sooqlink/pkg/types"
)

// BuildDork assembles the external-search query string: the product phrase,
// an optional "lo..hi" price token, an optional location token, and an
// unconditional site: restriction. A single anchor price is widened by the
// configured tolerance into a synthetic range, compensating for sellers
// rounding their asking prices.
func BuildDork(productText, location string, priceFrom, priceTo int, mode types.PriceMode, market types.MarketConfig) string {
	var parts []string
	if pt := strings.TrimSpace(productText); pt != "" {
		parts = append(parts, pt)
	}

	if lo, hi, ok := widenPrice(priceFrom, priceTo, mode, market.SinglePriceTolerancePct); ok {
		parts = append(parts, fmt.Sprintf("%d..%d", lo, hi))
	}

	if loc := strings.TrimSpace(location); loc != "" {
		parts = append(parts, loc)
	}

	parts = append(parts, "site:"+market.Domain)
	return textnorm.CollapseSpaces(strings.Join(parts, " "))
}

// BuildStrictDork is the exact-match variant: the product phrase is quoted
// and its first token added as an inurl: hint, biasing the provider toward
// pages whose slug carries the product name.
func BuildStrictDork(productText, location string, priceFrom, priceTo int, mode types.PriceMode, market types.MarketConfig) string {
	pt := strings.TrimSpace(productText)
	if pt == "" {
		return BuildDork(productText, location, priceFrom, priceTo, mode, market)
	}

	parts := []string{`"` + pt + `"`}
	if slug := textnorm.Slugify(pt); slug != "" {
		first, _, _ := strings.Cut(slug, "-")
		parts = append(parts, "inurl:"+first)
	}

	if lo, hi, ok := widenPrice(priceFrom, priceTo, mode, market.SinglePriceTolerancePct); ok {
		parts = append(parts, fmt.Sprintf("%d..%d", lo, hi))
	}
	if loc := strings.TrimSpace(location); loc != "" {
		parts = append(parts, loc)
	}

	parts = append(parts, "site:"+market.Domain)
	return textnorm.CollapseSpaces(strings.Join(parts, " "))
}

// widenPrice turns the extracted price signal into dork range bounds.
func widenPrice(from, to int, mode types.PriceMode, tolerancePct int) (lo, hi int, ok bool) {
	switch mode {
	case types.PriceSingle:
		tol := from * tolerancePct / 100
		lo = from - tol
		if lo < 0 {
			lo = 0
		}
		return lo, from + tol, true
	case types.PriceRange:
		lo, hi = from, to
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	default:
		return 0, 0, false
	}
}
