// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sooqlink/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the external search adapter.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search provider. Required; its
	// absence is a startup configuration error, not a per-call failure.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the number of results requested per call (default 30).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ResultCeiling caps MaxResults regardless of what a caller asks
	// for (default 40).
	ResultCeiling int `json:"result_ceiling" yaml:"result_ceiling"`

	// MaxQueryLen rejects dork strings longer than this (default 400).
	MaxQueryLen int `json:"max_query_len" yaml:"max_query_len"`

	// AllowedDomains restricts both the provider query and the returned
	// URLs (default ["jo.opensooq.com"]).
	AllowedDomains []string `json:"allowed_domains" yaml:"allowed_domains"`
}

// MarketConfig holds marketplace-specific constants.
type MarketConfig struct {
	// Domain is the marketplace host embedded in site: dorks and used
	// for final-URL validation (default "jo.opensooq.com").
	Domain string `json:"domain" yaml:"domain"`

	// PriceCurrency is the marketplace's numeric currency code set
	// alongside any price bound (default 10, JOD).
	PriceCurrency int `json:"price_currency" yaml:"price_currency"`

	// SinglePriceTolerancePct widens a single anchor price into a
	// synthetic range for the dork (default 8).
	SinglePriceTolerancePct int `json:"single_price_tolerance_pct" yaml:"single_price_tolerance_pct"`
}

// HistoryConfig holds settings for the resolution history store.
type HistoryConfig struct {
	// Dir is the directory holding the SQLite database (default ".sooqlink").
	Dir string `json:"dir" yaml:"dir"`

	// MaxEntries bounds how many resolutions the store keeps; older rows
	// are pruned on insert (default 500).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// ResolverConfig groups all component configurations. It is built once at
// process start and passed by pointer into each constructor.
type ResolverConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	History HistoryConfig `json:"history" yaml:"history"`

	// RulesFile optionally overrides the built-in rewrite and synonym
	// rule tables with a YAML document.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`

	// CheckLiveness enables the optional HEAD probe of the winning
	// category URL.
	CheckLiveness bool `json:"check_liveness" yaml:"check_liveness"`
}

// DefaultConfig returns a ResolverConfig with the reference defaults filled in.
func DefaultConfig() ResolverConfig {
	return ResolverConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "sooqlink/0.1",
			},
			MaxResults:     30,
			ResultCeiling:  40,
			MaxQueryLen:    400,
			AllowedDomains: []string{"jo.opensooq.com"},
		},
		Market: MarketConfig{
			Domain:                  "jo.opensooq.com",
			PriceCurrency:           10,
			SinglePriceTolerancePct: 8,
		},
		History: HistoryConfig{
			Dir:        ".sooqlink",
			MaxEntries: 500,
		},
	}
}
