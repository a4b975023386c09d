// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search calls the external full-text search provider and returns
// validated, deduplicated marketplace candidate URLs. Failures are typed
// and carry the attempted dork for diagnostics; nothing is retried
// automatically, since a rate-limited provider should surface as a visible
// failure rather than a retry storm.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/obeidat/sooqlink/internal/urlnorm"
	"github.com/obeidat/sooqlink/pkg/types"
)

// apiBase is the search provider endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.tavily.com/search"

// Error wraps an upstream search failure together with the dork that was
// attempted.
type Error struct {
	Dork string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("search %q: %v", e.Dork, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Output holds the validated candidates and raw-result statistics.
type Output struct {
	Candidates []types.CandidateURL

	// URLsTried counts provider results before validation and dedup.
	URLsTried int
}

// Client queries the search provider. Safe for concurrent use.
type Client struct {
	http *http.Client
	cfg  types.SearchConfig
	norm *urlnorm.Normalizer
	log  zerolog.Logger
}

// NewClient builds a search client. A missing API key is a configuration
// error surfaced here, at startup, not on the first call.
func NewClient(cfg types.SearchConfig, norm *urlnorm.Normalizer, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search API key not configured: set SOOQLINK_SEARCH_API_KEY or .secrets/tavily-api-key")
	}
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
		norm: norm,
		log:  logger,
	}, nil
}

// searchRequest and searchResponse mirror the provider's JSON wire format.
type searchRequest struct {
	Query          string   `json:"query"`
	NumResults     int      `json:"num_results"`
	IncludeDomains []string `json:"include_domains"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Search sends the dork to the provider and returns validated candidates.
// Over-long dorks are rejected before any network call. Results outside
// the domain allow-list or with a non-http(s) scheme are silently dropped;
// survivors are deduplicated by normalized URL.
func (c *Client) Search(ctx context.Context, dork string, maxResults int) (Output, error) {
	if dork == "" {
		return Output{}, &Error{Dork: dork, Err: fmt.Errorf("empty query")}
	}
	if c.cfg.MaxQueryLen > 0 && len(dork) > c.cfg.MaxQueryLen {
		return Output{}, &Error{Dork: dork, Err: fmt.Errorf("query exceeds %d characters", c.cfg.MaxQueryLen)}
	}

	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}
	if c.cfg.ResultCeiling > 0 && maxResults > c.cfg.ResultCeiling {
		maxResults = c.cfg.ResultCeiling
	}

	body, err := json.Marshal(searchRequest{
		Query:          dork,
		NumResults:     maxResults,
		IncludeDomains: c.cfg.AllowedDomains,
	})
	if err != nil {
		return Output{}, &Error{Dork: dork, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase, bytes.NewReader(body))
	if err != nil {
		return Output{}, &Error{Dork: dork, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Output{}, &Error{Dork: dork, Err: fmt.Errorf("provider request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Output{}, &Error{Dork: dork, Err: fmt.Errorf("provider returned HTTP %d", resp.StatusCode)}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Output{}, &Error{Dork: dork, Err: fmt.Errorf("parsing provider response: %w", err)}
	}

	out := Output{URLsTried: len(sr.Results)}
	seen := make(map[string]bool, len(sr.Results))
	for _, r := range sr.Results {
		if r.URL == "" {
			continue
		}
		if !c.allowed(r.URL) {
			c.log.Debug().Str("url", r.URL).Msg("dropping disallowed result")
			continue
		}
		norm := urlnorm.StripPaginationParam(c.norm.NormalizeLegacyPath(r.URL))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out.Candidates = append(out.Candidates, types.CandidateURL{
			URL:     norm,
			Title:   r.Title,
			Snippet: r.Content,
		})
	}

	c.log.Debug().
		Str("dork", dork).
		Int("raw", out.URLsTried).
		Int("kept", len(out.Candidates)).
		Msg("search complete")
	return out, nil
}

// allowed checks the scheme and the domain allow-list.
func (c *Client) allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	for _, d := range c.cfg.AllowedDomains {
		if u.Host == d {
			return true
		}
	}
	return false
}
