// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obeidat/sooqlink/internal/rules"
	"github.com/obeidat/sooqlink/internal/urlnorm"
	"github.com/obeidat/sooqlink/pkg/types"
)

func testClient(t *testing.T, serverURL string, mutate func(*types.SearchConfig)) *Client {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Search.APIKey = "test-key"
	if mutate != nil {
		mutate(&cfg.Search)
	}

	old := apiBase
	apiBase = serverURL
	t.Cleanup(func() { apiBase = old })

	norm := urlnorm.NewNormalizer(rules.Default(), cfg.Market)
	c, err := NewClient(cfg.Search, norm, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func serveResults(t *testing.T, urls []string, capture *searchRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		var results []searchResult
		for _, u := range urls {
			results = append(results, searchResult{URL: u, Title: "t"})
		}
		json.NewEncoder(w).Encode(searchResponse{Results: results})
	}))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	cfg := types.DefaultConfig()
	norm := urlnorm.NewNormalizer(rules.Default(), cfg.Market)
	_, err := NewClient(cfg.Search, norm, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestSearchSendsWireFormat(t *testing.T) {
	var captured searchRequest
	ts := serveResults(t, []string{"https://jo.opensooq.com/en/cars/nissan"}, &captured)
	defer ts.Close()

	c := testClient(t, ts.URL, nil)
	out, err := c.Search(context.Background(), "nissan micra site:jo.opensooq.com", 25)
	require.NoError(t, err)

	assert.Equal(t, "nissan micra site:jo.opensooq.com", captured.Query)
	assert.Equal(t, 25, captured.NumResults)
	assert.Equal(t, []string{"jo.opensooq.com"}, captured.IncludeDomains)
	require.Len(t, out.Candidates, 1)
	assert.Equal(t, 1, out.URLsTried)
}

func TestSearchCapsResultCount(t *testing.T) {
	var captured searchRequest
	ts := serveResults(t, nil, &captured)
	defer ts.Close()

	c := testClient(t, ts.URL, nil)
	_, err := c.Search(context.Background(), "sofa site:jo.opensooq.com", 9999)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig().Search.ResultCeiling, captured.NumResults)
}

func TestSearchRejectsOverlongDork(t *testing.T) {
	c := testClient(t, "http://unused.invalid", nil)
	_, err := c.Search(context.Background(), strings.Repeat("x ", 400), 10)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Dork, "x x")
}

func TestSearchDropsDisallowedResults(t *testing.T) {
	ts := serveResults(t, []string{
		"https://jo.opensooq.com/en/cars/nissan",
		"https://evil.example.com/en/cars/nissan",
		"ftp://jo.opensooq.com/en/cars",
		"",
	}, nil)
	defer ts.Close()

	c := testClient(t, ts.URL, nil)
	out, err := c.Search(context.Background(), "nissan site:jo.opensooq.com", 10)
	require.NoError(t, err)
	require.Len(t, out.Candidates, 1)
	assert.Equal(t, "https://jo.opensooq.com/en/cars/nissan", out.Candidates[0].URL)
	assert.Equal(t, 4, out.URLsTried)
}

func TestSearchDeduplicatesByNormalizedURL(t *testing.T) {
	ts := serveResults(t, []string{
		"https://jo.opensooq.com/en/cars/nissan?page=2",
		"https://jo.opensooq.com/en/cars/nissan?page=5",
		"https://jo.opensooq.com/en/cars/nissan",
	}, nil)
	defer ts.Close()

	c := testClient(t, ts.URL, nil)
	out, err := c.Search(context.Background(), "nissan site:jo.opensooq.com", 10)
	require.NoError(t, err)
	require.Len(t, out.Candidates, 1)
	assert.Equal(t, "https://jo.opensooq.com/en/cars/nissan", out.Candidates[0].URL)
}

func TestSearchNormalizesLegacyPaths(t *testing.T) {
	ts := serveResults(t, []string{
		"https://jo.opensooq.com/en/mobile-tablet-prices-specs/mobile/apple",
	}, nil)
	defer ts.Close()

	c := testClient(t, ts.URL, nil)
	out, err := c.Search(context.Background(), "iphone site:jo.opensooq.com", 10)
	require.NoError(t, err)
	require.Len(t, out.Candidates, 1)
	assert.Equal(t, "https://jo.opensooq.com/en/mobile-phones-tablets/mobile-phones/apple", out.Candidates[0].URL)
}

func TestSearchUpstreamErrorIsTyped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, nil)
	_, err := c.Search(context.Background(), "nissan site:jo.opensooq.com", 10)
	var serr *Error
	require.True(t, errors.As(err, &serr), "error should be *search.Error, got %T", err)
	assert.Equal(t, "nissan site:jo.opensooq.com", serr.Dork)
}
