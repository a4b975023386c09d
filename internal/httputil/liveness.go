// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across the pipeline.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// ProbeTimeout bounds the liveness HEAD request. Tests override this to
// avoid real waits.
var ProbeTimeout = 5 * time.Second

// ProbeAlive sends a HEAD request to the URL and reports whether the page
// answered 200. A network error or any other status yields nil ("unknown"),
// never "dead": the probe is advisory and must not block a result.
func ProbeAlive(ctx context.Context, rawURL, userAgent string) *bool {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		alive := true
		return &alive
	}
	return nil
}

// maxFetchBytes bounds how much page text FetchText reads; expired-listing
// markers appear well within the first chunk of the document.
const maxFetchBytes = 256 << 10

// FetchText GETs the URL and returns up to maxFetchBytes of the body. Any
// error yields an empty string; callers treat missing text as "no signal".
func FetchText(ctx context.Context, rawURL, userAgent string) string {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return ""
	}
	return string(data)
}
