// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Keep probes fast in tests.
	ProbeTimeout = 500 * time.Millisecond
}

func TestProbeAliveOn200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	got := ProbeAlive(context.Background(), ts.URL, "test/0.1")
	require.NotNil(t, got)
	assert.True(t, *got)
}

func TestProbeUnknownOnNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	assert.Nil(t, ProbeAlive(context.Background(), ts.URL, ""))
}

func TestProbeUnknownOnNetworkError(t *testing.T) {
	assert.Nil(t, ProbeAlive(context.Background(), "http://127.0.0.1:1", ""))
}

func TestFetchTextReturnsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, "<html>listing body</html>")
	}))
	defer ts.Close()

	assert.Equal(t, "<html>listing body</html>", FetchText(context.Background(), ts.URL, "test/0.1"))
}

func TestFetchTextEmptyOnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	assert.Empty(t, FetchText(context.Background(), ts.URL, ""))
	assert.Empty(t, FetchText(context.Background(), "http://127.0.0.1:1", ""))
}
