package denylist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testFetcher(url string, maxBytes int64) *HTTPFetcher {
	return NewHTTPFetcher(url, HTTPOptions{Timeout: 5 * time.Second, MaxRetries: 0, MaxBytes: maxBytes}, zap.NewNop())
}

func TestHTTPFetcherParsesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("evil.example\n\n  phish.example  \r\nevil.example\n"))
	}))
	defer srv.Close()

	entries, err := testFetcher(srv.URL, 1024).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"evil.example", "phish.example"}, entries)
}

func TestHTTPFetcherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher(srv.URL, 1024).Fetch(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPFetcherTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	_, err := testFetcher(srv.URL, 16).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testFetcher(url, 1024).Fetch(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, fetchErr.StatusCode)
	assert.Equal(t, url, fetchErr.URL)
}

func TestHTTPFetcherMalformedLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxLineBytes+10)))
	}))
	defer srv.Close()

	_, err := testFetcher(srv.URL, 0).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}
