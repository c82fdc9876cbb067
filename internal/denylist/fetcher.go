package denylist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Fetcher downloads the full denylist. Implementations return a *FetchError
// on any failure.
type Fetcher interface {
	Fetch(ctx context.Context) ([]string, error)
}

type FetcherFunc func(ctx context.Context) ([]string, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]string, error) {
	return f(ctx)
}

type HTTPOptions struct {
	Timeout    time.Duration
	MaxRetries int
	MaxBytes   int64
	ExpandIDN  bool
}

// HTTPFetcher GETs a plain-text denylist, one entry per line.
type HTTPFetcher struct {
	url      string
	client   *http.Client
	maxBytes int64
	parse    ParseOptions
}

func NewHTTPFetcher(url string, opts HTTPOptions, logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		url:      url,
		client:   newRetryingClient(opts, logger),
		maxBytes: opts.MaxBytes,
		parse:    ParseOptions{ExpandIDN: opts.ExpandIDN},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode, Err: err}
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode, Err: ErrTooLarge}
	}

	entries, err := ParseList(bytes.NewReader(data), f.parse)
	if err != nil {
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return entries, nil
}

func newRetryingClient(opts HTTPOptions, logger *zap.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.MaxRetries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil
	if logger != nil {
		retryClient.Logger = retryablehttp.LeveledLogger(leveledZap{inner: logger.Sugar()})
	}
	client := retryClient.StandardClient()
	client.Timeout = opts.Timeout
	return client
}

type leveledZap struct {
	inner *zap.SugaredLogger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l leveledZap) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Infow(msg, keysAndValues...)
}

func (l leveledZap) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debugw(msg, keysAndValues...)
}
