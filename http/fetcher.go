// Package http provides an HTTP-based implementation of docwatch.Fetcher
// for fetching listing pages from sites that don't require JavaScript
// rendering.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docwatch"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements docwatch.Fetcher at compile time.
var _ docwatch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves listing page markup using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the markup at the given URL. Network and HTTP failures are
// reported in the result, not as errors; the error return is reserved for
// invalid input and context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docwatch.FetchResult, error) {
	result := &docwatch.FetchResult{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docwatch.Errorf(docwatch.EINVALID, "invalid URL %q: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result.FailureReason = classifyTransportError(err)
		return result, nil
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.FailureReason = docwatch.ReasonHTTPStatus
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.FailureReason = classifyTransportError(err)
		return result, nil
	}

	result.HTML = string(body)
	result.Succeeded = true
	return result, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// classifyTransportError distinguishes timeouts from other network failures.
func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return docwatch.ReasonTimeout
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return docwatch.ReasonTimeout
	}
	return docwatch.ReasonNetworkError
}
