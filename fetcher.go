package docwatch

import "context"

// Fetch failure reasons. These are values, not error types: a failed fetch is
// an expected outcome that the scheduler records, not a programming error.
const (
	ReasonNetworkError      = "network_error"
	ReasonTimeout           = "timeout"
	ReasonHTTPStatus        = "http_status"
	ReasonRenderUnavailable = "render_unavailable"
)

// FetchResult is the outcome of retrieving one listing page.
//
// A page that could not be retrieved has Succeeded=false and a FailureReason;
// in particular a page that needs JavaScript rendering with no renderer
// available is reported as ReasonRenderUnavailable, never as a successful
// empty page.
type FetchResult struct {
	URL           string `json:"url"`
	HTML          string `json:"html"`
	StatusCode    int    `json:"statusCode,omitempty"`
	Succeeded     bool   `json:"succeeded"`
	FailureReason string `json:"failureReason,omitempty"`
}

// Fetcher retrieves listing page markup from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content. Network and HTTP failures are reported in the FetchResult; the
// error return is reserved for context cancellation and invalid input.
type Fetcher interface {
	// Fetch retrieves the markup at url. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter rate limits requests per domain.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, domain string) error
}
