package scrape

import (
	"context"
	"errors"
	"strings"

	"github.com/fwojciec/docwatch"
)

// Ensure FallbackFetcher implements docwatch.Fetcher at compile time.
var _ docwatch.Fetcher = (*FallbackFetcher)(nil)

// FallbackFetcher wraps a primary fetcher with an optional rendering
// delegate for pages that only reveal their document links after JavaScript
// execution.
//
// Decision flow:
//   - Primary fetch fails → unsuccessful result, no delegation.
//   - Primary markup has usable links → primary result.
//   - No usable links, fallback disabled → primary result (genuinely empty
//     static page).
//   - No usable links, fallback enabled, renderer present → renderer result.
//   - No usable links, fallback enabled, renderer absent → unsuccessful
//     result with ReasonRenderUnavailable, never a false-empty success.
type FallbackFetcher struct {
	// Primary is the plain fetcher tried first. Required.
	Primary docwatch.Fetcher

	// Renderer is the rendering delegate. Optional; deployments without a
	// browser runtime leave it nil.
	Renderer docwatch.Fetcher

	// RenderFallback enables delegation when the primary markup yields no
	// usable links.
	RenderFallback bool

	// Probe decides whether markup is usable. Defaults to an anchor check.
	Probe func(html, url string) bool
}

// Fetch retrieves the markup at url, delegating to the renderer when the
// primary result is unusable and fallback is enabled.
func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (*docwatch.FetchResult, error) {
	if f.Primary == nil {
		return nil, docwatch.Errorf(docwatch.EINTERNAL, "fallback fetcher has no primary")
	}

	result, err := f.Primary.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if !result.Succeeded {
		return result, nil
	}

	probe := f.Probe
	if probe == nil {
		probe = hasAnchors
	}
	if probe(result.HTML, url) {
		return result, nil
	}

	if !f.RenderFallback {
		return result, nil
	}

	if f.Renderer == nil {
		return &docwatch.FetchResult{
			URL:           url,
			Succeeded:     false,
			FailureReason: docwatch.ReasonRenderUnavailable,
		}, nil
	}

	return f.Renderer.Fetch(ctx, url)
}

// Close releases both fetchers.
func (f *FallbackFetcher) Close() error {
	var errs []error
	if f.Primary != nil {
		errs = append(errs, f.Primary.Close())
	}
	if f.Renderer != nil {
		errs = append(errs, f.Renderer.Close())
	}
	return errors.Join(errs...)
}

// hasAnchors is the default usability probe: the markup contains at least
// one anchor carrying an href attribute. Listing pages that render their
// link tables client-side arrive without any.
func hasAnchors(html, _ string) bool {
	lower := strings.ToLower(html)
	idx := 0
	for {
		a := strings.Index(lower[idx:], "<a")
		if a < 0 {
			return false
		}
		rest := lower[idx+a:]
		end := strings.Index(rest, ">")
		if end < 0 {
			return false
		}
		if strings.Contains(rest[:end], "href=") {
			return true
		}
		idx += a + end
	}
}
