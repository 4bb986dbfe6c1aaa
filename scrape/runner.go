package scrape

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/docwatch"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds concurrent source page fetches.
const DefaultConcurrency = 4

// Runner executes one bounded batch: fetch every configured source page,
// parse descriptors, merge them, and reconcile against the tracked set.
// Runs are synchronous; there is no in-run retry, the next scheduled tick
// is the retry.
type Runner struct {
	Sources     []string
	Fetcher     docwatch.Fetcher
	Parser      docwatch.Parser
	Reconciler  *Reconciler
	RateLimiter docwatch.DomainLimiter
	Concurrency int
}

// pageResult holds the outcome of fetching and parsing a single source page.
type pageResult struct {
	url         string
	fetch       *docwatch.FetchResult
	descriptors []docwatch.DocumentDescriptor
	err         error
}

// Run executes the batch. All failures are folded into the result; a fetch
// failure on any source fails the whole run, because a partially fetched
// listing must not be mistaken for a complete one.
func (r *Runner) Run(ctx context.Context) *docwatch.RunResult {
	if len(r.Sources) == 0 {
		return &docwatch.RunResult{
			Outcome: docwatch.RunFailed,
			Message: "no source URLs configured",
		}
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]pageResult, len(r.Sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range r.Sources {
		g.Go(func() error {
			results[i] = r.fetchPage(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.err != nil {
			return &docwatch.RunResult{
				Outcome: docwatch.RunFailed,
				Message: fmt.Sprintf("fetch %s: %v", res.url, res.err),
			}
		}
		if !res.fetch.Succeeded {
			return &docwatch.RunResult{
				Outcome: docwatch.RunFailed,
				Message: fmt.Sprintf("fetch %s: %s", res.url, res.fetch.FailureReason),
			}
		}
	}

	merged := mergeDescriptors(results)
	report := r.Reconciler.Reconcile(ctx, merged)

	outcome, message := classifyRun(merged, report)
	return &docwatch.RunResult{
		Outcome: outcome,
		Message: message,
		Report:  report,
	}
}

// fetchPage rate limits and fetches one source page, then parses its
// descriptors.
func (r *Runner) fetchPage(ctx context.Context, src string) pageResult {
	res := pageResult{url: src}

	if r.RateLimiter != nil {
		u, err := url.Parse(src)
		if err != nil {
			res.err = docwatch.Errorf(docwatch.EINVALID, "invalid source URL %q", src)
			return res
		}
		if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
			res.err = err
			return res
		}
	}

	fetch, err := r.Fetcher.Fetch(ctx, src)
	if err != nil {
		res.err = err
		return res
	}
	res.fetch = fetch
	if fetch.Succeeded {
		res.descriptors = r.Parser.Parse(fetch.HTML, src)
	}
	return res
}

// mergeDescriptors concatenates per-page descriptors in source order,
// deduplicating by external URL with the later occurrence winning, the
// same tie-break the parser applies within a single page.
func mergeDescriptors(results []pageResult) []docwatch.DocumentDescriptor {
	seen := make(map[string]int)
	var merged []docwatch.DocumentDescriptor
	for _, res := range results {
		for _, d := range res.descriptors {
			if idx, ok := seen[d.ExternalURL]; ok {
				merged[idx] = d
			} else {
				seen[d.ExternalURL] = len(merged)
				merged = append(merged, d)
			}
		}
	}
	return merged
}

// classifyRun maps a reconcile report onto a run outcome. Every descriptor
// erroring means the storage layer is down: that is a failed run. A partial
// error set is degraded; the pipeline worked, so it does not count toward
// the failure streak.
func classifyRun(descriptors []docwatch.DocumentDescriptor, report *docwatch.ReconcileReport) (docwatch.RunOutcome, string) {
	summary := fmt.Sprintf("%d created, %d updated, %d unchanged", report.Created, report.Updated, report.Unchanged)

	switch {
	case len(descriptors) > 0 && len(report.Errors) == len(descriptors):
		return docwatch.RunFailed, fmt.Sprintf("all %d descriptors failed", len(descriptors))
	case len(report.Errors) > 0:
		return docwatch.RunDegraded, fmt.Sprintf("%s, %d errors", summary, len(report.Errors))
	default:
		return docwatch.RunSuccess, summary
	}
}
