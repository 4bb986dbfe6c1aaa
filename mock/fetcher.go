package mock

import (
	"context"

	"github.com/fwojciec/docwatch"
)

var _ docwatch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docwatch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*docwatch.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*docwatch.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
