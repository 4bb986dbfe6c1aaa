// Package slog provides logging decorators for docwatch services using
// log/slog. Logging is fire-and-forget and never fails the operation it
// observes.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docwatch"
)

// Ensure LoggingFetcher implements docwatch.Fetcher.
var _ docwatch.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with fetch outcome logging.
type LoggingFetcher struct {
	next   docwatch.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docwatch.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (*docwatch.FetchResult, error) {
	begin := time.Now()
	result, err := f.next.Fetch(ctx, url)

	attrs := []any{
		"url", url,
		"duration", time.Since(begin),
	}
	switch {
	case err != nil:
		attrs = append(attrs, "err", err)
		f.logger.Error("fetch", attrs...)
	case !result.Succeeded:
		attrs = append(attrs, "reason", result.FailureReason, "status", result.StatusCode)
		f.logger.Warn("fetch failed", attrs...)
	default:
		attrs = append(attrs, "bytes", len(result.HTML), "status", result.StatusCode)
		f.logger.Info("fetch", attrs...)
	}

	return result, err
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
