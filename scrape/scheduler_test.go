package scrape_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/docwatch"
	"github.com/fwojciec/docwatch/mock"
	"github.com/fwojciec/docwatch/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a settable test clock.
type clock struct {
	current time.Time
}

func (c *clock) now() time.Time { return c.current }

func successRunner() *scrape.Runner {
	return &scrape.Runner{
		Sources: []string{listingURL},
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*docwatch.FetchResult, error) {
				return fetchResult("<html></html>"), nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(html, baseURL string) []docwatch.DocumentDescriptor {
				return nil
			},
		},
		Reconciler: &scrape.Reconciler{},
	}
}

// failingRunner has no sources configured, which fails every run.
func failingRunner() *scrape.Runner {
	return &scrape.Runner{}
}

func newScheduler(runner *scrape.Runner, c *clock) *scrape.Scheduler {
	return &scrape.Scheduler{
		Settings: mock.NewMemorySettingsService(),
		Runner:   runner,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      c.now,
	}
}

func TestScheduler_State(t *testing.T) {
	t.Parallel()

	t.Run("defaults when never configured", func(t *testing.T) {
		t.Parallel()
		s := newScheduler(successRunner(), &clock{})

		state, err := s.State(context.Background())
		require.NoError(t, err)
		assert.False(t, state.Enabled)
		assert.Equal(t, 3, state.ScheduledHour)
		assert.Equal(t, 0, state.ScheduledMinute)
		assert.Zero(t, state.ConsecutiveFailures)
	})

	t.Run("round-trips through settings", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newScheduler(successRunner(), &clock{})

		require.NoError(t, s.UpdateSchedule(ctx, 9, 30))
		require.NoError(t, s.SetEnabled(ctx, true))

		state, err := s.State(ctx)
		require.NoError(t, err)
		assert.True(t, state.Enabled)
		assert.Equal(t, 9, state.ScheduledHour)
		assert.Equal(t, 30, state.ScheduledMinute)
	})
}

func TestScheduler_UpdateSchedule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newScheduler(successRunner(), &clock{})

	require.NoError(t, s.UpdateSchedule(ctx, 9, 15))

	t.Run("rejects hour out of range", func(t *testing.T) {
		err := s.UpdateSchedule(ctx, 24, 0)
		assert.Equal(t, docwatch.EINVALID, docwatch.ErrorCode(err))
	})

	t.Run("rejects minute off the quarter grid", func(t *testing.T) {
		err := s.UpdateSchedule(ctx, 9, 10)
		assert.Equal(t, docwatch.EINVALID, docwatch.ErrorCode(err))
	})

	t.Run("rejected update leaves state unchanged", func(t *testing.T) {
		state, err := s.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, 9, state.ScheduledHour)
		assert.Equal(t, 15, state.ScheduledMinute)
	})
}

func TestScheduler_OnTick(t *testing.T) {
	t.Parallel()

	t.Run("skips when disabled", func(t *testing.T) {
		t.Parallel()
		c := &clock{current: time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC)}
		s := newScheduler(successRunner(), c)

		result, err := s.OnTick(context.Background())
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunSkipped, result.Outcome)
		assert.Equal(t, "watcher disabled", result.Message)
	})

	t.Run("runs once per scheduled occurrence", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
		s := newScheduler(successRunner(), c)
		require.NoError(t, s.UpdateSchedule(ctx, 9, 0))
		require.NoError(t, s.SetEnabled(ctx, true))

		result, err := s.OnTick(ctx)
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunSuccess, result.Outcome)

		// A tick minutes later on the same day does not run again.
		c.current = time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC)
		result, err = s.OnTick(ctx)
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunSkipped, result.Outcome)
		assert.Equal(t, "not due", result.Message)

		// The next day's occurrence is due.
		c.current = time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
		result, err = s.OnTick(ctx)
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunSuccess, result.Outcome)
	})

	t.Run("records run and success timestamps", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
		s := newScheduler(successRunner(), c)
		require.NoError(t, s.UpdateSchedule(ctx, 9, 0))
		require.NoError(t, s.SetEnabled(ctx, true))

		_, err := s.OnTick(ctx)
		require.NoError(t, err)

		state, err := s.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, c.current, state.LastRunAt)
		assert.Equal(t, c.current, state.LastSuccessAt)
		assert.Zero(t, state.ConsecutiveFailures)
	})

	t.Run("an open circuit does not suppress scheduled runs", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
		s := newScheduler(failingRunner(), c)
		require.NoError(t, s.UpdateSchedule(ctx, 9, 0))
		require.NoError(t, s.SetEnabled(ctx, true))

		for day := 1; day <= 4; day++ {
			c.current = time.Date(2024, 6, day, 9, 0, 0, 0, time.UTC)
			result, err := s.OnTick(ctx)
			require.NoError(t, err)
			assert.Equal(t, docwatch.RunFailed, result.Outcome)
		}

		state, err := s.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, state.ConsecutiveFailures)
		assert.True(t, s.CircuitOpen(state))
	})
}

func TestScheduler_FailureStreak(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}

	s := newScheduler(failingRunner(), c)

	for i := 0; i < 3; i++ {
		result, err := s.RunNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunFailed, result.Outcome)
	}

	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, state.ConsecutiveFailures)
	assert.True(t, s.CircuitOpen(state))
	assert.True(t, state.LastSuccessAt.IsZero())

	t.Run("a successful run resets the streak", func(t *testing.T) {
		s.Runner = successRunner()

		result, err := s.RunNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunSuccess, result.Outcome)

		state, err := s.State(ctx)
		require.NoError(t, err)
		assert.Zero(t, state.ConsecutiveFailures)
		assert.False(t, s.CircuitOpen(state))
		assert.Equal(t, c.current, state.LastSuccessAt)
	})
}

func TestScheduler_Reset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	s := newScheduler(failingRunner(), c)

	for i := 0; i < 3; i++ {
		_, err := s.RunNow(ctx)
		require.NoError(t, err)
	}

	require.NoError(t, s.Reset(ctx))

	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.ConsecutiveFailures)
	assert.False(t, s.CircuitOpen(state))
}

func TestScheduler_RunNow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{current: time.Date(2024, 6, 1, 14, 37, 0, 0, time.UTC)}

	// Disabled and far from the scheduled time; RunNow runs anyway.
	s := newScheduler(successRunner(), c)
	require.NoError(t, s.SetEnabled(ctx, false))

	result, err := s.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, docwatch.RunSuccess, result.Outcome)
}

func TestScheduler_RunLease(t *testing.T) {
	t.Parallel()

	t.Run("a live lease skips the run", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
		s := newScheduler(successRunner(), c)

		expiry := c.current.Add(time.Minute).Format(time.RFC3339)
		require.NoError(t, s.Settings.Set(ctx, "scrape.run_lease", expiry))

		result, err := s.RunNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunSkipped, result.Outcome)
		assert.Equal(t, "run already in progress", result.Message)
	})

	t.Run("an expired lease is taken over", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
		s := newScheduler(successRunner(), c)

		expiry := c.current.Add(-time.Minute).Format(time.RFC3339)
		require.NoError(t, s.Settings.Set(ctx, "scrape.run_lease", expiry))

		result, err := s.RunNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, docwatch.RunSuccess, result.Outcome)
	})

	t.Run("the lease is released after the run", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		c := &clock{current: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
		s := newScheduler(successRunner(), c)

		_, err := s.RunNow(ctx)
		require.NoError(t, err)

		_, err = s.Settings.Get(ctx, "scrape.run_lease")
		assert.Equal(t, docwatch.ENOTFOUND, docwatch.ErrorCode(err))
	})
}
