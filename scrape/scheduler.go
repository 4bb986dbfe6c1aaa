package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docwatch"
)

// Settings keys owned by the scheduler.
const (
	stateKey = "scrape.scheduler_state"
	leaseKey = "scrape.run_lease"
)

// DefaultFailureThreshold is the consecutive-failure count at which the
// circuit is considered open for alerting purposes.
const DefaultFailureThreshold = 3

// DefaultLeaseTTL bounds how long a crashed run can block the next one.
// Runs complete in seconds; a stale lease is taken over after expiry.
const DefaultLeaseTTL = 5 * time.Minute

// Scheduler owns the persisted run state and decides when a run is due. It
// is not a daemon: OnTick is called by a host-provided periodic trigger
// (cron), runs one bounded batch, records the outcome, and returns.
//
// An open circuit (failure streak at or past the threshold) is advisory
// only: it surfaces in status output and logs but does not suppress
// scheduled runs. Disabling is the separate, explicit Enabled flag.
type Scheduler struct {
	Settings docwatch.SettingsService
	Runner   *Runner

	// FailureThreshold defaults to DefaultFailureThreshold.
	FailureThreshold int

	// LeaseTTL defaults to DefaultLeaseTTL.
	LeaseTTL time.Duration

	// Logger defaults to slog.Default. Logging never fails a run.
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now; injected in tests.
	Now func() time.Time
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Scheduler) threshold() int {
	if s.FailureThreshold > 0 {
		return s.FailureThreshold
	}
	return DefaultFailureThreshold
}

func (s *Scheduler) leaseTTL() time.Duration {
	if s.LeaseTTL > 0 {
		return s.LeaseTTL
	}
	return DefaultLeaseTTL
}

// State loads the persisted scheduler state, returning defaults when the
// watcher has never been configured.
func (s *Scheduler) State(ctx context.Context) (*docwatch.SchedulerState, error) {
	raw, err := s.Settings.Get(ctx, stateKey)
	if err != nil {
		if docwatch.ErrorCode(err) == docwatch.ENOTFOUND {
			return &docwatch.SchedulerState{ScheduledHour: 3, ScheduledMinute: 0}, nil
		}
		return nil, err
	}

	var state docwatch.SchedulerState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, docwatch.Errorf(docwatch.EINTERNAL, "corrupt scheduler state: %v", err)
	}
	return &state, nil
}

// saveState persists the scheduler state.
func (s *Scheduler) saveState(ctx context.Context, state *docwatch.SchedulerState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return docwatch.Errorf(docwatch.EINTERNAL, "encode scheduler state: %v", err)
	}
	return s.Settings.Set(ctx, stateKey, string(raw))
}

// UpdateSchedule sets the scheduled run time. Invalid values are rejected
// with no state change.
func (s *Scheduler) UpdateSchedule(ctx context.Context, hour, minute int) error {
	state, err := s.State(ctx)
	if err != nil {
		return err
	}

	updated := *state
	updated.ScheduledHour = hour
	updated.ScheduledMinute = minute
	if err := updated.Validate(); err != nil {
		return err
	}
	return s.saveState(ctx, &updated)
}

// SetEnabled flips the operator enable flag.
func (s *Scheduler) SetEnabled(ctx context.Context, enabled bool) error {
	state, err := s.State(ctx)
	if err != nil {
		return err
	}
	state.Enabled = enabled
	return s.saveState(ctx, state)
}

// Reset clears the failure streak without requiring a successful run.
func (s *Scheduler) Reset(ctx context.Context) error {
	state, err := s.State(ctx)
	if err != nil {
		return err
	}
	state.ConsecutiveFailures = 0
	return s.saveState(ctx, state)
}

// CircuitOpen reports whether the failure streak has reached the alert
// threshold.
func (s *Scheduler) CircuitOpen(state *docwatch.SchedulerState) bool {
	return state.ConsecutiveFailures >= s.threshold()
}

// OnTick is the scheduled entry point. It runs only when the watcher is
// enabled and a scheduled occurrence has passed since the last run, so
// near-duplicate host ticks are safe.
func (s *Scheduler) OnTick(ctx context.Context) (*docwatch.RunResult, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	if !state.Enabled {
		return &docwatch.RunResult{Outcome: docwatch.RunSkipped, Message: "watcher disabled"}, nil
	}
	if !due(state, s.now()) {
		return &docwatch.RunResult{Outcome: docwatch.RunSkipped, Message: "not due"}, nil
	}

	return s.run(ctx, state)
}

// RunNow is the manual trigger. It ignores the enabled flag and due-time
// gating but still respects the run lease.
func (s *Scheduler) RunNow(ctx context.Context) (*docwatch.RunResult, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, state)
}

// run acquires the lease, executes the batch, and records the outcome.
func (s *Scheduler) run(ctx context.Context, state *docwatch.SchedulerState) (*docwatch.RunResult, error) {
	acquired, err := s.acquireLease(ctx)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return &docwatch.RunResult{Outcome: docwatch.RunSkipped, Message: "run already in progress"}, nil
	}
	defer s.releaseLease(ctx)

	result := s.Runner.Run(ctx)

	now := s.now()
	state.LastRunAt = now
	if result.Outcome == docwatch.RunFailed {
		state.ConsecutiveFailures++
	} else {
		state.ConsecutiveFailures = 0
		state.LastSuccessAt = now
	}
	if err := s.saveState(ctx, state); err != nil {
		return result, err
	}

	log := s.logger()
	log.Info("run finished",
		"outcome", string(result.Outcome),
		"message", result.Message,
		"consecutive_failures", state.ConsecutiveFailures,
	)
	if s.CircuitOpen(state) {
		log.Warn("failure streak at alert threshold",
			"consecutive_failures", state.ConsecutiveFailures,
			"threshold", s.threshold(),
		)
	}

	return result, nil
}

// due reports whether the most recent scheduled occurrence at or before now
// is strictly after the last run. A tick minutes after a completed run does
// not trigger again; the next day's occurrence does.
func due(state *docwatch.SchedulerState, now time.Time) bool {
	occurrence := time.Date(now.Year(), now.Month(), now.Day(),
		state.ScheduledHour, state.ScheduledMinute, 0, 0, now.Location())
	if occurrence.After(now) {
		occurrence = occurrence.AddDate(0, 0, -1)
	}
	return state.LastRunAt.Before(occurrence)
}

// acquireLease takes the run-in-progress marker unless a live one exists.
// Expired leases (crashed runs) are taken over.
func (s *Scheduler) acquireLease(ctx context.Context) (bool, error) {
	raw, err := s.Settings.Get(ctx, leaseKey)
	if err != nil && docwatch.ErrorCode(err) != docwatch.ENOTFOUND {
		return false, err
	}
	if err == nil {
		expiry, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr == nil && expiry.After(s.now()) {
			return false, nil
		}
	}

	expiry := s.now().Add(s.leaseTTL()).Format(time.RFC3339)
	if err := s.Settings.Set(ctx, leaseKey, expiry); err != nil {
		return false, fmt.Errorf("acquire run lease: %w", err)
	}
	return true, nil
}

// releaseLease drops the run-in-progress marker. Best effort: an expired
// lease is equivalent to a released one.
func (s *Scheduler) releaseLease(ctx context.Context) {
	_ = s.Settings.Delete(ctx, leaseKey)
}
