package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docwatch"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	state, err := deps.Scheduler.State(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
		return err
	}

	enabled := "disabled"
	if state.Enabled {
		enabled = "enabled"
	}
	fmt.Fprintf(deps.Stdout, "Watcher: %s, scheduled %02d:%02d\n", enabled, state.ScheduledHour, state.ScheduledMinute)
	fmt.Fprintf(deps.Stdout, "Last run: %s\n", formatTimestamp(state.LastRunAt))
	fmt.Fprintf(deps.Stdout, "Last success: %s\n", formatTimestamp(state.LastSuccessAt))
	fmt.Fprintf(deps.Stdout, "Consecutive failures: %d\n", state.ConsecutiveFailures)
	if deps.Scheduler.CircuitOpen(state) {
		fmt.Fprintf(deps.Stdout, "WARNING: failure streak at alert threshold; check the source site and run 'docwatch reset' after resolving\n")
	}

	stats, err := deps.TrackedDocuments.Statistics(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Tracked documents: %d\n", stats.TotalDocuments)
	for _, t := range []docwatch.DocumentType{docwatch.TypeStatute, docwatch.TypeRules, docwatch.TypeForm, docwatch.TypeOther} {
		if n := stats.ByType[t]; n > 0 {
			fmt.Fprintf(deps.Stdout, "  %s: %d\n", t, n)
		}
	}
	if stats.LastUpdated != nil {
		fmt.Fprintf(deps.Stdout, "Last updated: %s\n", formatTimestamp(*stats.LastUpdated))
	}

	return nil
}

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if err := deps.Scheduler.Reset(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Failure counter cleared")
	return nil
}

// formatTimestamp renders a timestamp, with zero meaning "never".
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
