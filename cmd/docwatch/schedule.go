package main

import (
	"fmt"

	"github.com/fwojciec/docwatch"
)

// Run executes the schedule command.
func (c *ScheduleCmd) Run(deps *Dependencies) error {
	if c.Hour >= 0 || c.Minute >= 0 {
		state, err := deps.Scheduler.State(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
			return err
		}
		hour, minute := state.ScheduledHour, state.ScheduledMinute
		if c.Hour >= 0 {
			hour = c.Hour
		}
		if c.Minute >= 0 {
			minute = c.Minute
		}
		if err := deps.Scheduler.UpdateSchedule(deps.Ctx, hour, minute); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Scheduled at %02d:%02d\n", hour, minute)
	}

	if c.Enable || c.Disable {
		if err := deps.Scheduler.SetEnabled(deps.Ctx, c.Enable); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
			return err
		}
		if c.Enable {
			fmt.Fprintln(deps.Stdout, "Watcher enabled")
		} else {
			fmt.Fprintln(deps.Stdout, "Watcher disabled")
		}
	}

	return nil
}
