package main

import (
	"fmt"

	"github.com/fwojciec/docwatch"
)

// Run executes the run command (manual trigger).
func (c *RunCmd) Run(deps *Dependencies) error {
	result, err := deps.Scheduler.RunNow(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
		return err
	}
	printRunResult(deps, result)
	if !result.Success() {
		return fmt.Errorf("run failed: %s", result.Message)
	}
	return nil
}

// Run executes the tick command (scheduled trigger).
func (c *TickCmd) Run(deps *Dependencies) error {
	result, err := deps.Scheduler.OnTick(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
		return err
	}
	printRunResult(deps, result)
	if !result.Success() {
		return fmt.Errorf("run failed: %s", result.Message)
	}
	return nil
}

// printRunResult renders a run outcome with its reconcile breakdown.
func printRunResult(deps *Dependencies, result *docwatch.RunResult) {
	fmt.Fprintf(deps.Stdout, "%s: %s\n", result.Outcome, result.Message)
	if result.Report == nil {
		return
	}
	for _, e := range result.Report.Errors {
		fmt.Fprintf(deps.Stderr, "  error %s: %s\n", e.ExternalID, e.Reason)
	}
}
