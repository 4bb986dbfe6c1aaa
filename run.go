package docwatch

// RunOutcome classifies the result of a single watcher run.
type RunOutcome string

// Run outcomes. Only RunFailed counts toward the failure streak: a degraded
// run still proved the source reachable and the pipeline working, so it
// resets the streak like a success does.
const (
	RunSuccess  RunOutcome = "success"  // no errors
	RunDegraded RunOutcome = "degraded" // some, but not all, descriptors failed storage
	RunFailed   RunOutcome = "failed"   // fetch failed, or every descriptor errored
	RunSkipped  RunOutcome = "skipped"  // gated: disabled, not due, or already in progress
)

// ReconcileError records a per-descriptor failure during reconciliation.
type ReconcileError struct {
	ExternalID string `json:"externalId"`
	Reason     string `json:"reason"`
}

// ReconcileReport summarizes one reconciliation batch. Per-descriptor
// failures are isolated: an entry in Errors never rolls back the others.
type ReconcileReport struct {
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Errors    []ReconcileError `json:"errors,omitempty"`
}

// RunResult is returned by both the scheduled and the manual trigger.
// Report is nil when the run was skipped or failed before reconciliation.
type RunResult struct {
	Outcome RunOutcome       `json:"outcome"`
	Message string           `json:"message"`
	Report  *ReconcileReport `json:"report,omitempty"`
}

// Success reports whether the run should be considered successful by callers
// that only need a boolean. Skipped and degraded runs count as success.
func (r *RunResult) Success() bool {
	return r.Outcome != RunFailed
}
