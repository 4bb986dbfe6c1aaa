package docwatch

import "time"

// Scheduled minutes are restricted to quarter-hour marks.
var validScheduledMinutes = map[int]bool{0: true, 15: true, 30: true, 45: true}

// SchedulerState is the persisted run state of the watcher. A single instance
// exists per installation; it is mutated by every run and never deleted.
//
// A zero LastRunAt or LastSuccessAt means "never". ConsecutiveFailures
// crossing the alert threshold marks the circuit open for alerting purposes
// only; it does not disable scheduled runs. Enabled is a separate operator
// flag.
type SchedulerState struct {
	Enabled             bool      `json:"enabled"`
	ScheduledHour       int       `json:"scheduledHour"`
	ScheduledMinute     int       `json:"scheduledMinute"`
	LastRunAt           time.Time `json:"lastRunAt"`
	LastSuccessAt       time.Time `json:"lastSuccessAt"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
}

// Validate returns an error if the state contains invalid fields.
func (s *SchedulerState) Validate() error {
	if s.ScheduledHour < 0 || s.ScheduledHour > 23 {
		return Errorf(EINVALID, "scheduled hour must be 0-23, got %d", s.ScheduledHour)
	}
	if !validScheduledMinutes[s.ScheduledMinute] {
		return Errorf(EINVALID, "scheduled minute must be 0, 15, 30 or 45, got %d", s.ScheduledMinute)
	}
	if s.ConsecutiveFailures < 0 {
		return Errorf(EINVALID, "consecutive failures must not be negative")
	}
	return nil
}
