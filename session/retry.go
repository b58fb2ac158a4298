package session

import "time"

// retrySupervisor owns the bounded exponential backoff for failed loads.
// Delays double starting at one second: 1s, 2s, 4s for the default budget
// of three attempts. At most one retry timer is pending at any moment.
type retrySupervisor struct {
	sched       Scheduler
	maxAttempts int

	attempt int
	pending TimerHandle
}

// Reset cancels any pending retry and zeroes the attempt counter.
// Called whenever a fresh load is issued or a load succeeds.
func (r *retrySupervisor) Reset() {
	r.cancel()
	r.attempt = 0
}

// Schedule registers a retry callback after the next backoff delay.
// It reports the chosen delay, or false when the attempt budget is
// exhausted and the failure must surface as terminal.
func (r *retrySupervisor) Schedule(fn func()) (time.Duration, bool) {
	if r.attempt >= r.maxAttempts {
		return 0, false
	}
	r.attempt++
	delay := time.Duration(1<<(r.attempt-1)) * time.Second

	r.cancel()
	r.pending = r.sched.ScheduleOnce(delay, fn)
	return delay, true
}

func (r *retrySupervisor) cancel() {
	if r.pending != nil {
		r.pending.Cancel()
		r.pending = nil
	}
}
