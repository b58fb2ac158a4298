package session

import "time"

// TimerHandle is a cancellable reference to a pending scheduled callback.
// Cancel is idempotent: cancelling an already-fired or already-cancelled
// timer is a no-op, never an error.
type TimerHandle interface {
	Cancel()
}

// Scheduler abstracts one-shot timer scheduling and the session's clock,
// enabling deterministic tests via a fake, fast-forwardable implementation.
type Scheduler interface {
	ScheduleOnce(d time.Duration, fn func()) TimerHandle
	Now() time.Time
}

// clockScheduler is the production Scheduler backed by the runtime timer wheel.
type clockScheduler struct{}

// NewScheduler returns the production wall-clock scheduler.
func NewScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) ScheduleOnce(d time.Duration, fn func()) TimerHandle {
	return &clockTimer{timer: time.AfterFunc(d, fn)}
}

func (clockScheduler) Now() time.Time {
	return time.Now()
}

type clockTimer struct {
	timer *time.Timer
}

func (t *clockTimer) Cancel() {
	t.timer.Stop()
}
