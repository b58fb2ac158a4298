package session

import (
	"time"

	"github.com/halcyon-player/halcyon/playlist"
)

type autoPlayDecision int

const (
	autoPlayNone autoPlayDecision = iota
	autoPlayNext
	autoPlayExit
)

// autoPlayScheduler watches playback completion and arms a one-shot
// continuation near the end of an item. The trigger is edge-based:
// it fires once per loaded item and rewinding back below the threshold
// does not rearm it.
type autoPlayScheduler struct {
	sched     Scheduler
	threshold float64
	nextDelay time.Duration
	exitDelay time.Duration

	fired   bool
	pending TimerHandle
}

// Reset rearms the trigger and cancels any pending continuation.
// Called whenever a new item is loaded.
func (a *autoPlayScheduler) Reset() {
	a.cancel()
	a.fired = false
}

// Check evaluates the completion ratio and, on the first crossing of the
// threshold, schedules either the next-item load or the end-of-traversal
// exit. Returns which continuation was armed, if any.
func (a *autoPlayScheduler) Check(pos, dur time.Duration, ctx *playlist.Context, next, exit func()) autoPlayDecision {
	if a.fired || dur <= 0 {
		return autoPlayNone
	}
	if float64(pos)/float64(dur) < a.threshold {
		return autoPlayNone
	}
	a.fired = true

	if !ctx.AutoPlay() {
		return autoPlayNone
	}

	a.cancel()
	if ctx.HasNext() {
		a.pending = a.sched.ScheduleOnce(a.nextDelay, next)
		return autoPlayNext
	}
	a.pending = a.sched.ScheduleOnce(a.exitDelay, exit)
	return autoPlayExit
}

func (a *autoPlayScheduler) cancel() {
	if a.pending != nil {
		a.pending.Cancel()
		a.pending = nil
	}
}
