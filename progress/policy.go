package progress

import "time"

// ResumePolicy decides whether a freshly loaded item resumes from saved progress.
type ResumePolicy struct {
	AutoResume bool
	// Threshold is the minimum saved position before a resume seek is worth issuing.
	Threshold time.Duration
	// CompletionCeiling is the ratio past which an item restarts from the beginning.
	CompletionCeiling float64
}

// ShouldResume reports whether playback should resume at rec.Position().
// Resume requires a position strictly past the threshold, an item not yet
// near completion, and no watched flag.
func (p ResumePolicy) ShouldResume(rec Record) bool {
	return p.AutoResume &&
		rec.Position() > p.Threshold &&
		rec.PercentComplete() < p.CompletionCeiling &&
		!rec.Watched
}

// PersistPolicy decides when periodic progress writes happen during playback.
type PersistPolicy struct {
	// WatchedRatio is the completion ratio past which the item counts as watched.
	WatchedRatio float64
	// Interval is the minimum spacing between periodic writes.
	Interval time.Duration
}

// Evaluate returns the watched flag for the current position and whether a
// write is due. Crossing the watched ratio always forces a write.
func (p PersistPolicy) Evaluate(pos, dur time.Duration, sinceLast time.Duration) (watched, persist bool) {
	if dur <= 0 {
		return false, false
	}

	watched = float64(pos)/float64(dur) > p.WatchedRatio
	persist = watched || sinceLast >= p.Interval
	return watched, persist
}
