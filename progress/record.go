// Package progress provides the implementation for tracking and persisting playback position state.
package progress

import "time"

// Record represents the persisted playback progress of a single media item.
type Record struct {
	PositionMs int64 `json:"position_ms"`
	DurationMs int64 `json:"duration_ms"`
	Watched    bool  `json:"watched"`
	SavedAt    int64 `json:"saved_at"`
}

// NewRecord builds a record from live playback values.
func NewRecord(pos, dur time.Duration, watched bool) Record {
	return Record{
		PositionMs: pos.Milliseconds(),
		DurationMs: dur.Milliseconds(),
		Watched:    watched,
		SavedAt:    time.Now().Unix(),
	}
}

// Position returns the saved playback position.
func (r Record) Position() time.Duration {
	return time.Duration(r.PositionMs) * time.Millisecond
}

// Duration returns the saved media duration.
func (r Record) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// PercentComplete returns the completion ratio in [0, 1]; zero when the duration is unknown.
func (r Record) PercentComplete() float64 {
	if r.DurationMs <= 0 {
		return 0
	}
	return float64(r.PositionMs) / float64(r.DurationMs)
}
