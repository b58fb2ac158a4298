package progress

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResumePolicy(t *testing.T) {
	Convey("ResumePolicy.ShouldResume", t, func() {
		policy := ResumePolicy{
			AutoResume:        true,
			Threshold:         5 * time.Second,
			CompletionCeiling: 0.95,
		}

		halfway := Record{PositionMs: 600000, DurationMs: 1200000}

		Convey("Resumes an unwatched item past the threshold", func() {
			So(policy.ShouldResume(halfway), ShouldBeTrue)
		})

		Convey("Position exactly at the threshold must not resume", func() {
			rec := Record{PositionMs: 5000, DurationMs: 1200000}
			So(policy.ShouldResume(rec), ShouldBeFalse)
		})

		Convey("Position one past the threshold must resume", func() {
			rec := Record{PositionMs: 5001, DurationMs: 1200000}
			So(policy.ShouldResume(rec), ShouldBeTrue)
		})

		Convey("Near-complete items restart from the beginning", func() {
			rec := Record{PositionMs: 1150000, DurationMs: 1200000} // ~95.8%
			So(policy.ShouldResume(rec), ShouldBeFalse)
		})

		Convey("Watched items never resume", func() {
			rec := halfway
			rec.Watched = true
			So(policy.ShouldResume(rec), ShouldBeFalse)
		})

		Convey("Disabled auto-resume never resumes", func() {
			off := policy
			off.AutoResume = false
			So(off.ShouldResume(halfway), ShouldBeFalse)
		})
	})
}

func TestPersistPolicy(t *testing.T) {
	Convey("PersistPolicy.Evaluate", t, func() {
		policy := PersistPolicy{WatchedRatio: 0.9, Interval: 10 * time.Second}
		dur := 20 * time.Minute

		Convey("Never persists with an unknown duration", func() {
			watched, persist := policy.Evaluate(time.Minute, 0, time.Hour)
			So(watched, ShouldBeFalse)
			So(persist, ShouldBeFalse)
		})

		Convey("Periodic writes respect the interval", func() {
			_, persist := policy.Evaluate(time.Minute, dur, 3*time.Second)
			So(persist, ShouldBeFalse)

			_, persist = policy.Evaluate(time.Minute, dur, 10*time.Second)
			So(persist, ShouldBeTrue)
		})

		Convey("Crossing the watched ratio forces a write", func() {
			watched, persist := policy.Evaluate(19*time.Minute, dur, 0)
			So(watched, ShouldBeTrue)
			So(persist, ShouldBeTrue)
		})

		Convey("Exactly at the ratio is not yet watched", func() {
			watched, _ := policy.Evaluate(18*time.Minute, dur, 0)
			So(watched, ShouldBeFalse)
		})
	})
}
