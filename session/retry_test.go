package session

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRetrySupervisor(t *testing.T) {
	Convey("Given a supervisor with a budget of three attempts", t, func() {
		sched := newFakeScheduler()
		r := retrySupervisor{sched: sched, maxAttempts: 3}

		fired := 0
		fn := func() { fired++ }

		Convey("Delays double from one second", func() {
			d1, ok1 := r.Schedule(fn)
			So(ok1, ShouldBeTrue)
			So(d1, ShouldEqual, 1*time.Second)

			d2, ok2 := r.Schedule(fn)
			So(ok2, ShouldBeTrue)
			So(d2, ShouldEqual, 2*time.Second)

			d3, ok3 := r.Schedule(fn)
			So(ok3, ShouldBeTrue)
			So(d3, ShouldEqual, 4*time.Second)

			Convey("The budget is then exhausted", func() {
				_, ok := r.Schedule(fn)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Scheduling replaces any pending timer", func() {
			r.Schedule(fn)
			r.Schedule(fn)

			sched.Advance(time.Minute)
			So(fired, ShouldEqual, 1)
		})

		Convey("Reset cancels the pending timer and restores the budget", func() {
			r.Schedule(fn)
			r.Reset()

			sched.Advance(time.Minute)
			So(fired, ShouldEqual, 0)

			d, ok := r.Schedule(fn)
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, 1*time.Second)
		})

		Convey("Reset is idempotent", func() {
			r.Schedule(fn)
			r.Reset()
			r.Reset()
			So(r.attempt, ShouldEqual, 0)
		})
	})
}
