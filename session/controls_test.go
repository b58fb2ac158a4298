package session

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestControls(sched *fakeScheduler) *controlsMachine {
	var m *controlsMachine
	m = newControlsMachine(sched, 4*time.Second, 2.0, func(seq uint64) {
		m.timerFired(seq)
	})
	return m
}

func TestControlsMachine(t *testing.T) {
	Convey("Given a fresh control surface", t, func() {
		sched := newFakeScheduler()
		m := newTestControls(sched)

		Convey("It starts visible with a running hide timer", func() {
			So(m.visible(), ShouldBeTrue)

			sched.Advance(4 * time.Second)
			So(m.visible(), ShouldBeFalse)
		})

		Convey("Sub-threshold motion while hidden does not show it", func() {
			sched.Advance(4 * time.Second)

			m.move(100, 100, false)
			m.move(101, 100, false)
			So(m.visible(), ShouldBeFalse)
		})

		Convey("Motion past the threshold while hidden shows it", func() {
			sched.Advance(4 * time.Second)

			m.move(100, 100, false)
			m.move(105, 100, false)
			So(m.visible(), ShouldBeTrue)

			Convey("And the hide timer restarts", func() {
				sched.Advance(4 * time.Second)
				So(m.visible(), ShouldBeFalse)
			})
		})

		Convey("Motion over the surface restarts the hide timer", func() {
			sched.Advance(3 * time.Second)
			m.move(100, 100, false)

			sched.Advance(3 * time.Second)
			So(m.visible(), ShouldBeTrue)

			sched.Advance(1 * time.Second)
			So(m.visible(), ShouldBeFalse)
		})

		Convey("Hovering the controls suspends the hide timer", func() {
			m.move(100, 100, true)

			sched.Advance(time.Minute)
			So(m.visible(), ShouldBeTrue)

			Convey("And leaving the controls restarts it", func() {
				m.move(100, 200, false)
				So(m.visible(), ShouldBeTrue)

				sched.Advance(4 * time.Second)
				So(m.visible(), ShouldBeFalse)
			})
		})

		Convey("Pointer leave hides immediately", func() {
			m.leave(false)
			So(m.visible(), ShouldBeFalse)
		})

		Convey("Pointer leave with an open overlay keeps the controls", func() {
			m.leave(true)
			So(m.visible(), ShouldBeTrue)
		})

		Convey("Pointer enter while hidden shows a fresh surface", func() {
			m.leave(false)
			m.enter()
			So(m.visible(), ShouldBeTrue)

			sched.Advance(4 * time.Second)
			So(m.visible(), ShouldBeFalse)
		})

		Convey("Toggle flips visibility both ways", func() {
			m.toggle()
			So(m.visible(), ShouldBeFalse)

			m.toggle()
			So(m.visible(), ShouldBeTrue)
		})

		Convey("A stale timer fire is ignored", func() {
			stale := m.seq

			m.move(100, 100, false)
			m.timerFired(stale)
			So(m.visible(), ShouldBeTrue)
		})

		Convey("A timer fire in the hovering state is ignored", func() {
			seq := m.seq
			m.move(100, 100, true)

			m.timerFired(seq)
			So(m.visible(), ShouldBeTrue)
		})
	})
}
