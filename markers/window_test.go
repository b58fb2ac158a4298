package markers

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func intro(start, end time.Duration) Set {
	return Set{Intro: &Marker{Start: start, End: end, Kind: KindIntro}}
}

func TestWindowVisible(t *testing.T) {
	Convey("WindowVisible", t, func() {
		marker := &Marker{Start: 10 * time.Second, End: 25 * time.Second, Kind: KindIntro}

		Convey("Is a pure function of position, marker, and dismissal", func() {
			So(WindowVisible(9999*time.Millisecond, marker, false), ShouldBeFalse)
			So(WindowVisible(10*time.Second, marker, false), ShouldBeTrue)
			So(WindowVisible(24999*time.Millisecond, marker, false), ShouldBeTrue)
			So(WindowVisible(25*time.Second, marker, false), ShouldBeFalse)
		})

		Convey("Dismissal always hides", func() {
			So(WindowVisible(12*time.Second, marker, true), ShouldBeFalse)
		})

		Convey("A nil marker never shows", func() {
			So(WindowVisible(12*time.Second, nil, false), ShouldBeFalse)
		})
	})
}

func TestManagerUpdate(t *testing.T) {
	Convey("Manager.Update", t, func() {
		Convey("Shows the window inside the marker range", func() {
			m := NewManager(AutoSkipOptions{})
			m.SetMarkers(intro(10*time.Second, 25*time.Second))

			_, skip := m.Update(12 * time.Second)
			So(skip, ShouldBeFalse)
			So(m.Visible(KindIntro), ShouldBeTrue)
			So(m.Visible(KindCredits), ShouldBeFalse)

			_, skip = m.Update(26 * time.Second)
			So(skip, ShouldBeFalse)
			So(m.Visible(KindIntro), ShouldBeFalse)
		})

		Convey("Auto-skips when configured and the window is long enough", func() {
			m := NewManager(AutoSkipOptions{Intro: true, MinWindow: 3 * time.Second})
			m.SetMarkers(intro(10*time.Second, 25*time.Second))

			decision, skip := m.Update(10 * time.Second)
			So(skip, ShouldBeTrue)
			So(decision.Kind, ShouldEqual, KindIntro)
			So(decision.SeekTo, ShouldEqual, 25*time.Second)

			// Dismissed: a backward seek back into the window stays hidden.
			_, skip = m.Update(12 * time.Second)
			So(skip, ShouldBeFalse)
			So(m.Visible(KindIntro), ShouldBeFalse)
		})

		Convey("Does not auto-skip a window shorter than the minimum", func() {
			m := NewManager(AutoSkipOptions{Intro: true, MinWindow: 10 * time.Second})
			m.SetMarkers(intro(10*time.Second, 15*time.Second))

			_, skip := m.Update(11 * time.Second)
			So(skip, ShouldBeFalse)
			So(m.Visible(KindIntro), ShouldBeTrue)
		})
	})
}

func TestManagerSkip(t *testing.T) {
	Convey("Manager.Skip", t, func() {
		m := NewManager(AutoSkipOptions{})
		m.SetMarkers(Set{
			Intro:   &Marker{Start: 10 * time.Second, End: 25 * time.Second, Kind: KindIntro},
			Credits: &Marker{Start: 40 * time.Minute, End: 42 * time.Minute, Kind: KindCredits},
		})

		Convey("Dismisses and yields the seek target", func() {
			m.Update(12 * time.Second)
			decision, ok := m.Skip(KindIntro)
			So(ok, ShouldBeTrue)
			So(decision.SeekTo, ShouldEqual, 25*time.Second)

			// Second skip of the same window is a no-op.
			_, ok = m.Skip(KindIntro)
			So(ok, ShouldBeFalse)
		})

		Convey("Skipping without a marker is a no-op", func() {
			empty := NewManager(AutoSkipOptions{})
			_, ok := empty.Skip(KindCredits)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestManagerClear(t *testing.T) {
	Convey("Manager.Clear", t, func() {
		m := NewManager(AutoSkipOptions{})
		m.SetMarkers(intro(10*time.Second, 25*time.Second))
		m.Update(12 * time.Second)
		So(m.Visible(KindIntro), ShouldBeTrue)

		Convey("Resets both windows, idempotently", func() {
			m.Clear()
			So(m.Visible(KindIntro), ShouldBeFalse)
			before := *m
			m.Clear()
			So(*m, ShouldResemble, before)
		})
	})
}

func TestSetFromSegments(t *testing.T) {
	Convey("setFromSegments", t, func() {
		set := setFromSegments([]segmentDTO{
			{Type: "intro", StartMs: 10000, EndMs: 25000},
			{Type: "credits", StartMs: 2400000, EndMs: 2520000},
			{Type: "recap", StartMs: 0, EndMs: 5000},
			{Type: "outro", StartMs: 9000, EndMs: 9000}, // degenerate, dropped
		})

		So(set.Intro, ShouldNotBeNil)
		So(set.Intro.Start, ShouldEqual, 10*time.Second)
		So(set.Intro.End, ShouldEqual, 25*time.Second)
		So(set.Credits, ShouldNotBeNil)
		So(set.Credits.Kind, ShouldEqual, KindCredits)
		So(set.Empty(), ShouldBeFalse)
		So(setFromSegments(nil).Empty(), ShouldBeTrue)
	})
}
