package session

import (
	"testing"
	"time"

	"github.com/halcyon-player/halcyon/markers"
	"github.com/halcyon-player/halcyon/player"
	"github.com/halcyon-player/halcyon/playlist"
	"github.com/halcyon-player/halcyon/progress"
	"github.com/halcyon-player/halcyon/remote"
	. "github.com/smartystreets/goconvey/convey"
)

type harness struct {
	sched    *fakeScheduler
	backend  *fakeBackend
	resolver *fakeResolver
	store    *memStore
	remote   *fakeRemote
	markers  *fakeMarkerSource
	ctrl     *Controller
}

func newHarness(settings Settings) *harness {
	h := &harness{
		sched:    newFakeScheduler(),
		backend:  newFakeBackend(),
		resolver: &fakeResolver{},
		store:    newMemStore(),
		remote:   &fakeRemote{},
		markers:  &fakeMarkerSource{},
	}
	h.ctrl = New(Options{
		Backend:  h.backend,
		Resolver: h.resolver,
		Store:    h.store,
		Markers:  h.markers,
		Remote:   h.remote,
		Sched:    h.sched,
		Settings: settings,
	})
	return h
}

func hasTerminalError(events []Event) bool {
	for _, e := range events {
		if pe, ok := e.(PlaybackError); ok && pe.Terminal {
			return true
		}
	}
	return false
}

func TestLoadRetry(t *testing.T) {
	Convey("Given a stream that keeps failing to resolve", t, func() {
		h := newHarness(testSettings())
		h.resolver.failures = 100

		h.ctrl.Load("ep-1", "Episode 1")

		Convey("The first attempt happens immediately", func() {
			So(h.resolver.calls, ShouldEqual, 1)
			So(h.ctrl.State(), ShouldEqual, player.StateLoading)
		})

		Convey("Retries follow doubling delays of 1s, 2s and 4s", func() {
			h.sched.Advance(999 * time.Millisecond)
			So(h.resolver.calls, ShouldEqual, 1)
			h.sched.Advance(1 * time.Millisecond)
			So(h.resolver.calls, ShouldEqual, 2)

			h.sched.Advance(1999 * time.Millisecond)
			So(h.resolver.calls, ShouldEqual, 2)
			h.sched.Advance(1 * time.Millisecond)
			So(h.resolver.calls, ShouldEqual, 3)

			h.sched.Advance(3999 * time.Millisecond)
			So(h.resolver.calls, ShouldEqual, 3)
			h.sched.Advance(1 * time.Millisecond)
			So(h.resolver.calls, ShouldEqual, 4)

			Convey("The final failure is terminal", func() {
				So(h.ctrl.State(), ShouldEqual, player.StateError)
				So(hasTerminalError(drainEvents(h.ctrl)), ShouldBeTrue)

				Convey("And no further retry is ever scheduled", func() {
					h.sched.Advance(time.Minute)
					So(h.resolver.calls, ShouldEqual, 4)
				})
			})
		})

		Convey("Retry after a terminal failure starts a fresh attempt budget", func() {
			h.sched.Advance(10 * time.Second)
			So(h.ctrl.State(), ShouldEqual, player.StateError)

			h.resolver.failures = 0
			h.ctrl.Retry()

			So(h.ctrl.State(), ShouldEqual, player.StatePlaying)
			So(h.backend.loads, ShouldHaveLength, 1)
		})
	})
}

func TestLoadResume(t *testing.T) {
	Convey("Given saved progress of 600000ms on a 1440000ms item", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1440 * time.Second
		h.store.recs["ep-1"] = progress.NewRecord(600*time.Second, 1440*time.Second, false)

		h.ctrl.Load("ep-1", "Episode 1")

		Convey("Exactly one resume seek to the saved position is issued", func() {
			So(h.backend.seeks, ShouldResemble, []time.Duration{600 * time.Second})
			So(h.ctrl.Position(), ShouldEqual, 600*time.Second)

			h.ctrl.Tick()
			So(h.backend.seeks, ShouldHaveLength, 1)
		})
	})

	Convey("Given saved progress that does not qualify for resume", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1440 * time.Second

		Convey("A watched item starts from the beginning", func() {
			h.store.recs["ep-1"] = progress.NewRecord(600*time.Second, 1440*time.Second, true)
			h.ctrl.Load("ep-1", "Episode 1")
			So(h.backend.seeks, ShouldBeEmpty)
		})

		Convey("A position at the threshold starts from the beginning", func() {
			h.store.recs["ep-1"] = progress.NewRecord(5*time.Second, 1440*time.Second, false)
			h.ctrl.Load("ep-1", "Episode 1")
			So(h.backend.seeks, ShouldBeEmpty)
		})

		Convey("An almost finished item starts from the beginning", func() {
			h.store.recs["ep-1"] = progress.NewRecord(1400*time.Second, 1440*time.Second, false)
			h.ctrl.Load("ep-1", "Episode 1")
			So(h.backend.seeks, ShouldBeEmpty)
		})

		Convey("Disabled auto-resume starts from the beginning", func() {
			s := testSettings()
			s.AutoResume = false
			h = newHarness(s)
			h.store.recs["ep-1"] = progress.NewRecord(600*time.Second, 1440*time.Second, false)
			h.ctrl.Load("ep-1", "Episode 1")
			So(h.backend.seeks, ShouldBeEmpty)
		})
	})
}

func TestTickPersistence(t *testing.T) {
	Convey("Given a playing session", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1440 * time.Second
		h.ctrl.Load("ep-1", "Episode 1")
		h.backend.pos = 120 * time.Second

		Convey("Progress is not written before the save interval elapses", func() {
			h.ctrl.Tick()
			So(h.store.saves, ShouldEqual, 0)
		})

		Convey("Progress is written once the save interval elapses", func() {
			h.sched.Advance(10 * time.Second)
			h.ctrl.Tick()
			So(h.store.saves, ShouldEqual, 1)

			rec := h.store.recs["ep-1"]
			So(rec.Position(), ShouldEqual, 120*time.Second)
			So(rec.Watched, ShouldBeFalse)
		})

		Convey("Crossing the watched ratio marks the record watched", func() {
			h.backend.pos = 1400 * time.Second
			h.sched.Advance(10 * time.Second)
			h.ctrl.Tick()
			So(h.store.recs["ep-1"].Watched, ShouldBeTrue)
		})

		Convey("A pause forces an immediate write regardless of the interval", func() {
			h.backend.state = player.StatePaused
			h.ctrl.Tick()
			So(h.store.saves, ShouldEqual, 1)
			So(h.ctrl.State(), ShouldEqual, player.StatePaused)
		})

		Convey("A locally issued pause is persisted on the next tick", func() {
			h.ctrl.Pause()
			h.ctrl.Tick()
			So(h.store.saves, ShouldEqual, 1)
			So(h.store.recs["ep-1"].Position(), ShouldEqual, 120*time.Second)

			Convey("And the write is not repeated while paused", func() {
				h.ctrl.Tick()
				So(h.store.saves, ShouldEqual, 1)
			})
		})

		Convey("A locally issued toggle back to playing forces a write too", func() {
			h.ctrl.Pause()
			h.ctrl.Tick()
			h.ctrl.TogglePause()
			h.ctrl.Tick()
			So(h.store.saves, ShouldEqual, 2)
		})
	})
}

func TestRemoteMirroring(t *testing.T) {
	Convey("Given a session attached to a remote queue", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1440 * time.Second
		ctx := playlist.Single("ep-1", "Episode 1").WithRemoteQueue("queue-9")
		h.ctrl.LoadWithContext("ep-1", "Episode 1", ctx)

		Convey("Each tick mirrors the transport state", func() {
			h.ctrl.Tick()
			So(h.remote.pushes, ShouldHaveLength, 1)
			So(h.remote.pushes[0].tag, ShouldEqual, remote.TagPlaying)

			h.backend.state = player.StatePaused
			h.ctrl.Tick()
			So(h.remote.pushes[1].tag, ShouldEqual, remote.TagPaused)
		})

		Convey("Leaving the session pushes a final stopped state", func() {
			h.ctrl.StopForNavigation()
			last := h.remote.pushes[len(h.remote.pushes)-1]
			So(last.tag, ShouldEqual, remote.TagStopped)
		})
	})

	Convey("Given a session without a remote queue", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1440 * time.Second
		h.ctrl.Load("ep-1", "Episode 1")

		Convey("Nothing is mirrored", func() {
			h.ctrl.Tick()
			So(h.remote.pushes, ShouldBeEmpty)
		})
	})
}

func TestSkipWindows(t *testing.T) {
	Convey("Given a loaded item with an intro marker from 10s to 25s", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1440 * time.Second
		h.markers.set = markers.Set{
			Intro: &markers.Marker{Start: 10 * time.Second, End: 25 * time.Second, Kind: markers.KindIntro},
		}
		h.ctrl.Load("ep-1", "Episode 1")

		Convey("The affordance shows only inside the half-open window", func() {
			h.backend.pos = 9 * time.Second
			h.ctrl.Tick()
			So(h.ctrl.SkipIntroVisible(), ShouldBeFalse)

			h.backend.pos = 10 * time.Second
			h.ctrl.Tick()
			So(h.ctrl.SkipIntroVisible(), ShouldBeTrue)

			h.backend.pos = 25 * time.Second
			h.ctrl.Tick()
			So(h.ctrl.SkipIntroVisible(), ShouldBeFalse)
		})

		Convey("Skipping seeks to the marker end and dismisses the window", func() {
			h.backend.pos = 12 * time.Second
			h.ctrl.Tick()
			h.ctrl.SkipIntro()

			So(h.backend.seeks, ShouldContain, 25*time.Second)

			h.backend.pos = 15 * time.Second
			h.ctrl.Tick()
			So(h.ctrl.SkipIntroVisible(), ShouldBeFalse)
		})

		Convey("Auto-skip seeks without user interaction when enabled", func() {
			s := testSettings()
			s.AutoSkipIntro = true
			h.ctrl.OnConfigChanged(s)

			h.backend.pos = 12 * time.Second
			h.ctrl.Tick()
			So(h.backend.seeks, ShouldContain, 25*time.Second)
		})
	})
}

func TestAutoPlay(t *testing.T) {
	episodes := []playlist.EpisodeRef{
		{ID: "ep-1", Title: "Episode 1"},
		{ID: "ep-2", Title: "Episode 2"},
	}

	Convey("Given a traversal with a following episode", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1000 * time.Second
		ctx := playlist.Series("Show", episodes, 0, true)
		h.ctrl.LoadWithContext("ep-1", "Episode 1", ctx)

		Convey("Crossing 95% arms a single next-episode load after 3s", func() {
			h.backend.pos = 960 * time.Second
			h.ctrl.Tick()
			h.ctrl.Tick()

			So(h.backend.loads, ShouldHaveLength, 1)
			h.sched.Advance(3 * time.Second)
			So(h.backend.loads, ShouldHaveLength, 2)
			So(h.ctrl.Title(), ShouldEqual, "Episode 2")

			Convey("The trigger rearms only for the new item", func() {
				h.sched.Advance(time.Minute)
				So(h.backend.loads, ShouldHaveLength, 2)
			})
		})

		Convey("Below the threshold nothing is armed", func() {
			h.backend.pos = 940 * time.Second
			h.ctrl.Tick()
			h.sched.Advance(time.Minute)
			So(h.backend.loads, ShouldHaveLength, 1)
		})

		Convey("A manual advance cancels the armed continuation", func() {
			h.backend.pos = 960 * time.Second
			h.ctrl.Tick()
			h.ctrl.Next()

			So(h.backend.loads, ShouldHaveLength, 2)
			h.sched.Advance(time.Minute)
			So(h.backend.loads, ShouldHaveLength, 2)
		})

		Convey("A stale continuation from a previous load is ignored", func() {
			h.backend.pos = 960 * time.Second
			h.ctrl.Tick()
			gen := h.ctrl.generation
			h.ctrl.Next()

			h.ctrl.advance(gen)
			So(h.backend.loads, ShouldHaveLength, 2)
		})
	})

	Convey("Given the final episode of a traversal", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1000 * time.Second
		ctx := playlist.Series("Show", episodes, 1, true)
		h.ctrl.LoadWithContext("ep-2", "Episode 2", ctx)
		drainEvents(h.ctrl)

		Convey("Crossing 95% schedules navigate-away and announces the end", func() {
			h.backend.pos = 960 * time.Second
			h.ctrl.Tick()

			events := drainEvents(h.ctrl)
			So(events, ShouldContain, Event(EndOfSeries{Title: "Show"}))

			h.sched.Advance(5 * time.Second)
			So(drainEvents(h.ctrl), ShouldContain, Event(NavigateBack{}))
			So(h.backend.loads, ShouldHaveLength, 1)
		})
	})

	Convey("Given a traversal with auto-play disabled", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1000 * time.Second
		ctx := playlist.Series("Show", episodes, 0, false)
		h.ctrl.LoadWithContext("ep-1", "Episode 1", ctx)

		Convey("Crossing 95% arms nothing", func() {
			h.backend.pos = 960 * time.Second
			h.ctrl.Tick()
			h.sched.Advance(time.Minute)
			So(h.backend.loads, ShouldHaveLength, 1)
		})
	})
}

func TestNavigation(t *testing.T) {
	episodes := []playlist.EpisodeRef{
		{ID: "ep-1", Title: "Episode 1"},
		{ID: "ep-2", Title: "Episode 2"},
	}

	Convey("Given a traversal positioned on the first episode", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1000 * time.Second
		h.ctrl.LoadWithContext("ep-1", "Episode 1", playlist.Series("Show", episodes, 0, true))

		Convey("Previous without a preceding episode is a no-op", func() {
			h.ctrl.Previous()
			So(h.backend.loads, ShouldHaveLength, 1)
			So(h.ctrl.Title(), ShouldEqual, "Episode 1")
		})

		Convey("Next loads the following episode", func() {
			h.ctrl.Next()
			So(h.backend.loads, ShouldHaveLength, 2)
			So(h.ctrl.Title(), ShouldEqual, "Episode 2")

			Convey("And Next past the end is a no-op", func() {
				h.ctrl.Next()
				So(h.backend.loads, ShouldHaveLength, 2)
			})
		})
	})
}

func TestStopForNavigation(t *testing.T) {
	Convey("Given a session near the end of an item", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1000 * time.Second
		h.ctrl.Load("ep-1", "Episode 1")
		h.backend.pos = 950 * time.Second

		Convey("Leaving persists the final position with the watched flag", func() {
			h.ctrl.StopForNavigation()

			rec := h.store.recs["ep-1"]
			So(rec.Position(), ShouldEqual, 950*time.Second)
			So(rec.Watched, ShouldBeTrue)
			So(h.backend.state, ShouldEqual, player.StateStopped)
		})
	})

	Convey("Given a session early in an item", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1000 * time.Second
		h.ctrl.Load("ep-1", "Episode 1")
		h.backend.pos = 100 * time.Second

		Convey("Leaving persists the position unwatched", func() {
			h.ctrl.StopForNavigation()

			rec := h.store.recs["ep-1"]
			So(rec.Position(), ShouldEqual, 100*time.Second)
			So(rec.Watched, ShouldBeFalse)
		})
	})
}

func TestWindowSizeAnnouncement(t *testing.T) {
	Convey("Given an engine that learns its dimensions after load", t, func() {
		h := newHarness(testSettings())
		h.backend.dur = 1000 * time.Second
		h.ctrl.Load("ep-1", "Episode 1")
		drainEvents(h.ctrl)

		Convey("Nothing is announced while dimensions are unknown", func() {
			h.ctrl.Tick()
			So(drainEvents(h.ctrl), ShouldNotContain, Event(WindowResize{Width: 1920, Height: 1080}))
		})

		Convey("The native size is announced exactly once", func() {
			h.backend.w, h.backend.h = 1920, 1080
			h.ctrl.Tick()
			So(drainEvents(h.ctrl), ShouldContain, Event(WindowResize{Width: 1920, Height: 1080}))

			h.ctrl.Tick()
			So(drainEvents(h.ctrl), ShouldNotContain, Event(WindowResize{Width: 1920, Height: 1080}))
		})
	})
}
