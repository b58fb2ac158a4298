package session

import (
	"errors"
	"sync"
	"time"

	"github.com/halcyon-player/halcyon/markers"
	"github.com/halcyon-player/halcyon/player"
	"github.com/halcyon-player/halcyon/progress"
	"github.com/halcyon-player/halcyon/remote"
	"github.com/samber/mo"
)

type fakeTimer struct {
	when      time.Time
	fn        func()
	cancelled bool
}

func (t *fakeTimer) Cancel() {
	t.cancelled = true
}

// fakeScheduler is a deterministic scheduler advanced manually by tests.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Unix(1_700_000_000, 0)}
}

func (s *fakeScheduler) ScheduleOnce(d time.Duration, fn func()) TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{when: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward, firing due timers in order.
// Callbacks run without the scheduler lock held so they may reschedule.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due *fakeTimer
		idx := -1
		for i, t := range s.timers {
			if t.cancelled || t.when.After(target) {
				continue
			}
			if due == nil || t.when.Before(due.when) {
				due, idx = t, i
			}
		}
		if due == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.timers = append(s.timers[:idx], s.timers[idx+1:]...)
		s.now = due.when
		s.mu.Unlock()

		due.fn()
	}
}

func (s *fakeScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// fakeBackend is a scripted playback engine.
type fakeBackend struct {
	loads    []string
	loadErr  error
	pos, dur time.Duration
	state    player.State
	seeks    []time.Duration
	volume   float64
	speed    float64
	w, h     int
	closed   bool
	waitCh   chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{state: player.StatePlaying, waitCh: make(chan struct{})}
}

func (b *fakeBackend) Load(url, title string, headers map[string]string) error {
	if b.loadErr != nil {
		return b.loadErr
	}
	b.loads = append(b.loads, url)
	b.pos = 0
	return nil
}

func (b *fakeBackend) Play() error  { b.state = player.StatePlaying; return nil }
func (b *fakeBackend) Pause() error { b.state = player.StatePaused; return nil }
func (b *fakeBackend) Stop() error  { b.state = player.StateStopped; return nil }

func (b *fakeBackend) Seek(pos time.Duration) error {
	b.seeks = append(b.seeks, pos)
	b.pos = pos
	return nil
}

func (b *fakeBackend) SetVolume(v float64) error { b.volume = v; return nil }
func (b *fakeBackend) SetSpeed(s float64) error  { b.speed = s; return nil }

func (b *fakeBackend) Position() (time.Duration, error) { return b.pos, nil }
func (b *fakeBackend) Duration() (time.Duration, error) { return b.dur, nil }
func (b *fakeBackend) State() (player.State, error)     { return b.state, nil }

func (b *fakeBackend) Dimensions() (int, int, error) {
	if b.w == 0 {
		return 0, 0, errors.New("dimensions unavailable")
	}
	return b.w, b.h, nil
}

func (b *fakeBackend) Tracks(kind player.TrackKind) ([]player.Track, error) { return nil, nil }
func (b *fakeBackend) SelectTrack(kind player.TrackKind, id int) error      { return nil }
func (b *fakeBackend) FrameStep() error                                     { return nil }
func (b *fakeBackend) IsRunning() bool                                      { return !b.closed }
func (b *fakeBackend) Close() error                                         { b.closed = true; return nil }
func (b *fakeBackend) Wait() <-chan struct{}                                { return b.waitCh }

// fakeResolver fails a configured number of times before resolving.
type fakeResolver struct {
	failures int
	calls    int
}

func (r *fakeResolver) Resolve(id MediaID) (Stream, error) {
	r.calls++
	if r.calls <= r.failures {
		return Stream{}, errors.New("stream unavailable")
	}
	return Stream{URL: "https://media.test/" + string(id)}, nil
}

// memStore is an in-memory progress store.
type memStore struct {
	recs  map[string]progress.Record
	saves int
}

func newMemStore() *memStore {
	return &memStore{recs: map[string]progress.Record{}}
}

func (s *memStore) Load(mediaID string) (mo.Option[progress.Record], error) {
	rec, ok := s.recs[mediaID]
	if !ok {
		return mo.None[progress.Record](), nil
	}
	return mo.Some(rec), nil
}

func (s *memStore) Save(mediaID string, pos, dur time.Duration, watched bool) error {
	s.recs[mediaID] = progress.NewRecord(pos, dur, watched)
	s.saves++
	return nil
}

type fakeMarkerSource struct {
	set markers.Set
}

func (f *fakeMarkerSource) Fetch(mediaID string) (markers.Set, error) {
	return f.set, nil
}

type remotePush struct {
	mediaID string
	tag     remote.StateTag
}

type fakeRemote struct {
	pushes []remotePush
}

func (f *fakeRemote) Push(queueID, mediaID string, pos, dur time.Duration, tag remote.StateTag) error {
	f.pushes = append(f.pushes, remotePush{mediaID: mediaID, tag: tag})
	return nil
}

func testSettings() Settings {
	return Settings{
		AutoResume:        true,
		ResumeThreshold:   5 * time.Second,
		WatchedRatio:      0.9,
		CompletionRatio:   0.95,
		SaveInterval:      10 * time.Second,
		MaxLoadAttempts:   3,
		Volume:            100,
		Speed:             1.0,
		FetchMarkers:      true,
		MinSkipWindow:     3 * time.Second,
		AutoPlayNextDelay: 3 * time.Second,
		AutoPlayExitDelay: 5 * time.Second,
		ControlsHideDelay: 4 * time.Second,
		MinPointerDelta:   2.0,
		RemoteEnabled:     true,
	}
}

func drainEvents(c *Controller) []Event {
	var out []Event
	for {
		select {
		case e := <-c.Events():
			out = append(out, e)
		default:
			return out
		}
	}
}
