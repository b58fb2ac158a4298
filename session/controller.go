package session

import (
	"sync"
	"time"

	"github.com/halcyon-player/halcyon/log"
	"github.com/halcyon-player/halcyon/markers"
	"github.com/halcyon-player/halcyon/player"
	"github.com/halcyon-player/halcyon/playlist"
	"github.com/halcyon-player/halcyon/progress"
	"github.com/halcyon-player/halcyon/remote"
	"github.com/samber/mo"
)

// MediaID identifies one playable item across the progress store,
// the marker source and the remote queue.
type MediaID string

// Stream is a resolved playable target.
type Stream struct {
	URL     string
	Headers map[string]string
}

// StreamResolver maps a media id to a playable stream.
// Resolution happens per load attempt so expired URLs refresh on retry.
type StreamResolver interface {
	Resolve(id MediaID) (Stream, error)
}

// ProgressStore persists per-item playback positions.
type ProgressStore interface {
	Load(mediaID string) (mo.Option[progress.Record], error)
	Save(mediaID string, pos, dur time.Duration, watched bool) error
}

// MarkerSource fetches intro/credits markers for a media item.
type MarkerSource interface {
	Fetch(mediaID string) (markers.Set, error)
}

// RemoteSync mirrors playback state to a shared remote queue.
type RemoteSync interface {
	Push(queueID, mediaID string, pos, dur time.Duration, tag remote.StateTag) error
}

// Options collects the collaborators a Controller is constructed with.
// Markers and Remote are optional; a nil value disables the concern.
type Options struct {
	Backend  player.Backend
	Resolver StreamResolver
	Store    ProgressStore
	Markers  MarkerSource
	Remote   RemoteSync
	Sched    Scheduler
	Settings Settings
}

// Controller is the playback session core. All mutation funnels through a
// single mutex, so host events, the periodic tick and expiring timers are
// observed as one serialized stream; scheduled callbacks re-enter through
// the same lock. Backend state is never assumed: after every transport
// action and on every tick it is re-queried from the engine.
type Controller struct {
	mu sync.Mutex

	backend  player.Backend
	resolver StreamResolver
	store    ProgressStore
	markerSrc MarkerSource
	remoteSync RemoteSync
	sched    Scheduler
	settings Settings

	events chan Event

	// generation stamps every load; timer continuations capture the value
	// current at scheduling time and no-op when it has moved on.
	generation uint64

	ctx     *playlist.Context
	mediaID MediaID
	title   string

	state    player.State
	position time.Duration
	duration time.Duration

	retry    retrySupervisor
	autoPlay autoPlayScheduler
	skip     *markers.Manager
	controls *controlsMachine

	lastPersist    time.Time
	persistedState player.State
	sizeAnnounced  bool
}

// New assembles a Controller from its collaborators. The control surface
// starts visible with its hide timer already running.
func New(opts Options) *Controller {
	c := &Controller{
		backend:    opts.Backend,
		resolver:   opts.Resolver,
		store:      opts.Store,
		markerSrc:  opts.Markers,
		remoteSync: opts.Remote,
		sched:      opts.Sched,
		settings:   opts.Settings,
		events:     make(chan Event, 16),
		state:      player.StateIdle,
	}
	c.retry = retrySupervisor{sched: c.sched, maxAttempts: opts.Settings.MaxLoadAttempts}
	c.autoPlay = autoPlayScheduler{
		sched:     c.sched,
		threshold: opts.Settings.CompletionRatio,
		nextDelay: opts.Settings.AutoPlayNextDelay,
		exitDelay: opts.Settings.AutoPlayExitDelay,
	}
	c.skip = markers.NewManager(markers.AutoSkipOptions{
		Intro:     opts.Settings.AutoSkipIntro,
		Credits:   opts.Settings.AutoSkipCredits,
		MinWindow: opts.Settings.MinSkipWindow,
	})
	c.controls = newControlsMachine(c.sched, opts.Settings.ControlsHideDelay, opts.Settings.MinPointerDelta, func(seq uint64) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.controls.timerFired(seq)
	})
	return c
}

// Events returns the stream of notifications for the host UI.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Load starts playback of a standalone item with no traversal context.
func (c *Controller) Load(id MediaID, title string) {
	c.LoadWithContext(id, title, playlist.Single(string(id), title))
}

// LoadWithContext starts playback of an item inside a traversal.
func (c *Controller) LoadWithContext(id MediaID, title string, ctx *playlist.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ctx = ctx
	c.loadLocked(id, title)
}

// loadLocked begins a fresh load sequence: it invalidates every timer
// continuation from the previous item and issues the first attempt.
func (c *Controller) loadLocked(id MediaID, title string) {
	c.generation++
	c.retry.Reset()
	c.autoPlay.Reset()
	c.skip.Clear()
	c.sizeAnnounced = false

	c.mediaID = id
	c.title = title
	c.state = player.StateLoading
	c.position = 0
	c.duration = 0

	c.attemptLocked(c.generation)
}

// attemptLocked performs one load attempt: resolve, hand off to the
// engine, apply resume policy and fetch skip markers.
func (c *Controller) attemptLocked(gen uint64) {
	stream, err := c.resolver.Resolve(c.mediaID)
	if err != nil {
		c.loadFailedLocked(gen, err)
		return
	}

	if err := c.backend.Load(stream.URL, c.title, stream.Headers); err != nil {
		c.loadFailedLocked(gen, err)
		return
	}

	c.applyResumeLocked()
	c.applyDefaultsLocked()
	c.fetchMarkersLocked()

	c.retry.Reset()
	c.state = player.StatePlaying
	c.refreshStateLocked()
	c.lastPersist = c.sched.Now()
	c.persistedState = c.state

	c.emit(MediaLoaded{MediaID: c.mediaID, Title: c.title})
	log.Infof("loaded %q (%s)", c.title, c.mediaID)
}

// applyResumeLocked issues at most one resume seek per load sequence.
func (c *Controller) applyResumeLocked() {
	if c.store == nil {
		return
	}
	rec, err := c.store.Load(string(c.mediaID))
	if err != nil {
		log.Warnf("progress load failed: %v", err)
		return
	}
	saved, ok := rec.Get()
	if !ok {
		return
	}

	policy := progress.ResumePolicy{
		AutoResume:        c.settings.AutoResume,
		Threshold:         c.settings.ResumeThreshold,
		CompletionCeiling: c.settings.CompletionRatio,
	}
	if !policy.ShouldResume(saved) {
		return
	}
	if err := c.backend.Seek(saved.Position()); err != nil {
		log.Warnf("resume seek failed: %v", err)
		return
	}
	c.position = saved.Position()
}

func (c *Controller) applyDefaultsLocked() {
	if err := c.backend.SetVolume(c.settings.Volume); err != nil {
		log.Warnf("set volume failed: %v", err)
	}
	if err := c.backend.SetSpeed(c.settings.Speed); err != nil {
		log.Warnf("set speed failed: %v", err)
	}
}

// fetchMarkersLocked loads intro/credits markers. Failures degrade to a
// session without skip windows.
func (c *Controller) fetchMarkersLocked() {
	if c.markerSrc == nil || !c.settings.FetchMarkers {
		return
	}
	set, err := c.markerSrc.Fetch(string(c.mediaID))
	if err != nil {
		log.Warnf("marker fetch failed: %v", err)
		return
	}
	c.skip.SetMarkers(set)
}

// loadFailedLocked routes a failed attempt through the retry supervisor.
// Only the final failure surfaces to the user.
func (c *Controller) loadFailedLocked(gen uint64, cause error) {
	if gen != c.generation {
		return
	}

	delay, ok := c.retry.Schedule(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		c.attemptLocked(gen)
	})
	if !ok {
		c.state = player.StateError
		c.emit(PlaybackError{Message: cause.Error(), Terminal: true})
		log.Errorf("load failed permanently for %s: %v", c.mediaID, cause)
		return
	}

	log.Warnf("load failed for %s, retrying in %s: %v", c.mediaID, delay, cause)
}

// Retry re-issues the current load after a terminal failure.
func (c *Controller) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mediaID == "" {
		return
	}
	c.loadLocked(c.mediaID, c.title)
}

// Tick is the session heartbeat, expected roughly once per second. It
// re-queries the engine and drives persistence, skip windows, remote
// mirroring and the auto-play trigger off the fresh readings.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mediaID == "" || c.state == player.StateLoading || c.state == player.StateError {
		return
	}

	c.refreshStateLocked()
	forced := c.state != c.persistedState &&
		(c.state == player.StatePlaying || c.state == player.StatePaused || c.state == player.StateStopped)

	c.persistLocked(forced)
	c.pushRemoteLocked()
	c.announceSizeLocked()

	if decision, ok := c.skip.Update(c.position); ok {
		c.seekLocked(decision.SeekTo)
		log.Infof("auto-skipped %s window", decision.Kind)
	}

	gen := c.generation
	outcome := c.autoPlay.Check(c.position, c.duration, c.ctx,
		func() { c.advance(gen) },
		func() { c.exitSeries(gen) },
	)
	if outcome == autoPlayExit {
		c.emit(EndOfSeries{Title: c.ctx.Title()})
	}
}

// refreshStateLocked pulls position, duration and transport state from
// the engine. A failed query keeps the previous reading.
func (c *Controller) refreshStateLocked() {
	if pos, err := c.backend.Position(); err == nil {
		c.position = pos
	}
	if dur, err := c.backend.Duration(); err == nil && dur > 0 {
		c.duration = dur
	}
	if st, err := c.backend.State(); err == nil {
		c.state = st
	}
}

// persistLocked writes progress when the save interval elapsed, or
// immediately when the transport state changed since the last write.
// The change may come from the engine or from a local transport call,
// so the comparison is against the state the last write recorded, not
// against the previous tick.
func (c *Controller) persistLocked(forced bool) {
	if c.store == nil {
		return
	}

	policy := progress.PersistPolicy{
		WatchedRatio: c.settings.WatchedRatio,
		Interval:     c.settings.SaveInterval,
	}
	watched, due := policy.Evaluate(c.position, c.duration, c.sched.Now().Sub(c.lastPersist))
	if !due && !forced {
		return
	}
	if c.duration <= 0 {
		return
	}

	if err := c.store.Save(string(c.mediaID), c.position, c.duration, watched); err != nil {
		log.Warnf("progress save failed: %v", err)
		return
	}
	c.lastPersist = c.sched.Now()
	c.persistedState = c.state
}

// pushRemoteLocked mirrors the transport state to the shared queue.
// Failures are logged and queued for reconciliation by the remote layer.
func (c *Controller) pushRemoteLocked() {
	if c.remoteSync == nil || !c.settings.RemoteEnabled {
		return
	}
	queueID := c.ctx.RemoteQueueID()
	if queueID == "" {
		return
	}
	tag, ok := remote.TagFor(c.state)
	if !ok {
		return
	}
	if err := c.remoteSync.Push(queueID, string(c.mediaID), c.position, c.duration, tag); err != nil {
		log.Warnf("remote push failed: %v", err)
	}
}

// announceSizeLocked reports the native video dimensions once per load,
// as soon as the engine knows them.
func (c *Controller) announceSizeLocked() {
	if c.sizeAnnounced || !c.state.Active() {
		return
	}
	w, h, err := c.backend.Dimensions()
	if err != nil || w <= 0 || h <= 0 {
		return
	}
	c.sizeAnnounced = true
	c.emit(WindowResize{Width: w, Height: h})
}

// advance is the auto-play continuation loading the next episode.
func (c *Controller) advance(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	ep, ok := c.ctx.Next()
	if !ok {
		return
	}
	c.ctx.UpdateCurrent(ep.ID)
	c.loadLocked(MediaID(ep.ID), ep.Title)
}

// exitSeries is the auto-play continuation after the final episode.
func (c *Controller) exitSeries(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.emit(NavigateBack{})
}

// Play resumes playback.
func (c *Controller) Play() {
	c.transport(c.backend.Play, "play")
}

// Pause suspends playback.
func (c *Controller) Pause() {
	c.transport(c.backend.Pause, "pause")
}

// TogglePause flips between playing and paused.
func (c *Controller) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.state == player.StatePaused {
		err = c.backend.Play()
	} else {
		err = c.backend.Pause()
	}
	if err != nil {
		log.Warnf("toggle pause failed: %v", err)
	}
	c.refreshStateLocked()
}

// Stop halts playback without leaving the session.
func (c *Controller) Stop() {
	c.transport(c.backend.Stop, "stop")
}

// Seek jumps to an absolute position.
func (c *Controller) Seek(pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekLocked(pos)
}

func (c *Controller) seekLocked(pos time.Duration) {
	if err := c.backend.Seek(pos); err != nil {
		log.Warnf("seek failed: %v", err)
	}
	c.refreshStateLocked()
}

// SeekBy jumps relative to the current position, clamped at zero.
func (c *Controller) SeekBy(delta time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.position + delta
	if target < 0 {
		target = 0
	}
	c.seekLocked(target)
}

// SetVolume adjusts the engine volume.
func (c *Controller) SetVolume(volume float64) {
	c.transport(func() error { return c.backend.SetVolume(volume) }, "set volume")
}

// SetSpeed adjusts the playback speed.
func (c *Controller) SetSpeed(speed float64) {
	c.transport(func() error { return c.backend.SetSpeed(speed) }, "set speed")
}

// SelectTrack activates an audio, subtitle or video track.
func (c *Controller) SelectTrack(kind player.TrackKind, id int) {
	c.transport(func() error { return c.backend.SelectTrack(kind, id) }, "select track")
}

// FrameStep advances exactly one video frame and pauses.
func (c *Controller) FrameStep() {
	c.transport(c.backend.FrameStep, "frame step")
}

// Tracks lists the engine's tracks of the given kind.
func (c *Controller) Tracks(kind player.TrackKind) ([]player.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Tracks(kind)
}

func (c *Controller) transport(op func() error, what string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := op(); err != nil {
		log.Warnf("%s failed: %v", what, err)
	}
	c.refreshStateLocked()
}

// Next loads the following episode of the traversal. Without one the
// request degrades to a logged no-op.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()

	ep, ok := c.ctx.Next()
	if !ok {
		log.Info("next requested with no following episode")
		return
	}
	c.ctx.UpdateCurrent(ep.ID)
	c.loadLocked(MediaID(ep.ID), ep.Title)
}

// Previous loads the preceding episode of the traversal.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()

	ep, ok := c.ctx.Previous()
	if !ok {
		log.Info("previous requested with no preceding episode")
		return
	}
	c.ctx.UpdateCurrent(ep.ID)
	c.loadLocked(MediaID(ep.ID), ep.Title)
}

// SkipIntro honours a visible intro window and dismisses it.
func (c *Controller) SkipIntro() {
	c.skipWindow(markers.KindIntro)
}

// SkipCredits honours a visible credits window and dismisses it.
func (c *Controller) SkipCredits() {
	c.skipWindow(markers.KindCredits)
}

func (c *Controller) skipWindow(kind markers.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	decision, ok := c.skip.Skip(kind)
	if !ok {
		return
	}
	c.seekLocked(decision.SeekTo)
}

// SkipIntroVisible reports whether the intro skip affordance shows.
func (c *Controller) SkipIntroVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skip.Visible(markers.KindIntro)
}

// SkipCreditsVisible reports whether the credits skip affordance shows.
func (c *Controller) SkipCreditsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skip.Visible(markers.KindCredits)
}

// PointerEnter reports the pointer arriving over the playback surface.
func (c *Controller) PointerEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls.enter()
}

// PointerLeave reports the pointer leaving the playback surface.
func (c *Controller) PointerLeave(overlayOpen bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls.leave(overlayOpen)
}

// PointerMove reports pointer motion over the playback surface.
func (c *Controller) PointerMove(x, y float64, overControls bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls.move(x, y, overControls)
}

// ToggleControls flips the control surface visibility.
func (c *Controller) ToggleControls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls.toggle()
}

// ControlsVisible reports whether the control surface shows.
func (c *Controller) ControlsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls.visible()
}

// StopForNavigation performs a best-effort final progress write and a
// final remote push before the host leaves the playback surface.
func (c *Controller) StopForNavigation() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.retry.Reset()
	c.autoPlay.Reset()

	if c.state.Active() {
		c.refreshStateLocked()
	}

	if c.store != nil && c.mediaID != "" && c.duration > 0 {
		watched := float64(c.position)/float64(c.duration) > c.settings.WatchedRatio
		if err := c.store.Save(string(c.mediaID), c.position, c.duration, watched); err != nil {
			log.Warnf("final progress save failed: %v", err)
		}
	}

	c.state = player.StateStopped
	c.persistedState = c.state
	c.pushRemoteLocked()

	if err := c.backend.Stop(); err != nil {
		log.Warnf("stop failed: %v", err)
	}
}

// OnConfigChanged installs a fresh settings snapshot. Values take effect
// on the next relevant evaluation; running timers keep their old delays.
func (c *Controller) OnConfigChanged(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings = s
	c.retry.maxAttempts = s.MaxLoadAttempts
	c.autoPlay.threshold = s.CompletionRatio
	c.autoPlay.nextDelay = s.AutoPlayNextDelay
	c.autoPlay.exitDelay = s.AutoPlayExitDelay
	c.skip.SetOptions(markers.AutoSkipOptions{
		Intro:     s.AutoSkipIntro,
		Credits:   s.AutoSkipCredits,
		MinWindow: s.MinSkipWindow,
	})
	c.controls.setOptions(s.ControlsHideDelay, s.MinPointerDelta)
}

// State returns the last observed transport state.
func (c *Controller) State() player.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Position returns the last observed playback position.
func (c *Controller) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Duration returns the last observed media duration.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// Title returns the display title of the current item.
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// Context returns the active traversal context, possibly nil.
func (c *Controller) Context() *playlist.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

// Close invalidates every pending timer and shuts the engine down.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.retry.Reset()
	c.autoPlay.Reset()
	c.controls.invalidate()

	return c.backend.Close()
}

// emit delivers an event without ever blocking the session loop.
func (c *Controller) emit(e Event) {
	select {
	case c.events <- e:
	default:
		log.Warnf("event dropped: %T", e)
	}
}
