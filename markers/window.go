package markers

import (
	"time"

	"github.com/halcyon-player/halcyon/log"
)

// window tracks the runtime state of one marker's skip affordance.
type window struct {
	marker    *Marker
	visible   bool
	dismissed bool
}

// AutoSkipOptions configures automatic skipping per marker kind.
type AutoSkipOptions struct {
	Intro   bool
	Credits bool
	// MinWindow is the minimum marker length eligible for an automatic skip.
	MinWindow time.Duration
}

// SkipDecision instructs the session to seek past a marker window.
type SkipDecision struct {
	Kind   Kind
	SeekTo time.Duration
}

// Manager owns the intro/credits skip windows of the current media item.
// It is driven by the session's tick with the freshly queried position.
type Manager struct {
	intro   window
	credits window
	opts    AutoSkipOptions
}

// NewManager creates a skip-window manager with the given auto-skip policy.
func NewManager(opts AutoSkipOptions) *Manager {
	return &Manager{opts: opts}
}

// SetOptions replaces the auto-skip policy, taking effect on the next update.
func (m *Manager) SetOptions(opts AutoSkipOptions) {
	m.opts = opts
}

// SetMarkers installs the markers of a freshly loaded item, resetting both windows.
func (m *Manager) SetMarkers(set Set) {
	m.Clear()
	m.intro.marker = set.Intro
	m.credits.marker = set.Credits
}

// Clear resets both windows. Idempotent: clearing twice leaves identical state.
func (m *Manager) Clear() {
	m.intro = window{}
	m.credits = window{}
}

// Update recomputes window visibility for the given position and returns an
// auto-skip decision when the policy calls for one.
//
// A window is visible iff the position lies in [start, end) of its marker and
// the user has not dismissed it for this playback.
func (m *Manager) Update(pos time.Duration) (SkipDecision, bool) {
	if decision, ok := m.updateWindow(&m.intro, KindIntro, pos, m.opts.Intro); ok {
		return decision, true
	}
	return m.updateWindow(&m.credits, KindCredits, pos, m.opts.Credits)
}

func (m *Manager) updateWindow(w *window, kind Kind, pos time.Duration, auto bool) (SkipDecision, bool) {
	w.visible = WindowVisible(pos, w.marker, w.dismissed)
	if !w.visible {
		return SkipDecision{}, false
	}

	if auto && w.marker.Window() >= m.opts.MinWindow {
		log.Infof("auto-skipping %s window: %v -> %v", kind, pos, w.marker.End)
		w.dismissed = true
		w.visible = false
		return SkipDecision{Kind: kind, SeekTo: w.marker.End}, true
	}

	return SkipDecision{}, false
}

// Skip dismisses the window of the given kind and returns the seek target.
// The dismissal holds for the remainder of the playback, even after a
// backward seek re-enters the window.
func (m *Manager) Skip(kind Kind) (SkipDecision, bool) {
	w := m.windowOf(kind)
	if w == nil || w.marker == nil || w.dismissed {
		return SkipDecision{}, false
	}

	w.dismissed = true
	w.visible = false
	return SkipDecision{Kind: kind, SeekTo: w.marker.End}, true
}

// Visible reports whether the skip affordance of the given kind should be shown.
func (m *Manager) Visible(kind Kind) bool {
	w := m.windowOf(kind)
	return w != nil && w.visible
}

func (m *Manager) windowOf(kind Kind) *window {
	switch kind {
	case KindIntro:
		return &m.intro
	case KindCredits:
		return &m.credits
	default:
		return nil
	}
}

// WindowVisible is the pure visibility predicate for a skip window.
func WindowVisible(pos time.Duration, marker *Marker, dismissed bool) bool {
	return marker != nil && !dismissed && marker.Contains(pos)
}
