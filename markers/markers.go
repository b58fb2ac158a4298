// Package markers provides chapter-marker retrieval and skip-window tracking for intro and credits sequences.
package markers

import "time"

// Kind discriminates the marker families a media item can carry.
type Kind string

const (
	KindIntro   Kind = "intro"
	KindCredits Kind = "credits"
)

// Marker represents a continuous temporal range of skippable content.
// Immutable once loaded.
type Marker struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Kind  Kind          `json:"kind"`
}

// Contains reports whether the position falls inside the half-open window [Start, End).
func (m Marker) Contains(pos time.Duration) bool {
	return pos >= m.Start && pos < m.End
}

// Window returns the temporal length of the marker.
func (m Marker) Window() time.Duration {
	return m.End - m.Start
}

// Set bundles the optional intro and credits markers of a single media item.
type Set struct {
	Intro   *Marker `json:"intro,omitempty"`
	Credits *Marker `json:"credits,omitempty"`
}

// Empty reports whether the set carries no markers at all.
func (s Set) Empty() bool {
	return s.Intro == nil && s.Credits == nil
}

// Of returns the marker of the requested kind, or nil.
func (s Set) Of(kind Kind) *Marker {
	switch kind {
	case KindIntro:
		return s.Intro
	case KindCredits:
		return s.Credits
	default:
		return nil
	}
}
