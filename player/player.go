// Package player defines a unified abstraction layer for media playback engines.
// The architecture supports multiple backends, with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package player

import "time"

// Backend encapsulates the required capabilities for a media playback engine.
// Every call is independently fallible: the engine runs out of process and
// answers queries on demand, it never pushes state changes.
type Backend interface {
	// Load starts playback of the given URL with the specified title.
	// If an engine instance is already running, it loads the new file into it.
	Load(url string, title string, headers map[string]string) error

	// Play resumes playback of the loaded media.
	Play() error

	// Pause suspends playback of the loaded media.
	Pause() error

	// Stop halts playback and unloads the current media.
	Stop() error

	// Seek transitions the playback position to a specific absolute timestamp.
	Seek(pos time.Duration) error

	// SetVolume adjusts the playback volume (0-100).
	SetVolume(volume float64) error

	// SetSpeed adjusts the playback speed multiplier.
	SetSpeed(speed float64) error

	// Position retrieves the current absolute playback position.
	Position() (time.Duration, error)

	// Duration retrieves the total temporal length of the active media file.
	Duration() (time.Duration, error)

	// State retrieves the current transport state of the playback engine.
	State() (State, error)

	// Dimensions retrieves the native video dimensions of the active media, once known.
	Dimensions() (width, height int, err error)

	// Tracks lists the available tracks of the given kind for the active media.
	Tracks(kind TrackKind) ([]Track, error)

	// SelectTrack activates a specific track of the given kind.
	SelectTrack(kind TrackKind, id int) error

	// FrameStep advances playback by exactly one video frame and pauses.
	FrameStep() error

	// IsRunning validates the liveness of the underlying playback process or handler.
	IsRunning() bool

	// Close terminates the playback engine and releases all associated system resources.
	Close() error

	// Wait returns a channel that is closed when the engine process terminates.
	Wait() <-chan struct{}
}
