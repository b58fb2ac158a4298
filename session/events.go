package session

// Event is a notification the session surfaces to its host UI.
type Event interface {
	isEvent()
}

// MediaLoaded reports that a load sequence completed and playback started.
type MediaLoaded struct {
	MediaID MediaID
	Title   string
}

// NavigateBack asks the host to leave the playback surface.
type NavigateBack struct{}

// PlaybackError reports a load or transport failure.
// Terminal errors have exhausted their retries; the host should offer
// "Retry" and "Go Back".
type PlaybackError struct {
	Message  string
	Terminal bool
}

// WindowResize asks the host to adopt the native dimensions of the video.
type WindowResize struct {
	Width  int
	Height int
}

// EndOfSeries notifies that the last episode of a traversal is finishing.
type EndOfSeries struct {
	Title string
}

func (MediaLoaded) isEvent()   {}
func (NavigateBack) isEvent()  {}
func (PlaybackError) isEvent() {}
func (WindowResize) isEvent()  {}
func (EndOfSeries) isEvent()   {}
