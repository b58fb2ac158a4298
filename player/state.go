package player

// State enumerates the transport states a playback session can be in.
// Transitions are driven only by engine query results or explicit session
// actions, never inferred.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Active reports whether the state represents media loaded into the engine.
func (s State) Active() bool {
	return s == StatePlaying || s == StatePaused
}
