package player

// TrackKind discriminates the selectable track families of a media file.
type TrackKind string

const (
	TrackAudio    TrackKind = "audio"
	TrackSubtitle TrackKind = "sub"
	TrackVideo    TrackKind = "video"
)

// Track describes a single selectable stream within the active media file.
type Track struct {
	ID       int
	Kind     TrackKind
	Title    string
	Language string
	Selected bool
}
