// Package playlist models the ordered traversal context a playback session navigates.
package playlist

// EpisodeRef identifies one entry of a series traversal.
// The context addresses episodes by arena index; refs never point back at
// the series that owns them.
type EpisodeRef struct {
	ID    string
	Title string
}

// Context is the traversal a session owns for the lifetime of one playlist:
// either a single free-standing item or an ordered series with a cursor.
// It is replaced wholesale on navigation, never mutated from outside.
type Context struct {
	title    string
	episodes []EpisodeRef
	current  int
	autoPlay bool
	series   bool

	// remoteQueueID correlates this traversal with a remote play-queue session.
	remoteQueueID string
}

// Single creates a context with no navigation: one item, no auto-play.
func Single(id, title string) *Context {
	return &Context{
		title:    title,
		episodes: []EpisodeRef{{ID: id, Title: title}},
	}
}

// Series creates an ordered traversal positioned at the given index.
// An out-of-range index clamps to the nearest valid episode.
func Series(title string, episodes []EpisodeRef, current int, autoPlay bool) *Context {
	if current < 0 {
		current = 0
	}
	if current >= len(episodes) {
		current = len(episodes) - 1
	}
	return &Context{
		title:    title,
		episodes: episodes,
		current:  current,
		autoPlay: autoPlay,
		series:   true,
	}
}

// WithRemoteQueue tags the context with a remote play-queue correlation id.
func (c *Context) WithRemoteQueue(queueID string) *Context {
	c.remoteQueueID = queueID
	return c
}

// RemoteQueueID returns the remote play-queue correlation id, if any.
func (c *Context) RemoteQueueID() string {
	if c == nil {
		return ""
	}
	return c.remoteQueueID
}

// Title returns the display title of the traversal.
func (c *Context) Title() string {
	if c == nil {
		return ""
	}
	return c.title
}

// Current returns the episode the cursor points at.
func (c *Context) Current() (EpisodeRef, bool) {
	if c == nil || len(c.episodes) == 0 {
		return EpisodeRef{}, false
	}
	return c.episodes[c.current], true
}

// HasPrevious reports whether a previous episode exists.
func (c *Context) HasPrevious() bool {
	return c != nil && c.series && c.current > 0
}

// HasNext reports whether a next episode exists.
func (c *Context) HasNext() bool {
	return c != nil && c.series && c.current < len(c.episodes)-1
}

// Previous returns the episode before the cursor without moving it.
func (c *Context) Previous() (EpisodeRef, bool) {
	if !c.HasPrevious() {
		return EpisodeRef{}, false
	}
	return c.episodes[c.current-1], true
}

// Next returns the episode after the cursor without moving it.
func (c *Context) Next() (EpisodeRef, bool) {
	if !c.HasNext() {
		return EpisodeRef{}, false
	}
	return c.episodes[c.current+1], true
}

// AutoPlay reports whether the traversal advances automatically.
func (c *Context) AutoPlay() bool {
	return c != nil && c.autoPlay
}

// UpdateCurrent moves the cursor to the episode with the given id.
// Returns false when the id is not part of this traversal.
func (c *Context) UpdateCurrent(id string) bool {
	if c == nil {
		return false
	}
	for i, ep := range c.episodes {
		if ep.ID == id {
			c.current = i
			return true
		}
	}
	return false
}

// Len returns the number of episodes in the traversal.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.episodes)
}

// Episodes returns the episode arena for display purposes.
func (c *Context) Episodes() []EpisodeRef {
	if c == nil {
		return nil
	}
	return c.episodes
}
