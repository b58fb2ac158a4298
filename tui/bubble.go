// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	"github.com/halcyon-player/halcyon/internal/ui"
	"github.com/halcyon-player/halcyon/playlist"
	"github.com/halcyon-player/halcyon/session"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// statefulBubble encapsulates the terminal host state around the playback session.
type statefulBubble struct {
	state state

	ctrl *session.Controller
	ctx  *playlist.Context

	keymap *statefulKeymap

	// components
	filterC   textinput.Model
	progressC progress.Model
	helpC     help.Model

	// picker
	entries  []playlist.EpisodeRef
	filtered []playlist.EpisodeRef
	cursor   int

	// playback snapshot refreshed each tick
	position time.Duration
	duration time.Duration

	volume    float64
	lastError string

	notifier *ui.Model

	width, height int
}

func newBubble(options *Options) *statefulBubble {
	filter := textinput.New()
	filter.Placeholder = "Filter episodes..."
	filter.Prompt = "/ "

	b := &statefulBubble{
		ctrl:      options.Controller,
		ctx:       options.Context,
		keymap:    newStatefulKeymap(),
		filterC:   filter,
		progressC: progress.New(progress.WithDefaultGradient()),
		helpC:     help.New(),
		notifier:  &ui.Model{},
		entries:   options.Context.Episodes(),
	}
	b.filtered = b.entries
	return b
}

// newState transitions the host into a different surface.
func (b *statefulBubble) newState(s state) {
	b.state = s
	b.keymap.setState(s)

	if s == pickerState {
		b.filterC.Focus()
	} else {
		b.filterC.Blur()
	}
}

// tickMsg drives the once-per-second session heartbeat.
type tickMsg time.Time

// sessionEventMsg wraps a notification from the session core.
type sessionEventMsg struct {
	event session.Event
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b *statefulBubble) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-b.ctrl.Events()
		if !ok {
			return nil
		}
		return sessionEventMsg{event: e}
	}
}
