// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/halcyon-player/halcyon/playlist"
	"github.com/halcyon-player/halcyon/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Controller *session.Controller
	Context    *playlist.Context

	// ShowPicker starts on the episode picker instead of loading the
	// traversal's current episode immediately.
	ShowPicker bool
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)

	if options.ShowPicker && options.Context.Len() > 1 {
		bubble.newState(pickerState)
	} else {
		bubble.newState(playbackState)
	}

	_, err := tea.NewProgram(
		bubble,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	).Run()
	return err
}
