// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/halcyon-player/halcyon/color"
	"github.com/halcyon-player/halcyon/style"
	"github.com/charmbracelet/bubbles/key"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm,
	back,
	up, down,
	playPause,
	seekBack, seekForward,
	nextEp, prevEp,
	skipIntro, skipCredits,
	frameStep,
	volumeUp, volumeDown,
	toggleControls,
	retry,
	showHelp key.Binding
}

// setState updates the active keymap configuration to match the specified application state.
func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("play")),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek -5s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek +5s"),
		),
		nextEp: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next episode"),
		),
		prevEp: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous episode"),
		),
		skipIntro: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip intro"),
		),
		skipCredits: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "skip credits"),
		),
		frameStep: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "frame step"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		toggleControls: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle controls"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap for the active state.
func (k *statefulKeymap) ShortHelp() []key.Binding {
	switch k.state {
	case pickerState:
		return []key.Binding{k.up, k.down, k.confirm, k.quit}
	case playbackState:
		return []key.Binding{k.playPause, k.seekBack, k.seekForward, k.nextEp, k.skipIntro, k.back}
	case errorState:
		return []key.Binding{k.retry, k.back, k.quit}
	default:
		return []key.Binding{k.forceQuit}
	}
}

// FullHelp implements help.KeyMap for the active state.
func (k *statefulKeymap) FullHelp() [][]key.Binding {
	switch k.state {
	case playbackState:
		return [][]key.Binding{
			{k.playPause, k.seekBack, k.seekForward, k.frameStep},
			{k.nextEp, k.prevEp, k.skipIntro, k.skipCredits},
			{k.volumeUp, k.volumeDown, k.toggleControls, k.back},
		}
	default:
		return [][]key.Binding{k.ShortHelp()}
	}
}
