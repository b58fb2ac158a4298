// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	"github.com/halcyon-player/halcyon/internal/ui"
	"github.com/halcyon-player/halcyon/key"
	"github.com/halcyon-player/halcyon/session"
	"github.com/halcyon-player/halcyon/util"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

const controlsRegionHeight = 4

// Init initializes the terminal user interface and starts the session heartbeat.
func (b *statefulBubble) Init() tea.Cmd {
	b.volume = float64(viper.GetInt(key.PlaybackVolume))

	cmds := []tea.Cmd{textinput.Blink, tick(), b.waitForEvent()}

	if b.state == playbackState {
		if ep, ok := b.ctx.Current(); ok {
			b.ctrl.LoadWithContext(session.MediaID(ep.ID), ep.Title, b.ctx)
		}
	}

	return tea.Batch(cmds...)
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.progressC.Width = util.Min(msg.Width-8, 60)
		b.helpC.Width = msg.Width
		return b, nil

	case tickMsg:
		if b.state == playbackState {
			b.ctrl.Tick()
			b.position = b.ctrl.Position()
			b.duration = b.ctrl.Duration()
		}
		return b, tick()

	case sessionEventMsg:
		return b.handleSessionEvent(msg.event)

	case tea.FocusMsg:
		b.ctrl.PointerEnter()
		return b, nil

	case tea.BlurMsg:
		b.ctrl.PointerLeave(false)
		return b, nil

	case tea.MouseMsg:
		if b.state == playbackState && msg.Action == tea.MouseActionMotion {
			overControls := msg.Y >= b.height-controlsRegionHeight
			b.ctrl.PointerMove(float64(msg.X), float64(msg.Y), overControls)
		}
		return b, nil

	case tea.KeyMsg:
		return b.handleKey(msg)

	case string, ui.ClearNotificationMsg:
		return b, b.notifier.Update(msg)
	}

	return b, nil
}

func (b *statefulBubble) handleSessionEvent(e session.Event) (tea.Model, tea.Cmd) {
	switch e := e.(type) {
	case session.MediaLoaded:
		b.lastError = ""
		if b.state != playbackState {
			b.newState(playbackState)
		}

	case session.PlaybackError:
		if e.Terminal {
			b.lastError = e.Message
			b.newState(errorState)
		}

	case session.EndOfSeries:
		return b, tea.Batch(b.waitForEvent(), ui.Notify("That was the last episode of "+e.Title))

	case session.NavigateBack:
		return b.leavePlayback()

	case session.WindowResize:
		// A terminal host has no window of its own to resize.
	}

	return b, b.waitForEvent()
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if bubblesKey.Matches(msg, b.keymap.forceQuit) {
		b.ctrl.StopForNavigation()
		return b, tea.Quit
	}

	switch b.state {
	case pickerState:
		return b.handlePickerKey(msg)
	case playbackState:
		return b.handlePlaybackKey(msg)
	case errorState:
		return b.handleErrorKey(msg)
	}

	return b, nil
}

func (b *statefulBubble) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := b.keymap

	switch {
	case bubblesKey.Matches(msg, k.quit):
		return b, tea.Quit

	case bubblesKey.Matches(msg, k.up):
		if b.cursor > 0 {
			b.cursor--
		}
		return b, nil

	case bubblesKey.Matches(msg, k.down):
		if b.cursor < len(b.filtered)-1 {
			b.cursor++
		}
		return b, nil

	case bubblesKey.Matches(msg, k.confirm):
		if b.cursor >= len(b.filtered) {
			return b, nil
		}
		ep := b.filtered[b.cursor]
		b.ctx.UpdateCurrent(ep.ID)
		b.ctrl.LoadWithContext(session.MediaID(ep.ID), ep.Title, b.ctx)
		b.newState(playbackState)
		return b, b.waitForEvent()
	}

	var cmd tea.Cmd
	b.filterC, cmd = b.filterC.Update(msg)
	b.applyFilter()
	return b, cmd
}

func (b *statefulBubble) handlePlaybackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := b.keymap

	switch {
	case bubblesKey.Matches(msg, k.quit), bubblesKey.Matches(msg, k.back):
		return b.leavePlayback()

	case bubblesKey.Matches(msg, k.playPause):
		b.ctrl.TogglePause()

	case bubblesKey.Matches(msg, k.seekBack):
		b.ctrl.SeekBy(-5 * time.Second)

	case bubblesKey.Matches(msg, k.seekForward):
		b.ctrl.SeekBy(5 * time.Second)

	case bubblesKey.Matches(msg, k.nextEp):
		b.ctrl.Next()

	case bubblesKey.Matches(msg, k.prevEp):
		b.ctrl.Previous()

	case bubblesKey.Matches(msg, k.skipIntro):
		b.ctrl.SkipIntro()

	case bubblesKey.Matches(msg, k.skipCredits):
		b.ctrl.SkipCredits()

	case bubblesKey.Matches(msg, k.frameStep):
		b.ctrl.FrameStep()

	case bubblesKey.Matches(msg, k.volumeUp):
		b.volume = util.Clamp(b.volume+5, 0, 100)
		b.ctrl.SetVolume(b.volume)

	case bubblesKey.Matches(msg, k.volumeDown):
		b.volume = util.Clamp(b.volume-5, 0, 100)
		b.ctrl.SetVolume(b.volume)

	case bubblesKey.Matches(msg, k.toggleControls):
		b.ctrl.ToggleControls()

	case bubblesKey.Matches(msg, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	b.position = b.ctrl.Position()
	b.duration = b.ctrl.Duration()
	return b, nil
}

func (b *statefulBubble) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := b.keymap

	switch {
	case bubblesKey.Matches(msg, k.retry):
		b.lastError = ""
		b.ctrl.Retry()
		b.newState(playbackState)
		return b, b.waitForEvent()

	case bubblesKey.Matches(msg, k.back), bubblesKey.Matches(msg, k.quit):
		return b.navigateAway()
	}

	return b, nil
}

// leavePlayback performs the final progress write and returns to the
// picker, or quits when there is nothing to return to.
func (b *statefulBubble) leavePlayback() (tea.Model, tea.Cmd) {
	b.ctrl.StopForNavigation()
	return b.navigateAway()
}

func (b *statefulBubble) navigateAway() (tea.Model, tea.Cmd) {
	if b.ctx.Len() > 1 {
		b.syncPickerCursor()
		b.newState(pickerState)
		return b, b.waitForEvent()
	}
	return b, tea.Quit
}

func (b *statefulBubble) syncPickerCursor() {
	current, ok := b.ctx.Current()
	if !ok {
		return
	}
	for i, ep := range b.filtered {
		if ep.ID == current.ID {
			b.cursor = i
			return
		}
	}
}
