// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/halcyon-player/halcyon/color"
	"github.com/halcyon-player/halcyon/icon"
	"github.com/halcyon-player/halcyon/player"
	"github.com/halcyon-player/halcyon/style"
	"github.com/halcyon-player/halcyon/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

const pickerWindow = 12

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case pickerState:
		output = b.viewPicker()
	case playbackState:
		output = b.viewPlayback()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewPicker() string {
	lines := []string{
		style.Title(b.ctx.Title()),
		"",
		b.filterC.View(),
		"",
	}

	start := util.Max(0, b.cursor-pickerWindow/2)
	end := util.Min(len(b.filtered), start+pickerWindow)

	for i := start; i < end; i++ {
		ep := b.filtered[i]
		if i == b.cursor {
			lines = append(lines, style.Fg(color.Orange)("> "+ep.Title))
		} else {
			lines = append(lines, "  "+ep.Title)
		}
	}

	if len(b.filtered) == 0 {
		lines = append(lines, style.Faint("No episodes match the filter"))
	}

	lines = append(lines, "", b.helpC.View(b.keymap))
	return paddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewPlayback() string {
	lines := []string{
		style.Title(b.ctrl.Title()),
		"",
		b.stateLine(),
		"",
		b.progressLine(),
	}

	if badges := b.skipBadges(); badges != "" {
		lines = append(lines, "", badges)
	}

	if b.ctrl.ControlsVisible() {
		lines = append(lines, "", b.controlsBar(), b.helpC.View(b.keymap))
	}

	return paddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) stateLine() string {
	switch b.ctrl.State() {
	case player.StateLoading:
		return style.Faint("Loading...")
	case player.StatePlaying:
		return icon.Get(icon.Play) + " " + style.Faint("Playing")
	case player.StatePaused:
		return icon.Get(icon.Pause) + " " + style.Faint("Paused")
	case player.StateStopped:
		return icon.Get(icon.Stop) + " " + style.Faint("Stopped")
	default:
		return style.Faint("Idle")
	}
}

func (b *statefulBubble) progressLine() string {
	if b.duration <= 0 {
		return style.Faint("--:-- / --:--")
	}

	percent := float64(b.position) / float64(b.duration)
	return fmt.Sprintf(
		"%s  %s / %s",
		b.progressC.ViewAs(percent),
		util.FormatTimestamp(b.position),
		util.FormatTimestamp(b.duration),
	)
}

func (b *statefulBubble) skipBadges() string {
	var badges []string

	if b.ctrl.SkipIntroVisible() {
		badges = append(badges, style.Tag(color.New("230"), color.Blue)(icon.Get(icon.Skip)+" Skip Intro (s)"))
	}
	if b.ctrl.SkipCreditsVisible() {
		badges = append(badges, style.Tag(color.New("230"), color.Blue)(icon.Get(icon.Skip)+" Skip Credits (c)"))
	}

	return strings.Join(badges, " ")
}

func (b *statefulBubble) controlsBar() string {
	var parts []string

	if b.ctx.HasPrevious() {
		parts = append(parts, style.Faint("(p) previous"))
	}
	if b.ctrl.State() == player.StatePaused {
		parts = append(parts, icon.Get(icon.Play)+" (space) play")
	} else {
		parts = append(parts, icon.Get(icon.Pause)+" (space) pause")
	}
	if b.ctx.HasNext() {
		parts = append(parts, style.Faint("(n) next"))
	}
	parts = append(parts, style.Faint(fmt.Sprintf("vol %d%%", int(b.volume))))

	return strings.Join(parts, "  ")
}

func (b *statefulBubble) viewError() string {
	width := util.Max(b.width-8, 20)

	lines := []string{
		style.ErrorTitle("Playback Error"),
		"",
		wrap.String(b.lastError, width),
		"",
		b.helpC.View(b.keymap),
	}

	return paddingStyle.Render(strings.Join(lines, "\n"))
}
