// Package ui renders transient, non-blocking toast notices on top of
// the host view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// noticeLifetime is how long a toast stays on screen before it clears.
const noticeLifetime = 3 * time.Second

// Model holds the currently displayed toast, if any.
type Model struct {
	notice   string
	raisedAt time.Time
}

// ClearNotificationMsg removes the current toast from the view.
type ClearNotificationMsg struct{}

// Notify returns a tea.Cmd that raises a toast with the given text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return text
	}
}

// ClearNotification schedules the toast to clear after its lifetime.
func ClearNotification() tea.Cmd {
	return tea.Tick(noticeLifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

// Update handles toast messages. A plain string raises a toast and arms
// its clear timer; ClearNotificationMsg removes it.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.notice = msg
		m.raisedAt = time.Now()
		return ClearNotification()
	case ClearNotificationMsg:
		m.notice = ""
		return nil
	}
	return nil
}

// View appends the active toast to the last line of the host view.
func (m *Model) View(mainContent string) string {
	if m.notice == "" {
		return mainContent
	}

	// Dim ANSI intensity keeps the toast out of the way of the
	// playback surface.
	lines := strings.Split(mainContent, "\n")
	toast := "\033[90m" + m.notice + "\033[0m"

	if len(lines) > 0 {
		lines[len(lines)-1] = lines[len(lines)-1] + "  " + toast
	}
	return strings.Join(lines, "\n")
}
