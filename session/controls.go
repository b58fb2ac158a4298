package session

import (
	"math"
	"time"
)

type controlState int

const (
	controlsHidden controlState = iota
	controlsVisible
	controlsHovering
)

// controlsMachine decides whether the playback control surface is shown.
// It is purely presentational and never touches transport or persistence.
// Each started hide timer carries a sequence number; a fire whose number
// no longer matches is stale and ignored.
type controlsMachine struct {
	sched     Scheduler
	hideDelay time.Duration
	minMove   float64

	state controlState
	timer TimerHandle
	seq   uint64

	lastX, lastY float64
	haveLast     bool

	// fire re-enters the session loop before delegating to timerFired.
	fire func(seq uint64)
}

func newControlsMachine(sched Scheduler, hideDelay time.Duration, minMove float64, fire func(uint64)) *controlsMachine {
	m := &controlsMachine{
		sched:     sched,
		hideDelay: hideDelay,
		minMove:   minMove,
		state:     controlsVisible,
		fire:      fire,
	}
	m.startTimer()
	return m
}

func (m *controlsMachine) visible() bool {
	return m.state != controlsHidden
}

// enter handles the pointer arriving over the playback surface.
func (m *controlsMachine) enter() {
	if m.state == controlsHidden {
		m.show()
	}
}

// leave hides the controls immediately unless a modal overlay holds them open.
func (m *controlsMachine) leave(overlayOpen bool) {
	if overlayOpen {
		return
	}
	m.hide()
	m.haveLast = false
}

// move handles pointer motion. Sub-threshold jitter while hidden is
// ignored so the surface does not flicker on trackpad noise.
func (m *controlsMachine) move(x, y float64, overControls bool) {
	defer func() {
		m.lastX, m.lastY = x, y
		m.haveLast = true
	}()

	switch m.state {
	case controlsHidden:
		if !m.haveLast {
			return
		}
		if math.Hypot(x-m.lastX, y-m.lastY) >= m.minMove {
			m.show()
		}
	case controlsVisible:
		if overControls {
			m.invalidate()
			m.state = controlsHovering
		} else {
			m.startTimer()
		}
	case controlsHovering:
		if !overControls {
			m.state = controlsVisible
			m.startTimer()
		}
	}
}

// toggle flips visibility, e.g. on a tap or keyboard shortcut.
func (m *controlsMachine) toggle() {
	if m.state == controlsHidden {
		m.show()
	} else {
		m.hide()
	}
}

// timerFired transitions Visible to Hidden when the hide delay elapses.
func (m *controlsMachine) timerFired(seq uint64) {
	if seq != m.seq || m.state != controlsVisible {
		return
	}
	m.hide()
}

func (m *controlsMachine) setOptions(hideDelay time.Duration, minMove float64) {
	m.hideDelay = hideDelay
	m.minMove = minMove
}

func (m *controlsMachine) show() {
	m.state = controlsVisible
	m.startTimer()
}

func (m *controlsMachine) hide() {
	m.invalidate()
	m.state = controlsHidden
}

func (m *controlsMachine) startTimer() {
	m.invalidate()
	seq := m.seq
	m.timer = m.sched.ScheduleOnce(m.hideDelay, func() {
		m.fire(seq)
	})
}

// invalidate bumps the sequence so any in-flight timer fire becomes stale.
func (m *controlsMachine) invalidate() {
	m.seq++
	if m.timer != nil {
		m.timer.Cancel()
		m.timer = nil
	}
}
