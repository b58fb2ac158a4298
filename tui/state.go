// Package tui provides the primary terminal user interface implementation.
package tui

type state int

const (
	pickerState state = iota
	playbackState
	errorState
)
