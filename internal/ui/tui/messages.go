// Package tui provides a Bubble Tea-based terminal UI for deployment runs.
package tui

import "github.com/mkoesel/provflow/internal/provisioning"

// EventMsg carries one structured run event into the UI.
type EventMsg struct {
	Event provisioning.Event
}

// DoneMsg signals that the run finished, successfully or not.
type DoneMsg struct {
	Err error
}

// ErrMsg carries a fatal UI-side error.
type ErrMsg struct{ Err error }
