package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkoesel/provflow/internal/provisioning"
)

// ErrInterrupted reports that the user quit the view before the run
// finished. The run context is cancelled and the process exits non-zero;
// partially applied steps are left as-is.
var ErrInterrupted = fmt.Errorf("run interrupted: %w", context.Canceled)

// programObserver forwards run events into a running Bubble Tea program.
// It satisfies provisioning.Observer so the sequencer needs no TUI
// awareness.
type programObserver struct {
	p *tea.Program
}

// Printf implements provisioning.Logger. Free-form log lines are dropped in
// TUI mode; the structured events carry everything the view renders.
func (o *programObserver) Printf(_ string, _ ...interface{}) {}

// Event implements provisioning.Observer.
func (o *programObserver) Event(event provisioning.Event) {
	o.p.Send(EventMsg{Event: event})
}

// RunApply drives a deployment run behind a live terminal view.
// runFn executes the run using the provided context and observer and returns
// its error; it runs in a background goroutine while the TUI owns the
// terminal. Quitting the view mid-run cancels that context and RunApply
// returns ErrInterrupted, never nil.
func RunApply(ctx context.Context, target, host string, stepNames []string, runFn func(ctx context.Context, observer provisioning.Observer) error) error {
	m := NewModel(target, host, stepNames)

	p := tea.NewProgram(m, tea.WithAltScreen())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		err := runFn(runCtx, &programObserver{p: p})
		p.Send(DoneMsg{Err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if !fm.done {
		// The view was quit while the run goroutine was still going.
		cancel()
		if fm.Err == nil {
			fm.Err = ErrInterrupted
		}
	}
	return fm.Err
}
