package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkoesel/provflow/internal/provisioning"
)

// stepState is the UI-side status of one step.
type stepState int

const (
	statePending stepState = iota
	stateRunning
	stateWaiting // polling a dependency check
	stateDone
	stateFailed
	stateSkipped
)

// stepView is one row of the step list.
type stepView struct {
	name    string
	state   stepState
	detail  string
	elapsed string
}

// Model renders a deployment run as it progresses.
type Model struct {
	Target string
	Host   string

	steps []stepView
	done  bool
	Err   error
}

// NewModel creates the run view for an ordered step list.
func NewModel(target, host string, stepNames []string) Model {
	steps := make([]stepView, 0, len(stepNames))
	for _, name := range stepNames {
		steps = append(steps, stepView{name: name, state: statePending})
	}
	return Model{Target: target, Host: host, steps: steps}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.done {
				// Quitting mid-run aborts the sequence; the exit code
				// must reflect that the run did not complete.
				m.Err = ErrInterrupted
			}
			return m, tea.Quit
		}

	case EventMsg:
		m.apply(msg.Event)
		return m, nil

	case DoneMsg:
		m.done = true
		m.Err = msg.Err
		return m, tea.Quit

	case ErrMsg:
		m.done = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// apply folds one run event into the step list.
func (m *Model) apply(event provisioning.Event) {
	idx := -1
	for i := range m.steps {
		if m.steps[i].name == event.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	step := &m.steps[idx]
	switch event.Type {
	case provisioning.EventStepStarted:
		step.state = stateRunning
	case provisioning.EventStepCompleted:
		step.state = stateDone
		step.elapsed = event.Message
	case provisioning.EventStepFailed:
		step.state = stateFailed
		step.detail = event.Message
	case provisioning.EventStepSkipped:
		step.state = stateSkipped
	case provisioning.EventCheckWaiting:
		step.state = stateWaiting
		step.detail = event.Check
	case provisioning.EventCheckSatisfied:
		step.state = stateRunning
		step.detail = ""
	case provisioning.EventCheckFailed:
		step.state = stateFailed
		step.detail = event.Message
	}
}
