package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("provflow · %s", m.Target)))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("target host: %s", m.Host)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Steps"))
	b.WriteString("\n")

	for _, step := range m.steps {
		b.WriteString(renderStep(step))
		b.WriteString("\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString(footerStyle.Render(failedStyle.Render(fmt.Sprintf("run failed: %v", m.Err))))
	case m.done:
		b.WriteString(footerStyle.Render(okStyle.Render("run complete")))
	default:
		b.WriteString(footerStyle.Render("q to quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func renderStep(step stepView) string {
	var mark, name string

	switch step.state {
	case stateDone:
		mark = okStyle.Render(checkMark)
		name = step.name
	case stateFailed:
		mark = failedStyle.Render(crossMark)
		name = failedStyle.Render(step.name)
	case stateRunning:
		mark = waitingStyle.Render(runMark)
		name = activeStyle.Render(step.name)
	case stateWaiting:
		mark = waitingStyle.Render(runMark)
		name = activeStyle.Render(step.name)
	case stateSkipped:
		mark = dimStyle.Render(skipMark)
		name = dimStyle.Render(step.name)
	default:
		mark = dimStyle.Render(pendMark)
		name = dimStyle.Render(step.name)
	}

	line := fmt.Sprintf("  %s %s", mark, name)

	if step.state == stateWaiting && step.detail != "" {
		line += dimStyle.Render(fmt.Sprintf(" (waiting on %s)", step.detail))
	} else if step.detail != "" {
		line += dimStyle.Render(" " + step.detail)
	}
	if step.elapsed != "" {
		line += dimStyle.Render(" " + step.elapsed)
	}

	return line
}
