package provisioning

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Logger is the minimal logging surface steps use for free-form output.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during a run.
type Observer interface {
	Logger

	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType
	Step      string
	Check     string
	Message   string
	Timestamp time.Time
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventStepStarted indicates a step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a step failed.
	EventStepFailed EventType = "step.failed"
	// EventStepSkipped indicates a step was skipped after an earlier failure.
	EventStepSkipped EventType = "step.skipped"

	// EventCheckWaiting indicates a dependency check is being polled.
	EventCheckWaiting EventType = "check.waiting"
	// EventCheckSatisfied indicates a dependency check passed.
	EventCheckSatisfied EventType = "check.satisfied"
	// EventCheckFailed indicates a dependency check was not satisfied in time.
	EventCheckFailed EventType = "check.failed"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	log.Print(formatEvent(event))
}

// formatEvent formats an event for console output.
func formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))

	if event.Step != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Step))
	}
	if event.Check != "" {
		parts = append(parts, fmt.Sprintf("check=%s", event.Check))
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}

	return strings.Join(parts, " ")
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: "starting",
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Step:    step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogStepSkipped logs a step skip event.
func LogStepSkipped(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepSkipped,
		Step:    step,
		Message: "skipped after earlier failure",
	})
}

// LogCheckWaiting logs the start of dependency polling.
func LogCheckWaiting(observer Observer, step, check string) {
	observer.Event(Event{
		Type:    EventCheckWaiting,
		Step:    step,
		Check:   check,
		Message: "waiting for dependency",
	})
}

// LogCheckSatisfied logs a satisfied dependency.
func LogCheckSatisfied(observer Observer, step, check string, waited time.Duration) {
	observer.Event(Event{
		Type:    EventCheckSatisfied,
		Step:    step,
		Check:   check,
		Message: fmt.Sprintf("satisfied after %v", waited.Round(time.Millisecond)),
	})
}

// LogCheckFailed logs an unmet dependency.
func LogCheckFailed(observer Observer, step, check string, err error) {
	observer.Event(Event{
		Type:    EventCheckFailed,
		Step:    step,
		Check:   check,
		Message: fmt.Sprintf("unmet: %v", err),
	})
}
