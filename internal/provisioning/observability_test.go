package provisioning

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	Events   []Event
	Messages []string
}

// NewMockObserver creates a recording observer for tests.
func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

// Printf implements Logger.
func (m *MockObserver) Printf(format string, v ...interface{}) {
	m.Messages = append(m.Messages, fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (m *MockObserver) Event(event Event) {
	m.Events = append(m.Events, event)
}

// eventTypes returns the recorded event types in order.
func (m *MockObserver) eventTypes() []EventType {
	types := make([]EventType, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Type)
	}
	return types
}

func TestFormatEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "step event",
			event: Event{Type: EventStepStarted, Step: "install-packages", Message: "starting"},
			want:  "step.started [install-packages] starting",
		},
		{
			name:  "check event",
			event: Event{Type: EventCheckWaiting, Step: "launch-process", Check: "tcp:db", Message: "waiting for dependency"},
			want:  "check.waiting [launch-process] check=tcp:db waiting for dependency",
		},
		{
			name:  "bare type",
			event: Event{Type: EventStepCompleted},
			want:  "step.completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatEvent(tt.event))
		})
	}
}

func TestLogHelpers(t *testing.T) {
	t.Parallel()

	observer := NewMockObserver()

	LogStepStart(observer, "restart-service")
	LogStepComplete(observer, "restart-service", 1500*time.Millisecond)
	LogStepFailed(observer, "load-seed-data", assert.AnError)
	LogStepSkipped(observer, "launch-process")
	LogCheckWaiting(observer, "launch-process", "tcp:db")
	LogCheckSatisfied(observer, "launch-process", "tcp:db", 40*time.Millisecond)
	LogCheckFailed(observer, "launch-process", "tcp:db", assert.AnError)

	assert.Equal(t, []EventType{
		EventStepStarted,
		EventStepCompleted,
		EventStepFailed,
		EventStepSkipped,
		EventCheckWaiting,
		EventCheckSatisfied,
		EventCheckFailed,
	}, observer.eventTypes())

	assert.Equal(t, "restart-service", observer.Events[0].Step)
	assert.Contains(t, observer.Events[1].Message, "1.5s")
	assert.Equal(t, "tcp:db", observer.Events[4].Check)
}
