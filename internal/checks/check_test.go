package checks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCheck returns a fixed sequence of probe results.
type scriptedCheck struct {
	name    string
	results []Status
	calls   int
}

func (s *scriptedCheck) Name() string { return s.name }

func (s *scriptedCheck) Probe(_ context.Context) (Status, error) {
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	status := s.results[i]
	if status == Satisfied {
		return Satisfied, nil
	}
	return status, fmt.Errorf("probe %d: %s", s.calls, status)
}

func fastPolicy() Policy {
	return Policy{
		Interval:    10 * time.Millisecond,
		MaxAttempts: 5,
		Timeout:     time.Second,
	}
}

func TestWait_SatisfiedFirstAttempt(t *testing.T) {
	t.Parallel()

	c := &scriptedCheck{name: "tcp:db", results: []Status{Satisfied}}
	err := Wait(context.Background(), c, fastPolicy())

	require.NoError(t, err)
	assert.Equal(t, 1, c.calls)
}

func TestWait_SatisfiedAfterPolling(t *testing.T) {
	t.Parallel()

	c := &scriptedCheck{name: "tcp:db", results: []Status{NotYet, NotYet, Satisfied}}
	err := Wait(context.Background(), c, fastPolicy())

	require.NoError(t, err)
	assert.Equal(t, 3, c.calls)
}

func TestWait_ExponentialBackoff(t *testing.T) {
	t.Parallel()

	c := &scriptedCheck{name: "tcp:db", results: []Status{NotYet, NotYet, Satisfied}}
	policy := Policy{
		Interval:    20 * time.Millisecond,
		MaxAttempts: 5,
		Timeout:     2 * time.Second,
		Exponential: true,
	}

	start := time.Now()
	err := Wait(context.Background(), c, policy)

	require.NoError(t, err)
	assert.Equal(t, 3, c.calls)
	// Delays double from the initial interval: 20ms then 40ms.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestWait_BudgetExhausted(t *testing.T) {
	t.Parallel()

	c := &scriptedCheck{name: "tcp:db", results: []Status{NotYet}}
	err := Wait(context.Background(), c, fastPolicy())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency tcp:db unmet")
	assert.Equal(t, 5, c.calls)
}

func TestWait_ErroredAbortsImmediately(t *testing.T) {
	t.Parallel()

	c := &scriptedCheck{name: "tcp:db", results: []Status{Errored}}
	err := Wait(context.Background(), c, fastPolicy())

	require.Error(t, err)
	assert.Equal(t, 1, c.calls, "errored probe must not be retried")
}

func TestTCPCheck_LiveListener(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	port := ln.Addr().(*net.TCPAddr).Port
	c := NewTCPCheck("db", "127.0.0.1", port)

	// A reachable listener must be satisfied within one retry interval.
	start := time.Now()
	err = Wait(context.Background(), c, fastPolicy())

	require.NoError(t, err)
	assert.Less(t, time.Since(start), fastPolicy().Interval+500*time.Millisecond)
}

func TestTCPCheck_ClosedPortNeverSatisfied(t *testing.T) {
	t.Parallel()

	// Reserve and release a port so nothing listens on it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	c := NewTCPCheck("db", "127.0.0.1", port)
	err = Wait(context.Background(), c, fastPolicy())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmet")
}

func TestTCPCheck_ResolveFailureErrored(t *testing.T) {
	t.Parallel()

	c := NewTCPCheck("db", "host.invalid", 3306)

	status, err := c.Probe(context.Background())

	assert.Equal(t, Errored, status)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	c := NewTCPCheck("db", "127.0.0.1", 3306)
	r.Register(c)

	got, ok := r.Get("tcp:db")
	require.True(t, ok)
	assert.Equal(t, c, got)

	_, ok = r.Get("tcp:missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"tcp:db"}, r.Names())
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "satisfied", Satisfied.String())
	assert.Equal(t, "not-yet", NotYet.String())
	assert.Equal(t, "errored", Errored.String())
	assert.Equal(t, "unknown", Status(42).String())
}

var errNoScript = errors.New("no script for command")
