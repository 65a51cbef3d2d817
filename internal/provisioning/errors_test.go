package provisioning

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	base := errors.New("connection refused")
	err := NewStepError("launch-process", KindDependencyUnmet, base)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch-process")
	assert.Contains(t, err.Error(), "dependency-unmet")
	assert.ErrorIs(t, err, base)
}

func TestNewStepError_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewStepError("x", KindStepExecution, nil))
	assert.NoError(t, DuplicateError("x", nil))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"config", ConfigError("s", "missing %s", "db-host"), KindConfiguration},
		{"duplicate", DuplicateError("s", errors.New("exists")), KindDuplicateResource},
		{"execution", NewStepError("s", KindStepExecution, errors.New("exit 1")), KindStepExecution},
		{"wrapped", fmt.Errorf("outer: %w", DuplicateError("s", errors.New("exists"))), KindDuplicateResource},
		{"plain", errors.New("plain"), Kind("")},
		{"nil", nil, Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestFailingStep(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("run failed: %w", ConfigError("patch-config-value", "file missing"))
	assert.Equal(t, "patch-config-value", FailingStep(err))
	assert.Equal(t, "", FailingStep(errors.New("plain")))
}
