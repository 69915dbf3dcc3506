package context

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/events"
)

func newTestContext() *ExecutionContext {
	return New("run-1", &models.Network{Name: "local"}, nil, nil, nil, events.NewEmitter())
}

func TestSetOutput(t *testing.T) {
	t.Run("first write succeeds", func(t *testing.T) {
		ec := newTestContext()
		require.NoError(t, ec.SetOutput("deploy.address", "0x1234"))

		v, ok := ec.GetOutput("deploy.address")
		require.True(t, ok)
		assert.Equal(t, "0x1234", v)
	})

	t.Run("overwriting an existing key is a duplicate-key error", func(t *testing.T) {
		ec := newTestContext()
		require.NoError(t, ec.SetOutput("deploy.address", "0x1234"))

		err := ec.SetOutput("deploy.address", "0x5678")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDuplicateKey))

		v, _ := ec.GetOutput("deploy.address")
		assert.Equal(t, "0x1234", v, "original value must remain untouched")
	})

	t.Run("unknown key is reported as missing", func(t *testing.T) {
		ec := newTestContext()
		_, ok := ec.GetOutput("nope")
		assert.False(t, ok)
	})
}

func TestOutputsSnapshotIsACopy(t *testing.T) {
	ec := newTestContext()
	require.NoError(t, ec.SetOutput("a", 1))

	snap := ec.Outputs()
	snap["b"] = 2

	_, ok := ec.GetOutput("b")
	assert.False(t, ok, "mutating the snapshot must not affect the live output store")
}

func TestJobCompletion(t *testing.T) {
	ec := newTestContext()
	assert.False(t, ec.JobCompleted("deploy"))

	ec.MarkJobCompleted("deploy")
	assert.True(t, ec.JobCompleted("deploy"))
	assert.False(t, ec.JobCompleted("other"))
}

func TestDisposeToleratesNilRPC(t *testing.T) {
	ec := newTestContext()
	assert.NotPanics(t, func() { ec.Dispose() })
}
