package shared_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

func TestLifecycle_CompletesAndMeasuresRuntime(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	l := shared.NewLifecycle(clock)

	// Act
	require.NoError(t, l.Start())
	clock.Advance(3 * time.Second)
	require.NoError(t, l.Complete())
	clock.Advance(time.Minute)

	// Assert
	assert.Equal(t, shared.LifecycleStatusCompleted, l.Status())
	assert.True(t, l.IsFinished())
	assert.Equal(t, 3*time.Second, l.RuntimeDuration())
}

func TestLifecycle_RejectsInvalidTransitions(t *testing.T) {
	l := shared.NewLifecycle(shared.NewMockClock(time.Time{}))

	assert.Error(t, l.Complete())
	require.NoError(t, l.Start())
	assert.Error(t, l.Start())

	cause := errors.New("boom")
	require.NoError(t, l.Fail(cause))
	assert.Equal(t, cause, l.LastError())
	assert.Error(t, l.Stop())
	assert.Error(t, l.Fail(cause))
}
