package simulation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
	"github.com/andrescamacho/processor-go/internal/application/simulation"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
	"github.com/andrescamacho/processor-go/test/helpers"
)

func TestTicker_FiresEachCadenceOnItsInterval(t *testing.T) {
	// Arrange
	m := helpers.NewMockMediator()
	ticker, err := simulation.NewTicker(m, simulation.Options{})
	require.NoError(t, err)

	// Act
	summary, err := ticker.Run(context.Background(), 1000)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1000, summary.Ticks)
	assert.Equal(t, shared.LifecycleStatusCompleted, summary.Status)
	assert.Equal(t, 10, m.CountTicks("normal"))
	assert.Equal(t, 4, m.CountTicks("rare"))
	assert.Equal(t, 0, m.CountTicks("long"))
	assert.Contains(t, m.GetCallLog(), "Tick:rare:250")
	assert.Equal(t, 1000, ticker.WorldTick())
}

func TestTicker_PartialFinalStep(t *testing.T) {
	m := helpers.NewMockMediator()
	ticker, err := simulation.NewTicker(m, simulation.Options{})
	require.NoError(t, err)

	summary, err := ticker.Run(context.Background(), 150)

	require.NoError(t, err)
	assert.Equal(t, 150, summary.Ticks)
	assert.Equal(t, 1, m.CountTicks("normal"))
}

func TestTicker_CountsEvaluationsAndCompletions(t *testing.T) {
	// Arrange
	m := helpers.NewMockMediator()
	m.SetSendFunc(func(ctx context.Context, request common.Request) (common.Response, error) {
		return &processingCommands.TickUnitsResponse{Results: []processingCommands.UnitTickResult{
			{UnitID: "a", Outcome: processing.TickOutcome{Completed: true}},
			{UnitID: "b"},
		}}, nil
	})
	ticker, err := simulation.NewTicker(m, simulation.Options{
		Intervals: simulation.Intervals{
			appProcessing.CadenceNormal: 10,
			appProcessing.CadenceRare:   10,
			appProcessing.CadenceLong:   10,
		},
	})
	require.NoError(t, err)

	// Act
	summary, err := ticker.Run(context.Background(), 20)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 12, summary.Evaluations)
	assert.Equal(t, 6, summary.Completions)
}

func TestTicker_AfterStepSeesWorldTick(t *testing.T) {
	// Arrange
	var seen []int
	ticker, err := simulation.NewTicker(helpers.NewMockMediator(), simulation.Options{
		AfterStep: func(ctx context.Context, worldTick int) error {
			seen = append(seen, worldTick)
			return nil
		},
	})
	require.NoError(t, err)

	// Act
	_, err = ticker.Run(context.Background(), 350)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{100, 200, 300, 350}, seen)
}

func TestTicker_AfterStepErrorFailsRun(t *testing.T) {
	// Arrange
	boom := errors.New("storage offline")
	ticker, err := simulation.NewTicker(helpers.NewMockMediator(), simulation.Options{
		AfterStep: func(ctx context.Context, worldTick int) error {
			if worldTick == 200 {
				return boom
			}
			return nil
		},
	})
	require.NoError(t, err)

	// Act
	summary, err := ticker.Run(context.Background(), 1000)

	// Assert
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "after step at tick 200")
	assert.Equal(t, shared.LifecycleStatusFailed, summary.Status)
	assert.Equal(t, 100, summary.Ticks)
}

func TestTicker_MediatorErrorFailsRun(t *testing.T) {
	m := helpers.NewMockMediator()
	m.SetSendFunc(func(ctx context.Context, request common.Request) (common.Response, error) {
		return nil, assert.AnError
	})
	ticker, err := simulation.NewTicker(m, simulation.Options{})
	require.NoError(t, err)

	summary, err := ticker.Run(context.Background(), 100)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, shared.LifecycleStatusFailed, summary.Status)
}

func TestTicker_CancelledContextStops(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	ticker, err := simulation.NewTicker(helpers.NewMockMediator(), simulation.Options{
		AfterStep: func(context.Context, int) error {
			cancel()
			return nil
		},
	})
	require.NoError(t, err)

	// Act
	summary, err := ticker.Run(ctx, 1000)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, shared.LifecycleStatusStopped, summary.Status)
	assert.Equal(t, 100, summary.Ticks)
}

func TestTicker_RealtimePacingHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ticker, err := simulation.NewTicker(helpers.NewMockMediator(), simulation.Options{TicksPerSecond: 1})
	require.NoError(t, err)

	summary, err := ticker.Run(ctx, 1000)

	assert.Error(t, err)
	assert.Equal(t, 0, summary.Ticks)
	assert.Equal(t, shared.LifecycleStatusStopped, summary.Status)
}

func TestTicker_RejectsBadInput(t *testing.T) {
	_, err := simulation.NewTicker(nil, simulation.Options{})
	assert.Error(t, err)

	_, err = simulation.NewTicker(helpers.NewMockMediator(), simulation.Options{
		Intervals: simulation.Intervals{appProcessing.CadenceNormal: 100},
	})
	assert.Error(t, err)

	ticker, err := simulation.NewTicker(helpers.NewMockMediator(), simulation.Options{})
	require.NoError(t, err)
	_, err = ticker.Run(context.Background(), -1)
	assert.Error(t, err)

	_, err = ticker.Run(context.Background(), 0)
	require.NoError(t, err)
	_, err = ticker.Run(context.Background(), 0)
	assert.Error(t, err, "a ticker runs once")
}
