package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
	"github.com/andrescamacho/processor-go/test/helpers"
)

type commandFixture struct {
	units     *appProcessing.UnitRegistry
	pickups   *appProcessing.PickupRegistry
	snapshots *helpers.MockSnapshotRepository
	events    *helpers.RecordingPublisher
	clock     *shared.MockClock
	unit      *helpers.TestUnit
}

func newCommandFixture(t *testing.T, items map[string]int, defs ...*processing.ProcessDefinition) *commandFixture {
	t.Helper()
	f := &commandFixture{
		units:     appProcessing.NewUnitRegistry(),
		pickups:   appProcessing.NewPickupRegistry(),
		snapshots: helpers.NewMockSnapshotRepository(),
		events:    helpers.NewRecordingPublisher(),
		clock:     shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	f.unit = helpers.NewTestUnit(t, "furnace-1", f.pickups, items, defs...)
	require.NoError(t, f.units.Register(f.unit.Proc, appProcessing.CadenceNormal))
	return f
}

func (f *commandFixture) start(t *testing.T, defID string) *processingCommands.StartProcessResponse {
	t.Helper()
	handler := processingCommands.NewStartProcessHandler(f.units, f.events, f.clock)
	resp, err := handler.Handle(context.Background(), &processingCommands.StartProcessCommand{UnitID: "furnace-1", DefinitionID: defID})
	require.NoError(t, err)
	return resp.(*processingCommands.StartProcessResponse)
}

func (f *commandFixture) tick(t *testing.T, elapsed int) *processingCommands.TickUnitsResponse {
	t.Helper()
	handler := processingCommands.NewTickUnitsHandler(f.units, f.events, f.events, f.clock)
	resp, err := handler.Handle(context.Background(), &processingCommands.TickUnitsCommand{Cadence: appProcessing.CadenceNormal, Elapsed: elapsed})
	require.NoError(t, err)
	return resp.(*processingCommands.TickUnitsResponse)
}

func TestStartProcess_QueuesAndPublishes(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, map[string]int{"ore": 1}, helpers.NewSimpleDefinition("smelt", 100, "ore", 2))

	// Act
	resp := f.start(t, "smelt")

	// Assert
	assert.Equal(t, "furnace-1", resp.UnitID)
	assert.Equal(t, "smelt", resp.DefinitionID)
	assert.Equal(t, "ore", resp.MissingIngredient)
	assert.Equal(t, 1, f.unit.Proc.Stack().Len())
	require.Len(t, f.events.Events, 1)
	assert.Equal(t, appProcessing.EventProcessStarted, f.events.Events[0].Type)
	assert.Equal(t, resp.ProcessID, f.events.Events[0].ProcessID)
	assert.Equal(t, f.clock.Now(), f.events.Events[0].Timestamp)
}

func TestStartProcess_UnknownDefinition(t *testing.T) {
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 100, "", 0))
	handler := processingCommands.NewStartProcessHandler(f.units, nil, nil)

	_, err := handler.Handle(context.Background(), &processingCommands.StartProcessCommand{UnitID: "furnace-1", DefinitionID: "smelts"})

	var unknown *processing.UnknownDefinitionError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Suggestions, "smelt")
}

func TestHandlers_RejectWrongRequestType(t *testing.T) {
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 100, "", 0))

	_, err := processingCommands.NewTickUnitsHandler(f.units, nil, nil, nil).Handle(context.Background(), &processingCommands.StartProcessCommand{})

	assert.EqualError(t, err, "invalid request type: expected *TickUnitsCommand")
}

func TestTickUnits_CompletionRegistersPickupAndBroadcasts(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 200, "", 0))
	started := f.start(t, "smelt")

	// Act
	first := f.tick(t, 100)
	second := f.tick(t, 100)

	// Assert
	assert.Equal(t, 0, first.Completed())
	assert.Equal(t, 1, second.Completed())
	require.Len(t, second.Results, 1)
	assert.Equal(t, "smelt", second.Results[0].DefinitionID)
	assert.True(t, f.pickups.IsAwaiting("furnace-1", started.ProcessID))
	assert.Equal(t, []appProcessing.EventType{appProcessing.EventProcessStarted, appProcessing.EventProcessCompleted}, f.events.Types())
	require.Len(t, f.events.Reports, 2)
	assert.True(t, f.events.Reports[1].PickupReady)
}

func TestTickUnits_OnlyTicksMatchingCadence(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 200, "", 0))
	f.start(t, "smelt")
	handler := processingCommands.NewTickUnitsHandler(f.units, nil, nil, nil)

	// Act
	resp, err := handler.Handle(context.Background(), &processingCommands.TickUnitsCommand{Cadence: appProcessing.CadenceLong, Elapsed: 2000})
	require.NoError(t, err)
	zero, err := handler.Handle(context.Background(), &processingCommands.TickUnitsCommand{Cadence: appProcessing.CadenceNormal})
	require.NoError(t, err)

	// Assert
	assert.Empty(t, resp.(*processingCommands.TickUnitsResponse).Results)
	assert.Empty(t, zero.(*processingCommands.TickUnitsResponse).Results)
	assert.Equal(t, 0, f.unit.Proc.Stack().Processes()[0].Progress())
}

func TestPickupProcess_PlacesResults(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 100, "", 0))
	started := f.start(t, "smelt")
	f.tick(t, 100)
	handler := processingCommands.NewPickupProcessHandler(f.units, f.events, f.clock)

	// Act
	resp, err := handler.Handle(context.Background(), &processingCommands.PickupProcessCommand{UnitID: "furnace", ProcessID: started.ProcessID})

	// Assert
	require.NoError(t, err)
	pickup := resp.(*processingCommands.PickupProcessResponse)
	assert.Equal(t, "smelt", pickup.DefinitionID)
	assert.Equal(t, []processing.ResultSpec{{Resource: "smelt_out", Quantity: 1}}, f.unit.Output.Placed)
	assert.Equal(t, 0, f.unit.Proc.Stack().Len())
	assert.Equal(t, 0, f.pickups.Count())
	assert.Contains(t, f.events.Types(), appProcessing.EventProcessPickedUp)
}

func TestPickupProcess_NotReady(t *testing.T) {
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 100, "", 0))
	started := f.start(t, "smelt")
	handler := processingCommands.NewPickupProcessHandler(f.units, nil, nil)

	_, err := handler.Handle(context.Background(), &processingCommands.PickupProcessCommand{UnitID: "furnace-1", ProcessID: started.ProcessID})

	assert.ErrorIs(t, err, processing.ErrProcessNotReady)
	assert.Equal(t, 1, f.unit.Proc.Stack().Len())
}

func TestCancelProcess_Refunds(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, map[string]int{"ore": 2}, helpers.NewSimpleDefinition("smelt", 100, "ore", 2))
	started := f.start(t, "smelt")
	require.Equal(t, 0, f.unit.Unit.Inv.Count("ore"))
	handler := processingCommands.NewCancelProcessHandler(f.units, f.events, f.clock)

	// Act
	_, err := handler.Handle(context.Background(), &processingCommands.CancelProcessCommand{UnitID: "furnace-1", ProcessID: started.ProcessID, Refund: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, f.unit.Unit.Inv.Count("ore"))
	assert.Equal(t, 0, f.unit.Proc.Stack().Len())
	assert.Contains(t, f.events.Types(), appProcessing.EventProcessCancelled)
}

func TestSaveAndLoadUnit(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 200, "", 0))
	f.start(t, "smelt")
	f.tick(t, 100)
	save := processingCommands.NewSaveUnitHandler(f.units, f.snapshots)
	load := processingCommands.NewLoadUnitHandler(f.units, f.snapshots)

	// Act
	saved, err := save.Handle(context.Background(), &processingCommands.SaveUnitCommand{})
	require.NoError(t, err)
	f.tick(t, 50)
	loaded, err := load.Handle(context.Background(), &processingCommands.LoadUnitCommand{UnitID: "furnace-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"furnace-1"}, saved.(*processingCommands.SaveUnitResponse).Saved)
	assert.Equal(t, 1, loaded.(*processingCommands.LoadUnitResponse).Processes)
	assert.Equal(t, 100, f.unit.Proc.Stack().Processes()[0].Progress())
}

func TestLoadUnit_ReplacesLiveStackAndAwaitingPickups(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, map[string]int{"ore": 2}, helpers.NewSimpleDefinition("smelt", 100, "ore", 2))
	started := f.start(t, "smelt")
	f.tick(t, 100)
	require.Equal(t, []string{started.ProcessID}, f.pickups.Awaiting("furnace-1"))
	f.snapshots.Snapshots["furnace-1"] = &processing.Snapshot{UnitID: "furnace-1"}
	load := processingCommands.NewLoadUnitHandler(f.units, f.snapshots)

	// Act
	_, err := load.Handle(context.Background(), &processingCommands.LoadUnitCommand{UnitID: "furnace-1"})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, f.pickups.Awaiting("furnace-1"))
	assert.Equal(t, 0, f.pickups.Count())
	assert.Equal(t, 0, f.unit.Proc.Stack().Len())
	assert.Equal(t, 2, f.unit.Unit.Inv.Count("ore"))
}

func TestLoadUnit_MissingSnapshotIsNotFound(t *testing.T) {
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 200, "", 0))
	load := processingCommands.NewLoadUnitHandler(f.units, f.snapshots)

	_, err := load.Handle(context.Background(), &processingCommands.LoadUnitCommand{UnitID: "furnace-1"})

	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSaveUnit_PropagatesRepositoryError(t *testing.T) {
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 200, "", 0))
	f.snapshots.SaveErr = assert.AnError
	save := processingCommands.NewSaveUnitHandler(f.units, f.snapshots)

	_, err := save.Handle(context.Background(), &processingCommands.SaveUnitCommand{UnitID: "furnace-1"})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestDespawnUnit_DropsEverything(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 100, "", 0))
	f.start(t, "smelt")
	f.tick(t, 100)
	require.Equal(t, 1, f.pickups.Count())
	f.snapshots.Snapshots["furnace-1"] = f.unit.Proc.Snapshot()
	handler := processingCommands.NewDespawnUnitHandler(f.units, f.snapshots, f.events, f.clock)

	// Act
	resp, err := handler.Handle(context.Background(), &processingCommands.DespawnUnitCommand{UnitID: "furnace-1", DeleteSnapshot: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, resp.(*processingCommands.DespawnUnitResponse).Discarded)
	assert.Equal(t, 0, f.units.Len())
	assert.Equal(t, 0, f.pickups.Count())
	assert.Empty(t, f.snapshots.Snapshots)
	assert.Contains(t, f.events.Types(), appProcessing.EventUnitDespawned)
}

func TestRefillUnit_PullsNewInventory(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 100, "ore", 2))
	f.start(t, "smelt")
	f.unit.Unit.Inv.Add("ore", 5)
	handler := processingCommands.NewRefillUnitHandler(f.units)

	// Act
	resp, err := handler.Handle(context.Background(), &processingCommands.RefillUnitCommand{UnitID: "furnace-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, resp.(*processingCommands.RefillUnitResponse).Pulled)
	assert.Equal(t, 3, f.unit.Unit.Inv.Count("ore"))
}

func TestFinishProcess(t *testing.T) {
	// Arrange
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 1000, "", 0))
	f.start(t, "smelt")
	handler := processingCommands.NewFinishProcessHandler(f.units)

	// Act
	_, err := handler.Handle(context.Background(), &processingCommands.FinishProcessCommand{UnitID: "furnace-1", Ticks: 10})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 990, f.unit.Proc.Stack().Processes()[0].Progress())

	_, err = handler.Handle(context.Background(), &processingCommands.FinishProcessCommand{UnitID: "furnace-1", Ticks: -1})
	assert.Error(t, err)
}

func TestSetOutputDestination(t *testing.T) {
	f := newCommandFixture(t, nil, helpers.NewSimpleDefinition("smelt", 100, "", 0))
	handler := processingCommands.NewSetOutputDestinationHandler(f.units)

	_, err := handler.Handle(context.Background(), &processingCommands.SetOutputDestinationCommand{UnitID: "furnace-1", OnGround: true})

	require.NoError(t, err)
	assert.True(t, f.unit.Proc.OutputOnGround())
}
