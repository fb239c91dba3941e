package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/adapters/definitions"
	"github.com/andrescamacho/processor-go/internal/adapters/host"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/test/helpers"
)

const furnaceWorld = `
definitions:
  - id: iron_plate
    duration_ticks: 100
    waste_per_cycle: 5
    ingredients:
      - {resource: iron_ore, quantity: 2, require: true}
    results:
      - {resource: iron_plate, quantity: 1}
units:
  - id: furnace-1
    inventory: {iron_ore: 2}
    waste_container: {stack_limit: 5, capacity: 1}
    signals: {power: false}
    properties:
      heat_push_while_working: true
      heat_per_tick: 1
    queue: [iron_plate, iron_plate]
`

func newSandbox(t *testing.T, yaml string) *host.Sandbox {
	t.Helper()
	world, err := definitions.ParseWorldYAML([]byte(yaml))
	require.NoError(t, err)
	sandbox, err := host.NewSandbox(world, host.SandboxOptions{
		AmbientTemperature: 20,
		WasteEnabled:       true,
		Pickups:            helpers.NewFakePickupRegistry(),
		DegreesPerHeat:     0.1,
		CoolingPerStep:     50,
	})
	require.NoError(t, err)
	return sandbox
}

func TestNewSandbox_SpawnsQueuedProcesses(t *testing.T) {
	// Act
	sandbox := newSandbox(t, furnaceWorld)

	// Assert
	furnace, ok := sandbox.Unit("furnace-1")
	require.True(t, ok)
	assert.Equal(t, 2, furnace.Processor.Stack().Len())
	assert.Equal(t, 0, furnace.Inventory.Count("iron_ore"))
	assert.Nil(t, furnace.Fuel)
	assert.Equal(t, processing.ProcessorStatusIdle, furnace.Processor.Status())
}

func TestSandbox_PowerGatesWork(t *testing.T) {
	// Arrange
	sandbox := newSandbox(t, furnaceWorld)
	furnace, _ := sandbox.Unit("furnace-1")

	// Act
	idle := furnace.Processor.OnTick(100)
	furnace.Power.Set(true)
	working := furnace.Processor.OnTick(100)

	// Assert
	assert.Equal(t, processing.ProcessorStatusIdle, idle.Status)
	assert.Equal(t, processing.ProcessorStatusWorking, working.Status)
	assert.True(t, working.Completed)
	assert.True(t, working.WasteEmitted)
	assert.Equal(t, 100.0, sandbox.Room.TotalHeat())
	assert.InDelta(t, 30.0, sandbox.Room.Temperature(), 1e-9)
}

func TestSandbox_SettleMovesWasteAndCools(t *testing.T) {
	// Arrange
	sandbox := newSandbox(t, furnaceWorld)
	furnace, _ := sandbox.Unit("furnace-1")
	furnace.Power.Set(true)
	furnace.Processor.OnTick(100)

	// Act
	sandbox.Settle()

	// Assert
	stored, intake := furnace.Bin.Packs()
	assert.Equal(t, 1, stored)
	assert.False(t, intake)
	assert.InDelta(t, 25.0, sandbox.Room.Temperature(), 1e-9)
}

func TestSandbox_Restock(t *testing.T) {
	// Arrange
	sandbox := newSandbox(t, furnaceWorld)

	// Act
	pulled, err := sandbox.Restock("furnace-1", map[string]int{"iron_ore": 5})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, pulled)
	furnace, _ := sandbox.Unit("furnace-1")
	assert.Equal(t, 3, furnace.Inventory.Count("iron_ore"))

	_, err = sandbox.Restock("ghost", nil)
	assert.Error(t, err)
}

func TestSandbox_ResearchGatesStart(t *testing.T) {
	world := `
definitions:
  - id: steel
    duration_ticks: 10
    research_prerequisites: [metallurgy]
    results: [{resource: steel, quantity: 1}]
units:
  - id: forge
`
	sandbox := newSandbox(t, world)
	forge, _ := sandbox.Unit("forge")

	_, err := forge.Processor.Start("steel")
	var locked *processing.DefinitionLockedError
	require.ErrorAs(t, err, &locked)

	sandbox.Research.Finish("metallurgy")
	_, err = forge.Processor.Start("steel")
	assert.NoError(t, err)
}
