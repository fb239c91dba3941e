package definitions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/adapters/definitions"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

const sampleWorld = `
research: [metallurgy]
ambient_temperature: 20
definitions:
  - id: iron_plate
    label: Iron plate
    duration_ticks: 500
    waste_per_cycle: 2
    ingredients:
      - {resource: iron_ore, quantity: 2, require: true}
    results:
      - {resource: iron_plate, quantity: 1}
    temperature: {min: -10, max: 60}
  - id: steel_beam
    duration_ticks: 2000
    research_prerequisites: [metallurgy]
    ingredients:
      - {resource: iron_plate, quantity: 4, require: true}
    results:
      - {resource: steel_beam, quantity: 1}
units:
  - id: furnace-1
    cadence: normal
    definitions: [iron_plate]
    inventory: {iron_ore: 10}
    waste_container: {stack_limit: 10, capacity: 5}
    signals: {power: true}
    properties:
      stop_when_waste_full: true
      heat_push_while_working: true
      heat_per_tick: 0.5
    queue: [iron_plate, iron_plate]
  - id: forge-1
    cadence: long
    definitions: [steel_beam]
    ambient_temperature: 35
`

func TestParseWorldYAML_Sample(t *testing.T) {
	// Act
	world, err := definitions.ParseWorldYAML([]byte(sampleWorld))

	// Assert
	require.NoError(t, err)
	require.Len(t, world.Definitions, 2)
	assert.Equal(t, "Iron plate", world.Definitions[0].DisplayName())
	assert.True(t, world.Definitions[0].Ingredients[0].Require)
	assert.Equal(t, &processing.TemperatureBand{Min: -10, Max: 60}, world.Definitions[0].Temperature)
	assert.Equal(t, []string{"metallurgy"}, world.Definitions[1].ResearchPrerequisites)

	require.Len(t, world.Units, 2)
	furnace := world.Units[0]
	assert.Equal(t, 10, furnace.Inventory["iron_ore"])
	assert.Equal(t, 10, furnace.WasteContainer.StackLimit)
	require.NotNil(t, furnace.Signals.Power)
	assert.True(t, *furnace.Signals.Power)
	assert.Nil(t, furnace.Signals.Fuel)
	assert.True(t, furnace.Properties.StopWhenWasteFull)
	assert.Equal(t, 0.5, furnace.Properties.HeatPerTick)
	assert.Equal(t, []string{"iron_plate", "iron_plate"}, furnace.Queue)
	assert.Equal(t, 35.0, *world.Units[1].AmbientTemperature)
	assert.Equal(t, []string{"forge-1", "furnace-1"}, world.UnitIDs())
}

func TestParseWorldYAML_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "empty payload",
			yaml:    "   ",
			message: "payload is empty",
		},
		{
			name:    "unknown key",
			yaml:    "definitions:\n  - id: a\n    duration: 5\n",
			message: "decode",
		},
		{
			name:    "no definitions",
			yaml:    "units: []\n",
			message: "definitions",
		},
		{
			name:    "zero duration",
			yaml:    "definitions:\n  - id: a\n    results: [{resource: x, quantity: 1}]\n",
			message: "duration_ticks",
		},
		{
			name: "bad cadence",
			yaml: "definitions:\n  - id: a\n    duration_ticks: 5\n    results: [{resource: x, quantity: 1}]\n" +
				"units:\n  - id: u\n    cadence: hourly\n",
			message: "cadence",
		},
		{
			name: "duplicate unit",
			yaml: "definitions:\n  - id: a\n    duration_ticks: 5\n    results: [{resource: x, quantity: 1}]\n" +
				"units:\n  - id: u\n  - id: u\n",
			message: "duplicate id",
		},
		{
			name: "unknown queued definition",
			yaml: "definitions:\n  - id: smelt\n    duration_ticks: 5\n    results: [{resource: x, quantity: 1}]\n" +
				"units:\n  - id: u\n    queue: [smelts]\n",
			message: "did you mean smelt",
		},
		{
			name: "waste without container",
			yaml: "definitions:\n  - id: a\n    duration_ticks: 5\n    waste_per_cycle: 1\n    results: [{resource: x, quantity: 1}]\n" +
				"units:\n  - id: u\n",
			message: "waste_container",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definitions.ParseWorldYAML([]byte(tt.yaml))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestFileSource_LoadDefinitions(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleWorld), 0o600))
	source := definitions.NewFileSource(path)

	// Act
	defs, err := source.LoadDefinitions()

	// Assert
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

func TestLoadWorldFile_Errors(t *testing.T) {
	_, err := definitions.LoadWorldFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = definitions.LoadWorldFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestWorld_UnitCatalog(t *testing.T) {
	world, err := definitions.ParseWorldYAML([]byte(sampleWorld))
	require.NoError(t, err)
	catalog, err := world.Catalog()
	require.NoError(t, err)

	subset, err := world.UnitCatalog(catalog, world.Units[0])
	require.NoError(t, err)
	all, err := world.UnitCatalog(catalog, definitions.UnitTemplate{ID: "x"})
	require.NoError(t, err)

	assert.Equal(t, 1, subset.Len())
	assert.Equal(t, 2, all.Len())
}
