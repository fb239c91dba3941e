package processing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/test/helpers"
)

func TestResourceProcessor_SnapshotRoundTrip(t *testing.T) {
	// Arrange
	smelt := helpers.NewSimpleDefinition("smelt", 100, "ore", 2)
	smelt.WastePerCycle = 3
	smelt.Temperature = &processing.TemperatureBand{Min: 0, Max: 10}
	glass := helpers.NewSimpleDefinition("glass", 50, "sand", 4)
	source := newProcessorFixture(t, processing.ProcessorProperties{}, smelt, glass)
	source.unit.Temperature = 40
	source.unit.Inv.Add("ore", 2)
	source.unit.Inv.Add("sand", 1)
	_, err := source.proc.Start("smelt")
	require.NoError(t, err)
	_, err = source.proc.Start("glass")
	require.NoError(t, err)
	source.proc.OnTick(60)
	source.proc.ProduceWaste(4)
	source.proc.SetOutputOnGround(true)

	snapshot := source.proc.Snapshot()

	target := newProcessorFixture(t, processing.ProcessorProperties{}, smelt, glass)

	// Act
	err = target.proc.Restore(snapshot)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, snapshot, target.proc.Snapshot())

	restored := target.proc.Stack().Processes()
	require.Len(t, restored, 2)
	assert.Equal(t, 60, restored[0].Progress())
	assert.InDelta(t, 0.024, restored[0].RuinFraction(), 1e-9)
	assert.Equal(t, 1, restored[1].Slots()[0].Filled())
	assert.True(t, target.proc.OutputOnGround())
	assert.Equal(t, 4.0, target.proc.Waste().Produced())
}

func TestResourceProcessor_RestoreRegistersFinishedProcesses(t *testing.T) {
	// Arrange
	def := helpers.NewSimpleDefinition("smelt", 100, "", 0)
	source := newProcessorFixture(t, processing.ProcessorProperties{}, def)
	p, err := source.proc.Start("smelt")
	require.NoError(t, err)
	source.proc.OnTick(100)

	target := newProcessorFixture(t, processing.ProcessorProperties{}, def)

	// Act
	err = target.proc.Restore(source.proc.Snapshot())

	// Assert
	require.NoError(t, err)
	assert.True(t, target.pickups.IsAwaiting("unit-1", p.ID()))
}

func TestResourceProcessor_RestoreRejectsBadRecords(t *testing.T) {
	def := helpers.NewSimpleDefinition("smelt", 100, "ore", 2)

	tests := []struct {
		name   string
		record processing.ProcessRecord
	}{
		{name: "unknown definition", record: processing.ProcessRecord{DefinitionID: "melt", Fills: []int{0}}},
		{name: "progress past duration", record: processing.ProcessRecord{DefinitionID: "smelt", Progress: 101, Fills: []int{0}}},
		{name: "ruin above one", record: processing.ProcessRecord{DefinitionID: "smelt", RuinFraction: 1.5, Fills: []int{0}}},
		{name: "fill count mismatch", record: processing.ProcessRecord{DefinitionID: "smelt"}},
		{name: "negative fill", record: processing.ProcessRecord{DefinitionID: "smelt", Fills: []int{-1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newProcessorFixture(t, processing.ProcessorProperties{}, def)
			f.unit.Inv.Add("ore", 2)
			_, err := f.proc.Start("smelt")
			require.NoError(t, err)

			// Act
			err = f.proc.Restore(&processing.Snapshot{
				UnitID:    "unit-1",
				Processes: []processing.ProcessRecord{tt.record},
			})

			// Assert
			assert.Error(t, err)
			assert.Equal(t, 1, f.proc.Stack().Len())
		})
	}
}

func TestResourceProcessor_RestoreRejectsForeignSnapshot(t *testing.T) {
	f := newProcessorFixture(t, processing.ProcessorProperties{}, helpers.NewSimpleDefinition("smelt", 100, "", 0))

	assert.Error(t, f.proc.Restore(&processing.Snapshot{UnitID: "unit-2"}))
	assert.Error(t, f.proc.Restore(nil))
}

func TestResourceProcessor_RestoreRefundsReplacedProcesses(t *testing.T) {
	// Arrange
	f := newProcessorFixture(t, processing.ProcessorProperties{}, helpers.NewSimpleDefinition("smelt", 100, "ore", 2))
	f.unit.Inv.Add("ore", 2)
	_, err := f.proc.Start("smelt")
	require.NoError(t, err)
	require.Equal(t, 0, f.unit.Inv.Count("ore"))

	// Act
	err = f.proc.Restore(&processing.Snapshot{UnitID: "unit-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, f.proc.Stack().Len())
	assert.Equal(t, 2, f.unit.Inv.Count("ore"))
}

func TestResourceProcessor_RestoreDropsStalePickups(t *testing.T) {
	// Arrange
	def := helpers.NewSimpleDefinition("smelt", 100, "", 0)
	f := newProcessorFixture(t, processing.ProcessorProperties{}, def)
	old, err := f.proc.Start("smelt")
	require.NoError(t, err)
	f.proc.OnTick(100)
	require.True(t, f.pickups.IsAwaiting("unit-1", old.ID()))

	// Act
	err = f.proc.Restore(&processing.Snapshot{UnitID: "unit-1"})

	// Assert
	require.NoError(t, err)
	assert.False(t, f.pickups.IsAwaiting("unit-1", old.ID()))
	_, err = f.proc.Pickup(old.ID())
	var notFound *processing.ProcessNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
