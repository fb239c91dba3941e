package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/adapters/persistence"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
	"github.com/andrescamacho/processor-go/test/helpers"
)

func newTestSnapshot(unitID string) *processing.Snapshot {
	return &processing.Snapshot{
		UnitID:         unitID,
		OutputOnGround: true,
		WasteProduced:  3.5,
		Processes: []processing.ProcessRecord{
			{ID: "p-1", DefinitionID: "smelt", Progress: 40, RuinFraction: 0.1, Fills: []int{2}},
			{ID: "p-2", DefinitionID: "glass", Progress: 0, Fills: []int{1, 0}},
		},
	}
}

func TestSnapshotRepository_SaveAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)
	snapshot := newTestSnapshot("furnace-1")

	// Act
	err := repo.Save(context.Background(), snapshot)
	require.NoError(t, err)
	found, err := repo.FindByUnitID(context.Background(), "furnace-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, snapshot, found)
}

func TestSnapshotRepository_SaveReplacesExisting(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)
	require.NoError(t, repo.Save(context.Background(), newTestSnapshot("furnace-1")))

	updated := &processing.Snapshot{UnitID: "furnace-1", WasteProduced: 9}

	// Act
	err := repo.Save(context.Background(), updated)
	require.NoError(t, err)
	found, err := repo.FindByUnitID(context.Background(), "furnace-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9.0, found.WasteProduced)
	assert.False(t, found.OutputOnGround)
	assert.Empty(t, found.Processes)

	ids, err := repo.ListUnitIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"furnace-1"}, ids)
}

func TestSnapshotRepository_FindMissing(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)

	_, err := repo.FindByUnitID(context.Background(), "ghost")

	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.ID)
}

func TestSnapshotRepository_Delete(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)
	require.NoError(t, repo.Save(context.Background(), newTestSnapshot("furnace-1")))
	require.NoError(t, repo.Save(context.Background(), newTestSnapshot("furnace-2")))

	// Act
	err := repo.Delete(context.Background(), "furnace-1")

	// Assert
	require.NoError(t, err)
	ids, err := repo.ListUnitIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"furnace-2"}, ids)

	assert.NoError(t, repo.Delete(context.Background(), "furnace-1"))
}

func TestSnapshotRepository_RejectsMissingUnitID(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db, nil)

	err := repo.Save(context.Background(), &processing.Snapshot{})

	assert.Error(t, err)
}
