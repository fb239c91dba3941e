package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/adapters/persistence"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
	"github.com/andrescamacho/processor-go/test/helpers"
)

func TestRunLogRepository_LogAndGet(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormRunLogRepository(db, clock)

	// Act
	require.NoError(t, repo.Log(context.Background(), "run-1", "started", "INFO", map[string]interface{}{"units": 2}))
	clock.Advance(time.Second)
	require.NoError(t, repo.Log(context.Background(), "run-1", "ruined", "WARNING", nil))
	require.NoError(t, repo.Log(context.Background(), "run-2", "other run", "INFO", nil))

	logs, err := repo.GetLogs(context.Background(), "run-1", 0, nil, nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "ruined", logs[0].Message)
	assert.Equal(t, "started", logs[1].Message)
	assert.Equal(t, float64(2), logs[1].Metadata["units"])
}

func TestRunLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormRunLogRepository(db, clock)

	// Act
	require.NoError(t, repo.Log(context.Background(), "run-1", "waste container full", "WARNING", nil))
	clock.Advance(10 * time.Second)
	require.NoError(t, repo.Log(context.Background(), "run-1", "waste container full", "WARNING", nil))
	clock.Advance(61 * time.Second)
	require.NoError(t, repo.Log(context.Background(), "run-1", "waste container full", "WARNING", nil))

	// Assert
	logs, err := repo.GetLogs(context.Background(), "run-1", 0, nil, nil)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestRunLogRepository_FiltersByLevel(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRunLogRepository(db, nil)
	require.NoError(t, repo.Log(context.Background(), "run-1", "a", "INFO", nil))
	require.NoError(t, repo.Log(context.Background(), "run-1", "b", "ERROR", nil))

	level := "ERROR"
	logs, err := repo.GetLogs(context.Background(), "run-1", 10, &level, nil)

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "b", logs[0].Message)
}

func TestRunLogger_WritesThroughRepository(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRunLogRepository(db, nil)
	logger := persistence.NewRunLogger(repo, "run-9")

	logger.Log("INFO", "[Ticker] started", nil)

	logs, err := repo.GetLogs(context.Background(), "run-9", 0, nil, nil)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "[Ticker] started", logs[0].Message)
}
