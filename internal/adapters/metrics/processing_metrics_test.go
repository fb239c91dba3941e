package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/application/common"
)

type tickUnitsCommand struct{}

func TestProcessingMetricsCollector_RecordsEvents(t *testing.T) {
	// Arrange
	collector := NewProcessingMetricsCollector(nil)
	SetGlobalProcessingCollector(collector)
	t.Cleanup(func() { SetGlobalProcessingCollector(nil) })

	// Act
	RecordProcessStarted("smelt")
	RecordTick("normal", "WORKING", 100, 50)
	RecordTick("normal", "IDLE", 0, 0)
	RecordCompletion("smelt")
	RecordRuin("cook")
	RecordWasteEmission()
	RecordPickup("smelt")

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.processesStarted.WithLabelValues("smelt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.evaluationsTotal.WithLabelValues("normal", "WORKING")))
	assert.Equal(t, 100.0, testutil.ToFloat64(collector.ticksAdvanced.WithLabelValues("normal")))
	assert.Equal(t, 50.0, testutil.ToFloat64(collector.heatPushedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.completionsTotal.WithLabelValues("smelt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ruinsTotal.WithLabelValues("cook")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.wasteEmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.pickupsTotal.WithLabelValues("smelt")))
}

func TestRecordFunctions_NoCollectorIsNoOp(t *testing.T) {
	SetGlobalProcessingCollector(nil)

	assert.NotPanics(t, func() {
		RecordProcessStarted("smelt")
		RecordTick("rare", "IDLE", 0, 0)
		RecordWasteEmission()
	})
}

func TestProcessingMetricsCollector_UpdateUnitMetrics(t *testing.T) {
	// Arrange
	stats := UnitStats{ByStatus: map[string]int{"WORKING": 2, "IDLE": 1}, Queued: 5, AwaitingPickup: 1}
	collector := NewProcessingMetricsCollector(func() UnitStats { return stats })

	// Act
	collector.UpdateUnitMetrics()
	stats = UnitStats{ByStatus: map[string]int{"IDLE": 3}}
	collector.UpdateUnitMetrics()

	// Assert
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.unitsByStatus.WithLabelValues("IDLE")))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.unitsByStatus))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.queuedProcesses))
}

func TestProcessingMetricsCollector_StartStop(t *testing.T) {
	calls := 0
	collector := NewProcessingMetricsCollector(func() UnitStats {
		calls++
		return UnitStats{Queued: 7}
	})

	collector.Start(context.Background(), 1e9)
	collector.Stop()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 7.0, testutil.ToFloat64(collector.queuedProcesses))
}

func TestRegister_WithRegistry(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() { Registry = nil })

	require.NoError(t, NewProcessingMetricsCollector(nil).Register())
	require.NoError(t, NewCommandMetricsCollector().Register())

	assert.True(t, IsEnabled())
	assert.Error(t, NewCommandMetricsCollector().Register())
}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	// Arrange
	collector := NewCommandMetricsCollector()
	middleware := PrometheusMiddleware(collector)
	failing := func(ctx context.Context, request common.Request) (common.Response, error) {
		return nil, errors.New("boom")
	}
	succeeding := func(ctx context.Context, request common.Request) (common.Response, error) {
		return "ok", nil
	}

	// Act
	_, err := middleware(context.Background(), &tickUnitsCommand{}, failing)
	resp, okErr := middleware(context.Background(), &tickUnitsCommand{}, succeeding)

	// Assert
	assert.Error(t, err)
	require.NoError(t, okErr)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("tickUnitsCommand", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("tickUnitsCommand", "success")))
}

func TestExtractRequestName(t *testing.T) {
	assert.Equal(t, "UnknownRequest", extractRequestName(nil))
	assert.Equal(t, "Registry", extractRequestName(&prometheus.Registry{}))
}
