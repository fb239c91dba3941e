package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UnitStats is a point-in-time view of the simulated units
type UnitStats struct {
	// ByStatus counts units per processor status
	ByStatus map[string]int
	// Queued is the total number of processes across all stacks
	Queued int
	// AwaitingPickup is the number of finished processes not yet collected
	AwaitingPickup int
}

// ProcessingMetricsCollector handles all processing metrics
type ProcessingMetricsCollector struct {
	// Dependencies
	getStats func() UnitStats

	// Event metrics
	processesStarted *prometheus.CounterVec
	completionsTotal *prometheus.CounterVec
	ruinsTotal       *prometheus.CounterVec
	pickupsTotal     *prometheus.CounterVec
	wasteEmitted     prometheus.Counter
	evaluationsTotal *prometheus.CounterVec
	ticksAdvanced    *prometheus.CounterVec
	heatPushedTotal  prometheus.Counter

	// Polled gauges
	unitsByStatus   *prometheus.GaugeVec
	queuedProcesses prometheus.Gauge
	awaitingPickup  prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewProcessingMetricsCollector creates a new processing metrics collector.
// getStats may be nil, in which case gauges are never updated.
func NewProcessingMetricsCollector(getStats func() UnitStats) *ProcessingMetricsCollector {
	return &ProcessingMetricsCollector{
		getStats: getStats,

		processesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "processes_started_total",
				Help:      "Total number of processes added to a stack by definition",
			},
			[]string{"definition"},
		),

		completionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "process_completions_total",
				Help:      "Total number of processes that reached their duration",
			},
			[]string{"definition"},
		),

		ruinsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "process_ruins_total",
				Help:      "Total number of processes ruined by temperature",
			},
			[]string{"definition"},
		),

		pickupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "process_pickups_total",
				Help:      "Total number of finished processes collected",
			},
			[]string{"definition"},
		),

		wasteEmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "wastepacks_emitted_total",
				Help:      "Total number of wastepacks handed to containers",
			},
		),

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unit_evaluations_total",
				Help:      "Total number of unit evaluations by cadence and resulting status",
			},
			[]string{"cadence", "status"},
		),

		ticksAdvanced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_advanced_total",
				Help:      "Total progress ticks applied to processes by cadence",
			},
			[]string{"cadence"},
		),

		heatPushedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "heat_pushed_total",
				Help:      "Total heat pushed into the environment by working units",
			},
		),

		unitsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units",
				Help:      "Number of units by processor status",
			},
			[]string{"status"},
		),

		queuedProcesses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queued_processes",
				Help:      "Number of processes across all stacks",
			},
		),

		awaitingPickup: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "awaiting_pickup",
				Help:      "Number of finished processes waiting to be collected",
			},
		),
	}
}

// Register registers all processing metrics with the Prometheus registry
func (c *ProcessingMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.processesStarted,
		c.completionsTotal,
		c.ruinsTotal,
		c.pickupsTotal,
		c.wasteEmitted,
		c.evaluationsTotal,
		c.ticksAdvanced,
		c.heatPushedTotal,
		c.unitsByStatus,
		c.queuedProcesses,
		c.awaitingPickup,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling unit stats at the given interval
func (c *ProcessingMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.collectUnitMetrics(interval)
}

// Stop gracefully stops the metrics collection
func (c *ProcessingMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *ProcessingMetricsCollector) collectUnitMetrics(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			c.UpdateUnitMetrics()
			return
		case <-ticker.C:
			c.UpdateUnitMetrics()
		}
	}
}

// UpdateUnitMetrics reads current unit stats and refreshes the gauges
func (c *ProcessingMetricsCollector) UpdateUnitMetrics() {
	if c.getStats == nil {
		return
	}

	stats := c.getStats()

	// Reset to drop statuses no unit holds anymore
	c.unitsByStatus.Reset()
	for status, count := range stats.ByStatus {
		c.unitsByStatus.WithLabelValues(status).Set(float64(count))
	}
	c.queuedProcesses.Set(float64(stats.Queued))
	c.awaitingPickup.Set(float64(stats.AwaitingPickup))
}

func (c *ProcessingMetricsCollector) RecordProcessStarted(definitionID string) {
	c.processesStarted.WithLabelValues(definitionID).Inc()
}

func (c *ProcessingMetricsCollector) RecordTick(cadence, status string, advanced int, heat float64) {
	c.evaluationsTotal.WithLabelValues(cadence, status).Inc()
	if advanced > 0 {
		c.ticksAdvanced.WithLabelValues(cadence).Add(float64(advanced))
	}
	if heat > 0 {
		c.heatPushedTotal.Add(heat)
	}
}

func (c *ProcessingMetricsCollector) RecordCompletion(definitionID string) {
	c.completionsTotal.WithLabelValues(definitionID).Inc()
}

func (c *ProcessingMetricsCollector) RecordRuin(definitionID string) {
	c.ruinsTotal.WithLabelValues(definitionID).Inc()
}

func (c *ProcessingMetricsCollector) RecordWasteEmission() {
	c.wasteEmitted.Inc()
}

func (c *ProcessingMetricsCollector) RecordPickup(definitionID string) {
	c.pickupsTotal.WithLabelValues(definitionID).Inc()
}
