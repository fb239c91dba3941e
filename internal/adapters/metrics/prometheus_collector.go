package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "processor"
	// Subsystem for simulation metrics
	subsystem = "sim"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalProcessingCollector is the singleton processing metrics collector
	// Set by SetGlobalProcessingCollector() when metrics are enabled
	globalProcessingCollector ProcessingMetricsRecorder
)

// ProcessingMetricsRecorder defines the interface for recording processing events.
// Command handlers record through the package-level functions below.
type ProcessingMetricsRecorder interface {
	RecordProcessStarted(definitionID string)
	RecordTick(cadence, status string, advanced int, heat float64)
	RecordCompletion(definitionID string)
	RecordRuin(definitionID string)
	RecordWasteEmission()
	RecordPickup(definitionID string)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalProcessingCollector sets the global processing metrics collector
func SetGlobalProcessingCollector(collector ProcessingMetricsRecorder) {
	globalProcessingCollector = collector
}

// RecordProcessStarted records a process added to a unit's stack
func RecordProcessStarted(definitionID string) {
	if globalProcessingCollector != nil {
		globalProcessingCollector.RecordProcessStarted(definitionID)
	}
}

// RecordTick records the outcome of one unit evaluation
func RecordTick(cadence, status string, advanced int, heat float64) {
	if globalProcessingCollector != nil {
		globalProcessingCollector.RecordTick(cadence, status, advanced, heat)
	}
}

// RecordCompletion records a process reaching its duration
func RecordCompletion(definitionID string) {
	if globalProcessingCollector != nil {
		globalProcessingCollector.RecordCompletion(definitionID)
	}
}

// RecordRuin records a process becoming ruined
func RecordRuin(definitionID string) {
	if globalProcessingCollector != nil {
		globalProcessingCollector.RecordRuin(definitionID)
	}
}

// RecordWasteEmission records a wastepack handed to a container
func RecordWasteEmission() {
	if globalProcessingCollector != nil {
		globalProcessingCollector.RecordWasteEmission()
	}
}

// RecordPickup records results collected from a finished process
func RecordPickup(definitionID string) {
	if globalProcessingCollector != nil {
		globalProcessingCollector.RecordPickup(definitionID)
	}
}
