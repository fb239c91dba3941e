package helpers

import (
	"context"
	"sync"

	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// RecordingPublisher captures published events and broadcast reports
type RecordingPublisher struct {
	mu      sync.Mutex
	Events  []appProcessing.Event
	Reports []processing.InspectReport
	Err     error
}

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish implements appProcessing.EventPublisher
func (r *RecordingPublisher) Publish(ctx context.Context, event appProcessing.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return r.Err
}

// Broadcast implements appProcessing.StatusBroadcaster
func (r *RecordingPublisher) Broadcast(report processing.InspectReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reports = append(r.Reports, report)
}

// Types lists the recorded event types in publish order
func (r *RecordingPublisher) Types() []appProcessing.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]appProcessing.EventType, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.Type
	}
	return types
}

var (
	_ appProcessing.EventPublisher    = (*RecordingPublisher)(nil)
	_ appProcessing.StatusBroadcaster = (*RecordingPublisher)(nil)
)
