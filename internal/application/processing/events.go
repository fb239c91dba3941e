package processing

import (
	"context"
	"time"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// EventType names a processing lifecycle transition
type EventType string

const (
	EventProcessStarted   EventType = "process.started"
	EventProcessCompleted EventType = "process.completed"
	EventProcessRuined    EventType = "process.ruined"
	EventProcessPickedUp  EventType = "process.picked_up"
	EventProcessCancelled EventType = "process.cancelled"
	EventWasteEmitted     EventType = "waste.emitted"
	EventUnitDespawned    EventType = "unit.despawned"
)

// Event is a lifecycle notification published to external subscribers
type Event struct {
	Type         EventType `json:"type"`
	UnitID       string    `json:"unit_id"`
	ProcessID    string    `json:"process_id,omitempty"`
	DefinitionID string    `json:"definition_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// EventPublisher delivers lifecycle events, e.g. to a message bus
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// StatusBroadcaster pushes inspect reports to live viewers
type StatusBroadcaster interface {
	Broadcast(report processing.InspectReport)
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// NopBroadcaster discards reports
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(processing.InspectReport) {}

// MultiPublisher publishes to every wrapped publisher and returns the first error
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, event Event) error {
	var first error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
