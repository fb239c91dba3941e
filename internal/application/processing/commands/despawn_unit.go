package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// DespawnUnitCommand removes a unit from the world.
// Every process is reset without refund and pending pickups are dropped.
type DespawnUnitCommand struct {
	UnitID string

	// DeleteSnapshot also removes the persisted state of the unit
	DeleteSnapshot bool
}

// DespawnUnitResponse reports how many processes were discarded
type DespawnUnitResponse struct {
	UnitID    string
	Discarded int
}

// DespawnUnitHandler handles the DespawnUnit command
type DespawnUnitHandler struct {
	units     *appProcessing.UnitRegistry
	snapshots processing.SnapshotRepository
	publisher appProcessing.EventPublisher
	clock     shared.Clock
}

// NewDespawnUnitHandler creates a new DespawnUnitHandler. snapshots may be nil.
func NewDespawnUnitHandler(
	units *appProcessing.UnitRegistry,
	snapshots processing.SnapshotRepository,
	publisher appProcessing.EventPublisher,
	clock shared.Clock,
) *DespawnUnitHandler {
	if publisher == nil {
		publisher = appProcessing.NopPublisher{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &DespawnUnitHandler{units: units, snapshots: snapshots, publisher: publisher, clock: clock}
}

// Handle executes the DespawnUnit command
func (h *DespawnUnitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DespawnUnitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DespawnUnitCommand")
	}

	response := &DespawnUnitResponse{}
	err := h.units.With(cmd.UnitID, func(p *processing.ResourceProcessor) error {
		response.UnitID = p.UnitID()
		response.Discarded = p.Stack().Len()
		p.Despawn()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to despawn unit: %w", err)
	}
	h.units.Remove(response.UnitID)

	if cmd.DeleteSnapshot && h.snapshots != nil {
		if err := h.snapshots.Delete(ctx, response.UnitID); err != nil {
			return nil, fmt.Errorf("failed to delete snapshot of unit %s: %w", response.UnitID, err)
		}
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[Despawn] Unit %s removed, %d processes discarded", response.UnitID, response.Discarded), nil)
	publish(ctx, h.publisher, appProcessing.Event{
		Type:      appProcessing.EventUnitDespawned,
		UnitID:    response.UnitID,
		Timestamp: h.clock.Now(),
	})
	return response, nil
}
