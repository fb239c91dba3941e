package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// LoadUnitCommand restores a registered unit from its persisted snapshot
type LoadUnitCommand struct {
	UnitID string
}

// LoadUnitResponse reports how many processes were restored
type LoadUnitResponse struct {
	UnitID    string
	Processes int
}

// LoadUnitHandler handles the LoadUnit command
type LoadUnitHandler struct {
	units     *appProcessing.UnitRegistry
	snapshots processing.SnapshotRepository
}

// NewLoadUnitHandler creates a new LoadUnitHandler
func NewLoadUnitHandler(units *appProcessing.UnitRegistry, snapshots processing.SnapshotRepository) *LoadUnitHandler {
	return &LoadUnitHandler{units: units, snapshots: snapshots}
}

// Handle executes the LoadUnit command
func (h *LoadUnitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*LoadUnitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LoadUnitCommand")
	}

	entry, err := h.units.Resolve(cmd.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}
	snapshot, err := h.snapshots.FindByUnitID(ctx, entry.UnitID())
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot of unit %s: %w", entry.UnitID(), err)
	}

	err = h.units.With(entry.UnitID(), func(p *processing.ResourceProcessor) error {
		return p.Restore(snapshot)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore unit %s: %w", entry.UnitID(), err)
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[Load] Unit %s restored with %d processes", entry.UnitID(), len(snapshot.Processes)), nil)
	return &LoadUnitResponse{UnitID: entry.UnitID(), Processes: len(snapshot.Processes)}, nil
}
