package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// SaveUnitCommand persists the state of one unit, or of every unit when UnitID is empty
type SaveUnitCommand struct {
	UnitID string
}

// SaveUnitResponse lists the saved unit IDs
type SaveUnitResponse struct {
	Saved []string
}

// SaveUnitHandler handles the SaveUnit command
type SaveUnitHandler struct {
	units     *appProcessing.UnitRegistry
	snapshots processing.SnapshotRepository
}

// NewSaveUnitHandler creates a new SaveUnitHandler
func NewSaveUnitHandler(units *appProcessing.UnitRegistry, snapshots processing.SnapshotRepository) *SaveUnitHandler {
	return &SaveUnitHandler{units: units, snapshots: snapshots}
}

// Handle executes the SaveUnit command
func (h *SaveUnitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SaveUnitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SaveUnitCommand")
	}

	ids := []string{cmd.UnitID}
	if cmd.UnitID == "" {
		ids = h.units.IDs()
	}

	response := &SaveUnitResponse{}
	for _, id := range ids {
		var snapshot *processing.Snapshot
		err := h.units.With(id, func(p *processing.ResourceProcessor) error {
			snapshot = p.Snapshot()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot unit: %w", err)
		}
		if err := h.snapshots.Save(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to save unit %s: %w", snapshot.UnitID, err)
		}
		response.Saved = append(response.Saved, snapshot.UnitID)
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[Save] Persisted %d units", len(response.Saved)), nil)
	return response, nil
}
