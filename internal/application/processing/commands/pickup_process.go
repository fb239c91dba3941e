package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/adapters/metrics"
	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// PickupProcessCommand collects the results of a finished process
type PickupProcessCommand struct {
	UnitID    string
	ProcessID string
}

// PickupProcessResponse lists what was placed and where
type PickupProcessResponse struct {
	UnitID       string
	ProcessID    string
	DefinitionID string
	Results      []processing.ResultSpec
	OnGround     bool
}

// PickupProcessHandler handles the PickupProcess command
type PickupProcessHandler struct {
	units     *appProcessing.UnitRegistry
	publisher appProcessing.EventPublisher
	clock     shared.Clock
}

// NewPickupProcessHandler creates a new PickupProcessHandler
func NewPickupProcessHandler(
	units *appProcessing.UnitRegistry,
	publisher appProcessing.EventPublisher,
	clock shared.Clock,
) *PickupProcessHandler {
	if publisher == nil {
		publisher = appProcessing.NopPublisher{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &PickupProcessHandler{units: units, publisher: publisher, clock: clock}
}

// Handle executes the PickupProcess command
func (h *PickupProcessHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PickupProcessCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PickupProcessCommand")
	}

	response := &PickupProcessResponse{ProcessID: cmd.ProcessID}
	err := h.units.With(cmd.UnitID, func(p *processing.ResourceProcessor) error {
		response.UnitID = p.UnitID()
		response.OnGround = p.OutputOnGround()
		if process, found := p.Stack().Find(cmd.ProcessID); found {
			response.DefinitionID = process.Definition().ID
		}
		results, err := p.Pickup(cmd.ProcessID)
		response.Results = results
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pick up process: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[Pickup] Unit %s delivered %s", response.UnitID, response.DefinitionID), map[string]interface{}{
		"unit_id":    response.UnitID,
		"process_id": response.ProcessID,
		"on_ground":  response.OnGround,
	})
	metrics.RecordPickup(response.DefinitionID)
	publish(ctx, h.publisher, appProcessing.Event{
		Type:         appProcessing.EventProcessPickedUp,
		UnitID:       response.UnitID,
		ProcessID:    response.ProcessID,
		DefinitionID: response.DefinitionID,
		Timestamp:    h.clock.Now(),
	})
	return response, nil
}
