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

// StartProcessCommand queues a new process on a unit
type StartProcessCommand struct {
	UnitID       string
	DefinitionID string
}

// StartProcessResponse describes the queued process
type StartProcessResponse struct {
	UnitID       string
	ProcessID    string
	DefinitionID string

	// MissingIngredient is set when the inventory could not fill every required slot
	MissingIngredient string
}

// StartProcessHandler handles the StartProcess command
type StartProcessHandler struct {
	units     *appProcessing.UnitRegistry
	publisher appProcessing.EventPublisher
	clock     shared.Clock
}

// NewStartProcessHandler creates a new StartProcessHandler
func NewStartProcessHandler(
	units *appProcessing.UnitRegistry,
	publisher appProcessing.EventPublisher,
	clock shared.Clock,
) *StartProcessHandler {
	if publisher == nil {
		publisher = appProcessing.NopPublisher{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StartProcessHandler{units: units, publisher: publisher, clock: clock}
}

// Handle executes the StartProcess command
func (h *StartProcessHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartProcessCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartProcessCommand")
	}
	logger := common.LoggerFromContext(ctx)

	var response *StartProcessResponse
	err := h.units.With(cmd.UnitID, func(p *processing.ResourceProcessor) error {
		process, err := p.Start(cmd.DefinitionID)
		if err != nil {
			return err
		}
		missing, _ := process.FirstMissingIngredient()
		response = &StartProcessResponse{
			UnitID:            p.UnitID(),
			ProcessID:         process.ID(),
			DefinitionID:      process.Definition().ID,
			MissingIngredient: missing,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s on unit %s: %w", cmd.DefinitionID, cmd.UnitID, err)
	}

	logger.Log("INFO", fmt.Sprintf("[Start] Unit %s queued %s as %s", response.UnitID, response.DefinitionID, response.ProcessID), map[string]interface{}{
		"unit_id":            response.UnitID,
		"process_id":         response.ProcessID,
		"definition_id":      response.DefinitionID,
		"missing_ingredient": response.MissingIngredient,
	})
	metrics.RecordProcessStarted(response.DefinitionID)

	publish(ctx, h.publisher, appProcessing.Event{
		Type:         appProcessing.EventProcessStarted,
		UnitID:       response.UnitID,
		ProcessID:    response.ProcessID,
		DefinitionID: response.DefinitionID,
		Timestamp:    h.clock.Now(),
	})
	return response, nil
}

// publish sends an event and logs delivery failures; events never fail a command
func publish(ctx context.Context, publisher appProcessing.EventPublisher, event appProcessing.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		common.LoggerFromContext(ctx).Log("WARNING", fmt.Sprintf("Failed to publish %s for unit %s: %v", event.Type, event.UnitID, err), nil)
	}
}
