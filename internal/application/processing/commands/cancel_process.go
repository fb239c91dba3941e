package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// CancelProcessCommand removes a queued process from a unit
type CancelProcessCommand struct {
	UnitID    string
	ProcessID string
	Refund    bool
}

// CancelProcessResponse confirms the cancellation
type CancelProcessResponse struct {
	UnitID       string
	ProcessID    string
	DefinitionID string
	Refunded     bool
}

// CancelProcessHandler handles the CancelProcess command
type CancelProcessHandler struct {
	units     *appProcessing.UnitRegistry
	publisher appProcessing.EventPublisher
	clock     shared.Clock
}

// NewCancelProcessHandler creates a new CancelProcessHandler
func NewCancelProcessHandler(
	units *appProcessing.UnitRegistry,
	publisher appProcessing.EventPublisher,
	clock shared.Clock,
) *CancelProcessHandler {
	if publisher == nil {
		publisher = appProcessing.NopPublisher{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CancelProcessHandler{units: units, publisher: publisher, clock: clock}
}

// Handle executes the CancelProcess command
func (h *CancelProcessHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelProcessCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelProcessCommand")
	}

	response := &CancelProcessResponse{ProcessID: cmd.ProcessID, Refunded: cmd.Refund}
	err := h.units.With(cmd.UnitID, func(p *processing.ResourceProcessor) error {
		response.UnitID = p.UnitID()
		if process, found := p.Stack().Find(cmd.ProcessID); found {
			response.DefinitionID = process.Definition().ID
		}
		return p.Cancel(cmd.ProcessID, cmd.Refund)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel process: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[Cancel] Unit %s cancelled %s (refund=%t)", response.UnitID, response.ProcessID, cmd.Refund), nil)
	publish(ctx, h.publisher, appProcessing.Event{
		Type:         appProcessing.EventProcessCancelled,
		UnitID:       response.UnitID,
		ProcessID:    response.ProcessID,
		DefinitionID: response.DefinitionID,
		Timestamp:    h.clock.Now(),
	})
	return response, nil
}
