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

// TickUnitsCommand evaluates every unit on a cadence for the given number of elapsed ticks
type TickUnitsCommand struct {
	Cadence appProcessing.Cadence
	Elapsed int
}

// UnitTickResult is the outcome of one unit evaluation
type UnitTickResult struct {
	UnitID       string
	DefinitionID string
	Outcome      processing.TickOutcome
}

// TickUnitsResponse lists the per-unit outcomes in unit ID order
type TickUnitsResponse struct {
	Results []UnitTickResult
}

// Completed counts the units whose current process finished during the tick
func (r *TickUnitsResponse) Completed() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome.Completed {
			n++
		}
	}
	return n
}

// TickUnitsHandler handles the TickUnits command
type TickUnitsHandler struct {
	units       *appProcessing.UnitRegistry
	publisher   appProcessing.EventPublisher
	broadcaster appProcessing.StatusBroadcaster
	clock       shared.Clock
}

// NewTickUnitsHandler creates a new TickUnitsHandler
func NewTickUnitsHandler(
	units *appProcessing.UnitRegistry,
	publisher appProcessing.EventPublisher,
	broadcaster appProcessing.StatusBroadcaster,
	clock shared.Clock,
) *TickUnitsHandler {
	if publisher == nil {
		publisher = appProcessing.NopPublisher{}
	}
	if broadcaster == nil {
		broadcaster = appProcessing.NopBroadcaster{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &TickUnitsHandler{
		units:       units,
		publisher:   publisher,
		broadcaster: broadcaster,
		clock:       clock,
	}
}

// Handle executes the TickUnits command
func (h *TickUnitsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*TickUnitsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TickUnitsCommand")
	}
	if cmd.Elapsed <= 0 {
		return &TickUnitsResponse{}, nil
	}

	response := &TickUnitsResponse{}
	for _, unitID := range h.units.ByCadence(cmd.Cadence) {
		var result UnitTickResult
		var report processing.InspectReport
		err := h.units.With(unitID, func(p *processing.ResourceProcessor) error {
			result = UnitTickResult{UnitID: unitID, Outcome: p.OnTick(cmd.Elapsed)}
			if result.Outcome.ProcessID != "" {
				if process, found := p.Stack().Find(result.Outcome.ProcessID); found {
					result.DefinitionID = process.Definition().ID
				}
			}
			report = p.Inspect()
			return nil
		})
		if err != nil {
			// Unit despawned between listing and ticking
			continue
		}

		h.report(ctx, cmd.Cadence, result)
		h.broadcaster.Broadcast(report)
		response.Results = append(response.Results, result)
	}
	return response, nil
}

// report logs, records metrics and publishes events for one unit outcome
func (h *TickUnitsHandler) report(ctx context.Context, cadence appProcessing.Cadence, result UnitTickResult) {
	logger := common.LoggerFromContext(ctx)
	outcome := result.Outcome
	metrics.RecordTick(string(cadence), string(outcome.Status), outcome.Advanced, outcome.HeatPushed)

	event := appProcessing.Event{
		UnitID:       result.UnitID,
		ProcessID:    outcome.ProcessID,
		DefinitionID: result.DefinitionID,
		Timestamp:    h.clock.Now(),
	}
	if outcome.Completed {
		logger.Log("INFO", fmt.Sprintf("[Tick] Unit %s finished %s", result.UnitID, result.DefinitionID), map[string]interface{}{
			"unit_id":    result.UnitID,
			"process_id": outcome.ProcessID,
		})
		metrics.RecordCompletion(result.DefinitionID)
		event.Type = appProcessing.EventProcessCompleted
		publish(ctx, h.publisher, event)
	}
	if outcome.Ruined {
		logger.Log("WARNING", fmt.Sprintf("[Tick] Unit %s ruined %s: temperature out of range", result.UnitID, result.DefinitionID), map[string]interface{}{
			"unit_id":    result.UnitID,
			"process_id": outcome.ProcessID,
		})
		metrics.RecordRuin(result.DefinitionID)
		event.Type = appProcessing.EventProcessRuined
		publish(ctx, h.publisher, event)
	}
	if outcome.WasteEmitted {
		logger.Log("INFO", fmt.Sprintf("[Tick] Unit %s emitted waste", result.UnitID), nil)
		metrics.RecordWasteEmission()
		event.Type = appProcessing.EventWasteEmitted
		publish(ctx, h.publisher, event)
	}
}
