package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// InspectUnitQuery requests the presentation state of a unit
type InspectUnitQuery struct {
	UnitID string
}

// InspectUnitResponse is the inspect report plus the queue and pending pickups
type InspectUnitResponse struct {
	Report   processing.InspectReport
	Queue    []QueuedProcess
	Awaiting []string
}

// QueuedProcess summarises one process in stack order
type QueuedProcess struct {
	ProcessID    string
	DefinitionID string
	DisplayName  string
	Progress     int
	Duration     int
	RuinFraction float64
	Missing      string
}

// InspectUnitHandler handles the InspectUnit query
type InspectUnitHandler struct {
	units   *appProcessing.UnitRegistry
	pickups *appProcessing.PickupRegistry
}

// NewInspectUnitHandler creates a new InspectUnitHandler. pickups may be nil.
func NewInspectUnitHandler(units *appProcessing.UnitRegistry, pickups *appProcessing.PickupRegistry) *InspectUnitHandler {
	return &InspectUnitHandler{units: units, pickups: pickups}
}

// Handle executes the InspectUnit query
func (h *InspectUnitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*InspectUnitQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *InspectUnitQuery")
	}

	response := &InspectUnitResponse{}
	err := h.units.With(query.UnitID, func(p *processing.ResourceProcessor) error {
		response.Report = p.Inspect()
		for _, process := range p.Stack().Processes() {
			missing, _ := process.FirstMissingIngredient()
			response.Queue = append(response.Queue, QueuedProcess{
				ProcessID:    process.ID(),
				DefinitionID: process.Definition().ID,
				DisplayName:  process.Definition().DisplayName(),
				Progress:     process.Progress(),
				Duration:     process.Definition().DurationTicks,
				RuinFraction: process.RuinFraction(),
				Missing:      missing,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to inspect unit: %w", err)
	}
	if h.pickups != nil {
		response.Awaiting = h.pickups.Awaiting(response.Report.UnitID)
	}
	return response, nil
}
