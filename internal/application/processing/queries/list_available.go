package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// ListAvailableDefinitionsQuery requests the definitions a unit may start now
type ListAvailableDefinitionsQuery struct {
	UnitID string
}

// DefinitionOption is one entry of the make-process menu
type DefinitionOption struct {
	ID          string
	DisplayName string
	Duration    int
}

// ListAvailableDefinitionsResponse lists the unlocked definitions in authored order
type ListAvailableDefinitionsResponse struct {
	UnitID  string
	Options []DefinitionOption
}

// ListAvailableDefinitionsHandler handles the ListAvailableDefinitions query
type ListAvailableDefinitionsHandler struct {
	units *appProcessing.UnitRegistry
}

// NewListAvailableDefinitionsHandler creates a new ListAvailableDefinitionsHandler
func NewListAvailableDefinitionsHandler(units *appProcessing.UnitRegistry) *ListAvailableDefinitionsHandler {
	return &ListAvailableDefinitionsHandler{units: units}
}

// Handle executes the ListAvailableDefinitions query
func (h *ListAvailableDefinitionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListAvailableDefinitionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListAvailableDefinitionsQuery")
	}

	response := &ListAvailableDefinitionsResponse{}
	err := h.units.With(query.UnitID, func(p *processing.ResourceProcessor) error {
		response.UnitID = p.UnitID()
		for _, def := range p.Available() {
			response.Options = append(response.Options, DefinitionOption{
				ID:          def.ID,
				DisplayName: def.DisplayName(),
				Duration:    def.DurationTicks,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	return response, nil
}
