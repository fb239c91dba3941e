package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// SetOutputDestinationCommand switches where picked-up results are placed
type SetOutputDestinationCommand struct {
	UnitID   string
	OnGround bool
}

// SetOutputDestinationHandler handles the SetOutputDestination command
type SetOutputDestinationHandler struct {
	units *appProcessing.UnitRegistry
}

// NewSetOutputDestinationHandler creates a new SetOutputDestinationHandler
func NewSetOutputDestinationHandler(units *appProcessing.UnitRegistry) *SetOutputDestinationHandler {
	return &SetOutputDestinationHandler{units: units}
}

// Handle executes the SetOutputDestination command
func (h *SetOutputDestinationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetOutputDestinationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetOutputDestinationCommand")
	}
	err := h.units.With(cmd.UnitID, func(p *processing.ResourceProcessor) error {
		p.SetOutputOnGround(cmd.OnGround)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set output destination: %w", err)
	}
	return cmd, nil
}

// RefillUnitCommand retries ingredient pulls after the unit's inventory changed
type RefillUnitCommand struct {
	UnitID string
}

// RefillUnitResponse reports how many units of ingredients were pulled
type RefillUnitResponse struct {
	UnitID string
	Pulled int
}

// RefillUnitHandler handles the RefillUnit command
type RefillUnitHandler struct {
	units *appProcessing.UnitRegistry
}

// NewRefillUnitHandler creates a new RefillUnitHandler
func NewRefillUnitHandler(units *appProcessing.UnitRegistry) *RefillUnitHandler {
	return &RefillUnitHandler{units: units}
}

// Handle executes the RefillUnit command
func (h *RefillUnitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RefillUnitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RefillUnitCommand")
	}
	response := &RefillUnitResponse{}
	err := h.units.With(cmd.UnitID, func(p *processing.ResourceProcessor) error {
		response.UnitID = p.UnitID()
		response.Pulled = p.OnInventoryChanged()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refill unit: %w", err)
	}
	if response.Pulled > 0 {
		common.LoggerFromContext(ctx).Log("DEBUG", fmt.Sprintf("[Refill] Unit %s pulled %d ingredients", response.UnitID, response.Pulled), nil)
	}
	return response, nil
}

// FinishProcessCommand is a developer shortcut: the current process of a unit jumps to
// Ticks remaining, ignoring gating
type FinishProcessCommand struct {
	UnitID string
	Ticks  int
}

// FinishProcessHandler handles the FinishProcess command
type FinishProcessHandler struct {
	units *appProcessing.UnitRegistry
}

// NewFinishProcessHandler creates a new FinishProcessHandler
func NewFinishProcessHandler(units *appProcessing.UnitRegistry) *FinishProcessHandler {
	return &FinishProcessHandler{units: units}
}

// Handle executes the FinishProcess command
func (h *FinishProcessHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*FinishProcessCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FinishProcessCommand")
	}
	if cmd.Ticks < 0 {
		return nil, fmt.Errorf("ticks must not be negative: %d", cmd.Ticks)
	}
	err := h.units.With(cmd.UnitID, func(p *processing.ResourceProcessor) error {
		if !p.FinishIn(cmd.Ticks) {
			return fmt.Errorf("unit %s has no current process", p.UnitID())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finish process: %w", err)
	}
	common.LoggerFromContext(ctx).Log("DEBUG", fmt.Sprintf("[Finish] Unit %s current process set to finish in %d ticks", cmd.UnitID, cmd.Ticks), nil)
	return cmd, nil
}
