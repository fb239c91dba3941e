package setup

import (
	"reflect"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
	processingQueries "github.com/andrescamacho/processor-go/internal/application/processing/queries"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	units       *appProcessing.UnitRegistry
	pickups     *appProcessing.PickupRegistry
	snapshots   processing.SnapshotRepository
	publisher   appProcessing.EventPublisher
	broadcaster appProcessing.StatusBroadcaster
	clock       shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// snapshots, publisher and broadcaster may be nil.
func NewHandlerRegistry(
	units *appProcessing.UnitRegistry,
	pickups *appProcessing.PickupRegistry,
	snapshots processing.SnapshotRepository,
	publisher appProcessing.EventPublisher,
	broadcaster appProcessing.StatusBroadcaster,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		units:       units,
		pickups:     pickups,
		snapshots:   snapshots,
		publisher:   publisher,
		broadcaster: broadcaster,
		clock:       clock,
	}
}

// RegisterProcessingHandlers registers every processing command and query handler.
// Save and load are only registered when a snapshot repository is configured.
func (r *HandlerRegistry) RegisterProcessingHandlers(m common.Mediator) error {
	handlers := map[reflect.Type]common.RequestHandler{
		reflect.TypeOf(&processingCommands.StartProcessCommand{}):          processingCommands.NewStartProcessHandler(r.units, r.publisher, r.clock),
		reflect.TypeOf(&processingCommands.TickUnitsCommand{}):             processingCommands.NewTickUnitsHandler(r.units, r.publisher, r.broadcaster, r.clock),
		reflect.TypeOf(&processingCommands.CancelProcessCommand{}):         processingCommands.NewCancelProcessHandler(r.units, r.publisher, r.clock),
		reflect.TypeOf(&processingCommands.PickupProcessCommand{}):         processingCommands.NewPickupProcessHandler(r.units, r.publisher, r.clock),
		reflect.TypeOf(&processingCommands.DespawnUnitCommand{}):           processingCommands.NewDespawnUnitHandler(r.units, r.snapshots, r.publisher, r.clock),
		reflect.TypeOf(&processingCommands.SetOutputDestinationCommand{}):  processingCommands.NewSetOutputDestinationHandler(r.units),
		reflect.TypeOf(&processingCommands.RefillUnitCommand{}):            processingCommands.NewRefillUnitHandler(r.units),
		reflect.TypeOf(&processingCommands.FinishProcessCommand{}):         processingCommands.NewFinishProcessHandler(r.units),
		reflect.TypeOf(&processingQueries.InspectUnitQuery{}):              processingQueries.NewInspectUnitHandler(r.units, r.pickups),
		reflect.TypeOf(&processingQueries.ListAvailableDefinitionsQuery{}): processingQueries.NewListAvailableDefinitionsHandler(r.units),
	}
	if r.snapshots != nil {
		handlers[reflect.TypeOf(&processingCommands.SaveUnitCommand{})] = processingCommands.NewSaveUnitHandler(r.units, r.snapshots)
		handlers[reflect.TypeOf(&processingCommands.LoadUnitCommand{})] = processingCommands.NewLoadUnitHandler(r.units, r.snapshots)
	}

	for requestType, handler := range handlers {
		if err := m.Register(requestType, handler); err != nil {
			return err
		}
	}
	return nil
}
