package steps

import (
	"context"
	"fmt"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
	"github.com/andrescamacho/processor-go/internal/application/setup"
	"github.com/andrescamacho/processor-go/internal/application/simulation"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/test/helpers"
	"github.com/cucumber/godog"
)

// tickerUnit remembers how a unit was built so the world can be rebuilt from snapshots
type tickerUnit struct {
	cadence appProcessing.Cadence
	def     *processing.ProcessDefinition
}

// tickerContext holds state for world ticker scenarios
type tickerContext struct {
	ctx       context.Context
	templates map[string]tickerUnit
	order     []string
	units     *appProcessing.UnitRegistry
	pickups   *appProcessing.PickupRegistry
	snapshots *helpers.MockSnapshotRepository
	events    *helpers.RecordingPublisher
	mediator  common.Mediator
	summary   *simulation.Summary
}

func (tc *tickerContext) reset() error {
	tc.ctx = context.Background()
	tc.templates = make(map[string]tickerUnit)
	tc.order = nil
	tc.snapshots = helpers.NewMockSnapshotRepository()
	tc.events = helpers.NewRecordingPublisher()
	tc.summary = nil
	return tc.rebuildRegistries()
}

// rebuildRegistries wires a fresh mediator over empty registries, keeping the snapshot store
func (tc *tickerContext) rebuildRegistries() error {
	tc.units = appProcessing.NewUnitRegistry()
	tc.pickups = appProcessing.NewPickupRegistry()
	tc.mediator = common.NewMediator()
	registry := setup.NewHandlerRegistry(tc.units, tc.pickups, tc.snapshots, tc.events, tc.events, nil)
	return registry.RegisterProcessingHandlers(tc.mediator)
}

func (tc *tickerContext) spawn(unitID string, template tickerUnit) error {
	catalog, err := processing.NewCatalog(template.def)
	if err != nil {
		return err
	}
	proc, err := processing.NewResourceProcessor(processing.ProcessorOptions{
		UnitID:  unitID,
		Unit:    helpers.NewFakeUnit(20, nil),
		Catalog: catalog,
		Pickups: tc.pickups,
		Output:  &helpers.FakeOutputSink{},
	})
	if err != nil {
		return err
	}
	return tc.units.Register(proc, template.cadence)
}

// ============================================================================
// Given Steps
// ============================================================================

func (tc *tickerContext) aUnitQueuedWithLasting(cadence, unitID, definitionID string, ticks int) error {
	parsed, err := appProcessing.ParseCadence(cadence)
	if err != nil {
		return err
	}
	template := tickerUnit{cadence: parsed, def: helpers.NewSimpleDefinition(definitionID, ticks, "", 0)}
	if err := tc.spawn(unitID, template); err != nil {
		return err
	}
	tc.templates[unitID] = template
	tc.order = append(tc.order, unitID)

	_, err = tc.mediator.Send(tc.ctx, &processingCommands.StartProcessCommand{
		UnitID:       unitID,
		DefinitionID: definitionID,
	})
	return err
}

// ============================================================================
// When Steps
// ============================================================================

func (tc *tickerContext) theWorldRunsForTicks(ticks int) error {
	ticker, err := simulation.NewTicker(tc.mediator, simulation.Options{})
	if err != nil {
		return err
	}
	tc.summary, err = ticker.Run(tc.ctx, ticks)
	return err
}

func (tc *tickerContext) everyAwaitingProcessIsPickedUp() error {
	for _, unitID := range tc.order {
		for _, processID := range tc.pickups.Awaiting(unitID) {
			_, err := tc.mediator.Send(tc.ctx, &processingCommands.PickupProcessCommand{
				UnitID:    unitID,
				ProcessID: processID,
			})
			if err != nil {
				return fmt.Errorf("pickup %s on %s: %w", processID, unitID, err)
			}
		}
	}
	return nil
}

func (tc *tickerContext) everyUnitIsSaved() error {
	_, err := tc.mediator.Send(tc.ctx, &processingCommands.SaveUnitCommand{})
	return err
}

func (tc *tickerContext) theWorldIsRebuiltFromSavedSnapshots() error {
	if err := tc.rebuildRegistries(); err != nil {
		return err
	}
	for _, unitID := range tc.order {
		if err := tc.spawn(unitID, tc.templates[unitID]); err != nil {
			return err
		}
		if _, err := tc.mediator.Send(tc.ctx, &processingCommands.LoadUnitCommand{UnitID: unitID}); err != nil {
			return fmt.Errorf("restore %s: %w", unitID, err)
		}
	}
	return nil
}

// ============================================================================
// Then Steps
// ============================================================================

func (tc *tickerContext) theRunShouldReportEvaluations(count int) error {
	if tc.summary == nil {
		return fmt.Errorf("the world has not run")
	}
	if tc.summary.Evaluations != count {
		return fmt.Errorf("expected %d evaluations, got %d", count, tc.summary.Evaluations)
	}
	return nil
}

func (tc *tickerContext) theRunShouldReportCompletions(count int) error {
	if tc.summary == nil {
		return fmt.Errorf("the world has not run")
	}
	if tc.summary.Completions != count {
		return fmt.Errorf("expected %d completions, got %d", count, tc.summary.Completions)
	}
	return nil
}

func (tc *tickerContext) unitShouldHaveProgress(unitID string, progress int) error {
	return tc.units.With(unitID, func(p *processing.ResourceProcessor) error {
		processes := p.Stack().Processes()
		if len(processes) == 0 {
			return fmt.Errorf("unit %s has no queued process", unitID)
		}
		if got := processes[0].Progress(); got != progress {
			return fmt.Errorf("expected %s to have progress %d, got %d", unitID, progress, got)
		}
		return nil
	})
}

func (tc *tickerContext) thePublishedEventsShouldInclude(eventType string) error {
	for _, t := range tc.events.Types() {
		if string(t) == eventType {
			return nil
		}
	}
	return fmt.Errorf("expected event %s, published %v", eventType, tc.events.Types())
}

func (tc *tickerContext) unitShouldHaveProcessesAwaitingPickup(unitID string, count int) error {
	if got := len(tc.pickups.Awaiting(unitID)); got != count {
		return fmt.Errorf("expected %d processes awaiting pickup on %s, got %d", count, unitID, got)
	}
	return nil
}

// InitializeTickerScenario registers world ticker step definitions
func InitializeTickerScenario(sc *godog.ScenarioContext) {
	tc := &tickerContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	sc.Step(`^a "([^"]*)" unit "([^"]*)" queued with "([^"]*)" lasting (\d+) ticks$`, tc.aUnitQueuedWithLasting)

	sc.Step(`^the world runs for (\d+) ticks$`, tc.theWorldRunsForTicks)
	sc.Step(`^every awaiting process is picked up$`, tc.everyAwaitingProcessIsPickedUp)
	sc.Step(`^every unit is saved$`, tc.everyUnitIsSaved)
	sc.Step(`^the world is rebuilt from saved snapshots$`, tc.theWorldIsRebuiltFromSavedSnapshots)

	sc.Step(`^the run should report (\d+) evaluations?$`, tc.theRunShouldReportEvaluations)
	sc.Step(`^the run should report (\d+) completions?$`, tc.theRunShouldReportCompletions)
	sc.Step(`^unit "([^"]*)" should have progress (\d+)$`, tc.unitShouldHaveProgress)
	sc.Step(`^the published events should include "([^"]*)"$`, tc.thePublishedEventsShouldInclude)
	sc.Step(`^unit "([^"]*)" should have (\d+) process(?:es)? awaiting pickup$`, tc.unitShouldHaveProcessesAwaitingPickup)
}
