package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/test/helpers"
	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// processorContext holds state for resource processor scenarios
type processorContext struct {
	defs     map[string]*processing.ProcessDefinition
	order    []string
	unit     *helpers.FakeUnit
	power    *helpers.FakeSignal
	env      *helpers.FakeEnvironment
	waste    *helpers.FakeWasteContainer
	research *helpers.FakeResearch
	pickups  *helpers.FakePickupRegistry
	output   *helpers.FakeOutputSink
	props    processing.ProcessorProperties

	proc    *processing.ResourceProcessor
	last    *processing.Process
	results []processing.ResultSpec
	err     error
}

func (pc *processorContext) reset() {
	pc.defs = make(map[string]*processing.ProcessDefinition)
	pc.order = nil
	pc.unit = helpers.NewFakeUnit(20, nil)
	pc.power = &helpers.FakeSignal{Value: true}
	pc.env = &helpers.FakeEnvironment{}
	pc.waste = nil
	pc.research = nil
	pc.pickups = helpers.NewFakePickupRegistry()
	pc.output = &helpers.FakeOutputSink{}
	pc.props = processing.ProcessorProperties{}
	pc.proc = nil
	pc.last = nil
	pc.results = nil
	pc.err = nil
}

// processor builds the processor on first use so Given steps can keep shaping the unit
func (pc *processorContext) processor() (*processing.ResourceProcessor, error) {
	if pc.proc != nil {
		return pc.proc, nil
	}

	defs := make([]*processing.ProcessDefinition, 0, len(pc.order))
	for _, id := range pc.order {
		defs = append(defs, pc.defs[id])
	}
	catalog, err := processing.NewCatalog(defs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	opts := processing.ProcessorOptions{
		UnitID:      "unit-1",
		Unit:        pc.unit,
		Catalog:     catalog,
		Properties:  pc.props,
		Gates:       processing.Gates{Power: pc.power},
		Environment: pc.env,
		Pickups:     pc.pickups,
		Output:      pc.output,
	}
	if pc.waste != nil {
		opts.WasteContainer = pc.waste
		opts.WasteFeatureEnabled = true
	}
	if pc.research != nil {
		opts.Research = pc.research
	}

	pc.proc, err = processing.NewResourceProcessor(opts)
	if err != nil {
		return nil, err
	}
	return pc.proc, nil
}

func (pc *processorContext) addDefinition(def *processing.ProcessDefinition) {
	if _, ok := pc.defs[def.ID]; !ok {
		pc.order = append(pc.order, def.ID)
	}
	pc.defs[def.ID] = def
}

func (pc *processorContext) definition(id string) (*processing.ProcessDefinition, error) {
	def, ok := pc.defs[id]
	if !ok {
		return nil, fmt.Errorf("definition %s was not declared", id)
	}
	return def, nil
}

// ============================================================================
// Given Steps
// ============================================================================

func (pc *processorContext) aDefinitionTakingTicksThatRequires(id string, ticks, quantity int, resource string) error {
	pc.addDefinition(helpers.NewSimpleDefinition(id, ticks, resource, quantity))
	return nil
}

func (pc *processorContext) aDefinitionTakingTicksWithSafeBand(id string, ticks int, min, max float64) error {
	def := helpers.NewSimpleDefinition(id, ticks, "", 0)
	def.Temperature = &processing.TemperatureBand{Min: min, Max: max}
	pc.addDefinition(def)
	return nil
}

func (pc *processorContext) theDefinitionEmitsWastePerCycle(id string, amount int) error {
	def, err := pc.definition(id)
	if err != nil {
		return err
	}
	def.WastePerCycle = amount
	return nil
}

func (pc *processorContext) theDefinitionRequiresResearch(id, flag string) error {
	def, err := pc.definition(id)
	if err != nil {
		return err
	}
	def.ResearchPrerequisites = append(def.ResearchPrerequisites, flag)
	pc.research = helpers.NewFakeResearch()
	return nil
}

func (pc *processorContext) aUnitWithAtDegrees(quantity int, resource string, temperature float64) error {
	pc.unit = helpers.NewFakeUnit(temperature, map[string]int{resource: quantity})
	return nil
}

func (pc *processorContext) aUnitAtDegreesHolding(temperature float64, table *godog.Table) error {
	items := make(map[string]int)
	for _, row := range table.Rows[1:] {
		resource := getCellValue(table, row, "resource")
		quantity, err := strconv.Atoi(getCellValue(table, row, "quantity"))
		if err != nil {
			return fmt.Errorf("invalid quantity for %s: %w", resource, err)
		}
		items[resource] += quantity
	}
	pc.unit = helpers.NewFakeUnit(temperature, items)
	return nil
}

func (pc *processorContext) thePowerIsOff() error {
	pc.power.Value = false
	return nil
}

func (pc *processorContext) aWasteContainerThatStacks(limit int) error {
	pc.waste = helpers.NewFakeWasteContainer(limit)
	return nil
}

func (pc *processorContext) aFullWasteContainerThatStacks(limit int) error {
	pc.waste = helpers.NewFakeWasteContainer(limit)
	pc.waste.IsFull = true
	return nil
}

func (pc *processorContext) theProcessorStopsWhenWasteIsFull() error {
	pc.props.StopWhenWasteFull = true
	return nil
}

func (pc *processorContext) theProcessorPushesHeatPerTick(heat float64) error {
	pc.props.HeatPushWhileWorking = true
	pc.props.HeatPerTick = heat
	return nil
}

// ============================================================================
// When Steps
// ============================================================================

func (pc *processorContext) iStart(id string) error {
	proc, err := pc.processor()
	if err != nil {
		return err
	}
	p, err := proc.Start(id)
	pc.err = err
	if err == nil {
		pc.last = p
	}
	return nil
}

func (pc *processorContext) theProcessorEvaluatesTicks(ticks int) error {
	proc, err := pc.processor()
	if err != nil {
		return err
	}
	proc.OnTick(ticks)
	return nil
}

func (pc *processorContext) resourceIsAddedToTheUnit(quantity int, resource string) error {
	proc, err := pc.processor()
	if err != nil {
		return err
	}
	pc.unit.Inv.Add(resource, quantity)
	proc.OnInventoryChanged()
	return nil
}

func (pc *processorContext) theAmbientTemperatureBecomes(temperature float64) error {
	pc.unit.Temperature = temperature
	return nil
}

func (pc *processorContext) iPickUpTheProcess() error {
	if pc.last == nil {
		return fmt.Errorf("no process was started")
	}
	pc.results, pc.err = pc.proc.Pickup(pc.last.ID())
	return nil
}

func (pc *processorContext) iCancelTheProcessWithRefund() error {
	if pc.last == nil {
		return fmt.Errorf("no process was started")
	}
	pc.err = pc.proc.Cancel(pc.last.ID(), true)
	return nil
}

// ============================================================================
// Then Steps
// ============================================================================

func (pc *processorContext) theUnitShouldHold(quantity int, resource string) error {
	if got := pc.unit.Inv.Count(resource); got != quantity {
		return fmt.Errorf("expected unit to hold %d %s, got %d", quantity, resource, got)
	}
	return nil
}

func (pc *processorContext) theProcessorStatusShouldBe(status string) error {
	proc, err := pc.processor()
	if err != nil {
		return err
	}
	if got := proc.Status(); string(got) != status {
		return fmt.Errorf("expected status %s, got %s", status, got)
	}
	return nil
}

func (pc *processorContext) theLastOperationShouldFailWith(fragment string) error {
	if pc.err == nil {
		return fmt.Errorf("expected an error containing %q, got none", fragment)
	}
	if !strings.Contains(pc.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got %q", fragment, pc.err.Error())
	}
	return nil
}

func (pc *processorContext) theMissingIngredientShouldBe(resource string) error {
	report := pc.proc.Inspect()
	if report.MissingIngredient != resource {
		return fmt.Errorf("expected missing ingredient %s, got %q", resource, report.MissingIngredient)
	}
	return nil
}

func (pc *processorContext) theCurrentProcessShouldBePickupReady() error {
	current := pc.proc.Current()
	if current == nil {
		return fmt.Errorf("expected a current process")
	}
	if !current.IsPickupReady() {
		return fmt.Errorf("expected current process to be pickup ready, progress %d/%d",
			current.Progress(), current.Definition().DurationTicks)
	}
	return nil
}

func (pc *processorContext) theProcessShouldBeAwaitingPickup() error {
	if !pc.pickups.IsAwaiting(pc.proc.UnitID(), pc.last.ID()) {
		return fmt.Errorf("expected process %s to be awaiting pickup", pc.last.ID())
	}
	return nil
}

func (pc *processorContext) theProcessShouldNoLongerBeAwaitingPickup() error {
	if pc.pickups.IsAwaiting(pc.proc.UnitID(), pc.last.ID()) {
		return fmt.Errorf("expected process %s to have left the pickup registry", pc.last.ID())
	}
	return nil
}

func (pc *processorContext) theOutputShouldContain(quantity int, resource string) error {
	if pc.err != nil {
		return fmt.Errorf("pickup failed: %w", pc.err)
	}
	total := 0
	for _, placed := range pc.output.Placed {
		if placed.Resource == resource {
			total += placed.Quantity
		}
	}
	if total != quantity {
		return fmt.Errorf("expected output to contain %d %s, got %d", quantity, resource, total)
	}
	return nil
}

func (pc *processorContext) theQueueShouldBeEmpty() error {
	return pc.theQueueShouldHoldProcesses(0)
}

func (pc *processorContext) theQueueShouldHoldProcesses(count int) error {
	if got := pc.proc.Stack().Len(); got != count {
		return fmt.Errorf("expected %d queued processes, got %d", count, got)
	}
	return nil
}

func (pc *processorContext) processShouldHaveProgress(position, progress int) error {
	processes := pc.proc.Stack().Processes()
	if position < 1 || position > len(processes) {
		return fmt.Errorf("no process at position %d (queue holds %d)", position, len(processes))
	}
	if got := processes[position-1].Progress(); got != progress {
		return fmt.Errorf("expected process %d to have progress %d, got %d", position, progress, got)
	}
	return nil
}

func (pc *processorContext) theCurrentProcessProgressShouldBe(progress int) error {
	current := pc.proc.Current()
	if current == nil {
		return fmt.Errorf("expected a current process")
	}
	if current.Progress() != progress {
		return fmt.Errorf("expected progress %d, got %d", progress, current.Progress())
	}
	return nil
}

func (pc *processorContext) theProcessShouldBeRuined() error {
	if !pc.last.IsRuined() {
		return fmt.Errorf("expected process to be ruined, ruin at %.4f", pc.last.RuinFraction())
	}
	return nil
}

func (pc *processorContext) theProcessRuinShouldBePercent(percent float64) error {
	got := pc.last.RuinFraction() * 100
	if math.Abs(got-percent) > 1e-6 {
		return fmt.Errorf("expected ruin %.2f%%, got %.4f%%", percent, got)
	}
	return nil
}

func (pc *processorContext) wasteItemsOfShouldBeEmitted(count, size int) error {
	if len(pc.waste.Emitted) != count {
		return fmt.Errorf("expected %d waste items, got %d", count, len(pc.waste.Emitted))
	}
	for _, emitted := range pc.waste.Emitted {
		if emitted != size {
			return fmt.Errorf("expected waste items of %d, got %d", size, emitted)
		}
	}
	return nil
}

func (pc *processorContext) heatShouldHaveBeenPushed(heat float64) error {
	if got := pc.env.Total(); math.Abs(got-heat) > 1e-9 {
		return fmt.Errorf("expected %.2f heat pushed, got %.2f", heat, got)
	}
	return nil
}

// InitializeProcessorScenario registers resource processor step definitions
func InitializeProcessorScenario(sc *godog.ScenarioContext) {
	pc := &processorContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	// Given
	sc.Step(`^a definition "([^"]*)" taking (\d+) ticks that requires (\d+) "([^"]*)"$`, pc.aDefinitionTakingTicksThatRequires)
	sc.Step(`^a definition "([^"]*)" taking (\d+) ticks with a safe band from (-?\d+(?:\.\d+)?) to (-?\d+(?:\.\d+)?)$`, pc.aDefinitionTakingTicksWithSafeBand)
	sc.Step(`^the definition "([^"]*)" emits (\d+) waste per cycle$`, pc.theDefinitionEmitsWastePerCycle)
	sc.Step(`^the definition "([^"]*)" requires research "([^"]*)"$`, pc.theDefinitionRequiresResearch)
	sc.Step(`^a unit with (\d+) "([^"]*)" at (-?\d+(?:\.\d+)?) degrees$`, pc.aUnitWithAtDegrees)
	sc.Step(`^a unit at (-?\d+(?:\.\d+)?) degrees holding:$`, pc.aUnitAtDegreesHolding)
	sc.Step(`^the power is off$`, pc.thePowerIsOff)
	sc.Step(`^a waste container that stacks (\d+)$`, pc.aWasteContainerThatStacks)
	sc.Step(`^a full waste container that stacks (\d+)$`, pc.aFullWasteContainerThatStacks)
	sc.Step(`^the processor stops when waste is full$`, pc.theProcessorStopsWhenWasteIsFull)
	sc.Step(`^the processor pushes (\d+(?:\.\d+)?) heat per tick while working$`, pc.theProcessorPushesHeatPerTick)

	// When
	sc.Step(`^I start "([^"]*)"$`, pc.iStart)
	sc.Step(`^the processor evaluates (\d+) ticks$`, pc.theProcessorEvaluatesTicks)
	sc.Step(`^(\d+) "([^"]*)" are added to the unit$`, pc.resourceIsAddedToTheUnit)
	sc.Step(`^the ambient temperature becomes (-?\d+(?:\.\d+)?) degrees$`, pc.theAmbientTemperatureBecomes)
	sc.Step(`^I pick up the process$`, pc.iPickUpTheProcess)
	sc.Step(`^I cancel the process with refund$`, pc.iCancelTheProcessWithRefund)

	// Then
	sc.Step(`^the unit should hold (\d+) "([^"]*)"$`, pc.theUnitShouldHold)
	sc.Step(`^the processor status should be "([^"]*)"$`, pc.theProcessorStatusShouldBe)
	sc.Step(`^the last operation should fail with "([^"]*)"$`, pc.theLastOperationShouldFailWith)
	sc.Step(`^the missing ingredient should be "([^"]*)"$`, pc.theMissingIngredientShouldBe)
	sc.Step(`^the current process should be pickup ready$`, pc.theCurrentProcessShouldBePickupReady)
	sc.Step(`^the process should be awaiting pickup$`, pc.theProcessShouldBeAwaitingPickup)
	sc.Step(`^the process should no longer be awaiting pickup$`, pc.theProcessShouldNoLongerBeAwaitingPickup)
	sc.Step(`^the output should contain (\d+) "([^"]*)"$`, pc.theOutputShouldContain)
	sc.Step(`^the queue should be empty$`, pc.theQueueShouldBeEmpty)
	sc.Step(`^the queue should hold (\d+) processes$`, pc.theQueueShouldHoldProcesses)
	sc.Step(`^process (\d+) should have progress (\d+)$`, pc.processShouldHaveProgress)
	sc.Step(`^the current process progress should be (\d+)$`, pc.theCurrentProcessProgressShouldBe)
	sc.Step(`^the process should be ruined$`, pc.theProcessShouldBeRuined)
	sc.Step(`^the process ruin should be (\d+(?:\.\d+)?) percent$`, pc.theProcessRuinShouldBePercent)
	sc.Step(`^(\d+) waste items? of (\d+) should be emitted$`, pc.wasteItemsOfShouldBeEmitted)
	sc.Step(`^(\d+(?:\.\d+)?) heat should have been pushed$`, pc.heatShouldHaveBeenPushed)
}

// ============================================================================
// Helper Functions
// ============================================================================

// getCellValue gets a cell value from a table row by column name, using the first row as
// the header
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}
	return ""
}
