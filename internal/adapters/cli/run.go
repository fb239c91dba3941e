package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/processor-go/internal/adapters/host"
	"github.com/andrescamacho/processor-go/internal/application/common"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
	processingQueries "github.com/andrescamacho/processor-go/internal/application/processing/queries"
	"github.com/andrescamacho/processor-go/internal/application/simulation"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// runResult is the machine-readable outcome of a run
type runResult struct {
	RunID       string                     `json:"run_id"`
	Ticks       int                        `json:"ticks"`
	Evaluations int                        `json:"evaluations"`
	Completions int                        `json:"completions"`
	Pickups     int                        `json:"pickups"`
	Status      string                     `json:"status"`
	Units       []processing.InspectReport `json:"units"`
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		file       string
		ticks      int
		realtime   bool
		persist    bool
		autoPickup bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a world for a number of ticks",
		Long: `Spawn every unit of a world file and advance the world clock.

With --persist, units resume from their saved snapshots and are saved again
when the run ends or is interrupted. With --realtime, the run is paced at
simulation.ticks_per_second. With --auto-pickup, finished processes are
collected as soon as they complete.

Examples:
  processor-sim run --file world.yaml --ticks 10000
  processor-sim run --file world.yaml --ticks 72000 --realtime --persist
  processor-sim run --file world.yaml --ticks 5000 --auto-pickup --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := loadWorld(file)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, ctx, err := newRuntime(ctx, cfg, runtimeOptions{worldPath: file, persist: persist, live: true, lock: persist})
			if err != nil {
				return err
			}
			defer rt.Close()
			logger := common.LoggerFromContext(ctx)

			sandbox, err := rt.spawnWorld(ctx, world)
			if err != nil {
				return err
			}
			if persist {
				restored, err := rt.restoreUnits(ctx)
				if err != nil {
					return err
				}
				logger.Log("INFO", fmt.Sprintf("[Run] Restored %d of %d units", restored, rt.units.Len()), nil)
			}

			result := &runResult{RunID: rt.runID}
			opts := simulation.Options{
				Intervals: rt.intervals(),
				AfterStep: func(ctx context.Context, worldTick int) error {
					sandbox.Settle()
					if !autoPickup {
						return nil
					}
					n, err := collectFinished(ctx, rt)
					result.Pickups += n
					return err
				},
			}
			if realtime {
				opts.TicksPerSecond = cfg.Simulation.TicksPerSecond
			}
			ticker, err := simulation.NewTicker(rt.mediator, opts)
			if err != nil {
				return err
			}

			logger.Log("INFO", fmt.Sprintf("[Run] Run %s started", rt.runID), map[string]interface{}{
				"file":  file,
				"ticks": ticks,
			})
			summary, runErr := ticker.Run(ctx, ticks)
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}

			// Save even when interrupted, on a context the signal no longer cancels
			saveCtx := context.WithoutCancel(ctx)
			if persist {
				resp, err := rt.mediator.Send(saveCtx, &processingCommands.SaveUnitCommand{})
				if err != nil {
					return fmt.Errorf("failed to save units: %w", err)
				}
				logger.Log("INFO", fmt.Sprintf("[Run] Saved %d units", len(resp.(*processingCommands.SaveUnitResponse).Saved)), nil)
			}

			result.Ticks = summary.Ticks
			result.Evaluations = summary.Evaluations
			result.Completions = summary.Completions
			result.Status = string(summary.Status)
			for _, id := range rt.units.IDs() {
				resp, err := rt.mediator.Send(saveCtx, &processingQueries.InspectUnitQuery{UnitID: id})
				if err != nil {
					return err
				}
				result.Units = append(result.Units, resp.(*processingQueries.InspectUnitResponse).Report)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printRunResult(cmd.OutOrStdout(), result, sandbox)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "World file (YAML)")
	cmd.Flags().IntVar(&ticks, "ticks", 1000, "Number of world ticks to simulate")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "Pace the run at simulation.ticks_per_second")
	cmd.Flags().BoolVar(&persist, "persist", false, "Restore units from and save them to the database")
	cmd.Flags().BoolVar(&autoPickup, "auto-pickup", false, "Collect finished processes automatically")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

// collectFinished picks up every process awaiting pickup across all units
func collectFinished(ctx context.Context, rt *runtime) (int, error) {
	picked := 0
	for _, unitID := range rt.units.IDs() {
		for _, processID := range rt.pickups.Awaiting(unitID) {
			_, err := rt.mediator.Send(ctx, &processingCommands.PickupProcessCommand{UnitID: unitID, ProcessID: processID})
			if errors.Is(err, host.ErrStorageFull) {
				// Retried on the next step once storage has room
				continue
			}
			if err != nil {
				return picked, err
			}
			picked++
		}
	}
	return picked, nil
}

func printRunResult(out io.Writer, result *runResult, sandbox *host.Sandbox) {
	fmt.Fprintf(out, "Run %s %s\n", result.RunID, result.Status)
	fmt.Fprintf(out, "  Ticks:        %d\n", result.Ticks)
	fmt.Fprintf(out, "  Evaluations:  %d\n", result.Evaluations)
	fmt.Fprintf(out, "  Completions:  %d\n", result.Completions)
	fmt.Fprintf(out, "  Pickups:      %d\n", result.Pickups)
	fmt.Fprintf(out, "  Temperature:  %.1f\n\n", sandbox.Room.Temperature())

	fmt.Fprintf(out, "%-20s %-8s %-6s %-22s %-9s %s\n", "UNIT", "STATUS", "QUEUE", "CURRENT", "PROGRESS", "OUTPUT")
	for _, report := range result.Units {
		current := "-"
		progress := "-"
		if report.HasCurrent {
			current = truncate(report.DefinitionID, 22)
			progress = fmt.Sprintf("%.0f%%", report.Progress*100)
		}
		output := "-"
		if unit, ok := sandbox.Unit(report.UnitID); ok {
			output = formatStacks(unit.Output.Storage().Contents())
			if ground := unit.Output.Ground().Contents(); len(ground) > 0 {
				output += " ground: " + formatStacks(ground)
			}
		}
		fmt.Fprintf(out, "%-20s %-8s %-6d %-22s %-9s %s\n",
			truncate(report.UnitID, 20), report.Status, report.QueueLength, current, progress, output)
	}
}

func formatStacks(stacks []host.Stack) string {
	if len(stacks) == 0 {
		return "-"
	}
	s := ""
	for i, stack := range stacks {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s x%d", stack.Resource, stack.Quantity)
	}
	return s
}
