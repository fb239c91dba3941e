package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	processingQueries "github.com/andrescamacho/processor-go/internal/application/processing/queries"
	"github.com/andrescamacho/processor-go/internal/application/simulation"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	var (
		file       string
		unitID     string
		ticks      int
		persist    bool
		noColor    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the state of one unit",
		Long: `Spawn a world, optionally advance it, and show one unit's status and process stack.

Examples:
  processor-sim inspect --file world.yaml --unit smelter-1
  processor-sim inspect --file world.yaml --unit smelter-1 --ticks 500
  processor-sim inspect --file world.yaml --unit smelter-1 --persist --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if unitID == "" {
				return fmt.Errorf("--unit is required")
			}
			world, err := loadWorld(file)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rt, ctx, err := newRuntime(cmd.Context(), cfg, runtimeOptions{worldPath: file, persist: persist})
			if err != nil {
				return err
			}
			defer rt.Close()

			sandbox, err := rt.spawnWorld(ctx, world)
			if err != nil {
				return err
			}
			if persist {
				if _, err := rt.restoreUnits(ctx); err != nil {
					return err
				}
			}

			if ticks > 0 {
				ticker, err := simulation.NewTicker(rt.mediator, simulation.Options{
					Intervals: rt.intervals(),
					AfterStep: func(_ context.Context, _ int) error {
						sandbox.Settle()
						return nil
					},
				})
				if err != nil {
					return err
				}
				if _, err := ticker.Run(ctx, ticks); err != nil {
					return err
				}
			}

			resp, err := rt.mediator.Send(ctx, &processingQueries.InspectUnitQuery{UnitID: unitID})
			if err != nil {
				return err
			}
			inspect := resp.(*processingQueries.InspectUnitResponse)

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), inspect)
			}
			fmt.Fprint(cmd.OutOrStdout(), NewStackFormatter(!noColor).Format(inspect))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "World file (YAML)")
	cmd.Flags().StringVar(&unitID, "unit", "", "Unit ID or unique prefix")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "World ticks to simulate before inspecting")
	cmd.Flags().BoolVar(&persist, "persist", false, "Restore units from their saved snapshots")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	return cmd
}
