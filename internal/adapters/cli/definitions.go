package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	processingQueries "github.com/andrescamacho/processor-go/internal/application/processing/queries"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// NewDefinitionsCommand creates the definitions command with subcommands
func NewDefinitionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definitions",
		Short: "Inspect process definitions",
		Long: `Inspect the process definitions of a world file.

Examples:
  processor-sim definitions check --file world.yaml
  processor-sim definitions list --file world.yaml
  processor-sim definitions list --file world.yaml --unit smelter-1`,
	}

	cmd.AddCommand(newDefinitionsListCommand())
	cmd.AddCommand(newDefinitionsCheckCommand())

	return cmd
}

// newDefinitionsListCommand lists every definition, or the ones a unit may start now
func newDefinitionsListCommand() *cobra.Command {
	var (
		file   string
		unitID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List process definitions",
		Long: `List the definitions of a world file. With --unit, list only what that unit
can start given the world's finished research.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := loadWorld(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if unitID == "" {
				catalog, err := world.Catalog()
				if err != nil {
					return err
				}
				printDefinitionTable(out, catalog.All())
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rt, ctx, err := newRuntime(cmd.Context(), cfg, runtimeOptions{worldPath: file})
			if err != nil {
				return err
			}
			defer rt.Close()
			if _, err := rt.spawnWorld(ctx, world); err != nil {
				return err
			}
			return listAvailable(ctx, out, rt, unitID)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "World file (YAML)")
	cmd.Flags().StringVar(&unitID, "unit", "", "Only list definitions this unit can start")

	return cmd
}

func listAvailable(ctx context.Context, out io.Writer, rt *runtime, unitID string) error {
	resp, err := rt.mediator.Send(ctx, &processingQueries.ListAvailableDefinitionsQuery{UnitID: unitID})
	if err != nil {
		return err
	}
	available := resp.(*processingQueries.ListAvailableDefinitionsResponse)
	if len(available.Options) == 0 {
		fmt.Fprintf(out, "No definitions available on %s\n", available.UnitID)
		return nil
	}

	fmt.Fprintf(out, "%-24s %-32s %s\n", "DEFINITION", "NAME", "TICKS")
	fmt.Fprintln(out, strings.Repeat("─", 66))
	for _, option := range available.Options {
		fmt.Fprintf(out, "%-24s %-32s %d\n", truncate(option.ID, 24), truncate(option.DisplayName, 32), option.Duration)
	}
	fmt.Fprintf(out, "\nTotal: %d available on %s\n", len(available.Options), available.UnitID)
	return nil
}

func printDefinitionTable(out io.Writer, defs []*processing.ProcessDefinition) {
	fmt.Fprintf(out, "%-24s %-8s %-28s %-20s %s\n", "DEFINITION", "TICKS", "INGREDIENTS", "RESULTS", "WASTE")
	fmt.Fprintln(out, strings.Repeat("─", 90))
	for _, def := range defs {
		ingredients := make([]string, 0, len(def.Ingredients))
		for _, ing := range def.Ingredients {
			entry := fmt.Sprintf("%s x%d", ing.Resource, ing.Quantity)
			if ing.Require {
				entry += "*"
			}
			ingredients = append(ingredients, entry)
		}
		results := make([]string, 0, len(def.Results))
		for _, res := range def.Results {
			results = append(results, fmt.Sprintf("%s x%d", res.Resource, res.Quantity))
		}
		fmt.Fprintf(out, "%-24s %-8d %-28s %-20s %d\n",
			truncate(def.ID, 24),
			def.DurationTicks,
			truncate(orDash(strings.Join(ingredients, ", ")), 28),
			truncate(strings.Join(results, ", "), 20),
			def.WastePerCycle,
		)
	}
	fmt.Fprintf(out, "\nTotal: %d definitions (* = required)\n", len(defs))
}

// newDefinitionsCheckCommand validates a world file
func newDefinitionsCheckCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a world file",
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := loadWorld(file)
			if err != nil {
				return err
			}
			catalog, err := world.Catalog()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d definitions, %d units\n", file, catalog.Len(), len(world.Units))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "World file (YAML)")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
