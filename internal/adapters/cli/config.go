package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/processor-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect processor-sim configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (PROC_* prefix)
2. Config file (config.yaml)
3. Default values

Examples:
  processor-sim config show
  processor-sim --config configs/dev.yaml config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}

	return cmd
}

// printConfig writes the resolved configuration with secrets masked
func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Processor Simulator Configuration")
	fmt.Fprintln(w, "=================================")

	fmt.Fprintln(w, "Simulation:")
	fmt.Fprintf(w, "  Cadence:          normal=%d rare=%d long=%d ticks\n",
		cfg.Simulation.Cadence.Normal, cfg.Simulation.Cadence.Rare, cfg.Simulation.Cadence.Long)
	fmt.Fprintf(w, "  Ambient Temp:     %.1f\n", cfg.Simulation.AmbientTemperature)
	fmt.Fprintf(w, "  Ticks/Second:     %.1f\n", cfg.Simulation.TicksPerSecond)
	fmt.Fprintf(w, "  Ruin:             +%.4f / -%.4f per tick\n",
		cfg.Simulation.Ruin.AccrualPerTick, cfg.Simulation.Ruin.DecayPerTick)
	fmt.Fprintf(w, "  Waste Enabled:    %t\n", cfg.Features.IsWasteEnabled())

	fmt.Fprintln(w, "\nDatabase:")
	fmt.Fprintf(w, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(w, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(w, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(w, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(w, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(w, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(w, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(w, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(w, "\nLogging:")
	fmt.Fprintf(w, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(w, "  Output:           %s\n", cfg.Logging.Output)
	fmt.Fprintf(w, "  Persist:          %t\n", cfg.Logging.Persist)

	fmt.Fprintln(w, "\nMetrics:")
	fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(w, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	fmt.Fprintln(w, "\nStatus Feed:")
	fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Feed.Enabled)
	if cfg.Feed.Enabled {
		fmt.Fprintf(w, "  Address:          %s\n", cfg.Feed.Address)
	}

	fmt.Fprintln(w, "\nEvent Bus:")
	fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Bus.Enabled)
	if cfg.Bus.Enabled {
		fmt.Fprintf(w, "  URL:              %s\n", maskPassword(cfg.Bus.URL))
		fmt.Fprintf(w, "  Subject Prefix:   %s\n", cfg.Bus.SubjectPrefix)
	}
}
