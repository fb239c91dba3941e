package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "processor-sim",
		Short: "Resource processor simulator",
		Long: `processor-sim loads a world of process definitions and processing units
and advances it on the shared world clock.

Examples:
  processor-sim definitions check --file world.yaml
  processor-sim run --file world.yaml --ticks 5000 --auto-pickup
  processor-sim run --file world.yaml --realtime --persist
  processor-sim inspect --file world.yaml --unit smelter-1 --ticks 300
  processor-sim snapshots list
  processor-sim logs <run-id>`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", getDefaultConfigPath(),
		"Path to config file (defaults to ./config.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewDefinitionsCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewSnapshotsCommand())
	rootCmd.AddCommand(NewLogsCommand())

	return rootCmd
}

// getDefaultConfigPath returns the config path from the environment, if any
func getDefaultConfigPath() string {
	return os.Getenv("PROC_CONFIG")
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
