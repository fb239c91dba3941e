package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/processor-go/internal/adapters/persistence"
	"github.com/andrescamacho/processor-go/internal/infrastructure/database"
)

// NewLogsCommand retrieves persisted run logs from the database
func NewLogsCommand() *cobra.Command {
	var (
		limit int
		level string
		since time.Duration
	)

	cmd := &cobra.Command{
		Use:   "logs <run-id>",
		Short: "Show the persisted logs of a run",
		Long: `Retrieve logs for a run from the database. Runs persist their logs when
logging.persist is set and the run was started with --persist.

Examples:
  processor-sim logs 6f1c0d3e-7b0a-4d8e-9a53-2d7f1f0b8a11
  processor-sim logs 6f1c0d3e-7b0a-4d8e-9a53-2d7f1f0b8a11 --limit 50
  processor-sim logs 6f1c0d3e-7b0a-4d8e-9a53-2d7f1f0b8a11 --level ERROR --since 10m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			logRepo := persistence.NewGormRunLogRepository(db, nil)

			var levelPtr *string
			if level != "" {
				levelPtr = &level
			}
			var sincePtr *time.Time
			if since > 0 {
				t := time.Now().Add(-since)
				sincePtr = &t
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			logs, err := logRepo.GetLogs(ctx, runID, limit, levelPtr, sincePtr)
			if err != nil {
				return fmt.Errorf("failed to get logs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No logs found for run:", runID)
				return nil
			}

			// Display logs in reverse order (oldest first)
			for i := len(logs) - 1; i >= 0; i-- {
				entry := logs[i]
				fmt.Fprintf(out, "[%s] [%s] %s\n",
					entry.Timestamp.Format("2006-01-02 15:04:05"),
					entry.Level,
					entry.Message,
				)
			}

			fmt.Fprintf(out, "\nTotal: %d log entries\n", len(logs))

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log entries")
	cmd.Flags().StringVar(&level, "level", "", "Filter by log level (INFO, WARNING, ERROR, DEBUG)")
	cmd.Flags().DurationVar(&since, "since", 0, "Only show entries newer than this (e.g. 10m)")

	return cmd
}
