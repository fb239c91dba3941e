package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/processor-go/internal/adapters/persistence"
	"github.com/andrescamacho/processor-go/internal/infrastructure/database"
)

// NewSnapshotsCommand creates the snapshots command with subcommands
func NewSnapshotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage saved unit snapshots",
		Long: `Manage the unit snapshots written by "run --persist".

Examples:
  processor-sim snapshots list
  processor-sim snapshots show smelter-1
  processor-sim snapshots delete smelter-1`,
	}

	cmd.AddCommand(newSnapshotsListCommand())
	cmd.AddCommand(newSnapshotsShowCommand())
	cmd.AddCommand(newSnapshotsDeleteCommand())

	return cmd
}

// withSnapshots opens the database for the duration of fn
func withSnapshots(cmd *cobra.Command, fn func(ctx context.Context, repo *persistence.GormSnapshotRepository) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	return fn(ctx, persistence.NewGormSnapshotRepository(db, nil))
}

func newSnapshotsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(ctx context.Context, repo *persistence.GormSnapshotRepository) error {
				ids, err := repo.ListUnitIDs(ctx)
				if err != nil {
					return fmt.Errorf("failed to list snapshots: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, "No snapshots found")
					return nil
				}

				fmt.Fprintf(out, "%-30s %-10s %-10s %s\n", "UNIT", "PROCESSES", "WASTE", "ON GROUND")
				for _, id := range ids {
					snapshot, err := repo.FindByUnitID(ctx, id)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%-30s %-10d %-10.1f %t\n",
						truncate(id, 30), len(snapshot.Processes), snapshot.WasteProduced, snapshot.OutputOnGround)
				}
				fmt.Fprintf(out, "\nTotal: %d snapshots\n", len(ids))
				return nil
			})
		},
	}
}

func newSnapshotsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <unit-id>",
		Short: "Print a saved snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(ctx context.Context, repo *persistence.GormSnapshotRepository) error {
				snapshot, err := repo.FindByUnitID(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), snapshot)
			})
		},
	}
}

func newSnapshotsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <unit-id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(ctx context.Context, repo *persistence.GormSnapshotRepository) error {
				if err := repo.Delete(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete snapshot: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Snapshot deleted: %s\n", args[0])
				return nil
			})
		},
	}
}
