package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zorgspace/slashbot/internal/snapshot"
	"github.com/zorgspace/slashbot/internal/ui"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect recorded edits",
	Long: `List, show, and prune snapshots recorded by apply.

Examples:
  slashbot snapshots                  # List recent snapshots
  slashbot snapshots list --limit 50
  slashbot snapshots show <id>        # Diff before/after
  slashbot snapshots prune --keep 100`,
	RunE: runSnapshotsList, // Default to list
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	RunE:  runSnapshotsList,
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a snapshot as a diff",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsShow,
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old snapshots",
	RunE:  runSnapshotsPrune,
}

// Flags
var (
	snapshotsLimit int
	snapshotsKeep  int
)

func init() {
	snapshotsListCmd.Flags().IntVar(&snapshotsLimit, "limit", 20, "Maximum number of snapshots to list")
	snapshotsPruneCmd.Flags().IntVar(&snapshotsKeep, "keep", 100, "Number of newest snapshots to keep")

	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	snapshotsCmd.AddCommand(snapshotsPruneCmd)

	rootCmd.AddCommand(snapshotsCmd)
}

func openSnapshotStore() (*snapshot.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return snapshot.Open(cfg.SnapshotDB)
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	store, err := openSnapshotStore()
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.ListRecent(context.Background(), snapshotsLimit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots.")
		return nil
	}

	styles := ui.NewStyles(os.Stdout)
	for _, s := range snaps {
		fmt.Printf("%s  %s  %-22s %s\n",
			s.ID[:8],
			s.CreatedAt.Local().Format(time.DateTime),
			s.Strategy,
			styles.Bold.Render(s.Path))
	}
	return nil
}

func runSnapshotsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := snapshot.Open(cfg.SnapshotDB)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := findSnapshot(store, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("snapshot %s\npath: %s\nstrategy: %s\nrecorded: %s\n\n",
		snap.ID, snap.Path, snap.Strategy, snap.CreatedAt.Local().Format(time.DateTime))
	fmt.Print(ui.RenderDiff(snap.Path, snap.Before, snap.After, cfg.Color))
	return nil
}

// findSnapshot accepts either a full id or an unambiguous prefix.
func findSnapshot(store *snapshot.Store, id string) (snapshot.Snapshot, error) {
	snap, err := store.Get(context.Background(), id)
	if err == nil {
		return snap, nil
	}

	snaps, listErr := store.ListRecent(context.Background(), 1000)
	if listErr != nil {
		return snapshot.Snapshot{}, listErr
	}
	var found *snapshot.Snapshot
	for i := range snaps {
		if len(id) >= 4 && len(snaps[i].ID) >= len(id) && snaps[i].ID[:len(id)] == id {
			if found != nil {
				return snapshot.Snapshot{}, fmt.Errorf("snapshot id prefix %q is ambiguous", id)
			}
			found = &snaps[i]
		}
	}
	if found == nil {
		return snapshot.Snapshot{}, err
	}
	return *found, nil
}

func runSnapshotsPrune(cmd *cobra.Command, args []string) error {
	store, err := openSnapshotStore()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(context.Background(), snapshotsKeep)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d snapshot(s), kept %d newest.\n", removed, snapshotsKeep)
	return nil
}
