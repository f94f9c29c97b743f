package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes the match database file and its WAL sidecars.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the match database",
	Long: `Permanently delete the SQLite match database, including its -wal and -shm files.
Every stored match, timeline and known account is lost; re-import or re-fetch to rebuild.
Without --force only the contents that would be deleted are shown.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		if db, err := storage.Open(dbPath); err == nil {
			matches, timelines, accounts, err := db.Counts()
			db.Close()
			if err == nil {
				fmt.Fprintf(os.Stderr, "  %d matches, %d timelines, %d accounts\n", matches, timelines, accounts)
			}
		}
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	removed, err := dropDatabase(dbPath)
	if err != nil {
		return err
	}
	for _, p := range removed {
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", p)
	}
	return nil
}

// dropDatabase removes path and the -wal / -shm files SQLite keeps next to it
// in WAL mode. Missing files are skipped.
func dropDatabase(path string) ([]string, error) {
	var removed []string
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}
