package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes the replay metrics database.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the replay metrics database",
	Long: `Permanently delete the SQLite replay database, including its WAL side files.
Every stored replay, player ledger and hero history is lost. Re-run
'w3metrics parse <log.jsonl>' on your action logs to rebuild it.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without asking for confirmation")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stdout, "No replay database at %s, nothing to drop.\n", dbPath)
		return nil
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete %s", dbPath)
		if n, err := storedReplayCount(); err == nil {
			fmt.Fprintf(os.Stderr, " (%d stored replays)", n)
		}
		fmt.Fprintln(os.Stderr, ".")
		fmt.Fprintln(os.Stderr, "Re-run with --force to confirm.")
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("remove replay database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s%s: %w", dbPath, suffix, err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted replay database: %s\n", dbPath)
	return nil
}

func storedReplayCount() (int, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	replays, err := db.ListReplays()
	if err != nil {
		return 0, err
	}
	return len(replays), nil
}
