package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/storage"
)

// buildOrderLimit caps the build order printed for a focused player.
const buildOrderLimit = 30

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show stored replay stats by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&focusPlayer, "player", 0, "focus player id (adds build order and ledgers)")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	tables, err := loadTables()
	if err != nil {
		return err
	}

	replay, err := db.GetReplayByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query replay: %w", err)
	}
	if replay == nil {
		fmt.Fprintf(os.Stderr, "No replay found with hash prefix %q\n", prefix)
		return nil
	}

	stats, err := db.GetPlayerStats(replay.Hash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	printReplay(*replay, stats, tables)
	return nil
}
