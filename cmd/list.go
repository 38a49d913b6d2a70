package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/report"
	"github.com/pable/go-w3-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored replays",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	replays, err := db.ListReplays()
	if err != nil {
		return fmt.Errorf("list replays: %w", err)
	}
	if len(replays) == 0 {
		fmt.Fprintln(os.Stdout, "No replays stored yet. Run 'w3metrics parse <log.jsonl>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-28s  %-20s  %7s  %s\n",
		"HASH", "FILE", "PARSED", "LENGTH", "PLAYERS")
	fmt.Fprintf(os.Stdout, "%-14s  %-28s  %-20s  %7s  %s\n",
		"──────────────", "────────────────────────────", "────────────────────", "───────", "───────")
	for _, r := range replays {
		fmt.Fprintf(os.Stdout, "%-14s  %-28s  %-20s  %7s  %d\n",
			shortHash(r.Hash), r.FileName, r.ParsedAt, report.FormatMS(r.DurationMS), r.PlayerCount)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
