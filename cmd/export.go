package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/model"
	"github.com/pable/go-w3-metrics/internal/storage"
)

var exportOut string

// exportDoc is the JSON document written by export.
type exportDoc struct {
	Replay  model.ReplaySummary `json:"replay"`
	Players []model.PlayerStats `json:"players"`
}

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a stored replay's player stats as JSON",
	Long: `Writes the finalized per-player stats of one stored replay as JSON:
ledgers with counts and arrival order, heroes with ability order and
retraining history, action counters, per-interval rates and APM.

An APM of -1 means the player closed no activity interval.

Example:
  w3metrics export 3f2a91 --out match.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	replay, err := db.GetReplayByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query replay: %w", err)
	}
	if replay == nil {
		return fmt.Errorf("no replay found with hash prefix %q", args[0])
	}
	stats, err := db.GetPlayerStats(replay.Hash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	data, err := json.MarshalIndent(exportDoc{Replay: *replay, Players: stats}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d players)\n", exportOut, len(stats))
	return nil
}
