package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  replays(hash, file_name, parsed_at, duration_ms, player_count)
  player_stats(replay_hash, player_id, name, team_id, color, race, race_detected,
    apm, timed, left_at_ms, assign_group, right_click, basic, build_train,
    ability, item, sel, remove_unit, sub_group, select_hotkey, esc)
  ledger_events(replay_hash, player_id, domain, seq, object_id, ms)
  heroes(replay_hash, player_id, position, hero_id, level)
  hero_abilities(replay_hash, player_id, hero_id, seq, kind, ms, ability_id)
  hero_retrainings(replay_hash, player_id, hero_id, snapshot_seq, ms, ability_id, count)

Note: apm is -1 when the player closed no activity interval.
Example: w3metrics sql "SELECT name, apm FROM player_stats WHERE apm >= 0 ORDER BY apm DESC"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

