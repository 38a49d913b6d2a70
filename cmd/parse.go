package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/aggregator"
	"github.com/pable/go-w3-metrics/internal/logger"
	"github.com/pable/go-w3-metrics/internal/mappings"
	"github.com/pable/go-w3-metrics/internal/model"
	"github.com/pable/go-w3-metrics/internal/parser"
	"github.com/pable/go-w3-metrics/internal/report"
	"github.com/pable/go-w3-metrics/internal/storage"
)

var (
	focusPlayer int
	parseForce  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <log.jsonl>",
	Short: "Aggregate a decoded replay action log and store metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().IntVar(&focusPlayer, "player", 0, "focus player id")
	parseCmd.Flags().BoolVar(&parseForce, "force", false, "re-aggregate even if the replay is already stored")
}

func runParse(cmd *cobra.Command, args []string) error {
	logPath := args[0]
	log := logger.Named("parse")
	ctx := cmd.Context()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	tables, err := loadTables()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", logPath)
	raw, err := parser.ParseActionLog(logPath)
	if err != nil {
		return fmt.Errorf("parse action log: %w", err)
	}

	exists, err := db.ReplayExists(raw.Hash)
	if err != nil {
		return fmt.Errorf("check replay: %w", err)
	}
	if exists && !parseForce {
		log.Info(ctx, "replay already stored", logger.String("hash", raw.Hash))
		fmt.Fprintf(os.Stdout, "Replay %s already stored — showing cached results.\n\n", raw.Hash[:12])
		return showByHash(db, tables, raw.Hash)
	}

	res, err := aggregator.Aggregate(raw, aggregator.Options{
		Tables:          tables,
		IntervalMS:      cfg.APMIntervalMS,
		RetrainingItems: cfg.RetrainingItems,
	})
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	for _, p := range res.Players {
		if !p.HasAPM() {
			log.Warn(ctx, "player closed no activity interval, APM undefined",
				logger.Int("player", p.ID), logger.String("name", p.Name))
			continue
		}
		log.Debug(ctx, "player aggregated",
			logger.Int("player", p.ID), logger.Int("apm", p.APM),
			logger.Int("actions", p.Actions.Total()), logger.Any("timed", p.Actions.Timed))
	}

	summary := model.ReplaySummary{
		Hash:        raw.Hash,
		FileName:    raw.FileName,
		ParsedAt:    time.Now().UTC().Format(time.RFC3339),
		DurationMS:  res.DurationMS,
		PlayerCount: len(res.Players),
	}

	if err := db.InsertReplay(summary); err != nil {
		return fmt.Errorf("insert replay: %w", err)
	}
	if err := db.InsertPlayerStats(res.Players); err != nil {
		log.Error(ctx, "storing player stats failed", logger.String("hash", raw.Hash), logger.Error(err))
		return fmt.Errorf("insert player stats: %w", err)
	}
	log.Debug(ctx, "replay stored",
		logger.String("hash", raw.Hash), logger.Int("players", len(res.Players)))

	printReplay(summary, res.Players, tables)
	return nil
}

func printReplay(summary model.ReplaySummary, stats []model.PlayerStats, tables *mappings.Tables) {
	report.PrintReplaySummary(os.Stdout, summary)
	report.PrintActionTable(os.Stdout, stats, focusPlayer)
	report.PrintHeroTable(os.Stdout, stats, tables, focusPlayer)
	if focusPlayer == 0 {
		return
	}
	for _, s := range stats {
		if s.ID == focusPlayer {
			report.PrintBuildOrder(os.Stdout, s, tables, buildOrderLimit)
			report.PrintLedgerTable(os.Stdout, []model.PlayerStats{s}, tables, 0)
		}
	}
}

func showByHash(db *storage.DB, tables *mappings.Tables, hash string) error {
	replay, err := db.GetReplayByPrefix(hash)
	if err != nil || replay == nil {
		return fmt.Errorf("replay not found: %s", hash)
	}
	stats, err := db.GetPlayerStats(replay.Hash)
	if err != nil {
		return err
	}
	printReplay(*replay, stats, tables)
	return nil
}
