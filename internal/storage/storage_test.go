package storage

import (
	"reflect"
	"testing"

	"github.com/pable/go-w3-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleStats(hash string) []model.PlayerStats {
	units := model.NewLedger()
	units.Add("hpea", 1000)
	units.Add("hfoo", 2000)
	units.Add("hpea", 3000)
	buildings := model.NewLedger()
	buildings.Add("hbar", 1500)

	grubby := model.PlayerStats{
		ReplayHash:   hash,
		ID:           1,
		Name:         "Grubby",
		TeamID:       0,
		Color:        "ff0303",
		Race:         model.RaceRandom,
		RaceDetected: model.RaceHuman,
		Units:        units,
		Items:        model.NewLedger(),
		Buildings:    buildings,
		Upgrades:     model.NewLedger(),
		Heroes: []model.HeroInfo{
			{
				ID:        "Hamg",
				Level:     1,
				Abilities: map[string]int{"AHwe": 1},
				AbilityOrder: []model.AbilityEvent{
					{Type: model.AbilityLearned, Time: 100, Value: "AHbz"},
					{Type: model.AbilityRetraining, Time: 500},
					{Type: model.AbilityLearned, Time: 600, Value: "AHwe"},
				},
				RetrainingHistory: []model.Retraining{{Time: 500, Abilities: map[string]int{"AHbz": 1}}},
			},
			{
				ID:        "Hpal",
				Level:     2,
				Abilities: map[string]int{"AHhb": 2},
				AbilityOrder: []model.AbilityEvent{
					{Type: model.AbilityLearned, Time: 700, Value: "AHhb"},
					{Type: model.AbilityLearned, Time: 800, Value: "AHhb"},
				},
				RetrainingHistory: []model.Retraining{},
			},
		},
		Actions: model.ActionCounts{
			Timed: []int{120, 140}, RightClick: 50, Basic: 30, BuildTrain: 12,
			Ability: 4, Item: 1, Select: 40, RemoveUnit: 1, SelectHotkey: 22, Esc: 2, AssignGroup: 3,
		},
		APM:      130,
		LeftAtMS: 9000,
	}
	moon := model.PlayerStats{
		ReplayHash: hash,
		ID:         2,
		Name:       "Moon",
		TeamID:     1,
		Color:      "0042ff",
		Race:       model.RaceNightElf,
		Units:      model.NewLedger(),
		Items:      model.NewLedger(),
		Buildings:  model.NewLedger(),
		Upgrades:   model.NewLedger(),
		Heroes:     []model.HeroInfo{},
		Actions:    model.ActionCounts{Timed: []int{}},
		APM:        model.APMUndefined,
	}
	return []model.PlayerStats{moon, grubby}
}

func TestReplayInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	summary := model.ReplaySummary{
		Hash:        "abc123",
		FileName:    "match.jsonl",
		ParsedAt:    "2025-01-01T00:00:00Z",
		DurationMS:  600000,
		PlayerCount: 2,
	}
	if err := db.InsertReplay(summary); err != nil {
		t.Fatalf("InsertReplay: %v", err)
	}

	exists, err := db.ReplayExists("abc123")
	if err != nil {
		t.Fatalf("ReplayExists: %v", err)
	}
	if !exists {
		t.Error("expected replay to exist after insert")
	}

	exists2, _ := db.ReplayExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent replay to not exist")
	}
}

func TestListReplays(t *testing.T) {
	db := openMemDB(t)

	summaries := []model.ReplaySummary{
		{Hash: "h1", FileName: "a.jsonl", ParsedAt: "2025-01-01T00:00:00Z"},
		{Hash: "h2", FileName: "b.jsonl", ParsedAt: "2025-02-01T00:00:00Z"},
	}
	for _, s := range summaries {
		if err := db.InsertReplay(s); err != nil {
			t.Fatalf("InsertReplay: %v", err)
		}
	}

	list, err := db.ListReplays()
	if err != nil {
		t.Fatalf("ListReplays: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 replays, got %d", len(list))
	}
	if list[0].Hash != "h2" {
		t.Errorf("expected h2 first (newest), got %s", list[0].Hash)
	}
}

func TestGetReplayByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertReplay(model.ReplaySummary{Hash: "deadbeef1234", FileName: "x.jsonl"})

	s, err := db.GetReplayByPrefix("deadbeef")
	if err != nil {
		t.Fatalf("GetReplayByPrefix: %v", err)
	}
	if s == nil || s.Hash != "deadbeef1234" {
		t.Fatalf("expected deadbeef1234, got %+v", s)
	}

	missing, err := db.GetReplayByPrefix("cafe")
	if err != nil {
		t.Fatalf("GetReplayByPrefix: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", missing)
	}
}

func TestPlayerStatsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertReplay(model.ReplaySummary{Hash: "r1", PlayerCount: 2})

	want := sampleStats("r1")
	if err := db.InsertPlayerStats(want); err != nil {
		t.Fatalf("InsertPlayerStats: %v", err)
	}

	got, err := db.GetPlayerStats("r1")
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 players, got %d", len(got))
	}
	// Ordered by team: Grubby (team 0) first.
	if !reflect.DeepEqual(got[0], want[1]) {
		t.Errorf("Grubby round trip:\n got %+v\nwant %+v", got[0], want[1])
	}
	if !reflect.DeepEqual(got[1], want[0]) {
		t.Errorf("Moon round trip:\n got %+v\nwant %+v", got[1], want[0])
	}
	if got[1].HasAPM() {
		t.Error("undefined APM should survive storage")
	}
}

func TestPlayerStatsReinsertReplaces(t *testing.T) {
	db := openMemDB(t)
	db.InsertReplay(model.ReplaySummary{Hash: "r1"})

	stats := sampleStats("r1")
	if err := db.InsertPlayerStats(stats); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := db.InsertPlayerStats(stats[:1]); err != nil {
		t.Fatalf("second insert: %v", err)
	}
	got, err := db.GetPlayerStats("r1")
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Moon" {
		t.Errorf("expected only Moon after re-insert, got %+v", got)
	}

	_, rows, err := db.QueryRaw("SELECT COUNT(1) FROM ledger_events WHERE replay_hash = 'r1'")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if rows[0][0] != "0" {
		t.Errorf("stale ledger rows: %s", rows[0][0])
	}
}

func TestEmptyRetrainingSnapshotSurvives(t *testing.T) {
	db := openMemDB(t)
	db.InsertReplay(model.ReplaySummary{Hash: "r1"})

	s := sampleStats("r1")[0]
	s.Heroes = []model.HeroInfo{{
		ID:        "Obla",
		Level:     1,
		Abilities: map[string]int{"AOwk": 1},
		AbilityOrder: []model.AbilityEvent{
			{Type: model.AbilityRetraining, Time: 100},
			{Type: model.AbilityLearned, Time: 200, Value: "AOwk"},
		},
		RetrainingHistory: []model.Retraining{{Time: 100, Abilities: map[string]int{}}},
	}}
	if err := db.InsertPlayerStats([]model.PlayerStats{s}); err != nil {
		t.Fatalf("InsertPlayerStats: %v", err)
	}
	got, err := db.GetPlayerStats("r1")
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if !reflect.DeepEqual(got[0].Heroes, s.Heroes) {
		t.Errorf("heroes = %+v, want %+v", got[0].Heroes, s.Heroes)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertReplay(model.ReplaySummary{Hash: "r1", FileName: "one.jsonl", DurationMS: 42})

	cols, rows, err := db.QueryRaw("SELECT hash, file_name, duration_ms, NULL AS nothing FROM replays")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"hash", "file_name", "duration_ms", "nothing"}) {
		t.Errorf("cols = %v", cols)
	}
	want := [][]string{{"r1", "one.jsonl", "42", "NULL"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM no_such_table"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestListPlayers(t *testing.T) {
	db := openMemDB(t)
	for _, h := range []string{"r1", "r2"} {
		db.InsertReplay(model.ReplaySummary{Hash: h})
		if err := db.InsertPlayerStats(sampleStats(h)); err != nil {
			t.Fatalf("InsertPlayerStats: %v", err)
		}
	}

	players, err := db.ListPlayers()
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].Name != "Grubby" || players[0].Replays != 2 || players[0].AvgAPM != 130 {
		t.Errorf("Grubby = %+v", players[0])
	}
	if players[1].Name != "Moon" || players[1].AvgAPM != -1 {
		t.Errorf("Moon = %+v", players[1])
	}
}
