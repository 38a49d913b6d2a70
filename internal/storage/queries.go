package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-w3-metrics/internal/model"
)

// Ledger domain tags stored in ledger_events.domain.
const (
	domainUnit     = "unit"
	domainItem     = "item"
	domainBuilding = "building"
	domainUpgrade  = "upgrade"
)

// ReplayExists returns true if a replay with the given hash is already stored.
func (db *DB) ReplayExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM replays WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertReplay inserts a replay record. Uses an upsert so re-parsing keeps
// the child rows of the replay.
func (db *DB) InsertReplay(summary model.ReplaySummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO replays(hash, file_name, parsed_at, duration_ms, player_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			file_name = excluded.file_name,
			parsed_at = excluded.parsed_at,
			duration_ms = excluded.duration_ms,
			player_count = excluded.player_count`,
		summary.Hash, summary.FileName, summary.ParsedAt, summary.DurationMS, summary.PlayerCount,
	)
	return err
}

// ListReplays returns all stored replays, most recently parsed first.
func (db *DB) ListReplays() ([]model.ReplaySummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, file_name, parsed_at, duration_ms, player_count
		FROM replays ORDER BY parsed_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReplaySummary
	for rows.Next() {
		var s model.ReplaySummary
		if err := rows.Scan(&s.Hash, &s.FileName, &s.ParsedAt, &s.DurationMS, &s.PlayerCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetReplayByPrefix finds the first replay whose hash starts with the given prefix.
// It returns nil, nil when nothing matches.
func (db *DB) GetReplayByPrefix(prefix string) (*model.ReplaySummary, error) {
	var s model.ReplaySummary
	err := db.conn.QueryRow(`
		SELECT hash, file_name, parsed_at, duration_ms, player_count
		FROM replays WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%").
		Scan(&s.Hash, &s.FileName, &s.ParsedAt, &s.DurationMS, &s.PlayerCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// InsertPlayerStats replaces every stored row of the given players' replays
// with the finalized stats, in one transaction.
func (db *DB) InsertPlayerStats(stats []model.PlayerStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cleared := make(map[string]bool)
	for _, s := range stats {
		if cleared[s.ReplayHash] {
			continue
		}
		cleared[s.ReplayHash] = true
		for _, table := range []string{"player_stats", "ledger_events", "heroes", "hero_abilities", "hero_retrainings"} {
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE replay_hash = ?", s.ReplayHash); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
	}

	playerStmt, err := tx.Prepare(`
		INSERT INTO player_stats(
			replay_hash, player_id, name, team_id, color, race, race_detected,
			apm, timed, left_at_ms,
			assign_group, right_click, basic, build_train, ability, item,
			sel, remove_unit, sub_group, select_hotkey, esc
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	ledgerStmt, err := tx.Prepare(`
		INSERT INTO ledger_events(replay_hash, player_id, domain, seq, object_id, ms)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer ledgerStmt.Close()

	heroStmt, err := tx.Prepare(`
		INSERT INTO heroes(replay_hash, player_id, position, hero_id, level)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer heroStmt.Close()

	abilityStmt, err := tx.Prepare(`
		INSERT INTO hero_abilities(replay_hash, player_id, hero_id, seq, kind, ms, ability_id)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer abilityStmt.Close()

	retrainStmt, err := tx.Prepare(`
		INSERT INTO hero_retrainings(replay_hash, player_id, hero_id, snapshot_seq, ms, ability_id, count)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer retrainStmt.Close()

	for _, s := range stats {
		a := s.Actions
		_, err = playerStmt.Exec(
			s.ReplayHash, s.ID, s.Name, s.TeamID, s.Color, string(s.Race), string(s.RaceDetected),
			s.APM, joinInts(a.Timed), s.LeftAtMS,
			a.AssignGroup, a.RightClick, a.Basic, a.BuildTrain, a.Ability, a.Item,
			a.Select, a.RemoveUnit, a.SubGroup, a.SelectHotkey, a.Esc,
		)
		if err != nil {
			return fmt.Errorf("insert player_stats for %d: %w", s.ID, err)
		}

		ledgers := []struct {
			domain string
			l      model.Ledger
		}{
			{domainUnit, s.Units}, {domainItem, s.Items},
			{domainBuilding, s.Buildings}, {domainUpgrade, s.Upgrades},
		}
		for _, lg := range ledgers {
			for seq, e := range lg.l.Order {
				if _, err := ledgerStmt.Exec(s.ReplayHash, s.ID, lg.domain, seq, e.ID, e.MS); err != nil {
					return fmt.Errorf("insert ledger_events for %d: %w", s.ID, err)
				}
			}
		}

		for pos, h := range s.Heroes {
			if _, err := heroStmt.Exec(s.ReplayHash, s.ID, pos, h.ID, h.Level); err != nil {
				return fmt.Errorf("insert heroes for %d: %w", s.ID, err)
			}
			for seq, ev := range h.AbilityOrder {
				if _, err := abilityStmt.Exec(s.ReplayHash, s.ID, h.ID, seq, string(ev.Type), ev.Time, ev.Value); err != nil {
					return fmt.Errorf("insert hero_abilities for %s: %w", h.ID, err)
				}
			}
			for seq, r := range h.RetrainingHistory {
				if len(r.Abilities) == 0 {
					// Empty snapshot: keep a marker row so the retraining survives.
					if _, err := retrainStmt.Exec(s.ReplayHash, s.ID, h.ID, seq, r.Time, "", 0); err != nil {
						return fmt.Errorf("insert hero_retrainings for %s: %w", h.ID, err)
					}
					continue
				}
				for abilityID, n := range r.Abilities {
					if _, err := retrainStmt.Exec(s.ReplayHash, s.ID, h.ID, seq, r.Time, abilityID, n); err != nil {
						return fmt.Errorf("insert hero_retrainings for %s: %w", h.ID, err)
					}
				}
			}
		}
	}
	return tx.Commit()
}

// GetPlayerStats returns all player stats for a replay hash, ordered by team
// then player id, with ledgers and heroes rebuilt in their recorded order.
func (db *DB) GetPlayerStats(replayHash string) ([]model.PlayerStats, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, name, team_id, color, race, race_detected,
		       apm, timed, left_at_ms,
		       assign_group, right_click, basic, build_train, ability, item,
		       sel, remove_unit, sub_group, select_hotkey, esc
		FROM player_stats WHERE replay_hash = ?
		ORDER BY team_id, player_id`, replayHash)
	if err != nil {
		return nil, err
	}

	var out []model.PlayerStats
	for rows.Next() {
		s := model.PlayerStats{
			ReplayHash: replayHash,
			Units:      model.NewLedger(),
			Items:      model.NewLedger(),
			Buildings:  model.NewLedger(),
			Upgrades:   model.NewLedger(),
			Heroes:     []model.HeroInfo{},
		}
		var race, detected, timed string
		a := &s.Actions
		err := rows.Scan(
			&s.ID, &s.Name, &s.TeamID, &s.Color, &race, &detected,
			&s.APM, &timed, &s.LeftAtMS,
			&a.AssignGroup, &a.RightClick, &a.Basic, &a.BuildTrain, &a.Ability, &a.Item,
			&a.Select, &a.RemoveUnit, &a.SubGroup, &a.SelectHotkey, &a.Esc,
		)
		if err != nil {
			rows.Close()
			return nil, err
		}
		s.Race = model.Race(race)
		s.RaceDetected = model.Race(detected)
		if a.Timed, err = splitInts(timed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("player %d timed: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	byID := make(map[int]*model.PlayerStats, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
	}
	if err := db.loadLedgers(replayHash, byID); err != nil {
		return nil, err
	}
	if err := db.loadHeroes(replayHash, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) loadLedgers(replayHash string, byID map[int]*model.PlayerStats) error {
	rows, err := db.conn.Query(`
		SELECT player_id, domain, object_id, ms
		FROM ledger_events WHERE replay_hash = ?
		ORDER BY player_id, domain, seq`, replayHash)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			playerID, ms     int
			domain, objectID string
		)
		if err := rows.Scan(&playerID, &domain, &objectID, &ms); err != nil {
			return err
		}
		s, ok := byID[playerID]
		if !ok {
			continue
		}
		switch domain {
		case domainUnit:
			s.Units.Add(objectID, ms)
		case domainItem:
			s.Items.Add(objectID, ms)
		case domainBuilding:
			s.Buildings.Add(objectID, ms)
		case domainUpgrade:
			s.Upgrades.Add(objectID, ms)
		default:
			return fmt.Errorf("unknown ledger domain %q", domain)
		}
	}
	return rows.Err()
}

func (db *DB) loadHeroes(replayHash string, byID map[int]*model.PlayerStats) error {
	type key struct {
		player int
		hero   string
	}
	heroes := make(map[key]*model.HeroInfo)

	rows, err := db.conn.Query(`
		SELECT player_id, hero_id, level
		FROM heroes WHERE replay_hash = ?
		ORDER BY player_id, position`, replayHash)
	if err != nil {
		return err
	}
	var order []key
	for rows.Next() {
		var k key
		var level int
		if err := rows.Scan(&k.player, &k.hero, &level); err != nil {
			rows.Close()
			return err
		}
		heroes[k] = &model.HeroInfo{
			ID:                k.hero,
			Level:             level,
			Abilities:         map[string]int{},
			AbilityOrder:      []model.AbilityEvent{},
			RetrainingHistory: []model.Retraining{},
		}
		order = append(order, k)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = db.conn.Query(`
		SELECT player_id, hero_id, kind, ms, ability_id
		FROM hero_abilities WHERE replay_hash = ?
		ORDER BY player_id, hero_id, seq`, replayHash)
	if err != nil {
		return err
	}
	for rows.Next() {
		var k key
		var kind, abilityID string
		var ms int
		if err := rows.Scan(&k.player, &k.hero, &kind, &ms, &abilityID); err != nil {
			rows.Close()
			return err
		}
		h, ok := heroes[k]
		if !ok {
			continue
		}
		ev := model.AbilityEvent{Type: model.AbilityEventType(kind), Time: ms, Value: abilityID}
		h.AbilityOrder = append(h.AbilityOrder, ev)
		// Current abilities are whatever was learned since the last retraining.
		if ev.Type == model.AbilityRetraining {
			h.Abilities = map[string]int{}
		} else {
			h.Abilities[abilityID]++
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = db.conn.Query(`
		SELECT player_id, hero_id, snapshot_seq, ms, ability_id, count
		FROM hero_retrainings WHERE replay_hash = ?
		ORDER BY player_id, hero_id, snapshot_seq`, replayHash)
	if err != nil {
		return err
	}
	defer rows.Close()
	lastSeq := make(map[key]int)
	for rows.Next() {
		var k key
		var seq, ms, count int
		var abilityID string
		if err := rows.Scan(&k.player, &k.hero, &seq, &ms, &abilityID, &count); err != nil {
			return err
		}
		h, ok := heroes[k]
		if !ok {
			continue
		}
		if prev, seen := lastSeq[k]; !seen || prev != seq {
			h.RetrainingHistory = append(h.RetrainingHistory, model.Retraining{Time: ms, Abilities: map[string]int{}})
			lastSeq[k] = seq
		}
		if abilityID != "" {
			h.RetrainingHistory[len(h.RetrainingHistory)-1].Abilities[abilityID] = count
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, k := range order {
		if s, ok := byID[k.player]; ok {
			s.Heroes = append(s.Heroes, *heroes[k])
		}
	}
	return nil
}

// PlayerReplayCount is a per-player name tally across stored replays.
type PlayerReplayCount struct {
	Name    string
	Replays int
	AvgAPM  float64
}

// ListPlayers returns every stored player name with the number of replays
// and their mean activity rate over replays where it is defined.
func (db *DB) ListPlayers() ([]PlayerReplayCount, error) {
	rows, err := db.conn.Query(`
		SELECT name, COUNT(1), COALESCE(AVG(CASE WHEN apm >= 0 THEN apm END), -1)
		FROM player_stats GROUP BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerReplayCount
	for rows.Next() {
		var p PlayerReplayCount
		if err := rows.Scan(&p.Name, &p.Replays, &p.AvgAPM); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Replays != out[j].Replays {
			return out[i].Replays > out[j].Replays
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	out := []int{}
	if s == "" {
		return out, nil
	}
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
