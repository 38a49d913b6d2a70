package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-w3-metrics/internal/mappings"
	"github.com/pable/go-w3-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// FormatMS renders a game time in milliseconds as m:ss.
func FormatMS(ms int) string {
	if ms < 0 {
		ms = 0
	}
	sec := ms / 1000
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func marker(id, focusID int) string {
	if focusID != 0 && id == focusID {
		return ">"
	}
	return " "
}

func apmString(s model.PlayerStats) string {
	if !s.HasAPM() {
		return "—"
	}
	return strconv.Itoa(s.APM)
}

// PrintReplaySummary prints a one-line summary header for the replay.
func PrintReplaySummary(w io.Writer, s model.ReplaySummary) {
	fmt.Fprintf(w, "\nFile: %s  |  Length: %s  |  Players: %d  |  Parsed: %s  |  Hash: %s\n\n",
		s.FileName, FormatMS(s.DurationMS), s.PlayerCount, s.ParsedAt, shortHash(s.Hash))
}

// PrintActionTable prints per-player action counts and APM.
// If focusID is non-zero, that player's row is marked with ">".
func PrintActionTable(w io.Writer, stats []model.PlayerStats, focusID int) {
	table := newTable(w)
	table.Header(
		" ", "NAME", "TEAM", "RACE", "APM", "TOTAL", "RCLICK", "BASIC", "BUILD", "ABIL",
		"ITEM", "SEL", "HOTKEY", "GROUP", "REMOVE", "ESC", "LEFT",
	)

	for _, s := range stats {
		a := s.Actions
		race := s.EffectiveRace().String()
		if s.Race == model.RaceRandom && s.RaceDetected != model.RaceUnknown {
			race = "R→" + race
		}
		left := "—"
		if s.LeftAtMS > 0 {
			left = FormatMS(s.LeftAtMS)
		}
		table.Append(
			marker(s.ID, focusID),
			s.Name,
			strconv.Itoa(s.TeamID),
			race,
			apmString(s),
			strconv.Itoa(a.Total()),
			strconv.Itoa(a.RightClick),
			strconv.Itoa(a.Basic),
			strconv.Itoa(a.BuildTrain),
			strconv.Itoa(a.Ability),
			strconv.Itoa(a.Item),
			strconv.Itoa(a.Select),
			strconv.Itoa(a.SelectHotkey),
			strconv.Itoa(a.AssignGroup),
			strconv.Itoa(a.RemoveUnit),
			strconv.Itoa(a.Esc),
			left,
		)
	}
	table.Render()
}

// PrintLedgerTable prints one row per produced object with its count, for
// units, buildings, upgrades and items of every player.
func PrintLedgerTable(w io.Writer, stats []model.PlayerStats, tables *mappings.Tables, focusID int) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "KIND", "ID", "NAME", "COUNT")

	for _, s := range stats {
		ledgers := []struct {
			kind string
			l    model.Ledger
		}{
			{"unit", s.Units}, {"building", s.Buildings}, {"upgrade", s.Upgrades}, {"item", s.Items},
		}
		for _, lg := range ledgers {
			ids := make([]string, 0, len(lg.l.Summary))
			for id := range lg.l.Summary {
				ids = append(ids, id)
			}
			// Most produced first, id as tie-break.
			sort.Slice(ids, func(i, j int) bool {
				ci, cj := lg.l.Summary[ids[i]], lg.l.Summary[ids[j]]
				if ci != cj {
					return ci > cj
				}
				return ids[i] < ids[j]
			})
			for _, id := range ids {
				table.Append(
					marker(s.ID, focusID),
					s.Name,
					lg.kind,
					id,
					tables.Name(id),
					strconv.Itoa(lg.l.Summary[id]),
				)
			}
		}
	}
	table.Render()
}

// PrintBuildOrder prints the first limit units and buildings of one player in
// arrival order. limit <= 0 prints everything.
func PrintBuildOrder(w io.Writer, s model.PlayerStats, tables *mappings.Tables, limit int) {
	type entry struct {
		kind string
		e    model.LedgerEntry
	}
	var entries []entry
	for _, e := range s.Units.Order {
		entries = append(entries, entry{"unit", e})
	}
	for _, e := range s.Buildings.Order {
		entries = append(entries, entry{"building", e})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].e.MS < entries[j].e.MS })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	fmt.Fprintf(w, "\nBuild order: %s\n", s.Name)
	table := newTable(w)
	table.Header("#", "TIME", "KIND", "NAME")
	for i, en := range entries {
		table.Append(strconv.Itoa(i+1), FormatMS(en.e.MS), en.kind, tables.Name(en.e.ID))
	}
	table.Render()
}

// PrintHeroTable prints each player's heroes in first-use order with their
// level, current abilities and retraining count.
func PrintHeroTable(w io.Writer, stats []model.PlayerStats, tables *mappings.Tables, focusID int) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "#", "HERO", "LVL", "ABILITIES", "RETRAINS")

	for _, s := range stats {
		for i, h := range s.Heroes {
			table.Append(
				marker(s.ID, focusID),
				s.Name,
				strconv.Itoa(i+1),
				tables.Name(h.ID),
				strconv.Itoa(h.Level),
				formatAbilities(h.Abilities, tables),
				strconv.Itoa(len(h.RetrainingHistory)),
			)
		}
	}
	table.Render()
}

func formatAbilities(abilities map[string]int, tables *mappings.Tables) string {
	ids := make([]string, 0, len(abilities))
	for id := range abilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s×%d", tables.Name(id), abilities[id]))
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}
