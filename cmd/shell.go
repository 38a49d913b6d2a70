package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/mappings"
	"github.com/pable/go-w3-metrics/internal/report"
	"github.com/pable/go-w3-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	tables, err := loadTables()
	if err != nil {
		return err
	}

	cGreeting.Println("w3metrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("w3metrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "players":
			shellPlayers(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix> [--player <id>]")
				continue
			}
			prefix := args[0]
			playerID := 0
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--player" {
					playerID, _ = strconv.Atoi(args[i+1])
				}
			}
			shellShow(db, tables, prefix, playerID)
		case "lookup":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: lookup <id> [<id>...]")
				continue
			}
			for _, id := range args {
				printLookup(tables, id)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored replays"},
		{"players", "list player names with replay counts and mean APM"},
		{"show <hash-prefix>", "show a replay's stats"},
		{"show <hash-prefix> --player <id>", "same, with one player's build order and ledgers"},
		{"lookup <id> [...]", "resolve object ids against the reference tables"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	replays, err := db.ListReplays()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(replays) == 0 {
		cMuted.Println("No replays stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-14s  %-28s  %7s  %s\n", "HASH", "FILE", "LENGTH", "PLAYERS")
	cMuted.Fprintf(os.Stdout, "%-14s  %-28s  %7s  %s\n",
		"──────────────", "────────────────────────────", "───────", "───────")
	for _, r := range replays {
		fmt.Fprintf(os.Stdout, "%-14s  %-28s  %7s  %d\n",
			shortHash(r.Hash), r.FileName, report.FormatMS(r.DurationMS), r.PlayerCount)
	}
}

func shellPlayers(db *storage.DB) {
	players, err := db.ListPlayers()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(players) == 0 {
		cMuted.Println("No players stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-24s  %7s  %7s\n", "NAME", "REPLAYS", "AVG_APM")
	for _, p := range players {
		apm := "—"
		if p.AvgAPM >= 0 {
			apm = fmt.Sprintf("%.0f", p.AvgAPM)
		}
		fmt.Fprintf(os.Stdout, "%-24s  %7d  %7s\n", p.Name, p.Replays, apm)
	}
}

func shellShow(db *storage.DB, tables *mappings.Tables, prefix string, playerID int) {
	replay, err := db.GetReplayByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if replay == nil {
		cWarn.Fprintf(os.Stderr, "no replay found with prefix %q\n", prefix)
		return
	}
	stats, err := db.GetPlayerStats(replay.Hash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	prev := focusPlayer
	focusPlayer = playerID
	printReplay(*replay, stats, tables)
	focusPlayer = prev
}
