package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-w3-metrics/internal/mappings"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id> [<id>...]",
	Short: "Resolve four-character object ids against the reference tables",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	tables, err := loadTables()
	if err != nil {
		return err
	}
	for _, id := range args {
		printLookup(tables, id)
	}
	return nil
}

func printLookup(tables *mappings.Tables, id string) {
	if hero, ok := tables.HeroForAbility(id); ok {
		fmt.Fprintf(os.Stdout, "%-6s  %-9s  hero skill of %s (%s)\n", id, "ability", hero, tables.Name(hero))
		return
	}
	d := tables.Resolve(id)
	if d == mappings.DomainUnknown {
		fmt.Fprintf(os.Stdout, "%-6s  %-9s  not in any table\n", id, d)
		return
	}
	fmt.Fprintf(os.Stdout, "%-6s  %-9s  %s\n", id, d, tables.Name(id))
}
