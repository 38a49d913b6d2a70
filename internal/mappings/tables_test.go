package mappings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTablesResolve(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	cases := []struct {
		id   string
		want Domain
	}{
		{"hfoo", DomainUnit},
		{"Hpal", DomainUnit},
		{"stwp", DomainItem},
		{"tret", DomainItem},
		{"hbar", DomainBuilding},
		{"Rhme", DomainUpgrade},
		{"zzzz", DomainUnknown},
		{"", DomainUnknown},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tables.Resolve(tc.id), "id %q", tc.id)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	tables, err := Parse([]byte(`
units: {xdup: Unit}
items: {xdup: Item}
buildings: {xdup: Building, bbbb: Building}
upgrades: {bbbb: Upgrade}
`))
	require.NoError(t, err)
	require.Equal(t, DomainUnit, tables.Resolve("xdup"))
	require.Equal(t, DomainBuilding, tables.Resolve("bbbb"))
}

func TestHeroForAbility(t *testing.T) {
	tables := MustDefault()

	hero, ok := tables.HeroForAbility("AHbz")
	require.True(t, ok)
	require.Equal(t, "Hamg", hero)

	_, ok = tables.HeroForAbility("AXxx")
	require.False(t, ok)
}

func TestParseEmptyDocumentYieldsEmptyTables(t *testing.T) {
	tables, err := Parse([]byte(""))
	require.NoError(t, err)
	require.NotNil(t, tables.Units)
	require.NotNil(t, tables.Abilities)
	require.Equal(t, DomainUnknown, tables.Resolve("hfoo"))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units:\n  cust: Custom Unit\nabilities:\n  ACus: Hcus\n"), 0o644))

	tables, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DomainUnit, tables.Resolve("cust"))
	require.Equal(t, "Custom Unit", tables.Name("cust"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("units: [unclosed"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestNameFallsBackToID(t *testing.T) {
	tables := MustDefault()
	require.Equal(t, "Footman", tables.Name("hfoo"))
	require.Equal(t, "Archmage", tables.Name("Hamg"))
	require.Equal(t, "zzzz", tables.Name("zzzz"))
}

func TestPlayerColor(t *testing.T) {
	require.Equal(t, "#ff0303", PlayerColor(0))
	require.Equal(t, "#0042ff", PlayerColor(1))
	require.Equal(t, "#a46f33", PlayerColor(23))
	require.Equal(t, "#000000", PlayerColor(24))
	require.Equal(t, "#000000", PlayerColor(-1))
	for slot := -1; slot <= 24; slot++ {
		c := PlayerColor(slot)
		require.Len(t, c, 7, "slot %d", slot)
		require.Equal(t, byte('#'), c[0], "slot %d", slot)
	}
}
