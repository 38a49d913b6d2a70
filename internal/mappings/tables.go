// Package mappings holds the static reference tables that classify Warcraft III
// object ids and map hero abilities to the hero that owns them.
package mappings

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// Domain is the ledger an object id belongs to.
type Domain int

const (
	DomainUnknown Domain = iota
	DomainUnit
	DomainItem
	DomainBuilding
	DomainUpgrade
)

func (d Domain) String() string {
	switch d {
	case DomainUnit:
		return "unit"
	case DomainItem:
		return "item"
	case DomainBuilding:
		return "building"
	case DomainUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Tables is the immutable set of lookup tables. A loaded Tables value is never
// written to, so one instance can be shared by every player of a replay.
type Tables struct {
	Units     map[string]string `yaml:"units"`
	Items     map[string]string `yaml:"items"`
	Buildings map[string]string `yaml:"buildings"`
	Upgrades  map[string]string `yaml:"upgrades"`
	// Abilities maps a hero ability id to the id of the hero that learns it.
	Abilities map[string]string `yaml:"abilities"`
	// Heroes maps hero ids to display names. Not used for classification.
	Heroes map[string]string `yaml:"heroes"`
}

// Default returns the embedded table set.
func Default() (*Tables, error) {
	return Parse(defaultTablesYAML)
}

// MustDefault is Default for callers that cannot recover from a broken build.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a table set from a YAML file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tables %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML table set.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	for _, m := range []*map[string]string{&t.Units, &t.Items, &t.Buildings, &t.Upgrades, &t.Abilities, &t.Heroes} {
		if *m == nil {
			*m = map[string]string{}
		}
	}
	return &t, nil
}

// Resolve returns the domain of id. Tables are checked in the order units,
// items, buildings, upgrades; overlaps resolve to the first match.
func (t *Tables) Resolve(id string) Domain {
	if _, ok := t.Units[id]; ok {
		return DomainUnit
	}
	if _, ok := t.Items[id]; ok {
		return DomainItem
	}
	if _, ok := t.Buildings[id]; ok {
		return DomainBuilding
	}
	if _, ok := t.Upgrades[id]; ok {
		return DomainUpgrade
	}
	return DomainUnknown
}

// HeroForAbility returns the hero that owns abilityID.
func (t *Tables) HeroForAbility(abilityID string) (string, bool) {
	hero, ok := t.Abilities[abilityID]
	return hero, ok
}

// Name returns the display name for any known id, or the id itself.
func (t *Tables) Name(id string) string {
	for _, m := range []map[string]string{t.Units, t.Items, t.Buildings, t.Upgrades, t.Heroes} {
		if n, ok := m[id]; ok && n != "" {
			return n
		}
	}
	return id
}
