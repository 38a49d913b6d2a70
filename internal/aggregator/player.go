package aggregator

import (
	"github.com/pable/go-w3-metrics/internal/mappings"
	"github.com/pable/go-w3-metrics/internal/model"
)

// Player accumulates the statistics of one participant while its actions are
// fed in game-time order. A Player is owned by a single goroutine; the tables it
// references are read-only and may be shared.
type Player struct {
	ID           int
	Name         string
	TeamID       int
	Color        string
	Race         model.Race
	RaceDetected model.Race

	Units     model.Ledger
	Items     model.Ledger
	Buildings model.Ledger
	Upgrades  model.Ledger

	Actions model.ActionCounts

	// LastActionWasDeselect is maintained by the caller that attributes
	// selection changes. The player never reads it.
	LastActionWasDeselect bool

	// LeftAtMS is the game time at which the player left, 0 if never seen.
	LeftAtMS int

	tables *mappings.Tables

	heroCollector map[string]*heroState
	heroCount     int

	currentlyTrackedAPM int
	lastRetrainingTime  int

	finalized bool
}

// NewPlayer creates the aggregate for one participant. color is the lobby slot.
func NewPlayer(id int, name string, teamID, color int, race model.Race, tables *mappings.Tables) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		TeamID:        teamID,
		Color:         mappings.PlayerColor(color),
		Race:          race,
		Units:         model.NewLedger(),
		Items:         model.NewLedger(),
		Buildings:     model.NewLedger(),
		Upgrades:      model.NewLedger(),
		Actions:       model.ActionCounts{Timed: []int{}},
		tables:        tables,
		heroCollector: make(map[string]*heroState),
	}
}

// detectRaceByActionID sets RaceDetected from the race letter that prefixes
// melee object ids.
func (p *Player) detectRaceByActionID(actionID string) {
	if actionID == "" {
		return
	}
	switch actionID[0] {
	case 'e':
		p.RaceDetected = model.RaceNightElf
	case 'o':
		p.RaceDetected = model.RaceOrc
	case 'h':
		p.RaceDetected = model.RaceHuman
	case 'u':
		p.RaceDetected = model.RaceUndead
	}
}

// handleStringEncodedItemID records id in the ledger of its domain.
// Unknown ids are dropped.
func (p *Player) handleStringEncodedItemID(actionID string, gametime int) {
	switch p.tables.Resolve(actionID) {
	case mappings.DomainUnit:
		p.Units.Add(actionID, gametime)
	case mappings.DomainItem:
		p.Items.Add(actionID, gametime)
	case mappings.DomainBuilding:
		p.Buildings.Add(actionID, gametime)
	case mappings.DomainUpgrade:
		p.Upgrades.Add(actionID, gametime)
	}
}
