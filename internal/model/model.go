package model

// Race is a player's race as declared in the lobby or detected from orders.
type Race string

const (
	RaceUnknown  Race = ""
	RaceHuman    Race = "H"
	RaceOrc      Race = "O"
	RaceNightElf Race = "N"
	RaceUndead   Race = "U"
	RaceRandom   Race = "R"
)

func (r Race) String() string {
	switch r {
	case RaceHuman:
		return "Human"
	case RaceOrc:
		return "Orc"
	case RaceNightElf:
		return "Night Elf"
	case RaceUndead:
		return "Undead"
	case RaceRandom:
		return "Random"
	default:
		return "?"
	}
}

// APMUndefined is reported as APM when a player closed no activity interval.
const APMUndefined = -1

// ---- Decoded action log ----

// ItemIDKind distinguishes the two payload encodings of an order id.
type ItemIDKind int

const (
	// ItemIDString is a four-character object code such as "hfoo".
	ItemIDString ItemIDKind = iota
	// ItemIDAlphanumeric is a raw order id given as bytes.
	ItemIDAlphanumeric
)

// ItemID is the object or order id carried by unit order actions.
type ItemID struct {
	Kind  ItemIDKind
	Code  string // set when Kind == ItemIDString
	Bytes []byte // set when Kind == ItemIDAlphanumeric
}

// StringID builds a string-encoded ItemID.
func StringID(code string) ItemID { return ItemID{Kind: ItemIDString, Code: code} }

// AlphanumericID builds a raw-bytes ItemID.
func AlphanumericID(b ...byte) ItemID { return ItemID{Kind: ItemIDAlphanumeric, Bytes: b} }

// Pair returns the first two order bytes, zero-padded.
func (id ItemID) Pair() (byte, byte) {
	var b0, b1 byte
	if id.Kind == ItemIDString {
		if len(id.Code) > 0 {
			b0 = id.Code[0]
		}
		if len(id.Code) > 1 {
			b1 = id.Code[1]
		}
		return b0, b1
	}
	if len(id.Bytes) > 0 {
		b0 = id.Bytes[0]
	}
	if len(id.Bytes) > 1 {
		b1 = id.Bytes[1]
	}
	return b0, b1
}

// Action opcodes understood by the aggregator.
const (
	ActionUnitOrderNoTarget    byte = 0x10
	ActionUnitOrderPoint       byte = 0x11
	ActionUnitOrderObject      byte = 0x12
	ActionGiveItem             byte = 0x13
	ActionUnitOrderTwoTargets  byte = 0x14
	ActionChangeSelection      byte = 0x16
	ActionAssignGroup          byte = 0x17
	ActionSelectGroup          byte = 0x18
	ActionSelectGroundItem     byte = 0x1C
	ActionCancelHeroRevival    byte = 0x1D
	ActionRemoveFromQueue      byte = 0x1E
	ActionEscape               byte = 0x61
	ActionEnterSkillSubmenu    byte = 0x66
	ActionEnterBuildingSubmenu byte = 0x67
)

// SelectModeDeselect is the 0x16 select mode for removing units from a selection.
const SelectModeDeselect = 0x02

// Action is one decoded player action.
type Action struct {
	ID         byte
	ItemID     ItemID
	SelectMode int
}

// BlockKind identifies the type of a RawBlock.
type BlockKind int

const (
	BlockTimeSlot BlockKind = iota
	BlockAction
	BlockLeave
)

// RawBlock is one entry of the decoded stream, kept in file order.
type RawBlock struct {
	Kind     BlockKind
	PlayerID int
	Action   Action
	MS       int // time increment for BlockTimeSlot
}

// RawPlayer is a participant declared at the start of the log.
type RawPlayer struct {
	ID     int
	Name   string
	TeamID int
	Color  int
	Race   Race
}

// RawReplay is the decoded action log for one match.
type RawReplay struct {
	Hash     string
	FileName string
	Players  []RawPlayer
	Blocks   []RawBlock
}

// ---- Aggregated output ----

// LedgerEntry is one arrival-ordered occurrence of an object id.
type LedgerEntry struct {
	ID string `json:"id"`
	MS int    `json:"ms"`
}

// Ledger tracks counts and arrival order for one domain (units, items, ...).
type Ledger struct {
	Summary map[string]int `json:"summary"`
	Order   []LedgerEntry  `json:"order"`
}

// NewLedger returns an empty ledger.
func NewLedger() Ledger {
	return Ledger{Summary: make(map[string]int)}
}

// Add records one occurrence of id at ms.
func (l *Ledger) Add(id string, ms int) {
	if l.Summary == nil {
		l.Summary = make(map[string]int)
	}
	l.Summary[id]++
	l.Order = append(l.Order, LedgerEntry{ID: id, MS: ms})
}

// Total returns the number of recorded occurrences.
func (l *Ledger) Total() int { return len(l.Order) }

// AbilityEventType tags entries of a hero's ability order.
type AbilityEventType string

const (
	AbilityLearned    AbilityEventType = "ability"
	AbilityRetraining AbilityEventType = "retraining"
)

// AbilityEvent is either a learned ability or a retraining marker.
type AbilityEvent struct {
	Type  AbilityEventType `json:"type"`
	Time  int              `json:"time"`
	Value string           `json:"value,omitempty"` // ability id; empty for retraining
}

// Retraining is the ability snapshot taken when a hero was retrained.
type Retraining struct {
	Time      int            `json:"time"`
	Abilities map[string]int `json:"abilities"`
}

// HeroInfo is the finalized state of one hero.
type HeroInfo struct {
	ID                string         `json:"id"`
	Level             int            `json:"level"`
	Abilities         map[string]int `json:"abilities"`
	AbilityOrder      []AbilityEvent `json:"abilityOrder"`
	RetrainingHistory []Retraining   `json:"retrainingHistory"`
}

// ActionCounts holds the per-category action tallies of a player.
type ActionCounts struct {
	Timed        []int `json:"timed"`
	AssignGroup  int   `json:"assigngroup"`
	RightClick   int   `json:"rightclick"`
	Basic        int   `json:"basic"`
	BuildTrain   int   `json:"buildtrain"`
	Ability      int   `json:"ability"`
	Item         int   `json:"item"`
	Select       int   `json:"select"`
	RemoveUnit   int   `json:"removeunit"`
	SubGroup     int   `json:"subgroup"`
	SelectHotkey int   `json:"selecthotkey"`
	Esc          int   `json:"esc"`
}

// Total returns the number of categorized actions.
func (c ActionCounts) Total() int {
	return c.AssignGroup + c.RightClick + c.Basic + c.BuildTrain + c.Ability +
		c.Item + c.Select + c.RemoveUnit + c.SubGroup + c.SelectHotkey + c.Esc
}

// PlayerStats is the finalized per-player shape handed to reports and storage.
type PlayerStats struct {
	ReplayHash   string       `json:"-"`
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	TeamID       int          `json:"teamid"`
	Color        string       `json:"color"`
	Race         Race         `json:"race"`
	RaceDetected Race         `json:"raceDetected"`
	Units        Ledger       `json:"units"`
	Items        Ledger       `json:"items"`
	Buildings    Ledger       `json:"buildings"`
	Upgrades     Ledger       `json:"upgrades"`
	Heroes       []HeroInfo   `json:"heroes"`
	Actions      ActionCounts `json:"actions"`
	APM          int          `json:"apm"`
	LeftAtMS     int          `json:"leftAt,omitempty"`
}

// HasAPM reports whether the player closed at least one activity interval.
func (s *PlayerStats) HasAPM() bool { return s.APM != APMUndefined }

// EffectiveRace returns the detected race, falling back to the declared one.
func (s *PlayerStats) EffectiveRace() Race {
	if s.RaceDetected != RaceUnknown {
		return s.RaceDetected
	}
	return s.Race
}

// ReplaySummary is a lightweight record for list/show commands.
type ReplaySummary struct {
	Hash        string `json:"hash"`
	FileName    string `json:"fileName"`
	ParsedAt    string `json:"parsedAt"`
	DurationMS  int    `json:"duration"`
	PlayerCount int    `json:"playerCount"`
}
