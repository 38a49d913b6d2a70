package aggregator

import (
	"errors"
	"fmt"

	"github.com/pable/go-w3-metrics/internal/mappings"
	"github.com/pable/go-w3-metrics/internal/model"
)

// ErrUnknownPlayer is returned when an action references an undeclared player.
var ErrUnknownPlayer = errors.New("action for undeclared player")

// DefaultRetrainingItems are the item ids whose purchase or use starts a retraining.
var DefaultRetrainingItems = []string{"tret", "tert"}

// Options configures Aggregate.
type Options struct {
	Tables *mappings.Tables
	// IntervalMS is the activity interval length; 0 means DefaultAPMIntervalMS.
	IntervalMS int
	// RetrainingItems overrides DefaultRetrainingItems when non-nil.
	RetrainingItems []string
}

// Result is the outcome of aggregating one replay.
type Result struct {
	Players    []model.PlayerStats // in declaration order
	DurationMS int
}

// Aggregate replays the decoded blocks of raw against one Player per declared
// participant and returns their finalized stats.
//
// Time slots advance the game clock; every full interval closes an activity
// interval for all players at once. Actions are stamped with the clock at
// which they arrive.
func Aggregate(raw *model.RawReplay, opts Options) (*Result, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil RawReplay")
	}
	tables := opts.Tables
	if tables == nil {
		var err error
		if tables, err = mappings.Default(); err != nil {
			return nil, fmt.Errorf("load default tables: %w", err)
		}
	}
	interval := opts.IntervalMS
	if interval <= 0 {
		interval = DefaultAPMIntervalMS
	}
	retraining := make(map[string]struct{})
	items := opts.RetrainingItems
	if items == nil {
		items = DefaultRetrainingItems
	}
	for _, id := range items {
		retraining[id] = struct{}{}
	}

	players := make([]*Player, 0, len(raw.Players))
	byID := make(map[int]*Player, len(raw.Players))
	for _, rp := range raw.Players {
		if _, dup := byID[rp.ID]; dup {
			return nil, fmt.Errorf("player %d declared twice", rp.ID)
		}
		p := NewPlayer(rp.ID, rp.Name, rp.TeamID, rp.Color, rp.Race, tables)
		players = append(players, p)
		byID[rp.ID] = p
	}

	var clock, segment int
	for i, b := range raw.Blocks {
		switch b.Kind {
		case model.BlockTimeSlot:
			clock += b.MS
			segment += b.MS
			for segment >= interval {
				for _, p := range players {
					p.NewActionTrackingSegment(interval)
				}
				segment -= interval
			}

		case model.BlockAction:
			p, ok := byID[b.PlayerID]
			if !ok {
				return nil, fmt.Errorf("block %d: player %d: %w", i, b.PlayerID, ErrUnknownPlayer)
			}
			dispatch(p, b.Action, clock, retraining)

		case model.BlockLeave:
			if p, ok := byID[b.PlayerID]; ok && p.LeftAtMS == 0 {
				p.LeftAtMS = clock
			}
		}
	}

	// The trailing interval is normalised as a full one so a short tail
	// cannot inflate the rate. It is closed when time passed in it or when
	// actions arrived after the last closed interval.
	if segment > 0 || (clock > 0 && anyOpenActions(players)) {
		for _, p := range players {
			p.NewActionTrackingSegment(interval)
		}
	}

	res := &Result{DurationMS: clock}
	for _, p := range players {
		stats, err := p.Finalize()
		if err != nil {
			return nil, fmt.Errorf("finalize player %d: %w", p.ID, err)
		}
		stats.ReplayHash = raw.Hash
		res.Players = append(res.Players, stats)
	}
	return res, nil
}

func anyOpenActions(players []*Player) bool {
	for _, p := range players {
		if p.CurrentSegmentActions() > 0 {
			return true
		}
	}
	return false
}

// dispatch routes one action to p, resolving the two decisions the player
// leaves to its caller: retraining detection and selection attribution.
func dispatch(p *Player, a model.Action, gametime int, retraining map[string]struct{}) {
	switch a.ID {
	case model.ActionUnitOrderNoTarget:
		if a.ItemID.Kind == model.ItemIDString {
			if _, ok := retraining[a.ItemID.Code]; ok {
				p.HandleRetraining(gametime)
			}
		}
		p.HandleAction(a, gametime)

	case model.ActionChangeSelection:
		// A deselect is followed by an automatic reselect that the player
		// did not issue, so only the deselect is counted.
		if a.SelectMode == model.SelectModeDeselect {
			p.LastActionWasDeselect = true
			p.HandleSelection(a.SelectMode, true)
			return
		}
		if !p.LastActionWasDeselect {
			p.HandleSelection(a.SelectMode, true)
		}
		p.LastActionWasDeselect = false

	default:
		p.HandleAction(a, gametime)
	}
}
