package aggregator

import (
	"errors"
	"math"
	"sort"

	"github.com/pable/go-w3-metrics/internal/model"
)

// ErrAlreadyFinalized is returned by a second Finalize call.
var ErrAlreadyFinalized = errors.New("player already finalized")

// Finalize computes APM and the ordered hero list and returns the player's
// report shape. It must be called exactly once, after the last action and the
// last closed interval.
func (p *Player) Finalize() (model.PlayerStats, error) {
	if p.finalized {
		return model.PlayerStats{}, ErrAlreadyFinalized
	}
	p.finalized = true

	return model.PlayerStats{
		ID:           p.ID,
		Name:         p.Name,
		TeamID:       p.TeamID,
		Color:        p.Color,
		Race:         p.Race,
		RaceDetected: p.RaceDetected,
		Units:        p.Units,
		Items:        p.Items,
		Buildings:    p.Buildings,
		Upgrades:     p.Upgrades,
		Heroes:       reduceHeroes(p.heroCollector),
		Actions:      p.Actions,
		APM:          averageAPM(p.Actions.Timed),
		LeftAtMS:     p.LeftAtMS,
	}, nil
}

// averageAPM rounds the mean of the interval samples. With no samples the
// rate is undefined and model.APMUndefined is returned.
func averageAPM(timed []int) int {
	if len(timed) == 0 {
		return model.APMUndefined
	}
	sum := 0
	for _, v := range timed {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(timed))))
}

// reduceHeroes orders heroes by the time they were first used and computes
// each hero's level as the sum of its current ability counts.
func reduceHeroes(collector map[string]*heroState) []model.HeroInfo {
	states := make([]*heroState, 0, len(collector))
	for _, h := range collector {
		states = append(states, h)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].order < states[j].order })

	heroes := make([]model.HeroInfo, 0, len(states))
	for _, h := range states {
		level := 0
		for _, n := range h.abilities {
			level += n
		}
		heroes = append(heroes, model.HeroInfo{
			ID:                h.id,
			Level:             level,
			Abilities:         h.abilities,
			AbilityOrder:      h.abilityOrder,
			RetrainingHistory: h.retrainingHistory,
		})
	}
	return heroes
}
