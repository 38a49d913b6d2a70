package aggregator

import "github.com/pable/go-w3-metrics/internal/model"

// heroState is the mutable per-hero bookkeeping kept until Finalize.
type heroState struct {
	id                string
	order             int // 1-based creation index
	abilities         map[string]int
	abilityOrder      []model.AbilityEvent
	retrainingHistory []model.Retraining
}

// handleHeroSkill records that the hero owning abilityID learned it at gametime.
//
// A pending retraining is applied to whichever hero receives the next skill,
// not to every hero: the replay does not say which hero used the tome.
func (p *Player) handleHeroSkill(abilityID string, gametime int) {
	heroID, ok := p.tables.HeroForAbility(abilityID)
	if !ok {
		return
	}

	hero, seen := p.heroCollector[heroID]
	if !seen {
		p.heroCount++
		hero = &heroState{
			id:                heroID,
			order:             p.heroCount,
			abilities:         make(map[string]int),
			retrainingHistory: []model.Retraining{},
		}
		p.heroCollector[heroID] = hero
	}

	if p.lastRetrainingTime > 0 {
		hero.retrainingHistory = append(hero.retrainingHistory, model.Retraining{
			Time:      p.lastRetrainingTime,
			Abilities: hero.abilities,
		})
		hero.abilities = make(map[string]int)
		hero.abilityOrder = append(hero.abilityOrder, model.AbilityEvent{
			Type: model.AbilityRetraining,
			Time: p.lastRetrainingTime,
		})
		p.lastRetrainingTime = 0
	}

	hero.abilities[abilityID]++
	hero.abilityOrder = append(hero.abilityOrder, model.AbilityEvent{
		Type:  model.AbilityLearned,
		Time:  gametime,
		Value: abilityID,
	})
}

// HandleRetraining marks a retraining at gametime. Only one retraining can be
// pending; a second call before the next hero skill replaces the first.
func (p *Player) HandleRetraining(gametime int) {
	p.lastRetrainingTime = gametime
}

// PendingRetraining returns the unresolved retraining time, or 0.
func (p *Player) PendingRetraining() int { return p.lastRetrainingTime }
