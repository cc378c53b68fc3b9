package combat

import (
	"sort"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
)

// Side is one participant of a duel together with its rolled initiative.
type Side struct {
	Actor      Actor
	Initiative int
}

// InitiativeBonus returns the flat bonus a adds to its initiative roll.
// Players add half their dexterity above 10; monsters a third of their hit
// dice. Haste and slow shift the result by five either way.
func InitiativeBonus(a Actor) int {
	bonus := a.HitDice() / 3
	if p, ok := asPlayer(a); ok {
		bonus = (p.Dexterity() - 10) / 2
	}
	switch {
	case condition.HasHaste(a.Statuses()):
		bonus += 5
	case has(a, condition.Slow):
		bonus -= 5
	}
	return bonus
}

// RollInitiative rolls d20 plus InitiativeBonus for every actor and returns
// the sides ordered by initiative, highest first. Ties keep input order.
//
// Precondition: src must not be nil; actors must not contain nil.
// Postcondition: len(result) == len(actors) and result is sorted by Initiative descending.
func RollInitiative(src dice.Source, actors []Actor) []*Side {
	sides := make([]*Side, 0, len(actors))
	for _, a := range actors {
		if a == nil {
			panic("combat: RollInitiative precondition violated: actor must not be nil")
		}
		sides = append(sides, &Side{Actor: a, Initiative: dice.RollDice(src, 1, 20) + InitiativeBonus(a)})
	}
	sort.SliceStable(sides, func(i, j int) bool {
		return sides[i].Initiative > sides[j].Initiative
	})
	return sides
}
