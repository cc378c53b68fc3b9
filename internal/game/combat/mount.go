package combat

import "github.com/cory-johannsen/melee/internal/game/dice"

// mountToHitBase is a mount's accuracy. A ridden mount strikes with its
// rider's unarmed accuracy; an unridden one falls back to its hit dice.
func mountToHitBase(src dice.Source, mnt MountActor, random bool) float64 {
	if r := mnt.Rider(); r != nil {
		return playerToHitBase(src, r, nil, false, 0, random)
	}
	return float64(16 + mnt.HitDice()*2)
}
