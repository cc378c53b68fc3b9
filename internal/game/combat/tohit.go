package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// TohitPercent returns the displayed chance, in percent, that an attack with
// the given to-hit lands against evasion ev.
// A non-positive to-hit only lands against a defender without evasion.
//
// Postcondition: the result is within [0, 100].
func TohitPercent(ev, toHit int) int {
	if toHit <= 0 {
		if ev <= 0 {
			return 100
		}
		return 0
	}
	var perc float64
	if ev > toHit {
		perc = (float64(toHit) + 1) / 2 / float64(ev) * 100
	} else {
		perc = 100 - (float64(ev)-1)/2/float64(toHit)*100
	}
	return max(0, min(100, int(perc)))
}

// WeaponBonus scales mhit by weapon accuracy and slaying. hd < 1 selects the
// player rule, where strength is the player's strength; monsters use hd.
func WeaponBonus(src dice.Source, mhit float64, hd, strength, slay int, weapon *inventory.Weapon, random bool) float64 {
	if weapon != nil {
		base := weapon.Def.Accuracy
		str := hd
		if hd < 1 {
			str = strength
		}
		if !weapon.Def.MagicStaff {
			slay += weapon.Plus
		}
		if random {
			str = dice.DivRandRound(src, str, 4)
		} else {
			str /= 4
		}
		if base < 0 {
			base = min(0, base+str)
		} else if hd < 1 && strength < 0 {
			base += str
		}
		mhit *= float64(max(5, 10+base))
		mhit /= 10
	}
	mhit *= float64(40 + slay)
	mhit /= 40
	return mhit
}

// playerToHitBase is the player's accuracy before defender-dependent modifiers.
func playerToHitBase(src dice.Source, p PlayerActor, weapon *inventory.Weapon, aux bool, malus int, random bool) float64 {
	mhit := float64(6 + max(2*p.Dexterity()/3, -1))
	wpnSkill := inventory.SkillUnarmed
	if weapon != nil {
		wpnSkill = weapon.Def.Skill
	}
	usesXL := p.Form().UsesXL()
	if usesXL {
		wpnSkill = inventory.SkillFighting
	}

	switch {
	case aux:
	case weapon != nil:
		if wpnSkill != inventory.SkillFighting {
			mhit *= float64(2700 + p.Skill(wpnSkill)*300 + p.Skill(inventory.SkillFighting)*100)
			mhit /= 2700
		}
	case usesXL:
		mhit *= float64(9 + p.ExperienceLevel())
		mhit /= 9
	default:
		if p.MutationLevel(MutClaws) > 0 {
			mhit *= 2 + 0.4*float64(p.MutationLevel(MutClaws))
		} else {
			mhit *= 2
		}
		mhit *= float64(900 + p.Skill(wpnSkill)*100)
		mhit /= 900
	}

	if p.Starving() {
		mhit *= 0.7
	}
	mhit *= float64(max(20-malus, 5))
	mhit /= 20

	if has(p, condition.Vertigo) {
		mhit *= 0.85
	}
	if lvl := p.MutationLevel(MutGoldenEyeballs); lvl > 0 {
		mhit *= float64(10 + lvl)
		mhit /= 10
	}
	if lvl := p.MutationLevel(MutBuddingEyeballs); lvl > 0 {
		mhit *= float64(10 + lvl)
		mhit /= 10
	}
	mhit *= float64(10 + p.Vision())
	mhit /= 10

	return WeaponBonus(src, mhit, 0, p.Strength(), p.Slaying(), weapon, random)
}

// monsterToHitBase is a monster's melee accuracy before defender-dependent modifiers.
func monsterToHitBase(src dice.Source, mon MonsterActor, weapon *inventory.Weapon, random bool) float64 {
	mhit := float64(16 + mon.HitDice()*2)
	if mon.HasTrait(TraitFighter) {
		mhit *= 2
	}
	mhit *= float64(10 - mon.Inaccuracy())
	mhit /= 10
	return WeaponBonus(src, mhit, mon.HitDice(), 0, mon.Slaying(), weapon, random)
}

// CalcToHit returns attacker's accuracy against defender. A nil defender
// yields the base value used by inspection displays. With random unset the
// result is the deterministic average.
//
// Precondition: c and attacker must not be nil.
// Postcondition: result >= 0.
func CalcToHit(c *Context, attacker, defender Actor, weapon *inventory.Weapon, random, aux bool) int {
	if c == nil || attacker == nil {
		panic("combat: CalcToHit precondition violated: context and attacker must not be nil")
	}
	if weapon.IsUnrand(inventory.UnrandWoe) || weapon.IsUnrand(inventory.UnrandSniper) {
		return AutomaticHit
	}

	var mhit float64
	switch a := attacker.(type) {
	case MountActor:
		mhit = mountToHitBase(c.Src, a, random)
	case PlayerActor:
		malus := attacker.ArmourToHitPenalty() + attacker.ShieldToHitPenalty()
		mhit = playerToHitBase(c.Src, a, weapon, aux, malus, random)
	case MonsterActor:
		mhit = monsterToHitBase(c.Src, a, weapon, random)
	default:
		mhit = float64(16 + attacker.HitDice()*2)
	}

	if has(attacker, condition.Confused) {
		mhit *= 0.7
	}
	if defender == nil {
		return max(0, int(mhit))
	}

	if !attacker.CanSee(defender) {
		mhit *= 0.5
	} else {
		if lvl := mutation(defender, MutTranslucentSkin); lvl > 0 {
			mhit *= float64(10 - lvl)
			mhit /= 10
		}
		if c.World.Backlit(defender) {
			mhit *= 16
			mhit /= 100
		} else if !attacker.HasTrait(TraitNightvision) && c.World.Umbra(defender) {
			mhit *= 7
			mhit /= 10
		}
	}

	mhit = dice.MaybeRandom2(c.Src, mhit, random)
	hit := int(mhit)
	if random {
		hit = dice.RandRound(c.Src, mhit)
	}

	if p, ok := asPlayer(attacker); ok && weapon == nil && !aux && has(p, condition.ConfusingTouch) {
		hit = hit * (10 + p.Dexterity()) / 10
	}
	return max(0, hit)
}

// TestHit resolves a swing with to-hit toLand against evasion ev and returns
// the margin; non-negative means the attack connects. Deterministic mode
// uses the average evasion roll (ev-1)/2.
//
// Postcondition: toLand >= AutomaticHit implies result >= 0.
func TestHit(src dice.Source, toLand, ev int, random bool) int {
	if toLand >= AutomaticHit {
		return AutomaticHit
	}
	roll := (ev - 1) / 2
	if random {
		roll = dice.Random2(src, ev)
	}
	return toLand - roll
}
