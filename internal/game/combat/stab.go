package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// StabDivisor maps a stab type to the divisor used in stab damage and armour
// bypass. Smaller divisors are stronger stabs; 0 means no stab.
func StabDivisor(st StabType) int {
	switch st {
	case StabSleeping, StabParalysed, StabPetrified, StabHeld:
		return 1
	case StabDistracted, StabInvisible:
		return 2
	case StabFleeing, StabConfused, StabAllyOfPlayer:
		return 4
	case StabSurrounded:
		return 6
	}
	return 0
}

// StabParams carries the attacker properties stab damage depends on.
type StabParams struct {
	WeaponSkill int
	Stealth     int
	Dexterity   int
	// Good is set for short blades and other implements that stab well.
	Good  bool
	Katar bool
}

// PlayerStabWeaponBonus returns the stab damage for a hit of damage against a
// defender with the given stab divisor. Good stabbing implements add
// dexterity and an extra multiplier, and katars one more on top.
//
// Precondition: divisor >= 1.
// Postcondition: for equal rolls, a smaller divisor never yields less damage.
func PlayerStabWeaponBonus(src dice.Source, sp StabParams, divisor, damage int) int {
	if divisor < 1 {
		panic("combat: PlayerStabWeaponBonus precondition violated: divisor must be >= 1")
	}
	stabSkill := sp.WeaponSkill*50 + sp.Stealth*50
	mult := func(d int) int {
		d *= 10 + dice.DivRandRound(src, stabSkill, 100*divisor)
		return d / 10
	}
	if sp.Good {
		damage += sp.Dexterity
		damage = mult(damage)
		if sp.Katar {
			damage = mult(damage)
		}
	}
	return mult(damage)
}

// playerGoodStab reports whether the current implement gets the full stab.
func (m *MeleeAttack) playerGoodStab() bool {
	return m.wpnSkill == inventory.SkillShortBlades || mutation(m.attacker, MutPaws) > 0
}

// playerStabCheck decides whether this swing is a stab and how strong.
func (m *MeleeAttack) playerStabCheck() {
	p, ok := asPlayer(m.attacker)
	if !ok || has(p, condition.Confused) || has(p, condition.Vertigo) {
		m.stabAttempt, m.stabBonus = false, 0
		return
	}
	st := m.ctx.World.StabType(m.attacker, m.defender)
	if m.weapon.IsUnrand(inventory.UnrandSpriggansKnife) && st != StabNone {
		st = StabSleeping
	}
	m.stabAttempt = st != StabNone
	m.stabBonus = StabDivisor(st)
	if m.stabAttempt && m.stabBonus > 1 {
		chance := p.Skill(m.wpnSkill)/2 + p.Skill(inventory.SkillStealth)/2 + p.Dexterity() + 1
		m.stabAttempt = dice.XChanceInY(m.ctx.Src, chance, 100)
	}
}

// playerStab announces a stab and returns its bonus damage. A swing that is
// not a stab is noisy enough to disturb the defender.
func (m *MeleeAttack) playerStab(damage int) int {
	if m.stabAttempt {
		if !m.quiet {
			m.stabMessage()
		}
	} else {
		m.stabBonus = 0
		if !m.quiet {
			m.ctx.Behaviour.Alert(EventDisturb, m.defender, m.attacker)
		}
	}
	if m.stabBonus == 0 {
		return 0
	}
	p, _ := asPlayer(m.attacker)
	sp := StabParams{
		WeaponSkill: p.Skill(m.wpnSkill),
		Stealth:     p.Skill(inventory.SkillStealth),
		Dexterity:   p.Dexterity(),
		Good:        m.playerGoodStab(),
		Katar:       m.weapon != nil && m.weapon.Def.Katar,
	}
	return PlayerStabWeaponBonus(m.ctx.Src, sp, m.stabBonus, max(1, damage))
}

func (m *MeleeAttack) stabMessage() {
	src := m.ctx.Src
	def := m.defender.Name(DescThe)
	switch m.stabBonus {
	case 6:
		if dice.Coinflip(src) {
			m.ctx.emitf(ChannelCombat, "You strike %s from a blind spot!", def)
		} else {
			m.ctx.emitf(ChannelCombat, "You catch %s momentarily off-guard.", def)
		}
	case 4:
		if !dice.OneChanceIn(src, 3) {
			m.ctx.emitf(ChannelCombat, "You catch %s completely off-guard!", def)
		} else {
			m.ctx.emitf(ChannelCombat, "You strike %s from behind!", def)
		}
	case 2, 1:
		m.ctx.emitf(ChannelCombat, "%s fails to defend %s.", def, m.defender.Pronoun(PronounReflexive))
	}
}
