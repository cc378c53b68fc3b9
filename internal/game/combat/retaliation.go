package combat

import (
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

func longBlade(w *inventory.Weapon) bool {
	return w != nil && w.Def.IsLongBlade()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RiposteChance returns how many thirds of the time defender ripostes a
// dodged swing: one per long blade wielded.
//
// Postcondition: 0 <= result <= 2.
func RiposteChance(defender Actor) int {
	return boolInt(longBlade(defender.Weapon(0))) + boolInt(longBlade(defender.Weapon(1)))
}

// maybeRiposte lets a defender wielding long blades counter a dodged swing.
func (m *MeleeAttack) maybeRiposte() {
	src := m.ctx.Src
	d := m.defender
	lbl0 := longBlade(d.Weapon(0))
	lbl1 := longBlade(d.Weapon(1))
	if !dice.XChanceInY(src, RiposteChance(d), 3) || m.isRiposte {
		return
	}
	slot := 0
	switch {
	case lbl0 && lbl1:
		if !dice.Coinflip(src) {
			slot = 1
		}
	case lbl1:
		slot = 1
	}
	m.riposte(slot)
}

// riposte runs the defender's counter-attack to completion.
func (m *MeleeAttack) riposte(slot int) {
	child := m.newRiposte(slot)
	if child == nil {
		return
	}
	if m.ctx.canSee(m.defender) {
		m.ctx.emitf(ChannelCombat, "%s %s.", m.defender.Name(DescThe), m.defender.ConjVerb("riposte"))
	}
	m.work.run(child)
}

// doMinotaurRetaliation headbutts an attacker that just missed a horned
// defender.
func (m *MeleeAttack) doMinotaurRetaliation() {
	src := m.ctx.Src
	if lo := m.defender.Loadout(); lo != nil && lo.WearingEgo(inventory.SlotHelmet, inventory.EgoSkull) {
		return
	}

	p, ok := asPlayer(m.defender)
	if !ok {
		if !dice.XChanceInY(src, 2, 5) {
			return
		}
		hurt := m.attacker.ApplyAC(src, dice.Random2(src, 21), 20, ACNormal, 0)
		if m.ctx.canSee(m.defender) {
			def := m.defender.Name(DescThe)
			m.ctx.emitf(ChannelCombat, "%s furiously retaliates!", def)
			if hurt <= 0 {
				m.ctx.emitf(ChannelCombat, "%s headbutts %s, but does no damage.", def, m.attacker.Name(DescThe))
			} else {
				m.ctx.emitf(ChannelCombat, "%s headbutts %s%s", def, m.attacker.Name(DescThe), m.punctuation(hurt))
			}
		}
		if hurt > 0 {
			m.attacker.Hurt(m.defender, hurt, BeamMissile)
		}
		return
	}

	if p.Form().UsesXL() {
		return
	}
	if 5*p.Strength()+7*p.Dexterity() <= dice.Random2(src, 600) {
		return
	}
	dmg := 5 + p.MutationLevel(MutHorns)*3
	dmg = playerStatModifyDamage(src, p, dmg)
	dmg = dice.Random2(src, dmg)
	dmg = playerApplyFightingSkill(src, p, dmg, true)
	dmg = playerMiscModifiers(src, p, inventory.BrandNone, dmg)
	dmg = playerApplySlaying(src, p, nil, dmg, true)
	dmg = playerBodyMultipliers(src, p, dmg)
	hurt := m.attacker.ApplyAC(src, dmg, dmg, ACNormal, 0)

	m.ctx.emit(ChannelCombat, "You furiously retaliate!")
	if hurt <= 0 {
		m.ctx.emitf(ChannelCombat, "You headbutt %s, but do no damage.", m.attacker.Name(DescThe))
		return
	}
	m.ctx.emitf(ChannelCombat, "You headbutt %s%s", m.attacker.Name(DescThe), m.punctuation(hurt))
	m.attacker.Hurt(p, hurt, BeamMissile)
}
