package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// doSpines pricks an attacker that swings at a spiny defender.
func (m *MeleeAttack) doSpines() {
	src := m.ctx.Src
	if !m.attacker.Alive() {
		return
	}
	if p, ok := asPlayer(m.defender); ok && !m.mountDefend {
		mut := p.MutationLevel(MutSpines)
		if mut == 0 || !dice.Coinflip(src) {
			return
		}
		dmg := dice.RandomRange(src, mut, p.ExperienceLevel()+mut)
		hurt := m.attacker.ApplyAC(src, dmg, dmg, ACNormal, 0)
		if hurt <= 0 {
			return
		}
		if m.ctx.canSee(m.attacker) {
			m.ctx.emitf(ChannelCombat, "%s %s struck by your spines%s",
				m.attacker.Name(DescThe), m.attacker.ConjVerb("are"), m.punctuation(hurt))
		}
		m.attacker.Hurt(p, hurt, BeamMissile)
		return
	}

	if !m.defender.HasTrait(TraitSpiny) {
		return
	}
	dmg := dice.Random2(src, m.defender.HitDice())
	hurt := m.attacker.ApplyAC(src, dmg, dmg, ACHalf, 0)
	if hurt <= 0 {
		return
	}
	if m.ctx.canSee(m.defender) || m.attacker.IsPlayer() {
		m.ctx.emitf(ChannelCombat, "%s %s struck by %s spines%s",
			m.attacker.Name(DescThe), m.attacker.ConjVerb("are"), m.defender.Name(DescIts), m.punctuation(hurt))
	}
	m.attacker.Hurt(m.defender, hurt, BeamMissile)
}

// attackerSustainPassiveDamage burns an attacker that hits an acid-splashing
// defender.
func (m *MeleeAttack) attackerSustainPassiveDamage() {
	src := m.ctx.Src
	if !m.defender.Alive() || !m.defender.HasTrait(TraitAcidSplash) {
		return
	}
	if m.attacker.Resistance(BeamAcid) >= 3 {
		return
	}
	if !m.attacker.Pos().Adjacent(m.defender.Pos()) || m.isRiposte {
		return
	}
	strength := ResistAdjustDamage(m.attacker, BeamAcid, 5)
	if dice.XChanceInY(src, strength+1, 30) {
		status := condition.Corroded
		if m.mountAttack {
			status = condition.MountCorroded
		}
		m.ctx.applyStatus(m.attacker, status, 1, 10+dice.Random2(src, 10))
	}
	hurt := dice.RollDice(src, 1, strength)
	switch {
	case m.mountAttack:
		m.ctx.emitf(ChannelCombat, "Your %s is burned by acid%s", m.attacker.Name(DescPlain), m.punctuation(hurt))
	case m.attacker.IsPlayer():
		m.ctx.emitf(ChannelCombat, "Your hands burn%s", m.punctuation(hurt))
	case m.ctx.canSee(m.attacker):
		m.ctx.emitf(ChannelCombat, "%s is burned by acid%s", m.attacker.Name(DescThe), m.punctuation(hurt))
	}
	if hurt > 0 {
		m.attacker.Hurt(m.defender, hurt, BeamAcid)
	}
}

// passiveReady reports whether a player defender's passive mutation can
// answer this attacker.
func (m *MeleeAttack) passiveReady(mut Mutation) (PlayerActor, int, bool) {
	p, ok := asPlayer(m.defender)
	if !ok || m.mountDefend {
		return nil, 0, false
	}
	lvl := p.MutationLevel(mut)
	if lvl == 0 || !m.attacker.Alive() || !p.Pos().Adjacent(m.attacker.Pos()) {
		return nil, 0, false
	}
	if _, isMon := asMonster(m.attacker); !isMon {
		return nil, 0, false
	}
	return p, lvl, true
}

// doPassiveFreeze chills a monster that hits a player with passive freeze.
func (m *MeleeAttack) doPassiveFreeze() {
	p, _, ok := m.passiveReady(MutPassiveFreeze)
	if !ok {
		return
	}
	hurt := ResistAdjustDamage(m.attacker, BeamCold, dice.Random2(m.ctx.Src, 11))
	if hurt <= 0 {
		return
	}
	if m.ctx.canSee(m.attacker) {
		m.ctx.emitf(ChannelCombat, "%s is very cold.", m.attacker.Name(DescThe))
	}
	m.attacker.Hurt(p, hurt, BeamCold)
}

// monsDoEyeballConfusion lets a player's eyeballs confuse the attacker.
func (m *MeleeAttack) monsDoEyeballConfusion() {
	_, lvl, ok := m.passiveReady(MutEyeballs)
	if !ok || !dice.XChanceInY(m.ctx.Src, lvl, 20) {
		return
	}
	if m.attacker.HasTrait(TraitMagicImmune) {
		return
	}
	m.ctx.emitf(ChannelCombat, "The eyeballs on your body gaze at %s.", m.attacker.Name(DescThe))
	m.ctx.extendStatus(m.attacker, condition.Confused, 30+dice.Random2(m.ctx.Src, 100), 0)
}

// monsDoTendrilDisarm lets a player's tendrils strip the attacker's weapon.
func (m *MeleeAttack) monsDoTendrilDisarm() {
	src := m.ctx.Src
	p, _, ok := m.passiveReady(MutTendrils)
	if !ok || !dice.OneChanceIn(src, 5) {
		return
	}
	adj := m.attacker.HitDice()
	if m.attacker.HasTrait(TraitFighter) {
		adj = adj * 3 / 2
	}
	if dice.Random2(src, p.Dexterity()) <= adj && dice.Random2(src, p.Strength()) <= adj {
		return
	}
	lo := m.attacker.Loadout()
	if lo == nil {
		return
	}
	if w := lo.Unwield(inventory.HandPrimary); w != nil {
		m.ctx.emitf(ChannelCombat, "Your tendrils lash around %s %s and pull it to the ground!",
			apostrophise(m.attacker.Name(DescThe)), w.Def.Name)
	}
}

// emitFoulStench sickens a monster that hits a player with a foul stench.
func (m *MeleeAttack) emitFoulStench() {
	src := m.ctx.Src
	_, lvl, ok := m.passiveReady(MutFoulStench)
	if !ok {
		return
	}
	if dice.OneChanceIn(src, 3) {
		m.ctx.applyStatus(m.attacker, condition.Sick, 1, 50+dice.Random2(src, 100))
	}
	if m.damageDone > 4 && dice.XChanceInY(src, lvl, 5) {
		m.ctx.emit(ChannelCombat, "You emit a cloud of foul miasma!")
		m.ctx.applyStatus(m.attacker, condition.Sick, 1, 5+dice.Random2(src, 6))
	}
}

// doKnockback shoves the defender one cell away from the attacker. With
// trample the attacker follows into the vacated cell once the attack is over.
func (m *MeleeAttack) doKnockback(trample bool) bool {
	src := m.ctx.Src
	if has(m.defender, condition.Rooted) || incapacitated(m.attacker) {
		return false
	}
	w := m.ctx.World
	oldPos := m.defender.Pos()
	newPos := oldPos.Add(Pos{X: oldPos.X - m.attackPosition.X, Y: oldPos.Y - m.attackPosition.Y})

	if !dice.XChanceInY(src, 3, 6) || !w.Habitable(m.defender, newPos) ||
		!w.Habitable(m.attacker, oldPos) || w.ActorAt(newPos) != nil {
		if m.needsMessage {
			verb, pron := m.defender.ConjVerb("hold"), m.defender.Pronoun(PronounPossessive)
			if m.mountDefend {
				verb, pron = "holds", "its"
			}
			m.ctx.emitf(ChannelCombat, "%s %s %s ground!", m.defenderName(false), verb, pron)
		}
		return false
	}

	if m.needsMessage {
		verb := "stumble"
		if m.defender.HasTrait(TraitFlying) || incapacitated(m.defender) {
			verb = "are shoved"
		}
		if m.mountDefend {
			m.ctx.emitf(ChannelCombat, "You and your %s %s backwards!", m.defender.Name(DescPlain), verb)
		} else {
			m.ctx.emitf(ChannelCombat, "%s %s backwards!", m.defenderName(false), m.defender.ConjVerb(verb))
		}
	}
	m.defender.SetPos(newPos)
	if trample {
		m.effects.Add(Effect{Kind: EffectTrampleFollow, Target: m.attacker, Source: m.defender, Pos: oldPos})
	}
	return true
}
