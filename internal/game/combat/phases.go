package combat

import (
	"strings"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// cleaveSetup captures the secondary targets before the primary swing, since
// the defender's cell may be empty once it dies.
func (m *MeleeAttack) cleaveSetup() {
	if m.attacker.Pos() == m.defender.Pos() {
		return
	}
	if m.weapon == nil || !m.weapon.Def.Cleaves || m.mountAttack {
		return
	}
	for _, t := range m.ctx.World.CleaveTargets(m.attacker, m.defender) {
		if t != nil && t != m.defender && t != m.attacker {
			m.cleaveTargets = append(m.cleaveTargets, t)
		}
	}
}

// canConstrict reports whether attacker may start a grab on defender.
func canConstrict(attacker, defender Actor) bool {
	return attacker != defender && attacker.Alive() && defender.Alive() &&
		!has(defender, condition.Constricted)
}

// handlePhaseAttempted filters out swings that cannot happen and reports
// whether the attack goes ahead.
func (m *MeleeAttack) handlePhaseAttempted() bool {
	if !m.adjacent() && !m.canReach() ||
		m.attkFlavour == FlavourCrush && !canConstrict(m.attacker, m.defender) {
		m.effectiveAttackNumber--
		return false
	}
	if _, ok := asMonster(m.attacker); ok && m.attkType == AttackNone {
		return false
	}
	if m.attacker.IsPlayer() && !m.mountAttack && has(m.attacker, condition.Afraid) &&
		dice.OneChanceIn(m.ctx.Src, 3) {
		m.ctx.emitf(ChannelWarning, "You attempt to attack %s, but flinch away in fear!", m.defender.Name(DescThe))
		return false
	}
	if m.attkFlavour == FlavourShadowstab && !m.defender.CanSee(m.attacker) {
		if m.ctx.canSee(m.defender) {
			m.ctx.emitf(ChannelCombat, "%s strikes at %s from the darkness!",
				m.attacker.Name(DescThe), m.defenderName(true))
		}
		m.toHit = AutomaticHit
		m.needsMessage = false
	}
	m.attackOccurred = true
	return true
}

// attackShieldBlocked rolls the defender's shield against this swing.
func (m *MeleeAttack) attackShieldBlocked(verbose bool) bool {
	if m.attacker == m.defender || incapacitated(m.defender) || m.toHit <= 0 {
		return false
	}
	proBlock := m.defender.ShieldClass()
	if proBlock <= 0 {
		return false
	}
	conBlock := dice.Random2(m.ctx.Src, m.attacker.ShieldBypass(m.toHit)+m.defender.ShieldBlockPenalty())
	if !m.defender.CanSee(m.attacker) {
		proBlock /= 3
	}
	if proBlock < conBlock {
		return false
	}
	m.perceivedAttack = true
	if m.needsMessage && verbose {
		m.ctx.emitf(ChannelCombat, "%s %s %s attack.",
			m.defenderName(false), m.defender.ConjVerb("block"), m.atkName(DescIts))
	}
	m.defender.ShieldBlockSucceeded(m.attacker)
	return true
}

// handlePhaseBlocked settles a swing stopped by a shield. A warding staff
// pays for the block in charges and may strike back.
func (m *MeleeAttack) handlePhaseBlocked() bool {
	m.magmaSplash()
	if beam, ok := m.flavourWardBeam(); ok {
		m.loseWard(beam, 1)
	}
	m.vampiricTendrils()

	m.damageDone = 0
	m.didHit = false
	if w := m.weapon; w != nil && m.defenderStaff().Warding() {
		if w.Def.MagicStaff {
			str := 0
			if m.attacker.IsPlayer() {
				str = dice.Random2(m.ctx.Src, staffSkill(m.attacker, inventory.SkillEvocations))
			} else if m.attacker.Alive() {
				str = dice.Random2(m.ctx.Src, m.attacker.HitDice())
			}
			if beam, ok := elementBeam(w.Def.Element); ok {
				m.loseWard(beam, str)
			}
		} else {
			str := 1
			if m.attacker.Alive() {
				str = m.CalcDamage() / 5
			}
			if beam, ok := m.brandWardBeam(w.Brand); ok {
				m.loseWard(beam, str)
			}
		}
	}
	return true
}

// handlePhaseDodged reports the miss and gives an adjacent defender its
// chance to retaliate. It returns false when the retaliation killed the
// attacker.
func (m *MeleeAttack) handlePhaseDodged() bool {
	m.didHit = false

	if m.needsMessage {
		if m.attacker.IsPlayer() && !m.mountAttack {
			m.playerWarnMiss()
		} else {
			m.ctx.emitf(ChannelCombat, "%s%s misses %s.",
				m.atkName(DescThe), EvasionMarginAdverb(m.evMargin), m.defenderName(true))
		}
	}

	if m.attacker == m.defender || !m.defender.Pos().Adjacent(m.attackPosition) ||
		!m.attacker.Alive() || !m.defender.CanSee(m.attacker) ||
		incapacitated(m.defender) || has(m.defender, condition.Confused) ||
		m.effectiveAttackNumber > 0 || m.mountDefend {
		return true
	}

	if m.defender.HasTrait(TraitMinotaur) {
		m.doMinotaurRetaliation()
	}
	if !m.attacker.Alive() {
		return false
	}
	if m.ctx.Tuning.RiposteEnabled {
		m.maybeRiposte()
	}
	return m.attacker.Alive()
}

// playerWhyMissed explains a player miss, blaming armour or a shield when the
// encumbrance alone made the difference.
func (m *MeleeAttack) playerWhyMissed() string {
	ev := m.defender.Evasion()
	armour := m.attacker.ArmourToHitPenalty()
	shield := m.attacker.ShieldToHitPenalty()
	if m.toHit < ev && m.toHit+armour+shield >= ev {
		armourMiss := armour > 0 && m.toHit+armour >= ev
		shieldMiss := shield > 0 && m.toHit+shield >= ev
		armourName := "armour"
		if body := m.attacker.Loadout().Worn(inventory.SlotBody); body != nil {
			armourName = body.Name
		}
		switch {
		case armourMiss && !shieldMiss:
			return "Your " + armourName + " prevents you from hitting "
		case shieldMiss && !armourMiss:
			return "Your shield prevents you from hitting "
		default:
			return "Your shield and " + armourName + " prevent you from hitting "
		}
	}
	return "You" + EvasionMarginAdverb(m.evMargin) + " miss "
}

func (m *MeleeAttack) playerWarnMiss() {
	m.ctx.emitf(ChannelCombat, "%s%s.", m.playerWhyMissed(), m.defender.Name(DescThe))
	if !has(m.defender, condition.Asleep) && !has(m.defender, condition.Fleeing) {
		m.ctx.Behaviour.Alert(EventWhack, m.defender, m.attacker)
	}
}

// handlePhaseHit resolves damage and everything a connecting swing triggers.
// It returns false when the attack should stop here.
func (m *MeleeAttack) handlePhaseHit() bool {
	src := m.ctx.Src
	m.cancelRemaining = false
	m.didHit = true
	m.perceivedAttack = true
	m.damageDone = 0

	if m.attacker.IsPlayer() && !m.mountAttack {
		if pow := m.attacker.Statuses().Stacks(condition.Infusion); pow > 0 {
			dmg := 2 + dice.DivRandRound(src, pow, 12)
			if hurt := m.defender.ApplyAC(src, dmg, dmg, ACNormal, 0); hurt > 0 {
				m.damageDone = hurt
			}
		}
	}

	m.damageDone += m.CalcDamage()

	if m.damageDone > 0 || flavourTriggersDamageless(m.attkFlavour) {
		if !m.handlePhaseDamaged() {
			return false
		}
	} else if m.needsMessage {
		verb := m.attackVerb
		does := "does"
		switch {
		case m.mountAttack:
		case m.attacker.IsPlayer():
			does = "do"
		default:
			verb = m.attacker.ConjVerb(m.monsAttackVerb())
		}
		if verb == "" {
			verb = m.attacker.ConjVerb("hit")
		}
		m.ctx.emitf(ChannelCombat, "%s %s %s but %s no damage.",
			m.atkName(DescThe), verb, m.defenderName(true), does)
	}

	if m.attacker.IsPlayer() && !m.mountAttack && m.defender.Alive() {
		if !m.playerHitEffects() {
			m.checkUnrand()
			return false
		}
	}

	m.applyDamageBrand("")

	if m.checkUnrand() {
		return false
	}
	if m.damageDone > 0 {
		m.applyBlackMark()
	}

	switch {
	case m.attacker.IsPlayer() && !m.cancelRemaining:
		if !m.quiet {
			m.ctx.Behaviour.Alert(EventWhack, m.defender, m.attacker)
		}
		if !m.defender.Alive() {
			return true
		}
	case m.defender.IsPlayer() && !m.mountDefend:
		m.doPassiveFreeze()
		m.emitFoulStench()
	}
	return true
}

// playerHitEffects runs the follow-ups of a player hit on a living defender
// and reports whether the attack continues.
func (m *MeleeAttack) playerHitEffects() bool {
	if !m.defender.Alive() {
		return false
	}
	return !m.considerDecapitation(m.damageDone)
}

// handlePhaseDamaged lets a shroud deflect the hit, then applies it.
func (m *MeleeAttack) handlePhaseDamaged() bool {
	src := m.ctx.Src
	shroudBroken := false
	if m.attacker != m.defender && !m.mountDefend && has(m.defender, condition.Shroud) &&
		!dice.OneChanceIn(src, 3) {
		if dice.XChanceInY(src, m.damageDone, 10+m.damageDone) {
			shroudBroken = true
			m.defender.Statuses().Remove(condition.Shroud)
		} else {
			if m.needsMessage {
				m.ctx.emitf(ChannelCombat, "%s shroud bends %s attack away%s",
					m.defender.Name(DescIts), m.atkName(DescIts), m.punctuation(m.damageDone))
			}
			m.didHit = false
			m.damageDone = 0
			return false
		}
	}

	if !m.mountDefend && canBleed(m.defender) && !summoned(m.defender) {
		if blood := min(m.damageDone, m.defender.HP()); blood > 0 {
			m.effects.Add(Effect{Kind: EffectBlood, Target: m.defender, Source: m.attacker, Amount: blood})
		}
	}

	m.announceHit()
	if m.needsMessage && m.resistMessage != "" {
		m.ctx.emit(ChannelPlain, strings.TrimSpace(m.resistMessage))
		m.resistMessage = ""
	}
	m.damageDone = m.inflictDamage(m.damageDone, beamForDamageType(m.damageType))

	if _, ok := asMonster(m.attacker); ok && !m.mountAttack {
		if !m.monsAttackEffects() {
			return false
		}
	}

	if shroudBroken && m.needsMessage {
		ch := ChannelPlain
		if m.defender.IsPlayer() {
			ch = ChannelWarning
		}
		m.ctx.emitf(ch, "%s shroud falls apart!", m.defender.Name(DescIts))
	}
	return !m.defender.Banished()
}

// handlePhaseKilled runs death bookkeeping once per swing.
func (m *MeleeAttack) handlePhaseKilled() bool {
	if m.killedHandled {
		return true
	}
	m.killedHandled = true
	if m.weapon.IsUnrand(inventory.UnrandWyrmbane) {
		m.runUnrand(true, m.specialDamage)
	}
	if !m.defender.IsPlayer() && !m.mountDefend {
		m.ctx.World.Killed(m.defender, m.responsible)
	}
	return true
}

// handlePhaseEnd swings at the captured cleave targets and lets a player
// defender's passive mutations answer the attacker.
func (m *MeleeAttack) handlePhaseEnd() bool {
	if len(m.cleaveTargets) > 0 {
		targets := m.cleaveTargets
		m.cleaveTargets = nil
		for _, t := range targets {
			if !m.attacker.Alive() {
				break
			}
			if !valid(t) || !t.Pos().Adjacent(m.attacker.Pos()) {
				continue
			}
			child := m.newChild(KindCleave, m.attacker, t, m.attackNumber, m.effectiveAttackNumber, true)
			if !m.work.run(child) {
				break
			}
		}
	}

	if m.defender.IsPlayer() && !m.mountDefend && m.defender.Alive() && m.attacker != m.defender {
		m.monsDoEyeballConfusion()
		m.monsDoTendrilDisarm()
	}
	return true
}

// handlePhaseAux follows a player's primary swing with unarmed auxiliary
// attacks from mutations.
func (m *MeleeAttack) handlePhaseAux() bool {
	if !m.variant.aux || !m.ctx.Tuning.AuxAttacks || m.isRiposte || m.cleaving {
		return true
	}
	if m.effectiveAttackNumber < 0 || m.effectiveAttackNumber > 2 {
		return true
	}
	if !m.defender.Pos().Adjacent(m.attackPosition) || !m.defender.Alive() {
		return true
	}
	m.playerAuxUnarmed()
	return true
}

// handleNoise makes the swing audible. Stabs are silent.
func (m *MeleeAttack) handleNoise(p Pos) {
	if m.stabAttempt || m.quiet {
		return
	}
	m.ctx.World.Noise(p, MeleeLoudness(m.damageDone), m.attacker)
}

// MeleeLoudness returns how loud a melee hit of the given damage is.
//
// Postcondition: 1 <= result <= 12.
func MeleeLoudness(damage int) int {
	return min(12, max(1, damage/4))
}

// alertDefender tells a monster defender it was attacked by another monster
// it had not noticed.
func (m *MeleeAttack) alertDefender() {
	if !m.perceivedAttack || m.quiet {
		return
	}
	_, atkMon := asMonster(m.attacker)
	_, defMon := asMonster(m.defender)
	if !atkMon || !defMon || !m.attacker.Alive() || !m.defender.Alive() {
		return
	}
	if dice.OneChanceIn(m.ctx.Src, 3) {
		m.ctx.Behaviour.Alert(EventWhack, m.defender, m.attacker)
	}
}

// applyBlackMark rolls the black mark debuffs on a damaging hit.
func (m *MeleeAttack) applyBlackMark() {
	src := m.ctx.Src
	marked := m.attacker.IsPlayer() && !m.mountAttack && mutation(m.attacker, MutBlackMark) > 0 && dice.OneChanceIn(src, 5)
	if _, ok := asMonster(m.attacker); ok && has(m.attacker, condition.BlackMark) {
		marked = true
	}
	if !marked || !m.defender.Alive() {
		return
	}
	switch dice.Random2(src, 3) {
	case 0:
		m.antimagicAffectsDefender(m.damageDone * 8)
	case 1:
		m.ctx.extendStatus(m.defender, condition.Weak, 6, 0)
	case 2:
		m.drainExp(10)
	}
}
