package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// staffSkill returns a's skill in s. Monsters wield staves with their hit dice.
func staffSkill(a Actor, s inventory.Skill) int {
	if p, ok := asPlayer(a); ok {
		return p.Skill(s)
	}
	return a.HitDice()
}

// StaffDamage rolls the bonus damage of a magical staff for a wielder with
// the given evocations and school skill.
//
// Postcondition: result >= 0.
func StaffDamage(src dice.Source, evocations, school int) int {
	if !dice.XChanceInY(src, evocations*2+school, 30) {
		return 0
	}
	return dice.Random2(src, (school*100+evocations*50)/80)
}

func (m *MeleeAttack) staffDamage(s inventory.Skill) int {
	return StaffDamage(m.ctx.Src, staffSkill(m.attacker, inventory.SkillEvocations), staffSkill(m.attacker, s))
}

// attackerVerb conjugates verb for the attacker, with the player taking the
// bare form.
func (m *MeleeAttack) attackerVerb(verb string) string {
	if m.attacker.IsPlayer() && !m.mountAttack {
		return verb
	}
	return ThirdPerson(verb)
}

// applyStaffDamage adds a magical staff's elemental damage. It reports true
// whenever the weapon is a staff, in which case the weapon brand is skipped.
func (m *MeleeAttack) applyStaffDamage() bool {
	w := m.weapon
	if w == nil || !w.Def.MagicStaff {
		return false
	}
	if m.attacker.IsPlayer() && mutation(m.attacker, MutNoArtifice) > 0 {
		return false
	}
	src := m.ctx.Src
	m.specialDamage = 0
	m.specialDamageFlavour = BeamNone
	m.specialDamageMessage = ""
	atk := m.attacker.Name(DescThe)
	def := m.defender.Name(DescThe)

	switch w.Def.Element {
	case inventory.ElementAir:
		m.specialDamage = ResistAdjustDamage(m.defender, BeamElectricity, m.staffDamage(inventory.SkillAirMagic))
		if m.specialDamage > 0 {
			m.specialDamageMessage = fmt.Sprintf("%s %s electrocuted%s",
				def, m.defender.ConjVerb("are"), m.punctuation(m.specialDamage))
			m.specialDamageFlavour = BeamElectricity
		}
	case inventory.ElementCold:
		m.specialDamage = ResistAdjustDamage(m.defender, BeamCold, m.staffDamage(inventory.SkillIceMagic))
		if m.specialDamage > 0 {
			m.specialDamageMessage = fmt.Sprintf("%s %s %s%s",
				atk, m.attackerVerb("freeze"), def, m.punctuation(m.specialDamage))
			m.specialDamageFlavour = BeamCold
		}
	case inventory.ElementEarth:
		raw := m.staffDamage(inventory.SkillEarthMagic)
		m.specialDamage = m.applyDefenderAC(raw, raw)
		if m.specialDamage > 0 {
			m.specialDamageMessage = fmt.Sprintf("%s %s %s%s",
				atk, m.attackerVerb("crush"), def, m.punctuation(m.specialDamage))
		}
	case inventory.ElementFire:
		m.specialDamage = ResistAdjustDamage(m.defender, BeamFire, m.staffDamage(inventory.SkillFireMagic))
		if m.specialDamage > 0 {
			m.specialDamageMessage = fmt.Sprintf("%s %s %s%s",
				atk, m.attackerVerb("burn"), def, m.punctuation(m.specialDamage))
			m.specialDamageFlavour = BeamFire
		}
	case inventory.ElementPoison:
		evo := staffSkill(m.attacker, inventory.SkillEvocations)
		pois := staffSkill(m.attacker, inventory.SkillPoisonMagic)
		if dice.Random2(src, 300) >= evo*20+pois*10 {
			return true
		}
		if dice.XChanceInY(src, 80+pois*10, 160) && m.defender.Resistance(BeamPoison) <= 0 {
			status := condition.Poisoned
			if m.mountDefend {
				status = condition.MountPoisoned
			}
			m.ctx.applyStatus(m.defender, status, 2, 2)
		}
	case inventory.ElementDeath:
		if m.mountDefend || !m.defender.Holiness().Has(HolyUndead) {
			break
		}
		m.specialDamage = m.staffDamage(inventory.SkillNecromancy)
		if m.specialDamage > 0 {
			m.specialDamageMessage = fmt.Sprintf("%s %s%s",
				def, m.defender.ConjVerb("convulse"), m.punctuation(m.specialDamage))
		}
	}

	if m.specialDamage > 0 || m.specialDamageFlavour != BeamNone {
		m.ctx.Logger.Debug("staff damage",
			zap.String("defender", m.defender.ID()),
			zap.String("element", string(w.Def.Element)),
			zap.Int("damage", m.specialDamage),
		)
		if m.needsMessage && m.specialDamageMessage != "" {
			m.ctx.emit(ChannelCombat, m.specialDamageMessage)
		}
		m.inflictDamage(m.specialDamage, m.specialDamageFlavour)
	}
	m.specialDamageMessage = ""
	return true
}
