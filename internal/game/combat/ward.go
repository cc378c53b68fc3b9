package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// magmaSplashChance is the denominator of the fire ward's splash chance.
const magmaSplashChance = 18

// defenderStaff returns the magical staff the defender holds in its primary
// hand, or nil. A mount never holds one.
func (m *MeleeAttack) defenderStaff() *inventory.Weapon {
	if m.mountDefend {
		return nil
	}
	lo := m.defender.Loadout()
	if lo == nil {
		return nil
	}
	w := lo.Wielded(inventory.HandPrimary)
	if w == nil || !w.Def.MagicStaff {
		return nil
	}
	return w
}

// elementBeam maps a staff element to the flavour that wears down a ward.
func elementBeam(e inventory.StaffElement) (BeamFlavour, bool) {
	switch e {
	case inventory.ElementFire:
		return BeamFire, true
	case inventory.ElementCold:
		return BeamCold, true
	case inventory.ElementAir:
		return BeamElectricity, true
	case inventory.ElementPoison:
		return BeamPoison, true
	}
	return BeamNone, false
}

// randomElementalBeam picks fire, cold or electricity for chaotic attacks.
func randomElementalBeam(src dice.Source) BeamFlavour {
	return [...]BeamFlavour{BeamFire, BeamCold, BeamElectricity}[dice.Random2(src, 3)]
}

// flavourWardBeam returns the flavour a monster's attack flavour drains a
// ward with, if any.
func (m *MeleeAttack) flavourWardBeam() (BeamFlavour, bool) {
	switch m.attkFlavour {
	case FlavourPoison, FlavourPoisonStrong, FlavourReachSting, FlavourPoisonPetrify,
		FlavourPoisonStr, FlavourMiasmata, FlavourRot:
		return BeamPoison, true
	case FlavourFire, FlavourStickyFlame, FlavourPureFire:
		return BeamFire, true
	case FlavourCold:
		return BeamCold, true
	case FlavourElec:
		return BeamElectricity, true
	case FlavourAcid, FlavourCorrode:
		return BeamAcid, true
	case FlavourPureChaos, FlavourChaotic:
		return randomElementalBeam(m.ctx.Src), true
	case FlavourEngulf, FlavourDrown:
		return BeamWater, true
	}
	return BeamNone, false
}

// brandWardBeam returns the flavour a weapon brand drains a ward with.
func (m *MeleeAttack) brandWardBeam(b inventory.Brand) (BeamFlavour, bool) {
	switch b {
	case inventory.BrandAcid:
		return BeamAcid, true
	case inventory.BrandChaos:
		return randomElementalBeam(m.ctx.Src), true
	case inventory.BrandElectrocution:
		return BeamElectricity, true
	case inventory.BrandFreezing:
		return BeamCold, true
	case inventory.BrandMolten:
		return BeamFire, true
	}
	return BeamNone, false
}

// loseWard drains str charges from the defender's ward.
func (m *MeleeAttack) loseWard(beam BeamFlavour, str int) {
	w := m.defenderStaff()
	if !w.Warding() || str <= 0 {
		return
	}
	collapsed := w.DrainWard(str)
	m.ctx.Logger.Debug("ward drained",
		zap.String("defender", m.defender.ID()),
		zap.Int("beam", int(beam)),
		zap.Int("strength", str),
		zap.Int("charges", w.WardCharges),
	)
	if collapsed && m.ctx.canSee(m.defender) {
		ch := ChannelPlain
		if m.defender.IsPlayer() {
			ch = ChannelWarning
		}
		m.ctx.emitf(ch, "The ward of %s %s flickers out.", m.defender.Name(DescIts), w.Def.Name)
	}
}

// magmaSplash lets a fire ward spit lava back at the attacker.
func (m *MeleeAttack) magmaSplash() {
	w := m.defenderStaff()
	if !w.Warding() || w.Def.Element != inventory.ElementFire || !m.attacker.Alive() {
		return
	}
	src := m.ctx.Src
	skill := staffSkill(m.defender, inventory.SkillFireMagic)
	if !dice.XChanceInY(src, skill, magmaSplashChance) {
		return
	}
	orig := 1 + dice.Random2(src, skill)
	dam := ResistAdjustDamage(m.attacker, BeamFire, orig)
	if m.ctx.canSee(m.defender) {
		m.ctx.emitf(ChannelCombat, "A bit of lava splashes out of %s protective magma ball and hits %s%s",
			m.defender.Name(DescIts), m.attacker.Name(DescThe), m.punctuation(dam))
		switch {
		case dam > orig:
			m.ctx.emitf(ChannelCombat, "The lava burns %s terribly.", m.attacker.Pronoun(PronounObjective))
		case dam == 0:
			m.ctx.emitf(ChannelCombat, "%s completely %s.", m.attacker.Pronoun(PronounSubjective), m.attacker.ConjVerb("resist"))
		case dam < orig:
			m.ctx.emitf(ChannelCombat, "%s %s.", m.attacker.Pronoun(PronounSubjective), m.attacker.ConjVerb("resist"))
		}
	}
	if dam > 0 {
		m.attacker.Hurt(m.defender, dam, BeamFire)
	}
}

// vampiricTendrils heals a vampiric attacker off a blocking transmutation
// staff.
func (m *MeleeAttack) vampiricTendrils() {
	vamp := m.attkFlavour == FlavourScarab || m.attkFlavour == FlavourVampiric ||
		m.weapon != nil && !m.weapon.Def.MagicStaff && m.weapon.Brand == inventory.BrandVampirism
	if !vamp {
		return
	}
	w := m.defenderStaff()
	if w == nil || w.Def.Element != inventory.ElementTransmutation ||
		!m.attacker.Alive() || m.attacker.HP() >= m.attacker.MaxHP() {
		return
	}
	healed := ResistAdjustDamage(m.defender, BeamNeg, 1+dice.Random2(m.ctx.Src, 18))
	if healed <= 0 {
		return
	}
	m.attacker.Heal(healed)
	if m.ctx.canSee(m.attacker) {
		m.ctx.emitf(ChannelCombat, "%s %s strength from %s %s tendrils!",
			m.atkName(DescThe), m.attackerVerb("draw"), m.defender.Name(DescIts), apostrophise(w.Def.Name))
	}
}
