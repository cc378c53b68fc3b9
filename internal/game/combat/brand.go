package combat

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// MeleeConfuseChance is the percent chance a confusing brand affects a
// defender with hd hit dice.
func MeleeConfuseChance(hd int) int {
	return max(80*(24-hd)/24, 0)
}

func holyWrathSusceptible(a Actor) bool {
	return a.Holiness().Has(HolyUndead|HolyDemonic) || a.HasTrait(TraitHolyVictim)
}

func vampirismSusceptible(a Actor) bool {
	return isNatural(a) && !summoned(a)
}

func antimagicSusceptible(a Actor) bool {
	return a.HasTrait(TraitSpellcaster)
}

func silverSusceptible(a Actor) bool {
	return a.Holiness().Has(HolyUndead|HolyDemonic) || a.HasTrait(TraitShapeshifter) ||
		has(a, condition.Shapeshifter)
}

// applyDamageBrand resolves the weapon brand after a hit. It reports true when
// the brand removed the defender from the fight, as a banishing distortion does.
// A charged magic staff replaces the brand entirely.
func (m *MeleeAttack) applyDamageBrand(what string) bool {
	if m.applyStaffDamage() {
		return false
	}
	return m.applyBrand(m.damageBrand, what)
}

func (m *MeleeAttack) applyBrand(damageBrand inventory.Brand, what string) bool {
	src := m.ctx.Src
	m.specialDamage = 0
	m.obviousEffect = false
	ret := false

	brand := damageBrand
	if brand == inventory.BrandChaos {
		brand = m.randomChaosBrand()
	}

	if !m.defender.Alive() {
		switch brand {
		case inventory.BrandMolten, inventory.BrandFreezing, inventory.BrandElectrocution, inventory.BrandVampirism:
		default:
			return false
		}
	}
	if m.damageDone == 0 {
		switch brand {
		case inventory.BrandMolten, inventory.BrandFreezing, inventory.BrandHolyWrath, inventory.BrandAntimagic,
			inventory.BrandVorpal, inventory.BrandVampirism, inventory.BrandSilver, inventory.BrandDragonSlaying:
			return false
		}
	}

	switch brand {
	case inventory.BrandMolten:
		verb := "burn"
		if m.defender.HasTrait(TraitIcy) {
			verb = "melt"
		}
		m.calcElementalBrandDamage(BeamFire, verb, what)
	case inventory.BrandFreezing:
		m.calcElementalBrandDamage(BeamCold, "freeze", what)
	case inventory.BrandHolyWrath:
		if holyWrathSusceptible(m.defender) {
			m.specialDamage = 1 + dice.Random2(src, m.damageDone*15)/10
		}
		if m.specialDamage > 0 && m.ctx.canSee(m.defender) {
			m.specialDamageMessage = fmt.Sprintf("%s %s%s",
				m.defenderName(false), m.defender.ConjVerb("convulse"), m.punctuation(m.specialDamage))
		}
	case inventory.BrandElectrocution:
		m.electrocution()
	case inventory.BrandSilver:
		m.silverDamagesVictim()
	case inventory.BrandDragonSlaying:
		if m.defender.HasTrait(TraitDragonkind) {
			m.specialDamage = 1 + dice.Random2(src, m.damageDone*15)/10
			if m.ctx.canSee(m.defender) {
				m.specialDamageMessage = fmt.Sprintf("%s %s%s",
					m.defenderName(false), m.defender.ConjVerb("convulse"), m.punctuation(m.specialDamage))
			}
		}
	case inventory.BrandVenom:
		m.obviousEffect = m.applyPoisonDamageBrand()
	case inventory.BrandDraining:
		m.drainDefender()
	case inventory.BrandVorpal:
		m.specialDamage = 1 + dice.Random2(src, m.damageDone)/3
	case inventory.BrandVampirism:
		m.vampiricHeal()
	case inventory.BrandPain:
		m.painAffectsDefender()
	case inventory.BrandDistortion:
		ret = m.distortionAffectsDefender()
	case inventory.BrandConfuse:
		m.confuseBrand(damageBrand)
	case inventory.BrandChaos:
		m.chaosAffectsDefender()
	case inventory.BrandAntimagic:
		m.antimagicAffectsDefender(m.damageDone * 8)
	case inventory.BrandAcid:
		strength := 1
		if dice.XChanceInY(src, 1, 4) {
			strength = 2
		}
		m.splashWithAcid(strength)
	}

	if damageBrand == inventory.BrandChaos && brand != inventory.BrandChaos && !ret &&
		!m.miscast.pending() && dice.OneChanceIn(src, 20) {
		m.miscast.schedule(0, SchoolRandom, dice.Choose(src, m.attacker, m.defender))
	}

	if !m.obviousEffect {
		m.obviousEffect = m.specialDamageMessage != ""
	}
	if m.needsMessage && m.specialDamageMessage != "" {
		m.ctx.emit(ChannelCombat, m.specialDamageMessage)
		m.specialDamageMessage = ""
		// A message already describes the effect; a cosmetic miscast would repeat it.
		if m.miscast.pending() && m.miscast.level == 0 {
			m.miscast.cancel()
		}
	}
	if m.specialDamage > 0 {
		m.inflictDamage(m.specialDamage, m.specialDamageFlavour)
	}
	return ret
}

// calcElementalBrandDamage sets special damage for a fire or cold brand.
func (m *MeleeAttack) calcElementalBrandDamage(flavour BeamFlavour, verb, what string) {
	src := m.ctx.Src
	switch flavour {
	case BeamFire:
		m.specialDamage = m.damageDone
	case BeamCold:
		m.specialDamage = dice.DivRandRound(src, m.damageDone+dice.Random2(src, m.damageDone), 4)
	}
	m.specialDamage = ResistAdjustDamage(m.defender, flavour, m.specialDamage)
	m.specialDamageFlavour = flavour

	if m.needsMessage && m.specialDamage > 0 && verb != "" {
		subject := what
		conj := ThirdPerson(verb)
		if subject == "" {
			subject = m.atkName(DescThe)
			if !m.mountAttack {
				conj = m.attacker.ConjVerb(verb)
			}
		}
		m.specialDamageMessage = fmt.Sprintf("%s %s %s%s",
			subject, conj, m.defenderName(what == ""), m.punctuation(m.specialDamage))
	}
}

func (m *MeleeAttack) electrocution() {
	src := m.ctx.Src
	original := dice.RollDice(src, 2, 4)
	m.specialDamage = ResistAdjustDamage(m.defender, BeamElectricity, original)
	if m.specialDamage == 0 {
		return
	}
	if m.specialDamage == 1 && dice.Coinflip(src) {
		m.specialDamage = 0
		return
	}
	punct := m.punctuation(m.specialDamage)
	if m.defender.IsPlayer() && !m.mountDefend {
		how := "shocked"
		switch {
		case m.specialDamage < original:
			how = "lightly shocked"
		case m.specialDamage > original:
			how = "electrocuted"
		}
		m.specialDamageMessage = fmt.Sprintf("You are %s%s", how, punct)
	} else {
		how := ""
		switch {
		case m.specialDamage < original:
			how = "weakly "
		case m.specialDamage > original:
			how = "violently "
		}
		m.specialDamageMessage = fmt.Sprintf("Lightning %scourses through %s%s", how, m.defender.Name(DescThe), punct)
	}
	m.specialDamageFlavour = BeamElectricity
}

// silverDamagesVictim adds bonus damage against creatures silver harms.
func (m *MeleeAttack) silverDamagesVictim() {
	if !silverSusceptible(m.defender) {
		return
	}
	m.specialDamage = m.damageDone * 3 / 4
	if m.specialDamage > 0 && m.ctx.canSee(m.defender) {
		m.specialDamageMessage = fmt.Sprintf("The silver sears %s%s", m.defenderName(false), m.punctuation(m.specialDamage))
	}
}

// applyPoisonDamageBrand poisons the defender and reports whether its poison
// level rose.
func (m *MeleeAttack) applyPoisonDamageBrand() bool {
	src := m.ctx.Src
	if dice.OneChanceIn(src, 4) {
		return false
	}
	status := condition.Poisoned
	if m.mountDefend {
		status = condition.MountPoisoned
	}
	if m.defender.Resistance(BeamPoison) > 0 {
		return false
	}
	bonus := 0
	if mnt, ok := asMount(m.attacker); ok && mnt.Kind() == MountSpider {
		bonus = dice.Random2(src, mnt.Power()) / 8
	}
	amount := 6 + dice.Random2(src, 8) + bonus + dice.Random2(src, m.damageDone*3/2)
	before := m.defender.Statuses().Stacks(status)
	m.ctx.applyStatus(m.defender, status, amount, amount)
	return m.defender.Statuses().Stacks(status) > before
}

func (m *MeleeAttack) vampiricHeal() {
	a := m.attacker
	if m.damageDone < 1 || m.mountDefend || !vampirismSusceptible(m.defender) ||
		a.HP() == a.MaxHP() || a.IsPlayer() && has(a, condition.DeathsDoor) {
		return
	}
	var boost int
	if m.weapon.IsUnrand(inventory.UnrandVampiresTooth) || m.weapon.IsUnrand(inventory.UnrandLeech) {
		boost = m.damageDone
	} else {
		boost = max(dice.DivRandRound(m.ctx.Src, dice.RollDice(m.ctx.Src, 3, m.damageDone), 6), 1)
	}
	m.obviousEffect = true
	switch {
	case a.IsPlayer():
		m.specialDamageMessage = fmt.Sprintf("You draw strength from %s wounds%s",
			m.defender.Pronoun(PronounPossessive), m.punctuation(boost))
	case m.ctx.canSee(a) && m.defender.IsPlayer():
		m.specialDamageMessage = fmt.Sprintf("%s draws strength from your wounds%s", a.Name(DescThe), m.punctuation(boost))
	case m.ctx.canSee(a):
		m.specialDamageMessage = fmt.Sprintf("%s is healed%s", a.Name(DescThe), m.punctuation(boost))
	}
	a.Heal(boost)
}

// painAffectsDefender deals necromantic pain scaled by the wielder's necromancy.
func (m *MeleeAttack) painAffectsDefender() {
	src := m.ctx.Src
	necro := skill(m.attacker, inventory.SkillNecromancy)
	if _, ok := asMonster(m.attacker); ok {
		necro = m.attacker.HitDice() / 2
	}
	if dice.OneChanceIn(src, necro+1) {
		return
	}
	m.specialDamage += ResistAdjustDamage(m.defender, BeamNeg, dice.Random2(src, 1+necro))
	if m.specialDamage > 0 && m.ctx.canSee(m.defender) {
		m.specialDamageMessage = fmt.Sprintf("%s %s in agony%s",
			m.defenderName(false), m.defender.ConjVerb("writhe"), m.punctuation(m.specialDamage))
	}
}

// drainDefender drains life from the defender.
func (m *MeleeAttack) drainDefender() {
	src := m.ctx.Src
	_, isMon := asMonster(m.defender)
	if (isMon || m.mountDefend) && dice.Coinflip(src) {
		return
	}
	m.specialDamage = ResistAdjustDamage(m.defender, BeamNeg, (1+dice.Random2(src, m.damageDone))/2)
	if m.mountDefend {
		amount := 10 + min(m.specialDamage, 35)
		m.obviousEffect = m.ctx.applyStatus(m.defender, condition.MountDrained, amount, amount)
		return
	}
	if !m.drainExp(20 + min(35, m.damageDone)) {
		return
	}
	if m.defender.IsPlayer() {
		m.obviousEffect = true
	} else if m.ctx.canSee(m.defender) {
		m.specialDamageMessage = fmt.Sprintf("%s %s %s%s",
			m.atkName(DescThe), m.attacker.ConjVerb("drain"), m.defenderName(true), m.punctuation(m.specialDamage))
	}
}

// drainExp lowers the defender's effective level unless it fully resists
// negative energy.
func (m *MeleeAttack) drainExp(amount int) bool {
	if m.defender.Resistance(BeamNeg) >= 3 {
		return false
	}
	return m.ctx.applyStatus(m.defender, condition.Drained, amount, amount)
}

// drainDefenderSpeed saps the defender's vigour, slowing it.
func (m *MeleeAttack) drainDefenderSpeed() {
	if m.needsMessage {
		m.ctx.emitf(ChannelCombat, "%s %s %s vigour!",
			m.atkName(DescThe), m.attacker.ConjVerb("drain"), m.defender.Name(DescIts))
	}
	dur := 5 + dice.Random2(m.ctx.Src, 7)
	if m.mountDefend {
		m.ctx.applyStatus(m.defender, condition.MountSlowed, 0, dur)
		return
	}
	m.ctx.applyStatus(m.defender, condition.Slow, 0, dur)
}

// antimagicAffectsDefender disrupts the defender's spellcasting.
func (m *MeleeAttack) antimagicAffectsDefender(pow int) {
	if m.mountDefend {
		return
	}
	if !antimagicSusceptible(m.defender) && !m.defender.IsPlayer() {
		return
	}
	if m.defender.HasTrait(TraitMagicImmune) {
		return
	}
	dur := 2 + dice.DivRandRound(m.ctx.Src, pow, 8)
	m.obviousEffect = m.ctx.applyStatus(m.defender, condition.Antimagic, 0, dur) && m.ctx.canSee(m.defender)
}

type distortionEffect int

const (
	distortSmall distortionEffect = iota
	distortBig
	distortBanish
	distortBlink
	distortTeleInstant
	distortTeleDelayed
	distortNone
)

var distortionTable = []dice.Weighted[distortionEffect]{
	{Value: distortSmall, Weight: 33},
	{Value: distortBig, Weight: 22},
	{Value: distortBanish, Weight: 5},
	{Value: distortBlink, Weight: 15},
	{Value: distortTeleInstant, Weight: 10},
	{Value: distortTeleDelayed, Weight: 10},
	{Value: distortNone, Weight: 5},
}

// distortionAffectsDefender rolls a spatial distortion. It reports true when
// the defender was banished.
func (m *MeleeAttack) distortionAffectsDefender() bool {
	src := m.ctx.Src
	visible := m.ctx.canSee(m.defender)
	switch dice.MustChooseWeighted(src, distortionTable) {
	case distortSmall:
		m.specialDamage += 1 + dice.Random2Avg(src, 7, 2)
		m.specialDamageMessage = fmt.Sprintf("Space bends around %s%s", m.defenderName(false), m.punctuation(m.specialDamage))
	case distortBig:
		m.specialDamage += 3 + dice.Random2Avg(src, 24, 2)
		m.specialDamageMessage = fmt.Sprintf("Space warps horribly around %s%s", m.defenderName(false), m.punctuation(m.specialDamage))
	case distortBlink:
		m.obviousEffect = visible
		m.effects.Add(Effect{Kind: EffectBlink, Target: m.defender, Source: m.attacker})
	case distortBanish:
		if mnt, ok := asMount(m.defender); ok {
			m.ctx.emitf(ChannelWarning, "%s was banished out from underneath you!", mnt.Name(DescThe))
			mnt.Dismount()
			return true
		}
		m.obviousEffect = visible
		m.ctx.World.Banish(m.defender, m.attacker)
		return true
	case distortTeleInstant:
		m.obviousEffect = visible
		m.effects.Add(Effect{Kind: EffectTeleport, Target: m.defender, Source: m.attacker})
	case distortTeleDelayed:
		m.obviousEffect = visible
		if m.ctx.World.Teleport(m.defender, false) {
			m.ctx.applyStatus(m.defender, condition.Teleporting, 0, 3+dice.Random2(src, 3))
		}
	}
	return false
}

// confuseBrand confuses the defender. damageBrand is the weapon's own brand,
// which differs from BrandConfuse when a chaos weapon rolled confusion.
func (m *MeleeAttack) confuseBrand(damageBrand inventory.Brand) {
	src := m.ctx.Src
	if _, ok := asMonster(m.attacker); ok {
		if dice.OneChanceIn(src, 3) && !m.mountDefend {
			m.ctx.extendStatus(m.defender, condition.Confused, 1+dice.Random2(src, 3+m.attacker.HitDice()), 0)
		}
		return
	}
	if m.defender.IsPlayer() || m.defender.HasTrait(TraitMagicImmune) {
		return
	}
	if !dice.XChanceInY(src, MeleeConfuseChance(m.defender.HitDice()), 100) {
		return
	}
	applied := m.ctx.extendStatus(m.defender, condition.Confused, 5+dice.Random2(src, 6), 0)
	m.obviousEffect = applied && m.ctx.canSee(m.defender)
	if m.attacker.IsPlayer() && damageBrand == inventory.BrandConfuse && has(m.attacker, condition.ConfusingTouch) {
		m.attacker.Statuses().Remove(condition.ConfusingTouch)
		m.obviousEffect = false
	}
}

// splashWithAcid burns the defender with acid and corrodes its equipment.
func (m *MeleeAttack) splashWithAcid(strength int) {
	src := m.ctx.Src
	dam := ResistAdjustDamage(m.defender, BeamAcid, dice.RollDice(src, strength, 4))
	status := condition.Corroded
	if m.mountDefend {
		status = condition.MountCorroded
	}
	if m.defender.Resistance(BeamAcid) < 3 {
		m.ctx.applyStatus(m.defender, status, 1, 10+dice.Random2(src, 10))
	}
	if dam <= 0 {
		return
	}
	if m.ctx.canSee(m.defender) {
		m.ctx.emitf(ChannelCombat, "%s %s splashed with acid%s",
			m.defenderName(false), m.defender.ConjVerb("are"), m.punctuation(dam))
	}
	m.inflictDamage(dam, BeamAcid)
}

// inflictDamage applies damage of flavour to the defender on behalf of the
// responsible actor.
func (m *MeleeAttack) inflictDamage(dam int, flavour BeamFlavour) int {
	if flavour == BeamNone {
		flavour = m.specialDamageFlavour
	}
	return m.defender.Hurt(m.responsible, dam, flavour)
}
