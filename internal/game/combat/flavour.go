package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// FlavourDamage returns the elemental damage an attack flavour adds for a
// monster of hd hit dice. Flavours without elemental damage return 0. With
// random unset the result is the maximum.
//
// Postcondition: result >= 0 when hd >= 0.
func FlavourDamage(src dice.Source, flavour AttackFlavour, hd int, random bool) int {
	switch flavour {
	case FlavourFire:
		if random {
			return hd + dice.Random2(src, hd)
		}
		return hd * 2
	case FlavourCold:
		if random {
			return hd + dice.Random2(src, hd*2)
		}
		return hd * 3
	case FlavourElec:
		if random {
			return hd + dice.Random2(src, hd/2)
		}
		return hd * 3 / 2
	case FlavourPureFire:
		if random {
			return hd*3/2 + dice.Random2(src, hd)
		}
		return hd * 5 / 2
	}
	return 0
}

// apostrophise turns a name into its possessive form.
func apostrophise(name string) string {
	switch {
	case name == "":
		return name
	case name == "you" || name == "You":
		return name + "r"
	case strings.HasSuffix(name, "s"):
		return name + "'"
	}
	return name + "'s"
}

// monsAttackEffects applies a monster hit's flavour and decapitation and
// reports whether the attack continues.
func (m *MeleeAttack) monsAttackEffects() bool {
	if !valid(m.attacker) {
		return false
	}

	if m.attacker != m.defender && m.defender.Alive() {
		m.monsApplyAttackFlavour()
		if m.needsMessage && m.specialDamageMessage != "" {
			m.ctx.emit(ChannelCombat, m.specialDamageMessage)
		}
		if m.specialDamage > 0 {
			m.inflictDamage(m.specialDamage, m.specialDamageFlavour)
			m.specialDamage = 0
			m.specialDamageMessage = ""
			m.specialDamageFlavour = BeamNone
		}
	}

	if !m.attacker.Alive() {
		m.doMiscast()
		return false
	}
	if m.considerDecapitation(m.damageDone) {
		return false
	}

	if m.attacker != m.defender && m.attkFlavour == FlavourTrample && m.defender.Alive() {
		sturdy := m.defender.Loadout() != nil && m.defender.Loadout().WearingEgo(inventory.SlotBoots, inventory.EgoSturdy)
		if !sturdy && !has(m.defender, condition.Constricted) && !has(m.defender, condition.Held) {
			m.doKnockback(true)
		}
	}

	m.specialDamage = 0
	m.specialDamageMessage = ""
	m.specialDamageFlavour = BeamNone

	switch {
	case m.defender.Banished():
		m.doMiscast()
		return false
	case !m.defender.Alive():
		m.doMiscast()
		return m.attacker.Alive()
	case m.attacker == m.defender && m.weapon == nil:
		return false
	}
	m.doMiscast()
	return m.attacker.Alive()
}

// monsApplyAttackFlavour runs the side effect of the monster's natural
// attack flavour.
func (m *MeleeAttack) monsApplyAttackFlavour() {
	src := m.ctx.Src
	c := m.ctx
	hd := m.attacker.HitDice()

	flavour := m.attkFlavour
	if has(m.attacker, condition.ChaoticInfusion) && m.attackNumber == 0 ||
		flavour == FlavourChaotic || flavour == FlavourPureChaos {
		flavour = m.randomChaosAttackFlavour()
	}
	base := FlavourDamage(src, flavour, hd, true)

	switch flavour {
	case FlavourMutate:
		if dice.OneChanceIn(src, 4) {
			m.mutateDefender()
		}

	case FlavourPoison, FlavourPoisonStrong, FlavourReachSting, FlavourPoisonStr:
		if dice.OneChanceIn(src, 3) {
			m.monsDoPoison()
		}

	case FlavourFire:
		m.elementalFlavour(BeamFire, base, func(dmg int) string {
			verb := "are"
			if m.mountDefend {
				verb = "is"
			} else {
				verb = m.defender.ConjVerb(verb)
			}
			return fmt.Sprintf("%s %s engulfed in flames%s", m.defenderName(false), verb, m.punctuation(dmg))
		})
	case FlavourCold:
		m.elementalFlavour(BeamCold, base, func(dmg int) string {
			return fmt.Sprintf("%s %s %s%s", m.atkName(DescThe), m.attacker.ConjVerb("freeze"),
				m.defenderName(true), m.punctuation(dmg))
		})
	case FlavourElec:
		m.elementalFlavour(BeamElectricity, base, func(dmg int) string {
			return fmt.Sprintf("%s %s %s%s", m.atkName(DescThe), m.attacker.ConjVerb("shock"),
				m.defenderName(true), m.punctuation(dmg))
		})

	case FlavourMiasmata:
		c.applyStatus(m.defender, condition.Sick, 1, 50+dice.Random2(src, 100))

	case FlavourScarab:
		if dice.XChanceInY(src, 3, 5) {
			m.drainDefenderSpeed()
		}
		m.monsVampiric()
	case FlavourVampiric:
		m.monsVampiric()

	case FlavourDrainStr, FlavourDrainInt, FlavourDrainDex:
		if m.mountDefend {
			break
		}
		if dice.OneChanceIn(src, 20) || dice.OneChanceIn(src, 3) {
			if p, ok := asPlayer(m.defender); ok {
				stat := StatDex
				switch flavour {
				case FlavourDrainStr:
					stat = StatStr
				case FlavourDrainInt:
					stat = StatInt
				}
				p.DrainStat(stat, 1)
			}
		}

	case FlavourBlink:
		if dice.OneChanceIn(src, 3) {
			m.effects.Add(Effect{Kind: EffectBlink, Target: m.attacker, Source: m.attacker})
		}

	case FlavourConfuse:
		if m.attkType == AttackSpore {
			if m.defender.HasTrait(TraitUnbreathing) {
				break
			}
			if c.canSee(m.defender) {
				verb, tail := m.defender.ConjVerb("are"), "!"
				if m.mountDefend {
					verb, tail = "is", "to no avail."
				}
				c.emitf(ChannelCombat, "%s %s engulfed in a cloud of spores%s", m.defender.Name(DescThe), verb, tail)
			}
		}
		if !m.mountDefend && dice.OneChanceIn(src, 3) {
			c.extendStatus(m.defender, condition.Confused, 1+dice.Random2(src, 3+hd), 0)
		}

	case FlavourDrainXP:
		if dice.Coinflip(src) {
			m.drainDefender()
		}

	case FlavourContam:
		if m.defender.IsPlayer() && !m.mountDefend {
			break
		}
		if dice.OneChanceIn(src, 8) {
			m.mutateDefender()
		}

	case FlavourPoisonPetrify:
		m.poisonPetrify()

	case FlavourAcid:
		m.splashWithAcid(3)
	case FlavourCorrode:
		status := condition.Corroded
		if m.mountDefend {
			status = condition.MountCorroded
		}
		if m.defender.Resistance(BeamAcid) < 3 {
			c.applyStatus(m.defender, status, 1, 10+dice.Random2(src, 10))
		}
	case FlavourBarbs:
		c.applyStatus(m.defender, condition.Barbs, 1, 4+dice.Random2(src, 4))
	case FlavourDistort:
		m.distortionAffectsDefender()

	case FlavourRage:
		if dice.OneChanceIn(src, 3) || m.mountDefend || !canGoBerserk(m.defender) {
			break
		}
		if m.needsMessage {
			c.emitf(ChannelCombat, "%s %s %s!", m.atkName(DescThe), m.attacker.ConjVerb("infuriate"), m.defenderName(true))
		}
		c.applyStatus(m.defender, condition.Berserk, 1, 10+dice.Random2(src, 10))

	case FlavourStickyFlame:
		m.monsDoNapalm()

	case FlavourChaotic, FlavourPureChaos:
		m.chaosAffectsDefender()

	case FlavourHoly:
		if holyWrathSusceptible(m.defender) {
			m.specialDamage = m.attkDamage * 3 / 4
		}
		if m.needsMessage && m.specialDamage > 0 {
			c.emitf(ChannelCombat, "%s %s %s%s", m.atkName(DescThe), m.attacker.ConjVerb("sear"),
				m.defenderName(true), m.punctuation(m.specialDamage))
		}

	case FlavourAntimagic:
		m.antimagicAffectsDefender(hd * 12)

	case FlavourPain:
		m.painAffectsDefender()

	case FlavourEnsnare:
		if dice.OneChanceIn(src, 3) && !m.defender.HasTrait(TraitResSticky) {
			c.applyStatus(m.defender, condition.Held, 1, 3+dice.Random2(src, 4))
		}

	case FlavourCrush:
		if m.needsMessage {
			c.emitf(ChannelCombat, "%s %s %s.", m.atkName(DescThe), m.attacker.ConjVerb("grab"), m.defenderName(true))
		}
		c.World.StartConstricting(m.attacker, m.defender)

	case FlavourEngulf:
		if dice.XChanceInY(src, 2, 3) && canConstrict(m.attacker, m.defender) && !has(m.defender, condition.WaterHold) {
			c.applyStatus(m.defender, condition.WaterHold, 1, 10)
			if m.needsMessage {
				c.emitf(ChannelCombat, "%s %s %s in water!", m.atkName(DescThe), m.attacker.ConjVerb("engulf"), m.defenderName(true))
			}
		}

	case FlavourPureFire:
		m.specialDamage = m.defender.ApplyAC(src, base, base, ACHalf, 0)
		m.specialDamage = ResistAdjustDamage(m.defender, BeamFire, m.specialDamage)
		m.specialDamageFlavour = BeamFire
		if m.needsMessage && m.specialDamage > 0 {
			c.emitf(ChannelCombat, "%s %s %s!", m.atkName(DescThe), m.attacker.ConjVerb("burn"), m.defenderName(true))
			m.printResistMessages(BeamFire, base, m.specialDamage)
		}

	case FlavourDrainSpeed:
		if dice.XChanceInY(src, 3, 5) {
			m.drainDefenderSpeed()
		}

	case FlavourVuln:
		if !dice.OneChanceIn(src, 3) {
			break
		}
		if !m.defender.IsPlayer() && m.defender.HasTrait(TraitMagicImmune) {
			break
		}
		fresh := !has(m.defender, condition.LoweredMR)
		c.extendStatus(m.defender, condition.LoweredMR, 20+dice.Random2(src, 20), 40)
		if m.needsMessage && fresh {
			c.emitf(ChannelCombat, "%s magical defenses are stripped away!", m.defender.Name(DescIts))
		}

	case FlavourShadowstab:
		m.attacker.Statuses().Remove(condition.Invisible)

	case FlavourDrown:
		if m.defender.HasTrait(TraitUnbreathing) {
			break
		}
		m.specialDamage = hd*3/4 + dice.Random2(src, hd*3/4)
		m.specialDamageFlavour = BeamWater
		if m.needsMessage {
			c.emitf(ChannelCombat, "%s %s %s%s", m.atkName(DescThe), m.attacker.ConjVerb("drown"),
				m.defenderName(true), m.punctuation(m.specialDamage))
		}

	case FlavourWeakness:
		if dice.Coinflip(src) {
			c.extendStatus(m.defender, condition.Weak, 12, 0)
		}
	}
}

// elementalFlavour sets fire, cold or electric special damage.
func (m *MeleeAttack) elementalFlavour(flavour BeamFlavour, base int, msg func(dmg int) string) {
	m.specialDamage = ResistAdjustDamage(m.defender, flavour, base)
	m.specialDamageFlavour = flavour
	if m.needsMessage && base > 0 {
		m.ctx.emit(ChannelCombat, msg(m.specialDamage))
		m.printResistMessages(flavour, base, m.specialDamage)
	}
}

var vulnerableVerbs = map[BeamFlavour]string{
	BeamFire:        "burned",
	BeamCold:        "frozen",
	BeamElectricity: "electrocuted",
}

// printResistMessages reports how the defender's resistance changed base
// elemental damage into dealt.
func (m *MeleeAttack) printResistMessages(flavour BeamFlavour, base, dealt int) {
	name := m.defenderName(false)
	switch {
	case dealt == 0 && base > 0:
		m.ctx.emitf(ChannelPlain, "%s %s unaffected.", name, m.defender.ConjVerb("are"))
	case dealt < base:
		m.ctx.emitf(ChannelPlain, "%s %s.", name, m.defender.ConjVerb("resist"))
	case dealt > base:
		if verb, ok := vulnerableVerbs[flavour]; ok {
			m.ctx.emitf(ChannelPlain, "%s %s %s terribly!", name, m.defender.ConjVerb("are"), verb)
		}
	}
}

func canGoBerserk(a Actor) bool {
	return !a.HasTrait(TraitNoBerserk) && !has(a, condition.Berserk) && !incapacitated(a)
}

// mutateDefender mutates the defender, or deforms a ridden mount.
func (m *MeleeAttack) mutateDefender() {
	src := m.ctx.Src
	if mnt, ok := asMount(m.defender); ok {
		if !has(mnt, condition.MountWretched) {
			m.ctx.emitf(ChannelWarning, "Your %s twists and deforms!", mnt.Name(DescPlain))
		}
		m.ctx.extendStatus(mnt, condition.MountWretched, 3+dice.Random2(src, m.attacker.HitDice()), 30)
		return
	}
	cause := "mutagenic touch"
	if m.ctx.canSee(m.attacker) {
		cause = apostrophise(m.attacker.Name(DescPlain)) + " mutagenic touch"
	}
	m.ctx.World.Mutate(m.defender, cause)
}

// monsDoPoison poisons the defender and reports whether it took.
func (m *MeleeAttack) monsDoPoison() bool {
	src := m.ctx.Src
	hd := m.attacker.HitDice()
	var amount int
	if m.attkFlavour == FlavourPoisonStrong {
		amount = dice.RandomRange(src, hd*11/3, hd*13/2)
	} else {
		amount = dice.RandomRange(src, hd*2, hd*4)
	}
	if !m.poisonDefender(amount) {
		return false
	}
	if !m.mountDefend && m.attkFlavour == FlavourPoisonStr && dice.OneChanceIn(src, 3) {
		if p, ok := asPlayer(m.defender); ok {
			p.DrainStat(StatStr, 1)
		}
	}
	if m.needsMessage {
		m.ctx.emitf(ChannelCombat, "%s poisons %s%s", m.atkName(DescThe), m.defenderName(true), m.punctuation(amount))
	}
	return true
}

// poisonDefender adds amount of poison to the defender or its mount unless
// it resists poison.
func (m *MeleeAttack) poisonDefender(amount int) bool {
	if amount <= 0 || m.defender.Resistance(BeamPoison) > 0 {
		return false
	}
	status := condition.Poisoned
	if m.mountDefend {
		status = condition.MountPoisoned
	}
	before := m.defender.Statuses().Stacks(status)
	m.ctx.applyStatus(m.defender, status, amount, before+amount)
	return m.defender.Statuses().Stacks(status) > before
}

func (m *MeleeAttack) poisonPetrify() {
	src := m.ctx.Src
	if !m.mountDefend && m.defender.IsPlayer() && has(m.defender, condition.DivineStamina) {
		m.ctx.emit(ChannelGod, "Your divine stamina protects you from poison!")
		return
	}
	res := m.defender.Resistance(BeamPoison)
	if res >= 3 {
		return
	}
	if dice.OneChanceIn(src, 3) {
		hd := m.attacker.HitDice()
		m.poisonDefender(dice.RandomRange(src, hd*3/2, hd*5/2))
	}
	if (res <= 0 || dice.OneChanceIn(src, 3)) &&
		!has(m.defender, condition.Petrifying) && !has(m.defender, condition.Petrified) &&
		!m.defender.HasTrait(TraitResPetrify) {
		m.ctx.applyStatus(m.defender, condition.Petrifying, 1, 3+dice.Random2(src, 5))
	}
}

// monsVampiric heals the attacker from the defender's wounds.
func (m *MeleeAttack) monsVampiric() {
	if !vampirismSusceptible(m.defender) || m.mountDefend {
		return
	}
	if m.defender.HP() >= m.defender.MaxHP() {
		return
	}
	healed := ResistAdjustDamage(m.defender, BeamNeg, 1+dice.Random2(m.ctx.Src, m.damageDone))
	if healed <= 0 {
		return
	}
	m.attacker.Heal(healed)
	if m.needsMessage {
		m.ctx.emitf(ChannelCombat, "%s %s strength from %s injuries%s",
			m.atkName(DescThe), m.attacker.ConjVerb("draw"), m.defender.Name(DescIts), m.punctuation(healed))
	}
}

// monsDoNapalm coats the defender in sticky flame.
func (m *MeleeAttack) monsDoNapalm() {
	src := m.ctx.Src
	if m.defender.HasTrait(TraitResSticky) || !dice.OneChanceIn(src, 3) {
		return
	}
	if m.needsMessage {
		m.ctx.emitf(ChannelCombat, "%s %s covered in liquid flames%s",
			m.defenderName(false), m.defender.ConjVerb("are"), m.punctuation(m.specialDamage))
	}
	dur := min(4, 1+dice.Random2(src, m.attacker.HitDice())/2)
	if m.defender.IsPlayer() {
		dur = dice.Random2Avg(src, 7, 3) + 1
	}
	m.ctx.applyStatus(m.defender, condition.StickyFlame, 1, dur)
}

// considerDecapitation chops a head off a hydra defender when the hit
// allows it and reports whether the defender died.
func (m *MeleeAttack) considerDecapitation(dam int) bool {
	mon, ok := asMonster(m.defender)
	if !ok || !m.attackChopsHeads(dam) {
		return false
	}
	m.decapitate(mon)
	if !m.defender.Alive() {
		return true
	}
	if !isNatural(m.defender) {
		return false
	}

	visible := m.ctx.canSee(m.defender)
	switch m.damageBrand {
	case inventory.BrandMolten:
		if visible {
			m.ctx.emit(ChannelPlain, "The heat cauterises the wound!")
		}
		return false
	case inventory.BrandAcid:
		if visible {
			m.ctx.emit(ChannelPlain, "The acid burns away any new growth!")
		}
		return false
	}
	if mon.Heads() >= mon.MaxHeads()-1 {
		return false
	}
	if visible {
		m.ctx.emitf(ChannelPlain, "%s grows two more!", mon.Name(DescThe))
	}
	mon.SetHeads(mon.Heads() + 2)
	mon.Heal(8 + dice.Random2(m.ctx.Src, 8))
	return false
}

// attackChopsHeads reports whether this hit severs a hydra head.
func (m *MeleeAttack) attackChopsHeads(dam int) bool {
	src := m.ctx.Src
	if !m.defender.HasTrait(TraitHydra) || m.isRiposte {
		return false
	}
	_, atkMon := asMonster(m.attacker)
	if atkMon && !dice.OneChanceIn(src, 4) {
		return false
	}
	switch m.damageType {
	case inventory.DamageSlicing, inventory.DamageChopping:
	case inventory.DamageClawing:
		if mutation(m.attacker, MutClaws) < 3 {
			return false
		}
	default:
		return false
	}
	return dam > 0 && (dam >= 4 || !dice.Coinflip(src))
}

var (
	clawVerbs  = []string{"rip", "tear", "claw"}
	sliceVerbs = []string{"slice", "lop", "chop", "hack"}
)

func (m *MeleeAttack) decapitate(mon MonsterActor) {
	verbs := sliceVerbs
	if m.damageType == inventory.DamageClawing {
		verbs = clawVerbs
	}
	verb := m.attacker.ConjVerb(dice.Choose(m.ctx.Src, verbs...))
	visible := m.ctx.canSee(m.defender)
	if mon.Heads() <= 1 {
		if visible {
			m.ctx.emitf(ChannelCombat, "%s %s %s last head off!", m.atkName(DescThe), verb, apostrophise(m.defenderName(true)))
		}
		mon.Hurt(m.responsible, mon.HP(), BeamNone)
		return
	}
	if visible {
		m.ctx.emitf(ChannelCombat, "%s %s one of %s heads off!", m.atkName(DescThe), verb, apostrophise(m.defenderName(true)))
	}
	mon.SetHeads(mon.Heads() - 1)
}
