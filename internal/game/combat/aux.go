package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// auxKind is an unarmed follow-up attack granted by a mutation or a
// transmutation staff.
type auxKind int

const (
	auxNone auxKind = iota
	auxConstrict
	auxStaff
	auxStaffSlap
	auxKick
	auxHeadbutt
	auxPeck
	auxTailSlap
	auxPunch
	auxBite
	auxPseudopods
	auxTentacles
	auxTentacles2
	auxTentacles3
	auxTentacles4
)

// auxAttack describes one auxiliary attack. The funcs read the player's
// current mutations, so a table row is valid for any player.
type auxAttack struct {
	kind   auxKind
	damage func(src dice.Source, p PlayerActor) int
	brand  func(p PlayerActor) inventory.Brand
	name   func(p PlayerActor) string
	verb   func(p PlayerActor) string
	// eligible decides, with a roll where the mutation calls for one, whether
	// the attack fires this round.
	eligible func(src dice.Source, p PlayerActor) bool
}

func fixed(n int) func(dice.Source, PlayerActor) int {
	return func(dice.Source, PlayerActor) int { return n }
}

func named(s string) func(PlayerActor) string {
	return func(PlayerActor) string { return s }
}

func noBrand(PlayerActor) inventory.Brand { return inventory.BrandNone }

func hasMut(p PlayerActor, mut Mutation) bool { return p.MutationLevel(mut) > 0 }

// auxAttacks is in the order the attacks are tried.
var auxAttacks = []auxAttack{
	{
		kind:   auxConstrict,
		damage: fixed(0),
		brand:  noBrand,
		name:   named("grab"),
		verb:   named("grab"),
		eligible: func(_ dice.Source, p PlayerActor) bool {
			return hasMut(p, MutConstrictTail)
		},
	},
	{
		kind:   auxStaff,
		damage: fixed(0),
		brand:  noBrand,
		name:   named("tentacle"),
		verb:   named("grab"),
		eligible: func(src dice.Source, p PlayerActor) bool {
			return transmutationStaff(p) != nil && staffAuxRoll(src, p)
		},
	},
	{
		kind: auxStaffSlap,
		damage: func(src dice.Source, p PlayerActor) int {
			return 1 + dice.DivRandRound(src, 2*dice.Random2(src, p.Skill(inventory.SkillTransmutations)), 3)
		},
		brand: noBrand,
		name:  named("staff"),
		verb:  named("slap"),
		eligible: func(src dice.Source, p PlayerActor) bool {
			return transmutationStaff(p) != nil && staffAuxRoll(src, p)
		},
	},
	{
		kind: auxKick,
		damage: func(_ dice.Source, p PlayerActor) int {
			switch {
			case hasMut(p, MutHooves):
				return 5 + p.MutationLevel(MutHooves)*5/3
			case hasMut(p, MutTalons):
				return 5 + 1 + p.MutationLevel(MutTalons)
			}
			return 5 + p.MutationLevel(MutTentacleSpike)
		},
		brand: noBrand,
		name: func(p PlayerActor) string {
			if hasMut(p, MutTentacleSpike) {
				return "tentacle spike"
			}
			return "kick"
		},
		verb: func(p PlayerActor) string {
			switch {
			case hasMut(p, MutTalons):
				return "claw"
			case hasMut(p, MutTentacleSpike):
				return "pierce"
			}
			return "kick"
		},
		eligible: func(_ dice.Source, p PlayerActor) bool {
			return hasMut(p, MutHooves) || hasMut(p, MutTalons) || hasMut(p, MutTentacleSpike)
		},
	},
	{
		kind: auxHeadbutt,
		damage: func(_ dice.Source, p PlayerActor) int {
			return 5 + p.MutationLevel(MutHorns)*3
		},
		brand: noBrand,
		name:  named("headbutt"),
		verb:  named("headbutt"),
		eligible: func(src dice.Source, p PlayerActor) bool {
			skull := p.Loadout() != nil && p.Loadout().WearingEgo(inventory.SlotHelmet, inventory.EgoSkull)
			return hasMut(p, MutHorns) && !skull && !dice.OneChanceIn(src, 3)
		},
	},
	{
		kind:   auxPeck,
		damage: fixed(6),
		brand:  noBrand,
		name:   named("peck"),
		verb:   named("peck"),
		eligible: func(src dice.Source, p PlayerActor) bool {
			return hasMut(p, MutBeak) && !dice.OneChanceIn(src, 3)
		},
	},
	{
		kind: auxTailSlap,
		damage: func(_ dice.Source, p PlayerActor) int {
			return 6 + max(0, p.MutationLevel(MutStinger)*2-1)
		},
		brand: func(p PlayerActor) inventory.Brand {
			if hasMut(p, MutStinger) {
				return inventory.BrandVenom
			}
			return inventory.BrandNone
		},
		name: named("tail-slap"),
		verb: named("tail-slap"),
		eligible: func(src dice.Source, p PlayerActor) bool {
			return hasMut(p, MutTail) && dice.Coinflip(src)
		},
	},
	{
		kind: auxPunch,
		damage: func(src dice.Source, p PlayerActor) int {
			base := 5 + dice.DivRandRound(src, p.Skill(inventory.SkillUnarmed), 2)
			switch {
			case p.Form() == FormBladeHands:
				return base + 6
			case hasMut(p, MutClaws):
				return base + dice.RollDice(src, p.MutationLevel(MutClaws), 3)
			}
			return base
		},
		brand: noBrand,
		name:  named("punch"),
		verb:  named("punch"),
		// Punches come from the primary swing itself.
		eligible: func(dice.Source, PlayerActor) bool { return false },
	},
	{
		kind: auxBite,
		damage: func(src dice.Source, p PlayerActor) int {
			fangs := p.MutationLevel(MutFangs) * 2
			if hasMut(p, MutAntimagicBite) {
				return fangs + dice.DivRandRound(src, p.ExperienceLevel(), 3)
			}
			return fangs + dice.DivRandRound(src, max(p.Strength()-10, 0), 5)
		},
		brand: func(p PlayerActor) inventory.Brand {
			switch {
			case hasMut(p, MutAntimagicBite):
				return inventory.BrandAntimagic
			case hasMut(p, MutAcidicBite):
				return inventory.BrandAcid
			}
			return inventory.BrandNone
		},
		name: named("bite"),
		verb: named("bite"),
		eligible: func(src dice.Source, p PlayerActor) bool {
			if hasMut(p, MutAntimagicBite) {
				return true
			}
			return (hasMut(p, MutFangs) || hasMut(p, MutAcidicBite)) && dice.XChanceInY(src, 2, 5)
		},
	},
	{
		kind: auxPseudopods,
		damage: func(_ dice.Source, p PlayerActor) int {
			return 4 * p.MutationLevel(MutPseudopods)
		},
		brand: noBrand,
		name:  named("bludgeon"),
		verb:  named("bludgeon"),
		eligible: func(src dice.Source, p PlayerActor) bool {
			return hasMut(p, MutPseudopods) && !dice.OneChanceIn(src, 3)
		},
	},
	{
		kind:   auxTentacles,
		damage: fixed(12),
		brand:  noBrand,
		name:   named("squeeze"),
		verb:   named("squeeze"),
		eligible: func(_ dice.Source, p PlayerActor) bool {
			return hasMut(p, MutTentacles)
		},
	},
	tentacleAux(auxTentacles2, 3, 4, "slap", 50, true),
	tentacleAux(auxTentacles3, 3, 5, "smack", 65, true),
	tentacleAux(auxTentacles4, 5, 3, "thwack", 80, false),
}

// transmutationStaff returns the transmutation staff p wields, or nil.
func transmutationStaff(p PlayerActor) *inventory.Weapon {
	lo := p.Loadout()
	if lo == nil {
		return nil
	}
	w := lo.Wielded(inventory.HandPrimary)
	if w == nil || !w.Def.MagicStaff || w.Def.Element != inventory.ElementTransmutation {
		return nil
	}
	return w
}

// staffAuxRoll is the staff's chance to lash out, the same roll that decides
// whether a staff deals bonus damage.
func staffAuxRoll(src dice.Source, p PlayerActor) bool {
	return StaffDamage(src, p.Skill(inventory.SkillEvocations), p.Skill(inventory.SkillTransmutations)) > 0
}

// staffGrabReach is the largest body a staff tentacle can hold at each
// transmutations threshold.
var staffGrabReach = []struct {
	skill int
	size  Size
}{
	{5, SizeTiny},
	{9, SizeSmall},
	{17, SizeMedium},
	{25, SizeLarge},
}

// staffCanGrab reports whether a staff tentacle wielded by p may seize the
// defender.
func (m *MeleeAttack) staffCanGrab(p PlayerActor) bool {
	if !canConstrict(m.attacker, m.defender) {
		return false
	}
	sk, size := p.Skill(inventory.SkillTransmutations), bodySize(m.defender)
	for _, r := range staffGrabReach {
		if sk < r.skill && size > r.size {
			return false
		}
	}
	return true
}

// staffTentacleSize describes the tentacle a staff grows at skill sk.
func staffTentacleSize(sk int) string {
	switch {
	case sk < 4:
		return "tiny "
	case sk < 8:
		return "small "
	case sk < 16:
		return ""
	case sk < 24:
		return "huge "
	}
	return "massive "
}

var staffSlapVerbs = [...]string{"bites", "kicks", "punches", "slaps", "pecks"}

// tentacleAux builds one of the extra tentacle strikes. Each needs combined
// strength and dexterity of at least a roll below gate.
func tentacleAux(kind auxKind, base, xlDiv int, verb string, gate int, thirdMiss bool) auxAttack {
	return auxAttack{
		kind: kind,
		damage: func(src dice.Source, p PlayerActor) int {
			return base + dice.DivRandRound(src, p.ExperienceLevel(), xlDiv)
		},
		brand: noBrand,
		name:  named(verb),
		verb:  named(verb),
		eligible: func(src dice.Source, p PlayerActor) bool {
			if !hasMut(p, MutTentacles) || p.Strength()+p.Dexterity() < dice.Random2(src, gate) {
				return false
			}
			return !thirdMiss || !dice.OneChanceIn(src, 3)
		},
	}
}

// auxFires decides whether aux attack a joins this round. Everything except
// a constricting grab and the staff attacks first needs combined strength and
// dexterity to beat a roll.
func auxFires(src dice.Source, p PlayerActor, a auxAttack) bool {
	gated := a.kind != auxConstrict && a.kind != auxStaff && a.kind != auxStaffSlap
	if gated && p.Strength()+p.Dexterity() <= dice.Random2(src, 50) {
		return false
	}
	return a.eligible(src, p)
}

// playerAuxUnarmed tries every auxiliary attack in order and reports whether
// the defender died.
func (m *MeleeAttack) playerAuxUnarmed() bool {
	p, ok := asPlayer(m.attacker)
	if !ok {
		return false
	}
	src := m.ctx.Src
	saved := m.damageBrand
	defer func() { m.damageBrand = saved }()

	for _, a := range auxAttacks {
		if !m.defender.Alive() {
			break
		}
		if !auxFires(src, p, a) {
			continue
		}
		m.auxAttack = a.kind
		m.auxDamage = a.damage(src, p)
		m.damageBrand = a.brand(p)
		m.auxSource = a.name(p)
		verb := a.verb(p)

		if a.kind == auxConstrict && !canConstrict(m.attacker, m.defender) {
			continue
		}
		if a.kind == auxStaff && !m.staffCanGrab(p) {
			continue
		}

		m.toHit = m.calcToHit(true, true)
		m.handleNoise(m.defender.Pos())
		if !m.defender.Alive() {
			return true
		}

		if !m.playerAuxTestHit() {
			continue
		}
		m.ctx.Behaviour.Alert(EventWhack, m.defender, m.attacker)
		if !m.defender.Alive() {
			return true
		}
		if m.attackShieldBlocked(true) {
			continue
		}
		if m.playerAuxApply(p, a.kind, verb) {
			return true
		}
	}
	return false
}

func (m *MeleeAttack) playerAuxTestHit() bool {
	m.didHit = false
	if dice.OneChanceIn(m.ctx.Src, 30) || m.toHit >= m.defender.Evasion() {
		return true
	}
	m.ctx.emitf(ChannelCombat, "Your %s misses %s.", m.auxSource, m.defender.Name(DescThe))
	return false
}

// playerAuxApply deals the aux damage and its brand. It reports whether the
// defender died.
func (m *MeleeAttack) playerAuxApply(p PlayerActor, kind auxKind, verb string) bool {
	src := m.ctx.Src
	m.didHit = true

	dmg := playerStatModifyDamage(src, p, m.auxDamage)
	dmg = dice.Random2(src, dmg)
	dmg = playerApplyFightingSkill(src, p, dmg, true)
	dmg = m.playerApplyMiscModifiers(dmg)
	dmg = playerApplySlaying(src, p, m.weapon, dmg, true)
	dmg = m.playerApplyFinalMultipliers(p, dmg)
	grab := kind == auxConstrict || kind == auxStaff
	if grab {
		dmg = 0
	} else {
		dmg = m.applyDefenderAC(dmg, dmg)
	}
	dmg = m.inflictDamage(max(0, dmg), BeamMissile)
	m.auxDamage = dmg
	m.damageDone = dmg

	if m.defender.Alive() {
		if grab {
			m.ctx.World.StartConstricting(m.attacker, m.defender)
		}
		if m.damageDone > 0 || grab {
			m.announceAuxHit(p, kind, verb)
			m.auxBrandEffects(p)
		} else {
			m.announceAuxMiss(p, kind, verb)
		}
	} else {
		m.announceAuxHit(p, kind, verb)
	}

	if m.defender.HP() < 1 || !m.defender.Alive() {
		m.handlePhaseKilled()
		return true
	}
	return false
}

func (m *MeleeAttack) announceAuxHit(p PlayerActor, kind auxKind, verb string) {
	def := m.defender.Name(DescThe)
	switch kind {
	case auxStaff:
		m.ctx.emitf(ChannelCombat, "A %stentacle from your %s grabs %s.",
			staffTentacleSize(p.Skill(inventory.SkillTransmutations)), transmutationStaff(p).Def.Name, def)
	case auxStaffSlap:
		m.ctx.emitf(ChannelCombat, "Your %s %s %s%s", transmutationStaff(p).Def.Name,
			staffSlapVerbs[dice.Random2(m.ctx.Src, len(staffSlapVerbs))], def, m.punctuation(m.damageDone))
	default:
		m.ctx.emitf(ChannelCombat, "You %s %s%s", verb, def, m.punctuation(m.damageDone))
	}
}

func (m *MeleeAttack) announceAuxMiss(p PlayerActor, kind auxKind, verb string) {
	seen := m.ctx.canSee(m.defender)
	if kind == auxStaffSlap {
		suffix := ""
		if seen {
			suffix = ", but does no damage"
		}
		m.ctx.emitf(ChannelCombat, "Your %s %s %s%s.", transmutationStaff(p).Def.Name,
			staffSlapVerbs[dice.Random2(m.ctx.Src, len(staffSlapVerbs))], m.defender.Name(DescThe), suffix)
		return
	}
	suffix := ""
	if seen {
		suffix = ", but do no damage"
	}
	m.ctx.emitf(ChannelCombat, "You %s %s%s.", verb, m.defender.Name(DescThe), suffix)
}

func (m *MeleeAttack) auxBrandEffects(p PlayerActor) {
	src := m.ctx.Src
	switch m.damageBrand {
	case inventory.BrandAcid:
		m.splashWithAcid(3)
	case inventory.BrandVenom:
		if dice.Coinflip(src) {
			amount := 1 + dice.Random2(src, 3)
			m.ctx.applyStatus(m.defender, condition.Poisoned, amount, amount)
		}
	case inventory.BrandAntimagic:
		if m.damageDone > 0 && hasMut(p, MutAntimagicBite) {
			what := "power"
			if m.defender.HasTrait(TraitSpellcaster) {
				what = "magic"
			}
			m.antimagicAffectsDefender(m.damageDone * 32)
			m.ctx.emitf(ChannelCombat, "You drain %s %s.", m.defender.Pronoun(PronounPossessive), what)
		}
	}
}
