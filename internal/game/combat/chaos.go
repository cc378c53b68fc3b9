package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// ChaosEffectKind enumerates the exotic effects a chaotic hit can produce.
type ChaosEffectKind int

const (
	ChaosClone ChaosEffectKind = iota
	ChaosPolymorph
	ChaosShifter
	ChaosMiscast
	ChaosRage
	ChaosHaste
	ChaosInvisible
	ChaosMight
	ChaosAgility
	ChaosEntropicBurst
	ChaosInfusion
	ChaosSlow
	ChaosPetrify
)

var chaosEffectNames = [...]string{
	"clone", "polymorph", "shifter", "miscast", "rage", "hasting", "invisible",
	"mighting", "agility", "entropic burst", "chaotic infusion", "slowing", "petrify",
}

func (k ChaosEffectKind) String() string {
	if int(k) >= 0 && int(k) < len(chaosEffectNames) {
		return chaosEffectNames[k]
	}
	return "unknown"
}

// ChaosEffect is one row of the chaos effect table.
type ChaosEffect struct {
	Kind   ChaosEffectKind
	Weight int
	// Beam is the flavour fired at the defender after any side effect, or
	// BeamNone when the row is a pure side effect.
	Beam BeamFlavour
}

// ChaosEffects is the exotic effect table. Validity is decided per row by
// ChaosEffectValid.
var ChaosEffects = []ChaosEffect{
	{ChaosClone, 1, BeamNone},
	{ChaosPolymorph, 2, BeamPolymorph},
	{ChaosShifter, 1, BeamNone},
	{ChaosMiscast, 20, BeamNone},
	{ChaosRage, 5, BeamNone},
	{ChaosHaste, 10, BeamHaste},
	{ChaosInvisible, 10, BeamInvisibility},
	{ChaosMight, 10, BeamMight},
	{ChaosAgility, 10, BeamAgility},
	{ChaosEntropicBurst, 30, BeamEntropicBurst},
	{ChaosInfusion, 30, BeamChaoticInfusion},
	{ChaosSlow, 10, BeamSlow},
	{ChaosPetrify, 10, BeamPetrify},
}

func chaosPolyable(d Actor, mountDefend bool) bool {
	if mountDefend || !isNatural(d) || d.HasTrait(TraitNoPolymorph) {
		return false
	}
	if _, ok := asMonster(d); !ok {
		return true
	}
	return !d.Holiness().Has(HolyPlant) && !d.HasTrait(TraitMagicImmune)
}

func chaosSlowable(d Actor, mountDefend bool) bool {
	if mountDefend {
		return true
	}
	if _, ok := asMonster(d); !ok {
		return true
	}
	return !d.Holiness().Has(HolyPlant) && !d.HasTrait(TraitUnslowable)
}

// ChaosEffectValid reports whether kind may be selected against d.
// mountDefend is set when d stands in for a player's mount.
func ChaosEffectValid(kind ChaosEffectKind, d Actor, mountDefend bool) bool {
	_, isMon := asMonster(d)
	switch kind {
	case ChaosClone:
		return mountDefend || isMon && d.HasTrait(TraitClonable)
	case ChaosPolymorph:
		return chaosPolyable(d, mountDefend)
	case ChaosShifter:
		return chaosPolyable(d, mountDefend) && isMon && !has(d, condition.Shapeshifter) && isNatural(d)
	case ChaosMiscast, ChaosInvisible:
		return true
	case ChaosRage:
		return !mountDefend && !d.HasTrait(TraitNoBerserk) && !has(d, condition.Berserk)
	case ChaosHaste:
		return !mountDefend && chaosSlowable(d, mountDefend)
	case ChaosMight, ChaosAgility:
		return !mountDefend
	case ChaosEntropicBurst, ChaosInfusion:
		return isMon && !mountDefend
	case ChaosSlow:
		return chaosSlowable(d, mountDefend)
	case ChaosPetrify:
		return chaosSlowable(d, mountDefend) && !d.HasTrait(TraitResPetrify)
	}
	return false
}

// ChaosAttackType is one row of the table that turns a chaotic weapon or
// natural attack into a concrete brand or flavour.
type ChaosAttackType struct {
	Flavour AttackFlavour
	Brand   inventory.Brand
	Weight  int
}

// ChaosAttackTypes lists the concrete outcomes of a chaotic attack.
var ChaosAttackTypes = []ChaosAttackType{
	{FlavourFire, inventory.BrandMolten, 10},
	{FlavourCold, inventory.BrandFreezing, 10},
	{FlavourElec, inventory.BrandElectrocution, 10},
	{FlavourPoison, inventory.BrandVenom, 10},
	{FlavourChaotic, inventory.BrandChaos, 10},
	{FlavourDrainXP, inventory.BrandDraining, 5},
	{FlavourVampiric, inventory.BrandVampirism, 5},
	{FlavourHoly, inventory.BrandHolyWrath, 5},
	{FlavourAntimagic, inventory.BrandAntimagic, 5},
	{FlavourConfuse, inventory.BrandConfuse, 2},
	{FlavourDistort, inventory.BrandDistortion, 2},
}

// ChaosAttackTypeValid reports whether row t can affect d.
func ChaosAttackTypeValid(t ChaosAttackType, d Actor) bool {
	h := d.Holiness()
	switch t.Brand {
	case inventory.BrandMolten:
		return !d.HasTrait(TraitFiery)
	case inventory.BrandFreezing:
		return !d.HasTrait(TraitIcy)
	case inventory.BrandVenom:
		return !h.Has(HolyUndead) && !d.HasTrait(TraitElemental) && !d.HasTrait(TraitConstruct)
	case inventory.BrandDraining:
		return isNatural(d)
	case inventory.BrandVampirism:
		return vampirismSusceptible(d)
	case inventory.BrandHolyWrath:
		return holyWrathSusceptible(d)
	case inventory.BrandAntimagic:
		return antimagicSusceptible(d)
	case inventory.BrandConfuse:
		return !d.HasTrait(TraitElemental) && !h.Has(HolyPlant)
	}
	return true
}

func chaosAttackChoices(d Actor, includeChaos bool) []dice.Weighted[ChaosAttackType] {
	out := make([]dice.Weighted[ChaosAttackType], 0, len(ChaosAttackTypes))
	for _, t := range ChaosAttackTypes {
		if t.Brand == inventory.BrandChaos && !includeChaos {
			continue
		}
		if ChaosAttackTypeValid(t, d) {
			out = append(out, dice.Weighted[ChaosAttackType]{Value: t, Weight: t.Weight})
		}
	}
	return out
}

// RandomChaosBrand picks the concrete brand a chaos weapon applies to
// defender. It never returns BrandChaos.
//
// Precondition: src and defender must not be nil.
func RandomChaosBrand(src dice.Source, defender Actor) inventory.Brand {
	if src == nil || defender == nil {
		panic("combat: RandomChaosBrand precondition violated: src and defender must not be nil")
	}
	return dice.MustChooseWeighted(src, chaosAttackChoices(defender, false)).Brand
}

// RandomChaosAttackFlavour picks the concrete flavour a chaotic natural attack
// applies to defender. It never returns FlavourChaotic.
//
// Precondition: src and defender must not be nil.
func RandomChaosAttackFlavour(src dice.Source, defender Actor) AttackFlavour {
	if src == nil || defender == nil {
		panic("combat: RandomChaosAttackFlavour precondition violated: src and defender must not be nil")
	}
	return dice.MustChooseWeighted(src, chaosAttackChoices(defender, false)).Flavour
}

// randomChaosBrand is the in-attack roll. Landing on the chaos row itself
// resolves to an exotic chaos effect instead of an elemental brand.
func (m *MeleeAttack) randomChaosBrand() inventory.Brand {
	return dice.MustChooseWeighted(m.ctx.Src, chaosAttackChoices(m.defender, true)).Brand
}

func (m *MeleeAttack) randomChaosAttackFlavour() AttackFlavour {
	return dice.MustChooseWeighted(m.ctx.Src, chaosAttackChoices(m.defender, true)).Flavour
}

// chaosAffectsDefender selects and applies one exotic chaos effect.
func (m *MeleeAttack) chaosAffectsDefender() {
	src := m.ctx.Src
	var weights []dice.Weighted[ChaosEffect]
	for _, e := range ChaosEffects {
		if ChaosEffectValid(e.Kind, m.defender, m.mountDefend) {
			weights = append(weights, dice.Weighted[ChaosEffect]{Value: e, Weight: e.Weight})
		}
	}
	effect := dice.MustChooseWeighted(src, weights)
	m.ctx.Logger.Debug("chaos effect",
		zap.Stringer("effect", effect.Kind),
		zap.String("defender", m.defender.ID()),
	)

	if m.chaosSideEffect(effect.Kind) {
		m.obviousEffect = true
	}

	if effect.Beam != BeamNone {
		if m.defender.IsPlayer() && m.defender.HasTrait(TraitNoHaste) && effect.Beam == BeamHaste {
			m.ctx.emit(ChannelGod, "Your god protects you from inadvertent hurry.")
			m.obviousEffect = true
			return
		}
		couldSee := m.ctx.canSee(m.defender)
		power := m.damageDone + m.specialDamage + m.auxDamage
		obvious := applyChaosBeam(m.ctx, m.defender, m.attacker, effect.Beam, power, m.effects, m.miscast)
		if couldSee {
			m.obviousEffect = obvious
		}
	}
	if !m.ctx.canSee(m.attacker) {
		m.obviousEffect = false
	}
}

// chaosSideEffect runs the non-beam part of a chaos effect and reports
// whether it was obvious.
func (m *MeleeAttack) chaosSideEffect(kind ChaosEffectKind) bool {
	c := m.ctx
	d := m.defender
	switch kind {
	case ChaosClone:
		return c.World.Clone(d) && c.canSee(d)
	case ChaosShifter:
		c.applyStatus(d, condition.Shapeshifter, 1, -1)
		c.World.Polymorph(d)
		return c.canSee(d)
	case ChaosMiscast:
		hd := d.HitDice()
		level := dice.MustChooseWeighted(c.Src, []dice.Weighted[int]{
			{Value: 0, Weight: max(hd, 1)},
			{Value: 1, Weight: max(0, hd-7)},
			{Value: 2, Weight: max(0, hd-12)},
			{Value: 3, Weight: max(0, hd-17)},
		})
		m.miscast.schedule(level, SchoolRandom, d)
		return false
	case ChaosRage:
		c.applyStatus(d, condition.Berserk, 1, 10+dice.Random2(c.Src, 10))
		return c.canSee(d)
	}
	return false
}

// chaosEnchantDuration converts beam power into an enchantment duration in turns.
func chaosEnchantDuration(src dice.Source, power int) int {
	return 5 + dice.Random2(src, max(0, power)+1)
}

// applyChaosBeam fires a zero-range enchantment of flavour at target and
// reports whether the result was visible. Deferred movement lands on queue;
// miscasts land on slot.
func applyChaosBeam(c *Context, target, source Actor, flavour BeamFlavour, power int, queue *EffectQueue, slot *miscastSlot) bool {
	src := c.Src
	dur := chaosEnchantDuration(src, power)
	hostile := flavour == BeamPolymorph || flavour == BeamSlow || flavour == BeamPetrify || flavour == BeamEntropicBurst
	if hostile && target.HasTrait(TraitMagicImmune) {
		if c.canSee(target) {
			c.emitf(ChannelPlain, "%s %s unaffected.", target.Name(DescThe), target.ConjVerb("are"))
		}
		return c.canSee(target)
	}
	applied := false
	switch flavour {
	case BeamPolymorph:
		applied = c.World.Polymorph(target)
	case BeamHaste:
		applied = c.extendStatus(target, condition.Haste, dur, 0)
	case BeamInvisibility:
		applied = c.extendStatus(target, condition.Invisible, dur, 0)
	case BeamMight:
		applied = c.extendStatus(target, condition.Might, dur, 0)
	case BeamAgility:
		applied = c.extendStatus(target, condition.Agility, dur, 0)
	case BeamSlow:
		applied = c.extendStatus(target, condition.Slow, dur, 0)
	case BeamPetrify:
		applied = c.applyStatus(target, condition.Petrifying, 1, 3+dice.Random2(src, 5))
	case BeamChaoticInfusion:
		applied = c.extendStatus(target, condition.ChaoticInfusion, dur, 0)
	case BeamEntropicBurst:
		applied = chaoticStatus(c, target, dur, source, queue, slot)
	}
	return applied && c.canSee(target)
}

// ChaosAffectActor applies one roll of the chaos effect table to victim
// outside of any melee swing, as a trap or spell would.
//
// Precondition: c, c.Src and victim must not be nil.
func ChaosAffectActor(c *Context, victim Actor) {
	if c == nil || c.Src == nil || victim == nil {
		panic("combat: ChaosAffectActor precondition violated: context, source and victim are required")
	}
	m := NewMeleeAttack(c, victim, victim, 0, 0, false)
	m.fakeChaos = true
	m.chaosAffectsDefender()
	m.doMiscast()
	if m.specialDamageMessage != "" && c.canSee(victim) {
		c.emit(ChannelCombat, m.specialDamageMessage)
	}
	m.effects.Drain(c)
}

type chaoticBuff int

const (
	buffClone chaoticBuff = iota
	buffHaste
	buffPoly
	buffMight
	buffAgility
	buffBrilliance
	buffInvis
	buffShapeshift
	buffIceArmour
	buffSwift
	buffRegen
	buffBerserk
)

var chaoticBuffs = []dice.Weighted[chaoticBuff]{
	{Value: buffClone, Weight: 1},
	{Value: buffHaste, Weight: 20},
	{Value: buffPoly, Weight: 8},
	{Value: buffMight, Weight: 10},
	{Value: buffAgility, Weight: 10},
	{Value: buffBrilliance, Weight: 10},
	{Value: buffInvis, Weight: 20},
	{Value: buffShapeshift, Weight: 4},
	{Value: buffIceArmour, Weight: 12},
	{Value: buffSwift, Weight: 10},
	{Value: buffRegen, Weight: 8},
	{Value: buffBerserk, Weight: 5},
}

type chaoticDebuff int

const (
	debuffPetrify chaoticDebuff = iota
	debuffMiscast
	debuffPoly
	debuffSticky
	debuffFrozen
	debuffSlow
	debuffConfuse
	debuffFear
	debuffMute
	debuffBanish
	debuffBlink
	debuffEnsnare
	debuffVuln
	debuffFlay
	debuffStatDrain
	debuffWretched
	debuffBlind
	debuffBarbs
	debuffInner
)

var chaoticDebuffs = []dice.Weighted[chaoticDebuff]{
	{Value: debuffPetrify, Weight: 10},
	{Value: debuffMiscast, Weight: 60},
	{Value: debuffPoly, Weight: 4},
	{Value: debuffSticky, Weight: 16},
	{Value: debuffFrozen, Weight: 8},
	{Value: debuffSlow, Weight: 16},
	{Value: debuffConfuse, Weight: 16},
	{Value: debuffFear, Weight: 8},
	{Value: debuffMute, Weight: 8},
	{Value: debuffBanish, Weight: 6},
	{Value: debuffBlink, Weight: 18},
	{Value: debuffEnsnare, Weight: 8},
	{Value: debuffVuln, Weight: 24},
	{Value: debuffFlay, Weight: 18},
	{Value: debuffStatDrain, Weight: 12},
	{Value: debuffWretched, Weight: 12},
	{Value: debuffBlind, Weight: 8},
	{Value: debuffBarbs, Weight: 16},
	{Value: debuffInner, Weight: 40},
}

// ChaoticStatus gives victim one random buff or debuff lasting about dur
// turns, or nothing a third of the time. It reports whether anything happened.
//
// Precondition: c, victim and source must not be nil; dur >= 0.
func ChaoticStatus(c *Context, victim Actor, dur int, source Actor) bool {
	if c == nil || victim == nil || source == nil {
		panic("combat: ChaoticStatus precondition violated: context, victim and source are required")
	}
	c.fill()
	return chaoticStatus(c, victim, dur, source, nil, nil)
}

func chaoticStatus(c *Context, victim Actor, dur int, source Actor, queue *EffectQueue, slot *miscastSlot) bool {
	if dice.OneChanceIn(c.Src, 3) {
		return false
	}
	if dice.Coinflip(c.Src) {
		return applyChaoticBuff(c, victim, dur, source)
	}
	return applyChaoticDebuff(c, victim, dur, source, queue, slot)
}

// subject renders a for a status message, "you" for the player.
func subject(a Actor) string {
	if a.IsPlayer() {
		return "you"
	}
	return a.Name(DescThe)
}

func buffChannel(a Actor) Channel {
	if a.IsPlayer() {
		return ChannelPlain
	}
	return ChannelCombat
}

func applyChaoticBuff(c *Context, act Actor, dur int, source Actor) bool {
	player := act.IsPlayer()
	ch := buffChannel(act)
	switch dice.MustChooseWeighted(c.Src, chaoticBuffs) {
	case buffClone:
		if player || !c.World.Clone(act) {
			return false
		}
		if source.IsPlayer() {
			c.emitf(ChannelPlain, "You duplicate %s.", act.Name(DescThe))
		} else {
			c.emitf(ChannelPlain, "%s duplicates %s.", source.Name(DescThe), act.Name(DescThe))
		}
	case buffHaste:
		c.emitf(ch, "A spark of chaos speeds %s up.", subject(act))
		c.extendStatus(act, condition.Haste, dur, 0)
	case buffAgility:
		if player {
			c.emit(ch, "A spark of chaos increases your agility.")
		} else {
			c.emitf(ch, "A spark of chaos increases the reflexes of %s.", act.Name(DescThe))
		}
		c.extendStatus(act, condition.Agility, dur, 0)
	case buffBrilliance:
		if player {
			c.emit(ch, "A spark of chaos makes you feel quite brilliant.")
			c.extendStatus(act, condition.Brilliance, dur, 0)
		} else {
			c.emitf(ChannelPlain, "The chaos empowers the spells of %s.", act.Name(DescThe))
			c.extendStatus(act, condition.Empowered, dur, 0)
		}
	case buffIceArmour:
		c.emitf(ch, "A chaotic chill coats %s in an icy armour.", subject(act))
		c.extendStatus(act, condition.IceArmour, dur, 0)
	case buffInvis:
		if player {
			c.emit(ch, "A chaotic spark makes you fade into invisibility.")
		} else {
			how := "and vanishes."
			if c.Observer != nil && c.Observer.HasTrait(TraitSeeInvisible) {
				how = "slightly."
			}
			c.emitf(ChannelPlain, "As it is struck, %s flickers %s", act.Name(DescThe), how)
		}
		c.extendStatus(act, condition.Invisible, dur, 0)
	case buffMight:
		if player {
			c.emit(ch, "You feel mighty as the magic touches you.")
		} else {
			c.emitf(ChannelPlain, "%s becomes stronger as the magic touches it.", act.Name(DescThe))
		}
		c.extendStatus(act, condition.Might, dur, 0)
	case buffPoly:
		c.World.Polymorph(act)
	case buffRegen:
		if player {
			c.emit(ch, "A lively spark makes your skin crawl.")
		} else {
			c.emitf(ChannelPlain, "%s starts to regenerate quickly as life sparks into it.", act.Name(DescThe))
		}
		c.extendStatus(act, condition.Regenerating, dur, 0)
	case buffShapeshift:
		if player {
			c.World.Mutate(act, "chaos magic")
		} else {
			c.emitf(ChannelPlain, "%s begins to change shapes rapidly.", act.Name(DescThe))
			c.applyStatus(act, condition.Shapeshifter, 1, -1)
		}
		c.World.Polymorph(act)
	case buffSwift:
		c.emitf(ch, "Magical energy makes %s cover ground more quickly.", subject(act))
		c.extendStatus(act, condition.Swift, dur, 0)
	case buffBerserk:
		if act.HasTrait(TraitNoBerserk) {
			return false
		}
		c.applyStatus(act, condition.Berserk, 1, 10+dice.Random2(c.Src, 10))
	}
	return true
}

var vulnStatuses = [...]struct {
	id, player, monster string
}{
	{condition.FireVuln, "You feel more vulnerable to fire.", "%s appears more vulnerable to fire."},
	{condition.ColdVuln, "You feel more vulnerable to cold.", "%s appears more vulnerable to cold."},
	{condition.ElecVuln, "You feel more vulnerable to electric shocks.", "%s appears more vulnerable to electrical shocks."},
}

func applyChaoticDebuff(c *Context, act Actor, dur int, source Actor, queue *EffectQueue, slot *miscastSlot) bool {
	src := c.Src
	player := act.IsPlayer()
	switch dice.MustChooseWeighted(src, chaoticDebuffs) {
	case debuffInner:
		if player {
			return false
		}
		c.extendStatus(act, condition.InnerFlame, dur, 0)
	case debuffBanish:
		if queue != nil {
			queue.Add(Effect{Kind: EffectBanish, Target: act, Source: source})
		} else {
			c.World.Banish(act, source)
		}
	case debuffBarbs:
		if player {
			c.emit(ChannelWarning, "The chaotic magic splinters into barbs that impale your flesh.")
		} else {
			c.emitf(ChannelPlain, "The chaotic magic splinters into barbs that impale %s.", act.Name(DescThe))
		}
		c.extendStatus(act, condition.Barbs, dur, 0)
	case debuffBlind:
		if player {
			return false
		}
		c.emitf(ChannelPlain, "The scintillating magical residue splatters into the eyes of %s.", act.Name(DescThe))
		c.extendStatus(act, condition.Blind, dur, 0)
	case debuffBlink:
		if queue != nil {
			queue.Add(Effect{Kind: EffectBlink, Target: act, Source: source})
		} else {
			c.World.Blink(act)
		}
	case debuffConfuse:
		if player {
			c.emit(ChannelWarning, "Magic seeps into your mind and confuses you.")
		} else {
			c.emitf(ChannelPlain, "Chaotic magical radiation drives %s to madness.", act.Name(DescThe))
		}
		c.extendStatus(act, condition.Confused, dur, 0)
	case debuffEnsnare:
		c.applyStatus(act, condition.Held, 1, dur)
	case debuffFear:
		if source == act {
			return false
		}
		if player {
			c.emitf(ChannelWarning, "A magical surge fills you with panic, you fear %s.", source.Name(DescThe))
			c.extendStatus(act, condition.Afraid, dur, 0)
		} else {
			c.emitf(ChannelPlain, "%s cries out in fear of the magic.", act.Name(DescThe))
			c.World.Noise(act.Pos(), 20, act)
			c.extendStatus(act, condition.Fleeing, dur, 0)
		}
	case debuffFlay:
		c.extendStatus(act, condition.Flayed, dice.DivRandRound(src, dur, 2), 0)
	case debuffFrozen:
		if player {
			c.emit(ChannelWarning, "A chaotic chill freezes you in place, making you cover ground more slowly.")
		} else {
			c.emitf(ChannelCombat, "A chaotic chill freezes %s in place, making %s cover ground more slowly.",
				act.Name(DescThe), act.Pronoun(PronounObjective))
		}
		c.extendStatus(act, condition.Frozen, dur, 0)
	case debuffMiscast:
		c.emitf(ChannelWarning, "Chaotic magic lashes out at %s.", subject(act))
		level := max(1, min(dice.DivRandRound(src, dur, 10), 3))
		if slot != nil {
			slot.schedule(level, SchoolRandom, act)
		} else {
			c.Miscaster.Miscast(act, level, SchoolRandom, source, "chaotic magic")
		}
	case debuffMute:
		switch {
		case player:
			c.emit(ChannelPlain, "You are engulfed in a profound silence.")
		case dice.OneChanceIn(src, 3):
			c.emitf(ChannelPlain, "Glittering chaos makes %s begin to radiate silence.", act.Name(DescThe))
		default:
			c.emitf(ChannelPlain, "Chaos steals away with %s voice.", act.Name(DescIts))
		}
		c.extendStatus(act, condition.Mute, dur, 0)
	case debuffPetrify:
		c.emitf(ChannelWarning, "Earth magic residue begins to slowly turn %s to stone.", subject(act))
		if player {
			c.applyStatus(act, condition.Petrifying, 1, 3+dice.Random2(src, 5))
		} else {
			c.applyStatus(act, condition.Petrifying, 1, dice.DivRandRound(src, 30+dice.Random2(src, 50), 10))
		}
	case debuffPoly:
		c.World.Polymorph(act)
	case debuffSlow:
		if player {
			c.emit(ChannelWarning, "You feel yourself slow down as chaos touches upon you.")
		} else {
			c.emitf(ChannelPlain, "Chaos touches upon %s, slowing it down.", act.Name(DescThe))
		}
		c.extendStatus(act, condition.Slow, dur, 0)
	case debuffStatDrain:
		if p, ok := asPlayer(act); ok {
			p.DrainStat(dice.Choose(src, StatStr, StatInt, StatDex), 1+dice.Random2(src, 2))
		} else if act.Resistance(BeamNeg) < 3 {
			amount := dice.DivRandRound(src, dur, 8)
			c.applyStatus(act, condition.Drained, amount, amount)
		}
	case debuffSticky:
		if act.HasTrait(TraitResSticky) {
			return false
		}
		if player {
			c.emit(ChannelWarning, "The chaos reforms as liquid flames that stick to you!")
		} else {
			c.emitf(ChannelCombat, "The chaos reforms as liquid flames that stick to %s!", act.Name(DescThe))
		}
		c.extendStatus(act, condition.StickyFlame, dur, 0)
	case debuffVuln:
		v := vulnStatuses[dice.Random2(src, len(vulnStatuses))]
		if player {
			c.emit(ChannelWarning, v.player)
		} else {
			c.emitf(ChannelPlain, v.monster, act.Name(DescThe))
		}
		c.extendStatus(act, v.id, dur, 0)
	case debuffWretched:
		if player {
			c.emit(ChannelMutate, "The chaos corrupts your form!")
			for range 1 + dice.Random2(src, 3) {
				c.World.Mutate(act, "chaos magic")
			}
		} else {
			c.emitf(ChannelPlain, "The chaos corrupts %s form.", act.Name(DescIts))
			c.extendStatus(act, condition.Wretched, dur, 0)
		}
	}
	return true
}
