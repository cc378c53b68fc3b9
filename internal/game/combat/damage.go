package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// formUnarmedBase is the bare-handed damage each player form starts from.
var formUnarmedBase = map[Form]int{
	FormNone:       3,
	FormStatue:     6,
	FormShadow:     3,
	FormBladeHands: 8,
	FormDragon:     12,
	FormHydra:      6,
}

// mountUnarmedBase is the natural attack damage of each mount kind.
var mountUnarmedBase = map[MountKind]int{
	MountDrake:  12,
	MountSpider: 15,
	MountHydra:  18,
}

// PlayerBaseUnarmed returns the player's unarmed damage before stat and skill
// scaling. With random unset fractional parts round up.
//
// Postcondition: result >= 0.
func PlayerBaseUnarmed(src dice.Source, p PlayerActor, random bool) int {
	div := func(num, den int) int {
		if random {
			return dice.DivRandRound(src, num, den)
		}
		return (num + den - 1) / den
	}
	damage := formUnarmedBase[p.Form()]
	if claws := p.MutationLevel(MutClaws); claws > 0 {
		damage += div(claws*3, 2)
	}
	if p.Form().UsesXL() {
		damage += div(p.ExperienceLevel(), 3)
	} else {
		damage += div(2*p.Skill(inventory.SkillUnarmed), 3)
	}
	return max(0, damage)
}

// rollPotential turns a damage ceiling into an actual roll.
func rollPotential(src dice.Source, potential int) int {
	return 1 + dice.Random2Avg(src, max(0, potential)+1, 3)
}

// playerStatModifyDamage scales damage by a randomised strength factor; ten
// strength is neutral.
func playerStatModifyDamage(src dice.Source, p PlayerActor, damage int) int {
	str := p.Strength()
	var randStr int
	if str < 0 {
		randStr = str/2 - dice.Random2(src, -str)
	} else {
		randStr = str/2 + dice.Random2(src, str)
	}
	mult := max(1.0, 75+2.5*float64(randStr))
	return int(float64(damage)*mult) / 100
}

func playerApplyWeaponSkill(src dice.Source, p PlayerActor, weapon *inventory.Weapon, wpnSkill inventory.Skill, damage int) int {
	if weapon == nil {
		return damage
	}
	damage *= 2500 + dice.Random2(src, p.Skill(wpnSkill)*100+1)
	return damage / 2500
}

func playerApplyFightingSkill(src dice.Source, p PlayerActor, damage int, aux bool) int {
	base := 30
	if aux {
		base = 40
	}
	damage *= base*100 + dice.Random2(src, p.Skill(inventory.SkillFighting)*100+1)
	return damage / (base * 100)
}

// playerApplySlaying adds weapon enchantment and slaying, less corrosion.
func playerApplySlaying(src dice.Source, p PlayerActor, weapon *inventory.Weapon, damage int, aux bool) int {
	plus := 0
	if !aux && weapon != nil {
		plus = weapon.Plus
	}
	plus -= 4 * p.Statuses().Stacks(condition.Corroded)
	plus += p.Slaying()
	if plus > -1 {
		return damage + dice.Random2(src, 1+plus)
	}
	return damage - dice.Random2(src, 1-plus)
}

func (m *MeleeAttack) playerApplyMiscModifiers(damage int) int {
	p, ok := asPlayer(m.attacker)
	if !ok {
		return damage
	}
	return playerMiscModifiers(m.ctx.Src, p, m.damageBrand, damage)
}

func playerMiscModifiers(src dice.Source, p PlayerActor, brand inventory.Brand, damage int) int {
	if condition.MightOrBerserk(p.Statuses()) {
		damage += 1 + dice.Random2(src, 10)
	}
	if p.Starving() {
		damage -= dice.Random2(src, 5)
	}
	if brand == inventory.BrandMolten {
		damage = dice.DivRandRound(src, damage*3, 5)
	}
	return damage
}

// playerBodyMultipliers scales damage by the player's form and weakness.
func playerBodyMultipliers(src dice.Source, p PlayerActor, damage int) int {
	switch p.Form() {
	case FormStatue:
		damage = dice.DivRandRound(src, damage*3, 2)
	case FormShadow:
		damage = dice.DivRandRound(src, damage, 2)
	}
	if has(p, condition.Weak) {
		damage = dice.DivRandRound(src, damage*3, 4)
	}
	return damage
}

// playerApplyFinalMultipliers applies the multipliers that act on pre-armour
// damage after the stab bonus.
func (m *MeleeAttack) playerApplyFinalMultipliers(p PlayerActor, damage int) int {
	src := m.ctx.Src
	if m.cleaving {
		damage = cleaveDamageMod(src, damage)
	}
	damage = playerBodyMultipliers(src, p, damage)
	if m.weapon != nil {
		damage = dice.DivRandRound(src, 3*damage, 4)
	}
	if has(p, condition.ConfusingTouch) && m.wpnSkill == inventory.SkillUnarmed {
		return 0
	}
	return damage
}

func cleaveDamageMod(src dice.Source, damage int) int {
	return dice.DivRandRound(src, damage*7, 10)
}

func (m *MeleeAttack) playerDamage() int {
	p, ok := asPlayer(m.attacker)
	if !ok {
		return 0
	}
	src := m.ctx.Src
	var potential int
	if m.weapon != nil {
		potential = m.weapon.Def.Damage
	} else {
		potential = PlayerBaseUnarmed(src, p, true)
	}
	potential = playerStatModifyDamage(src, p, potential)
	potential = playerApplyWeaponSkill(src, p, m.weapon, m.wpnSkill, potential)
	potential = playerApplyFightingSkill(src, p, potential, false)
	potential = m.playerApplyMiscModifiers(potential)
	potential = playerApplySlaying(src, p, m.weapon, potential, false)
	potential = m.applyResists(potential)

	damage := rollPotential(src, potential)

	stab := m.playerStab(damage)
	potential += stab
	damage += stab
	if !m.defender.Alive() {
		return 0
	}
	damage = m.playerApplyFinalMultipliers(p, damage)

	damage = max(0, m.applyDefenderAC(damage, potential))
	m.variant.verb(m, damage)
	return damage
}

func (m *MeleeAttack) mountDamage() int {
	mnt, ok := asMount(m.attacker)
	if !ok {
		return 0
	}
	src := m.ctx.Src
	potential := mountUnarmedBase[mnt.Kind()]
	switch mnt.Kind() {
	case MountDrake:
		inv := 0
		if r := mnt.Rider(); r != nil {
			inv = r.Skill(inventory.SkillInvocations)
		}
		potential *= 2500 + dice.Random2(src, inv*100+1)
	case MountSpider, MountHydra:
		potential *= 2500 + dice.Random2(src, 13*mnt.Power()+1)
	default:
		potential *= 2500
	}
	potential /= 2500

	st := mnt.Statuses()
	if n := st.Stacks(condition.MountCorroded); n > 0 {
		potential -= dice.Random2(src, 4*n)
	}
	if st.Has(condition.MountDrained) {
		potential = dice.DivRandRound(src, 4*potential, 5)
	}
	if st.Has(condition.MountWretched) {
		potential = dice.DivRandRound(src, 4*potential, 5)
	}
	potential = m.applyResists(potential)

	damage := rollPotential(src, potential)
	damage = max(0, m.applyDefenderAC(damage, potential))
	m.variant.verb(m, damage)
	return damage
}

func (m *MeleeAttack) monsterDamage() int {
	mon, ok := asMonster(m.attacker)
	if !ok {
		return 0
	}
	src := m.ctx.Src
	potential := 0
	if m.weapon != nil {
		potential = m.weapon.Def.Damage
		plus := m.weapon.Plus + mon.Slaying()
		if plus >= 0 {
			potential += dice.Random2(src, plus)
		} else {
			potential -= dice.Random2(src, -plus)
		}
		potential -= 1 + dice.Random2(src, 3)
	}
	potential += m.attkDamage
	potential = m.monsterDamageModifiers(mon, potential)

	damage := rollPotential(src, potential)
	return max(0, m.applyDefenderAC(damage, potential))
}

// monsterDamageModifiers applies a monster's buffs, stab and cleave scaling,
// then resistances.
func (m *MeleeAttack) monsterDamageModifiers(mon MonsterActor, damage int) int {
	src := m.ctx.Src
	st := mon.Statuses()
	if condition.MightOrBerserk(st) {
		damage = damage * 3 / 2
	}
	damage = dice.DivRandRound(src, damage*(10+mon.StrengthBonus()), 10)
	if st.Has(condition.Idealised) {
		damage *= 2
	}
	if st.Has(condition.Weak) {
		damage = damage * 2 / 3
	}
	if has(m.defender, condition.Asleep) ||
		m.attkFlavour == FlavourShadowstab && !m.defender.CanSee(m.attacker) {
		damage = damage * 5 / 2
	}
	if m.cleaving {
		damage = cleaveDamageMod(src, damage)
	}
	if m.damageBrand == inventory.BrandMolten {
		damage = dice.DivRandRound(src, damage*3, 5)
	}
	return m.applyResists(damage)
}

// applyDefenderAC reduces damage by the defender's armour. Molten brands
// halve the armour, rot ignores it, and a stab bypasses part of it.
func (m *MeleeAttack) applyDefenderAC(damage, damageMax int) int {
	src := m.ctx.Src
	bypass := 0
	if m.stabBonus > 0 {
		bypass = skill(m.attacker, m.wpnSkill)*50 + skill(m.attacker, inventory.SkillStealth)*50
		bypass = dice.Random2(src, dice.DivRandRound(src, bypass, 100*m.stabBonus))
	}
	rule := ACNormal
	switch {
	case m.attkFlavour == FlavourRot:
		rule = ACNone
	case m.damageBrand == inventory.BrandMolten:
		rule = ACHalf
	}
	return m.defender.ApplyAC(src, damage, damageMax, rule, bypass)
}

// Preview reports the deterministic to-hit and a sample damage roll for this
// attack without resolving it. The sample consumes randomness from the
// context source but emits no messages or alerts.
func (m *MeleeAttack) Preview() (toHit, damage int) {
	m.quiet = true
	defer func() { m.quiet = false }()
	return m.variant.toHit(m, false), m.CalcDamage()
}
