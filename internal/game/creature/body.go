// Package creature provides the concrete combatants the melee engine fights
// with: the player, the player's mount, and the shared body both build on.
package creature

import (
	"math"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// Body is the state every creature carries: hit points, position, statuses,
// innate traits and resistances, and equipment.
// A Body is not safe for concurrent use.
type Body struct {
	id       string
	hp       int
	maxHP    int
	pos      combat.Pos
	statuses *condition.ActiveSet
	holiness combat.Holiness
	traits   map[combat.Trait]bool
	resists  map[combat.BeamFlavour]int
	loadout  *inventory.Loadout
	banished bool
	// blocks counts shield blocks since the last ResetShieldBlocks.
	blocks int
}

// NewBody returns a Body at full health.
//
// Precondition: id must be non-empty; maxHP must be >= 1.
// Postcondition: HP() == maxHP; Statuses() and Loadout() are non-nil.
func NewBody(id string, maxHP int, holiness combat.Holiness) Body {
	if id == "" || maxHP < 1 {
		panic("creature: NewBody precondition violated: id must be non-empty and maxHP >= 1")
	}
	return Body{
		id:       id,
		hp:       maxHP,
		maxHP:    maxHP,
		statuses: condition.NewActiveSet(),
		holiness: holiness,
		traits:   make(map[combat.Trait]bool),
		resists:  make(map[combat.BeamFlavour]int),
		loadout:  inventory.NewLoadout(),
	}
}

func (b *Body) ID() string { return b.id }
func (b *Body) HP() int { return b.hp }
func (b *Body) MaxHP() int { return b.maxHP }
func (b *Body) Alive() bool { return b.hp > 0 }
func (b *Body) Banished() bool { return b.banished }
func (b *Body) Pos() combat.Pos { return b.pos }
func (b *Body) SetPos(p combat.Pos) { b.pos = p }
func (b *Body) Statuses() *condition.ActiveSet { return b.statuses }
func (b *Body) Holiness() combat.Holiness { return b.holiness }
func (b *Body) HasTrait(t combat.Trait) bool { return b.traits[t] }
func (b *Body) Loadout() *inventory.Loadout { return b.loadout }
func (b *Body) Resistance(f combat.BeamFlavour) int { return b.resists[f] }

// ShieldBlocks returns the number of blocks made this round.
func (b *Body) ShieldBlocks() int { return b.blocks }

// ShieldBlockSucceeded records a block against attacker. Each block this
// round makes the next one harder.
func (b *Body) ShieldBlockSucceeded(combat.Actor) { b.blocks++ }

// ResetShieldBlocks clears the per-round block count.
func (b *Body) ResetShieldBlocks() { b.blocks = 0 }

// Banish removes the body from the fight without killing it.
func (b *Body) Banish() { b.banished = true }

// SetTrait turns trait t on or off.
func (b *Body) SetTrait(t combat.Trait, on bool) {
	if on {
		b.traits[t] = true
		return
	}
	delete(b.traits, t)
}

// SetResistance sets the resist level against f. Zero clears it.
func (b *Body) SetResistance(f combat.BeamFlavour, level int) {
	if level == 0 {
		delete(b.resists, f)
		return
	}
	b.resists[f] = level
}

// SetHP sets current hit points, clamped to MaxHP.
func (b *Body) SetHP(hp int) {
	b.hp = min(hp, b.maxHP)
}

// Visible reports whether onlookers can see the body.
func (b *Body) Visible() bool {
	return !b.statuses.Has(condition.Invisible)
}

// CanSee reports whether this body can see other.
func (b *Body) CanSee(other combat.Actor) bool {
	if other == nil {
		return false
	}
	if other.ID() == b.id {
		return true
	}
	if b.statuses.Has(condition.Blind) {
		return false
	}
	return other.Visible() || b.traits[combat.TraitSeeInvisible]
}

// Hurt subtracts amount from HP. Negative amounts are ignored.
//
// Postcondition: returns the damage taken, which is max(0, amount).
func (b *Body) Hurt(_ combat.Actor, amount int, _ combat.BeamFlavour) int {
	if amount <= 0 {
		return 0
	}
	b.hp -= amount
	return amount
}

// Heal restores up to amount HP to a living body.
//
// Postcondition: HP() <= MaxHP(); returns the HP actually restored.
func (b *Body) Heal(amount int) int {
	if amount <= 0 || !b.Alive() {
		return 0
	}
	restored := min(amount, b.maxHP-b.hp)
	b.hp += restored
	return restored
}

// Weapon returns the primary weapon for slot 0 and the offhand weapon for
// slot 1.
func (b *Body) Weapon(n int) *inventory.Weapon {
	switch n {
	case 0:
		return b.loadout.Wielded(inventory.HandPrimary)
	case 1:
		return b.loadout.Wielded(inventory.HandOffhand)
	}
	return nil
}

// GuaranteedReduction returns the percentage of a hit's maximum damage that
// body armour of the given AC always absorbs.
func GuaranteedReduction(bodyArmourAC int) int {
	if bodyArmourAC <= 0 {
		return 0
	}
	return int(16 * math.Sqrt(math.Sqrt(float64(bodyArmourAC))))
}

// ApplyAC rolls how much of damage armour class ac absorbs under rule.
// gdr is the guaranteed reduction percentage from GuaranteedReduction.
//
// Postcondition: 0 <= result <= max(damage, 0).
func ApplyAC(src dice.Source, ac, gdr, damage, maxDamage int, rule combat.ACType, stabBypass int) int {
	if damage <= 0 {
		return 0
	}
	ac = max(ac-stabBypass, 0)
	var saved int
	switch rule {
	case combat.ACNone:
		return damage
	case combat.ACHalf:
		saved = dice.Random2(src, 1+ac) / 2
		ac /= 2
		gdr /= 2
	default:
		saved = dice.Random2(src, 1+ac)
	}
	if gdr > 0 && ac > 0 {
		saved = max(saved, min(gdr*maxDamage/100, dice.DivRandRound(src, ac, 2)))
	}
	return max(damage-saved, 0)
}
