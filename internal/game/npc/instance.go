package npc

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/creature"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// Instance is a live monster spawned from a Template.
type Instance struct {
	creature.Body
	// TemplateID is the source template's ID.
	TemplateID string

	tmpl     *Template
	hd       int
	heads    int
	maxHeads int
	size     combat.Size
	attacks  []combat.MonAttack
}

var _ combat.MonsterActor = (*Instance)(nil)

// NewInstance spawns a monster from tmpl, rolling its hit points with roller
// and resolving its weapons against weapons.
//
// Precondition: id must be non-empty; tmpl and roller must be non-nil.
// weapons may be nil only when the template wields nothing.
// Postcondition: Returns a living instance at full HP, or an error naming the
// missing weapon.
func NewInstance(id string, tmpl *Template, weapons *inventory.Registry, roller *dice.Roller) (*Instance, error) {
	hp, err := roller.RollExpr(tmpl.HP)
	if err != nil {
		return nil, fmt.Errorf("rolling hp for %q: %w", tmpl.ID, err)
	}
	holiness, err := combat.ParseHoliness(tmpl.Holiness...)
	if err != nil {
		return nil, fmt.Errorf("spawning %q: %w", tmpl.ID, err)
	}
	if holiness == 0 {
		holiness = combat.HolyNatural
	}
	size, err := combat.ParseSize(tmpl.Size)
	if err != nil {
		return nil, fmt.Errorf("spawning %q: %w", tmpl.ID, err)
	}

	inst := &Instance{
		Body:       creature.NewBody(id, max(1, hp.Total()), holiness),
		TemplateID: tmpl.ID,
		tmpl:       tmpl,
		hd:         tmpl.HitDice,
		heads:      tmpl.Heads,
		maxHeads:   tmpl.MaxHeads,
		size:       size,
	}
	for _, a := range tmpl.Attacks {
		inst.attacks = append(inst.attacks, combat.MonAttack{Type: a.Type, Flavour: a.Flavour, Damage: a.Damage})
	}
	for _, t := range tmpl.Traits {
		inst.SetTrait(t, true)
	}
	for name, lvl := range tmpl.Resists {
		f, err := combat.ParseBeamFlavour(name)
		if err != nil {
			return nil, fmt.Errorf("spawning %q: %w", tmpl.ID, err)
		}
		inst.SetResistance(f, lvl)
	}

	for hand, spec := range map[inventory.Hand]*WeaponSpec{
		inventory.HandPrimary: tmpl.Weapon,
		inventory.HandOffhand: tmpl.Offhand,
	} {
		if spec == nil {
			continue
		}
		w, err := resolveWeapon(weapons, spec)
		if err != nil {
			return nil, fmt.Errorf("spawning %q: %w", tmpl.ID, err)
		}
		if err := inst.Loadout().Wield(hand, w); err != nil {
			return nil, fmt.Errorf("spawning %q: %w", tmpl.ID, err)
		}
	}
	return inst, nil
}

func resolveWeapon(weapons *inventory.Registry, spec *WeaponSpec) (*inventory.Weapon, error) {
	if weapons == nil {
		return nil, fmt.Errorf("weapon %q: no weapon registry", spec.ID)
	}
	def := weapons.Weapon(spec.ID)
	if def == nil {
		return nil, fmt.Errorf("weapon %q: %w", spec.ID, inventory.ErrUnknownWeapon)
	}
	w := inventory.NewWeapon(def)
	w.Plus = spec.Plus
	if spec.Brand != nil {
		w.Brand = *spec.Brand
	}
	return w, nil
}

func (i *Instance) IsPlayer() bool { return false }

// Name describes the monster with an article, or bare for uniques.
func (i *Instance) Name(desc combat.DescLevel) string {
	base := i.tmpl.Name
	if i.tmpl.Unique {
		if desc == combat.DescIts {
			return base + "'s"
		}
		return base
	}
	switch desc {
	case combat.DescPlain:
		return base
	case combat.DescA:
		return article(base)
	case combat.DescIts:
		return "the " + base + "'s"
	case combat.DescYour:
		return "your " + base
	}
	return "the " + base
}

func article(name string) string {
	switch name[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + name
	}
	return "a " + name
}

var pronouns = map[string][4]string{
	"male":   {"he", "him", "his", "himself"},
	"female": {"she", "her", "her", "herself"},
	"it":     {"it", "it", "its", "itself"},
}

func (i *Instance) Pronoun(p combat.Pronoun) string {
	set, ok := pronouns[i.tmpl.Gender]
	if !ok {
		set = pronouns["it"]
	}
	switch p {
	case combat.PronounObjective:
		return set[1]
	case combat.PronounPossessive:
		return set[2]
	case combat.PronounReflexive:
		return set[3]
	}
	return set[0]
}

func (i *Instance) ConjVerb(verb string) string { return combat.ThirdPerson(verb) }

func (i *Instance) HitDice() int { return i.hd }

// SetHitDice changes the monster's level, as polymorph or draining does.
func (i *Instance) SetHitDice(hd int) { i.hd = max(1, hd) }

// ExperienceLevel is the template's level; attack damage scales by
// HitDice()/ExperienceLevel().
func (i *Instance) ExperienceLevel() int { return i.tmpl.HitDice }

func (i *Instance) Attack(n int) combat.MonAttack {
	if n < 0 || n >= len(i.attacks) {
		return combat.MonAttack{Type: combat.AttackNone}
	}
	return i.attacks[n]
}

func (i *Instance) AttackCount() int { return len(i.attacks) }
func (i *Instance) Inaccuracy() int { return i.tmpl.Inaccuracy }
func (i *Instance) Slaying() int { return i.tmpl.Slaying }
func (i *Instance) StrengthBonus() int { return i.tmpl.StrengthBonus }
func (i *Instance) Heads() int { return i.heads }
func (i *Instance) SetHeads(n int) { i.heads = max(0, n) }
func (i *Instance) MaxHeads() int { return i.maxHeads }
func (i *Instance) BodySize() combat.Size { return i.size }

// Weapon returns the wielded weapon for a weapon-using attack slot.
func (i *Instance) Weapon(n int) *inventory.Weapon {
	switch i.Attack(n).Type {
	case combat.AttackHit, combat.AttackWeaponOnly:
		return i.Body.Weapon(n)
	}
	return nil
}

// ArmourClass is the template AC less four per corrosion level.
func (i *Instance) ArmourClass() int {
	return max(0, i.tmpl.AC-4*i.Statuses().Stacks(condition.Corroded))
}

func (i *Instance) Evasion() int { return i.tmpl.EV }

func (i *Instance) ApplyAC(src dice.Source, damage, maxDamage int, rule combat.ACType, stabBypass int) int {
	return creature.ApplyAC(src, i.ArmourClass(), 0, damage, maxDamage, rule, stabBypass)
}

// ShieldClass adds a warding staff's shield to the template's.
func (i *Instance) ShieldClass() int {
	return i.tmpl.Shield + i.Body.Weapon(0).WardShieldClass()
}

// ShieldBlockPenalty grows with the square of the blocks made this round.
func (i *Instance) ShieldBlockPenalty() int {
	n := i.ShieldBlocks()
	return 4 * n * n
}
func (i *Instance) ShieldBypass(toHit int) int { return 15 + toHit/2 }
func (i *Instance) ArmourToHitPenalty() int { return 0 }
func (i *Instance) ShieldToHitPenalty() int { return 0 }

// HealthDescription returns a visible health state string suitable for examine output.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if i.HP() <= 0 {
		return "dead"
	}
	pct := float64(i.HP()) / float64(i.MaxHP())
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
