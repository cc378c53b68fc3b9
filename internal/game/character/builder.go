// Package character builds player combatants from a species, a job and an
// experience level.
package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/creature"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// MaxXL is the highest experience level.
const MaxXL = 27

// Options selects what Build produces.
type Options struct {
	ID      string
	Species *ruleset.Species
	Job     *ruleset.Job
	XL      int
}

// statsFor adds species base stats, job bonuses and one point of strength
// and dexterity per six levels.
func statsFor(sp *ruleset.Species, job *ruleset.Job, xl int) creature.Stats {
	return creature.Stats{
		Str: sp.Stats.Str + job.Stats.Str + xl/6,
		Int: sp.Stats.Int + job.Stats.Int,
		Dex: sp.Stats.Dex + job.Stats.Dex + xl/6,
	}
}

// skillsFor raises every skill the job trains by one per level past the
// first, capped at ruleset.MaxSkill.
func skillsFor(job *ruleset.Job, xl int) map[inventory.Skill]int {
	out := make(map[inventory.Skill]int, len(job.Skills))
	for s, lvl := range job.Skills {
		out[s] = min(ruleset.MaxSkill, lvl+xl-1)
	}
	return out
}

// MaxHP returns the hit points of a character at xl with the given fighting
// skill and species modifier.
//
// Postcondition: result >= 1.
func MaxHP(xl, fighting, hpModifier int) int {
	hp := xl*11/2 + 8
	hp += xl * fighting * 5 / 70
	hp = hp * (10 + hpModifier) / 10
	return max(1, hp)
}

// Build constructs a player from opts, arming it from items and rolling any
// summoned mount's hit points with src.
//
// Precondition: items and src must be non-nil.
// Postcondition: Returns a living player or a non-nil error naming the
// first invalid option or missing item.
func Build(opts Options, items *inventory.Registry, src dice.Source) (*creature.Player, error) {
	if opts.ID == "" {
		return nil, errors.New("character id must not be empty")
	}
	if opts.Species == nil {
		return nil, errors.New("species must not be nil")
	}
	if opts.Job == nil {
		return nil, errors.New("job must not be nil")
	}
	if opts.XL < 1 || opts.XL > MaxXL {
		return nil, fmt.Errorf("experience level must be in [1, %d], got %d", MaxXL, opts.XL)
	}
	sp, job := opts.Species, opts.Job

	holiness, err := combat.ParseHoliness(sp.Holiness...)
	if err != nil {
		return nil, fmt.Errorf("species %q: %w", sp.ID, err)
	}
	resists := make(map[combat.BeamFlavour]int, len(sp.Resists))
	for name, lvl := range sp.Resists {
		f, err := combat.ParseBeamFlavour(name)
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", sp.ID, err)
		}
		resists[f] = lvl
	}

	skills := skillsFor(job, opts.XL)
	p := creature.NewPlayer(creature.PlayerSpec{
		ID:        opts.ID,
		Species:   sp.ID,
		XL:        opts.XL,
		MaxHP:     MaxHP(opts.XL, skills[inventory.SkillFighting], sp.HPModifier),
		Stats:     statsFor(sp, job, opts.XL),
		BaseAC:    sp.BaseAC,
		Form:      sp.Form,
		Holiness:  holiness,
		Skills:    skills,
		Mutations: sp.Mutations,
		Traits:    sp.Traits,
		Resists:   resists,
	})

	if err := equip(p, job, items); err != nil {
		return nil, fmt.Errorf("job %q: %w", job.ID, err)
	}
	if job.Mount != nil {
		creature.Ride(p, job.Mount.Kind, job.Mount.Power, src)
	}
	return p, nil
}

func equip(p *creature.Player, job *ruleset.Job, items *inventory.Registry) error {
	for hand, kw := range map[inventory.Hand]*ruleset.KitWeapon{
		inventory.HandPrimary: job.Weapon,
		inventory.HandOffhand: job.Offhand,
	} {
		if kw == nil {
			continue
		}
		def := items.Weapon(kw.ID)
		if def == nil {
			return fmt.Errorf("weapon %q: %w", kw.ID, inventory.ErrUnknownWeapon)
		}
		w := inventory.NewWeapon(def)
		w.Plus += kw.Plus
		if kw.Brand != nil {
			w.Brand = *kw.Brand
		}
		if err := p.Loadout().Wield(hand, w); err != nil {
			return err
		}
	}
	for _, id := range job.Armour {
		def := items.Armour(id)
		if def == nil {
			return fmt.Errorf("armour %q: %w", id, inventory.ErrUnknownArmour)
		}
		if err := p.Loadout().Wear(def); err != nil {
			return err
		}
	}
	return nil
}
