package creature

import (
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// Stats holds the three primary player attributes.
type Stats struct {
	Str int
	Int int
	Dex int
}

// PlayerSpec describes a player to build.
type PlayerSpec struct {
	ID        string
	Species   string
	XL        int
	MaxHP     int
	Stats     Stats
	BaseAC    int
	Slaying   int
	Vision    int
	Form      combat.Form
	Holiness  combat.Holiness
	Skills    map[inventory.Skill]int
	Mutations map[combat.Mutation]int
	Traits    []combat.Trait
	Resists   map[combat.BeamFlavour]int
}

// Player is the player character as a melee combatant.
type Player struct {
	Body
	species   string
	xl        int
	stats     Stats
	baseAC    int
	slaying   int
	vision    int
	form      combat.Form
	starving  bool
	skills    map[inventory.Skill]int
	mutations map[combat.Mutation]int
	mount     *Mount
}

var _ combat.PlayerActor = (*Player)(nil)

// NewPlayer builds a player from spec. A zero Holiness means natural.
//
// Precondition: spec.ID must be non-empty; spec.MaxHP >= 1; spec.XL >= 1.
// Postcondition: the player is alive, unmounted and unarmed.
func NewPlayer(spec PlayerSpec) *Player {
	if spec.XL < 1 {
		panic("creature: NewPlayer precondition violated: XL must be >= 1")
	}
	holiness := spec.Holiness
	if holiness == 0 {
		holiness = combat.HolyNatural
	}
	p := &Player{
		Body:      NewBody(spec.ID, spec.MaxHP, holiness),
		species:   spec.Species,
		xl:        spec.XL,
		stats:     spec.Stats,
		baseAC:    spec.BaseAC,
		slaying:   spec.Slaying,
		vision:    spec.Vision,
		form:      spec.Form,
		skills:    make(map[inventory.Skill]int, len(spec.Skills)),
		mutations: make(map[combat.Mutation]int, len(spec.Mutations)),
	}
	for s, lvl := range spec.Skills {
		p.skills[s] = lvl
	}
	for m, lvl := range spec.Mutations {
		p.mutations[m] = lvl
	}
	for _, t := range spec.Traits {
		p.SetTrait(t, true)
	}
	for f, lvl := range spec.Resists {
		p.SetResistance(f, lvl)
	}
	return p
}

func (p *Player) IsPlayer() bool { return true }

// Name returns the second-person name for every description level.
func (p *Player) Name(desc combat.DescLevel) string {
	switch desc {
	case combat.DescIts, combat.DescYour:
		return "your"
	}
	return "you"
}

func (p *Player) Pronoun(pr combat.Pronoun) string {
	switch pr {
	case combat.PronounPossessive:
		return "your"
	case combat.PronounReflexive:
		return "yourself"
	}
	return "you"
}

// ConjVerb returns verb unchanged: the player is addressed as "you".
func (p *Player) ConjVerb(verb string) string { return verb }

func (p *Player) HitDice() int { return p.xl }
func (p *Player) ExperienceLevel() int { return p.xl }
func (p *Player) Species() string { return p.species }
func (p *Player) Slaying() int { return p.slaying }
func (p *Player) Vision() int { return p.vision }
func (p *Player) Form() combat.Form { return p.form }
func (p *Player) Starving() bool { return p.starving }

// SetStarving marks the player as starving or fed.
func (p *Player) SetStarving(s bool) { p.starving = s }

// SetForm changes the player's shape.
func (p *Player) SetForm(f combat.Form) { p.form = f }

// Strength includes the bonus from might.
func (p *Player) Strength() int {
	if p.statuses.Has(condition.Might) {
		return p.stats.Str + 5
	}
	return p.stats.Str
}

// Intelligence includes the bonus from brilliance.
func (p *Player) Intelligence() int {
	if p.statuses.Has(condition.Brilliance) {
		return p.stats.Int + 5
	}
	return p.stats.Int
}

// Dexterity includes the bonus from agility.
func (p *Player) Dexterity() int {
	if p.statuses.Has(condition.Agility) {
		return p.stats.Dex + 5
	}
	return p.stats.Dex
}

// DrainStat lowers stat s by amount, never below zero.
func (p *Player) DrainStat(s combat.Stat, amount int) {
	switch s {
	case combat.StatStr:
		p.stats.Str = max(0, p.stats.Str-amount)
	case combat.StatInt:
		p.stats.Int = max(0, p.stats.Int-amount)
	case combat.StatDex:
		p.stats.Dex = max(0, p.stats.Dex-amount)
	}
}

func (p *Player) Skill(s inventory.Skill) int { return p.skills[s] }

// SetSkill sets the level of skill s.
func (p *Player) SetSkill(s inventory.Skill, level int) { p.skills[s] = level }

func (p *Player) MutationLevel(m combat.Mutation) int { return p.mutations[m] }

// SetMutation sets the level of mutation m. Zero removes it.
func (p *Player) SetMutation(m combat.Mutation, level int) {
	if level <= 0 {
		delete(p.mutations, m)
		return
	}
	p.mutations[m] = level
}

// Mount returns the ridden mount, or nil.
func (p *Player) Mount() combat.MountActor {
	if p.mount == nil {
		return nil
	}
	return p.mount
}

// Hurt subtracts amount from HP. At death's door the player cannot drop
// below one hit point.
func (p *Player) Hurt(source combat.Actor, amount int, flavour combat.BeamFlavour) int {
	if amount <= 0 {
		return 0
	}
	if p.statuses.Has(condition.DeathsDoor) && amount >= p.hp {
		amount = max(0, p.hp-1)
	}
	return p.Body.Hurt(source, amount, flavour)
}

// ArmourClass is base AC plus worn armour, less four per corrosion level.
func (p *Player) ArmourClass() int {
	ac := p.baseAC + p.loadout.ArmourClass() - 4*p.statuses.Stacks(condition.Corroded)
	if p.statuses.Has(condition.IceArmour) {
		ac += 5
	}
	return max(0, ac)
}

// Evasion is driven by dexterity and reduced by heavy armour.
func (p *Player) Evasion() int {
	ev := 10 + 2*p.Dexterity()/3 - p.loadout.ArmourPenalty()/3
	if p.statuses.Has(condition.Vertigo) {
		ev /= 2
	}
	return max(0, ev)
}

func (p *Player) gdr() int {
	if body := p.loadout.Worn(inventory.SlotBody); body != nil {
		return GuaranteedReduction(body.AC)
	}
	return 0
}

func (p *Player) ApplyAC(src dice.Source, damage, maxDamage int, rule combat.ACType, stabBypass int) int {
	return ApplyAC(src, p.ArmourClass(), p.gdr(), damage, maxDamage, rule, stabBypass)
}

// ShieldClass is the better of a worn shield and a warding staff, and zero
// with neither.
func (p *Player) ShieldClass() int {
	sc := 0
	if sh := p.loadout.Worn(inventory.SlotShield); sh != nil {
		sc = sh.ShieldBonus*2 + p.Dexterity()/5
	}
	if w := p.loadout.Wielded(inventory.HandPrimary); w.Warding() {
		sc = max(sc, w.WardShieldClass()+p.Dexterity()/5)
	}
	return sc
}

// ShieldBlockPenalty grows with the square of the blocks made this round.
func (p *Player) ShieldBlockPenalty() int { return 5 * p.blocks * p.blocks }

func (p *Player) ShieldBypass(toHit int) int { return 15 + toHit/2 }

func (p *Player) ArmourToHitPenalty() int { return p.loadout.ArmourPenalty() }

func (p *Player) ShieldToHitPenalty() int { return p.loadout.ShieldPenalty() }
