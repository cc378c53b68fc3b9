// Package combat resolves melee attacks between actors: to-hit and damage
// formulas, weapon brands, chaos effects, and the phase sequence that ties
// them together.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// AutomaticHit is the to-hit sentinel that no evasion can defeat.
const AutomaticHit = 1500

// Pos is a grid coordinate.
type Pos struct {
	X, Y int
}

// Distance returns the Chebyshev distance between p and o.
func (p Pos) Distance(o Pos) int {
	dx, dy := p.X-o.X, p.Y-o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// Adjacent reports whether o is one of the eight cells around p.
func (p Pos) Adjacent(o Pos) bool {
	return p.Distance(o) == 1
}

// Add returns p translated by o.
func (p Pos) Add(o Pos) Pos {
	return Pos{X: p.X + o.X, Y: p.Y + o.Y}
}

// DescLevel selects how an actor's name is rendered in a message.
type DescLevel int

const (
	DescThe DescLevel = iota
	DescA
	DescPlain
	DescIts // possessive: "the orc's"
	DescYour
)

// Pronoun selects a pronoun form.
type Pronoun int

const (
	PronounSubjective Pronoun = iota
	PronounObjective
	PronounPossessive
	PronounReflexive
)

// Holiness is a bit set describing what an actor fundamentally is.
type Holiness int

const (
	HolyNatural Holiness = 1 << iota
	HolyUndead
	HolyDemonic
	HolyHoly
	HolyNonliving
	HolyPlant
)

// Has reports whether h includes any bit of o.
func (h Holiness) Has(o Holiness) bool {
	return h&o != 0
}

// Trait is a static property of an actor that melee rules query.
type Trait string

const (
	TraitFiery        Trait = "fiery"
	TraitIcy          Trait = "icy"
	TraitDragonkind   Trait = "dragonkind"
	TraitAcidSplash   Trait = "acid_splash"
	TraitSpiny        Trait = "spiny"
	TraitFighter      Trait = "fighter"
	TraitHydra        Trait = "hydra"
	TraitClonable     Trait = "clonable"
	TraitNoPolymorph  Trait = "no_polymorph"
	TraitNoBerserk    Trait = "no_berserk"
	TraitUnslowable   Trait = "unslowable"
	TraitResPetrify   Trait = "res_petrify"
	TraitSummoned     Trait = "summoned"
	TraitNoHaste      Trait = "no_haste"
	TraitNightvision  Trait = "nightvision"
	TraitSpellcaster  Trait = "spellcaster"
	TraitElemental    Trait = "elemental"
	TraitConstruct    Trait = "construct"
	TraitUnbreathing  Trait = "unbreathing"
	TraitResSticky    Trait = "res_sticky_flame"
	TraitBleeds       Trait = "bleeds"
	TraitMagicImmune  Trait = "magic_immune"
	TraitFlying       Trait = "flying"
	TraitSubmerged    Trait = "submerged"
	TraitHolyVictim   Trait = "holy_wrath_susceptible"
	TraitMinotaur     Trait = "minotaur"
	TraitShapeshifter Trait = "shapeshifter"
	TraitSeeInvisible Trait = "see_invisible"
)

// BeamFlavour tags damage with the element that resistances act on.
type BeamFlavour int

const (
	BeamNone BeamFlavour = iota
	BeamMissile
	BeamFire
	BeamCold
	BeamElectricity
	BeamPoison
	BeamNeg
	BeamAcid
	BeamHoly
	BeamWater
	BeamBludgeon
	BeamSlash
	BeamPierce
	BeamPolymorph
	BeamChaos
	BeamHaste
	BeamInvisibility
	BeamMight
	BeamAgility
	BeamSlow
	BeamPetrify
	BeamBerserk
	BeamConfusion
	BeamMMissile
	BeamTorment
	BeamEntropicBurst
	BeamChaoticInfusion
	BeamDrainMagic
)

var beamNames = [...]string{
	"none", "missile", "fire", "cold", "electricity", "poison", "negative energy",
	"acid", "holy", "water", "bludgeon", "slash", "pierce", "polymorph", "chaos",
	"haste", "invisibility", "might", "agility", "slow", "petrify", "berserk",
	"confusion", "magic missile", "torment", "entropic burst", "chaotic infusion",
	"drain magic",
}

// String returns the flavour name.
func (b BeamFlavour) String() string {
	if int(b) >= 0 && int(b) < len(beamNames) {
		return beamNames[b]
	}
	return "unknown"
}

// ParseBeamFlavour maps a flavour name such as "fire" or "negative energy"
// to its BeamFlavour.
func ParseBeamFlavour(name string) (BeamFlavour, error) {
	for i, n := range beamNames {
		if n == name {
			return BeamFlavour(i), nil
		}
	}
	return BeamNone, fmt.Errorf("combat: unknown beam flavour %q", name)
}

var holinessNames = map[string]Holiness{
	"natural":   HolyNatural,
	"undead":    HolyUndead,
	"demonic":   HolyDemonic,
	"holy":      HolyHoly,
	"nonliving": HolyNonliving,
	"plant":     HolyPlant,
}

// ParseHoliness combines holiness names into one bit set.
func ParseHoliness(names ...string) (Holiness, error) {
	var h Holiness
	for _, n := range names {
		bit, ok := holinessNames[n]
		if !ok {
			return 0, fmt.Errorf("combat: unknown holiness %q", n)
		}
		h |= bit
	}
	return h, nil
}

// Size is a creature's body size.
type Size int

const (
	SizeTiny Size = iota
	SizeLittle
	SizeSmall
	SizeMedium
	SizeLarge
	SizeBig
	SizeGiant
)

var sizeNames = map[string]Size{
	"tiny":   SizeTiny,
	"little": SizeLittle,
	"small":  SizeSmall,
	"medium": SizeMedium,
	"large":  SizeLarge,
	"big":    SizeBig,
	"giant":  SizeGiant,
}

// ParseSize maps a size name to a Size. The empty name is medium.
func ParseSize(name string) (Size, error) {
	if name == "" {
		return SizeMedium, nil
	}
	s, ok := sizeNames[name]
	if !ok {
		return SizeMedium, fmt.Errorf("combat: unknown size %q", name)
	}
	return s, nil
}

// Sized is implemented by actors whose body is not medium sized.
type Sized interface {
	BodySize() Size
}

func bodySize(a Actor) Size {
	if s, ok := a.(Sized); ok {
		return s.BodySize()
	}
	return SizeMedium
}

// ACType selects how much armour applies to a hit.
type ACType int

const (
	ACNormal ACType = iota
	ACHalf
	ACNone
)

// StabType classifies how helpless a defender is against a stab.
type StabType int

const (
	StabNone StabType = iota
	StabSleeping
	StabParalysed
	StabPetrified
	StabHeld
	StabDistracted
	StabInvisible
	StabFleeing
	StabConfused
	StabAllyOfPlayer
	StabSurrounded
)

// Stat is a primary player attribute.
type Stat int

const (
	StatStr Stat = iota
	StatInt
	StatDex
)

// Mutation is a player body modification with combat effects.
type Mutation string

const (
	MutClaws           Mutation = "claws"
	MutHorns           Mutation = "horns"
	MutHooves          Mutation = "hooves"
	MutTalons          Mutation = "talons"
	MutBeak            Mutation = "beak"
	MutStinger         Mutation = "stinger"
	MutFangs           Mutation = "fangs"
	MutAntimagicBite   Mutation = "antimagic_bite"
	MutAcidicBite      Mutation = "acidic_bite"
	MutTentacleSpike   Mutation = "tentacle_spike"
	MutConstrictTail   Mutation = "constricting_tail"
	MutSpines          Mutation = "spines"
	MutGoldenEyeballs  Mutation = "golden_eyeballs"
	MutBuddingEyeballs Mutation = "budding_eyeballs"
	MutEyeballs        Mutation = "eyeballs"
	MutTranslucentSkin Mutation = "translucent_skin"
	MutTendrils        Mutation = "tendrils"
	MutPassiveFreeze   Mutation = "passive_freeze"
	MutFoulStench      Mutation = "foul_stench"
	MutBlackMark       Mutation = "black_mark"
	MutPaws            Mutation = "paws"
	MutPseudopods      Mutation = "pseudopods"
	MutTentacles       Mutation = "tentacles"
	MutTail            Mutation = "tail"
	MutNoArtifice      Mutation = "no_artifice"
)

// Form is a player shape change with melee consequences.
type Form string

const (
	FormNone       Form = ""
	FormStatue     Form = "statue"
	FormShadow     Form = "shadow"
	FormBladeHands Form = "blade_hands"
	FormDragon     Form = "dragon"
	FormHydra      Form = "hydra"
)

// UsesXL reports whether the form replaces weapon skill with experience level.
func (f Form) UsesXL() bool {
	return f == FormDragon || f == FormHydra
}

// MountKind identifies the creature a player rides.
type MountKind string

const (
	MountNone   MountKind = ""
	MountDrake  MountKind = "drake"
	MountSpider MountKind = "spider"
	MountHydra  MountKind = "hydra"
)

// Actor is anything that can attack or be attacked in melee.
// Implementations are not safe for concurrent use; one attack owns both
// participants for its duration.
type Actor interface {
	ID() string
	IsPlayer() bool
	Alive() bool
	Banished() bool

	Name(desc DescLevel) string
	Pronoun(p Pronoun) string
	// ConjVerb conjugates verb for this actor as subject ("hit" -> "hits").
	ConjVerb(verb string) string
	// Visible reports whether the observer of the fight can see the actor.
	Visible() bool
	CanSee(other Actor) bool

	HP() int
	MaxHP() int
	HitDice() int
	// Hurt subtracts amount from HP and returns the damage actually taken.
	Hurt(source Actor, amount int, flavour BeamFlavour) int
	// Heal restores up to amount HP and returns the amount restored.
	Heal(amount int) int

	Pos() Pos
	SetPos(p Pos)

	Statuses() *condition.ActiveSet
	Holiness() Holiness
	HasTrait(t Trait) bool
	// Resistance returns the resist level against flavour; negative is a vulnerability.
	Resistance(flavour BeamFlavour) int

	Evasion() int
	ArmourClass() int
	// ApplyAC reduces damage by this actor's armour under rule, ignoring
	// stabBypass points of AC.
	ApplyAC(src dice.Source, damage, maxDamage int, rule ACType, stabBypass int) int
	ShieldClass() int
	ShieldBlockPenalty() int
	// ShieldBlockSucceeded records a successful block against attacker.
	ShieldBlockSucceeded(attacker Actor)
	// ResetShieldBlocks clears the blocks counted since the last round.
	ResetShieldBlocks()
	ShieldBypass(toHit int) int
	ArmourToHitPenalty() int
	ShieldToHitPenalty() int

	// Weapon returns the weapon used for attack slot n, or nil.
	Weapon(n int) *inventory.Weapon
	Loadout() *inventory.Loadout
}

// PlayerActor exposes the player-only queries the melee formulas need.
type PlayerActor interface {
	Actor
	Strength() int
	Dexterity() int
	Intelligence() int
	ExperienceLevel() int
	Skill(s inventory.Skill) int
	// Slaying returns the to-hit and damage bonus from rings and artefacts.
	Slaying() int
	MutationLevel(m Mutation) int
	Form() Form
	Starving() bool
	// Vision is +1 for acute vision and -1 for impaired vision.
	Vision() int
	Species() string
	DrainStat(s Stat, amount int)
	// Mount returns the ridden creature, or nil when unmounted.
	Mount() MountActor
}

// MonsterActor exposes the monster-only queries the melee formulas need.
type MonsterActor interface {
	Actor
	// Attack returns the n-th natural attack; Type is AttackNone past the last.
	Attack(n int) MonAttack
	AttackCount() int
	Inaccuracy() int
	// Slaying returns to-hit and damage slaying from jewellery and artefacts.
	Slaying() int
	ExperienceLevel() int
	StrengthBonus() int
	Heads() int
	SetHeads(n int)
	MaxHeads() int
}

// MountActor is the stand-in defender or attacker for a player's mount.
type MountActor interface {
	Actor
	Kind() MountKind
	Rider() PlayerActor
	// Power is the strength of the summoning that bound the mount.
	Power() int
	Dismount()
}

// MonAttack is one entry of a monster's natural attack list.
type MonAttack struct {
	Type    AttackType
	Flavour AttackFlavour
	Damage  int
}

func asPlayer(a Actor) (PlayerActor, bool) {
	if a == nil {
		return nil, false
	}
	p, ok := a.(PlayerActor)
	return p, ok
}

func asMonster(a Actor) (MonsterActor, bool) {
	if a == nil {
		return nil, false
	}
	m, ok := a.(MonsterActor)
	return m, ok
}

func asMount(a Actor) (MountActor, bool) {
	if a == nil {
		return nil, false
	}
	m, ok := a.(MountActor)
	return m, ok
}

// valid reports whether a can still take part in an attack.
func valid(a Actor) bool {
	return a != nil && a.Alive() && !a.Banished()
}

func incapacitated(a Actor) bool {
	return condition.IsIncapacitated(a.Statuses())
}

func has(a Actor, status string) bool {
	return a.Statuses().Has(status)
}

func mutation(a Actor, m Mutation) int {
	if p, ok := asPlayer(a); ok {
		return p.MutationLevel(m)
	}
	return 0
}

func skill(a Actor, s inventory.Skill) int {
	if p, ok := asPlayer(a); ok {
		return p.Skill(s)
	}
	return 0
}

func experienceLevel(a Actor) int {
	switch v := a.(type) {
	case PlayerActor:
		return v.ExperienceLevel()
	case MonsterActor:
		return v.ExperienceLevel()
	}
	return a.HitDice()
}

// summoned reports whether a was summoned rather than born.
func summoned(a Actor) bool {
	return a.HasTrait(TraitSummoned)
}

// canBleed reports whether a has blood to spill. Elementals and constructs
// are bloodless even when counted as natural.
func canBleed(a Actor) bool {
	return isNatural(a) && !a.HasTrait(TraitElemental) && !a.HasTrait(TraitConstruct)
}

// isNatural reports whether a is a natural, living creature.
func isNatural(a Actor) bool {
	return a.Holiness().Has(HolyNatural)
}
