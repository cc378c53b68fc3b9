package condition

// Status identifiers understood by the combat engine.
const (
	Asleep          = "asleep"
	Paralysed       = "paralysed"
	Petrifying      = "petrifying"
	Petrified       = "petrified"
	Confused        = "confused"
	Fleeing         = "fleeing"
	Distracted      = "distracted"
	Haste           = "haste"
	Slow            = "slow"
	Berserk         = "berserk"
	Might           = "might"
	Agility         = "agility"
	Brilliance      = "brilliance"
	Invisible       = "invisible"
	Swift           = "swift"
	Regenerating    = "regenerating"
	IceArmour       = "ice_armour"
	Poisoned        = "poisoned"
	Weak            = "weak"
	Vertigo         = "vertigo"
	Corroded        = "corroded"
	LoweredMR       = "lowered_mr"
	StickyFlame     = "sticky_flame"
	Held            = "held"
	Blind           = "blind"
	Mute            = "mute"
	Barbs           = "barbs"
	Sick            = "sick"
	Wretched        = "wretched"
	Flayed          = "flayed"
	Frozen          = "frozen"
	InnerFlame      = "inner_flame"
	Antimagic       = "antimagic"
	ChaoticInfusion = "chaotic_infusion"
	Shroud          = "shroud"
	DeathsDoor      = "deaths_door"
	DivineStamina   = "divine_stamina"
	ConfusingTouch  = "confusing_touch"
	WaterHold       = "water_hold"
	BlackMark       = "black_mark"
	Idealised       = "idealised"
	Infusion        = "infusion"
	Drained         = "drained"
	Constricted     = "constricted"
	Shapeshifter    = "shapeshifter"
	MountWretched   = "mount_wretched"
	MountPoisoned   = "mount_poisoned"
	MountDrained    = "mount_drained"
	MountCorroded   = "mount_corroded"
	MountSlowed     = "mount_slowed"
	FireVuln        = "fire_vulnerable"
	ColdVuln        = "cold_vulnerable"
	ElecVuln        = "elec_vulnerable"
	PhysVuln        = "phys_vulnerable"
	Afraid          = "afraid"
	Empowered       = "empowered"
	Teleporting     = "teleporting"
	Rooted          = "rooted"
)

type builtin struct {
	id, name      string
	stacks, cap   int
	good, incap   bool
	apply, expire string
	permanent     bool
}

var builtins = []builtin{
	{id: Asleep, name: "Asleep", incap: true},
	{id: Paralysed, name: "Paralysed", incap: true, apply: "%s suddenly stops moving!"},
	{id: Petrifying, name: "Petrifying", apply: "%s is moving more slowly."},
	{id: Petrified, name: "Petrified", incap: true, apply: "%s turns to stone!"},
	{id: Confused, name: "Confused", cap: 40, apply: "%s looks confused."},
	{id: Fleeing, name: "Fleeing", apply: "%s turns to flee."},
	{id: Distracted, name: "Distracted"},
	{id: Haste, name: "Hasted", good: true, cap: 40, apply: "%s seems to speed up."},
	{id: Slow, name: "Slowed", cap: 40, apply: "%s seems to slow down."},
	{id: Berserk, name: "Berserk", good: true, apply: "%s goes berserk!"},
	{id: Might, name: "Mighty", good: true, apply: "%s seems to grow stronger."},
	{id: Agility, name: "Agile", good: true, apply: "%s suddenly seems more agile."},
	{id: Brilliance, name: "Brilliant", good: true, apply: "%s suddenly seems more clever."},
	{id: Invisible, name: "Invisible", good: true, apply: "%s flickers and vanishes!"},
	{id: Swift, name: "Swift", good: true, apply: "%s seems to move somewhat quicker."},
	{id: Regenerating, name: "Regenerating", good: true, apply: "%s's wounds begin to heal before your eyes."},
	{id: IceArmour, name: "Icy Armour", good: true, apply: "%s is encased in ice."},
	{id: Poisoned, name: "Poisoned", stacks: 1000, apply: "%s looks ill."},
	{id: Weak, name: "Weakened", apply: "%s looks weaker."},
	{id: Vertigo, name: "Vertigo"},
	{id: Corroded, name: "Corroded", stacks: 4, apply: "%s is covered in acid."},
	{id: LoweredMR, name: "Vulnerable", cap: 40},
	{id: StickyFlame, name: "Covered in liquid flames"},
	{id: Held, name: "Ensnared", apply: "%s is caught in a web."},
	{id: Blind, name: "Blind", apply: "%s is blinded."},
	{id: Mute, name: "Silenced", apply: "%s is silenced."},
	{id: Barbs, name: "Barbed", apply: "%s is skewered by barbed spikes."},
	{id: Sick, name: "Sick"},
	{id: Wretched, name: "Wretched", apply: "%s twists and deforms."},
	{id: Flayed, name: "Flayed", apply: "%s is flayed by invisible forces!"},
	{id: Frozen, name: "Frozen", apply: "%s is flash-frozen."},
	{id: InnerFlame, name: "Inner Flame", apply: "%s is filled with an inner flame."},
	{id: Antimagic, name: "Magic-drained"},
	{id: ChaoticInfusion, name: "Chaotically Infused", good: true, apply: "%s is infused with chaotic energy."},
	{id: Shroud, name: "Shrouded", good: true},
	{id: DeathsDoor, name: "Death's Door", good: true},
	{id: DivineStamina, name: "Divine Stamina", good: true},
	{id: ConfusingTouch, name: "Confusing Touch", good: true},
	{id: WaterHold, name: "Engulfed"},
	{id: BlackMark, name: "Black Mark", good: true, permanent: true},
	{id: Idealised, name: "Idealised", good: true},
	{id: Infusion, name: "Infusion", good: true},
	{id: Drained, name: "Drained", stacks: 1000},
	{id: Constricted, name: "Constricted"},
	{id: Shapeshifter, name: "Shapeshifter", permanent: true, apply: "%s begins to shift its shape."},
	{id: MountWretched, name: "Mount Wretched", cap: 30},
	{id: MountPoisoned, name: "Mount Poisoned", stacks: 1000},
	{id: MountDrained, name: "Mount Drained", stacks: 1000},
	{id: MountCorroded, name: "Mount Corroded", stacks: 4},
	{id: MountSlowed, name: "Mount Slowed", cap: 25},
	{id: FireVuln, name: "Fire Vulnerable", apply: "%s looks more vulnerable to fire."},
	{id: ColdVuln, name: "Cold Vulnerable", apply: "%s looks more vulnerable to cold."},
	{id: ElecVuln, name: "Electricity Vulnerable", apply: "%s looks more vulnerable to electricity."},
	{id: PhysVuln, name: "Fragile", apply: "%s looks more fragile."},
	{id: Afraid, name: "Afraid", apply: "%s looks terrified."},
	{id: Empowered, name: "Empowered", good: true, apply: "%s looks empowered."},
	{id: Teleporting, name: "Teleporting", apply: "%s starts to feel unstable."},
	{id: Rooted, name: "Rooted", apply: "%s is rooted to the spot."},
}

// DefaultRegistry returns a Registry pre-populated with every status the combat
// engine applies.
//
// Postcondition: every exported status identifier is registered.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, b := range builtins {
		dt := DurationTurns
		if b.permanent {
			dt = DurationPermanent
		}
		reg.Register(&ConditionDef{
			ID:            b.id,
			Name:          b.name,
			DurationType:  dt,
			MaxStacks:     b.stacks,
			MaxDuration:   b.cap,
			Beneficial:    b.good,
			Incapacitates: b.incap,
			ApplyMessage:  b.apply,
			ExpireMessage: b.expire,
		})
	}
	return reg
}
