package inventory

import "fmt"

// Brand is a weapon enchantment that fires a secondary effect on hit.
type Brand int

const (
	BrandNone Brand = iota
	BrandMolten
	BrandFreezing
	BrandHolyWrath
	BrandElectrocution
	BrandDragonSlaying
	BrandVenom
	BrandProtection
	BrandDraining
	BrandSpeed
	BrandVorpal
	BrandVampirism
	BrandPain
	BrandAntimagic
	BrandDistortion
	BrandChaos
	BrandConfuse
	BrandSilver
	BrandAcid
	BrandReaping
)

var brandNames = map[Brand]string{
	BrandNone:          "none",
	BrandMolten:        "molten",
	BrandFreezing:      "freezing",
	BrandHolyWrath:     "holy_wrath",
	BrandElectrocution: "electrocution",
	BrandDragonSlaying: "dragon_slaying",
	BrandVenom:         "venom",
	BrandProtection:    "protection",
	BrandDraining:      "draining",
	BrandSpeed:         "speed",
	BrandVorpal:        "vorpal",
	BrandVampirism:     "vampirism",
	BrandPain:          "pain",
	BrandAntimagic:     "antimagic",
	BrandDistortion:    "distortion",
	BrandChaos:         "chaos",
	BrandConfuse:       "confuse",
	BrandSilver:        "silver",
	BrandAcid:          "acid",
	BrandReaping:       "reaping",
}

// String returns the content identifier of the brand.
func (b Brand) String() string {
	if s, ok := brandNames[b]; ok {
		return s
	}
	return fmt.Sprintf("brand(%d)", int(b))
}

// ParseBrand maps a content identifier to a Brand. The empty string is BrandNone.
//
// Postcondition: Returns an error iff s names no brand.
func ParseBrand(s string) (Brand, error) {
	if s == "" {
		return BrandNone, nil
	}
	for b, name := range brandNames {
		if name == s {
			return b, nil
		}
	}
	return BrandNone, fmt.Errorf("unknown brand %q", s)
}

// UnmarshalYAML decodes a brand from its string identifier.
func (b *Brand) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseBrand(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// DamageType is the physical kind of damage an implement deals.
type DamageType string

const (
	DamageCrushing DamageType = "crushing"
	DamageSlicing  DamageType = "slicing"
	DamagePiercing DamageType = "piercing"
	DamageChopping DamageType = "chopping"
	DamageWhipping DamageType = "whipping"
	DamageClawing  DamageType = "clawing"
)

var validDamageTypes = map[DamageType]bool{
	DamageCrushing: true, DamageSlicing: true, DamagePiercing: true,
	DamageChopping: true, DamageWhipping: true, DamageClawing: true,
}

// Skill identifies the combat skill a weapon trains and scales with.
type Skill string

const (
	SkillShortBlades Skill = "short_blades"
	SkillLongBlades  Skill = "long_blades"
	SkillAxes        Skill = "axes"
	SkillMacesFlails Skill = "maces_flails"
	SkillPolearms    Skill = "polearms"
	SkillStaves      Skill = "staves"
	SkillUnarmed     Skill = "unarmed_combat"
)

// Non-weapon skills that feed melee formulas.
const (
	SkillFighting       Skill = "fighting"
	SkillStealth        Skill = "stealth"
	SkillEvocations     Skill = "evocations"
	SkillInvocations    Skill = "invocations"
	SkillNecromancy     Skill = "necromancy"
	SkillTransmutations Skill = "transmutations"
	SkillFireMagic      Skill = "fire_magic"
	SkillIceMagic       Skill = "ice_magic"
	SkillAirMagic       Skill = "air_magic"
	SkillEarthMagic     Skill = "earth_magic"
	SkillPoisonMagic    Skill = "poison_magic"
)

var validSkills = map[Skill]bool{
	SkillShortBlades: true, SkillLongBlades: true, SkillAxes: true,
	SkillMacesFlails: true, SkillPolearms: true, SkillStaves: true, SkillUnarmed: true,
}

// StaffElement is the elemental school of a magical staff.
type StaffElement string

const (
	ElementNone   StaffElement = ""
	ElementFire   StaffElement = "fire"
	ElementCold   StaffElement = "cold"
	ElementAir    StaffElement = "air"
	ElementEarth  StaffElement = "earth"
	ElementPoison StaffElement = "poison"
	ElementDeath  StaffElement = "death"

	ElementTransmutation StaffElement = "transmutation"
)

var staffSkills = map[StaffElement]Skill{
	ElementFire:   SkillFireMagic,
	ElementCold:   SkillIceMagic,
	ElementAir:    SkillAirMagic,
	ElementEarth:  SkillEarthMagic,
	ElementPoison: SkillPoisonMagic,
	ElementDeath:  SkillNecromancy,

	ElementTransmutation: SkillTransmutations,
}

// MagicSkill returns the spell school that powers a staff of this element.
//
// Postcondition: ok is false for ElementNone and unknown elements.
func (e StaffElement) MagicSkill() (Skill, bool) {
	s, ok := staffSkills[e]
	return s, ok
}
