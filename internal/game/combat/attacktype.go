package combat

import "fmt"

// AttackType is the physical form of a monster's natural attack.
type AttackType int

const (
	AttackNone AttackType = iota
	AttackHit
	AttackBite
	AttackSting
	AttackSpore
	AttackTouch
	AttackEngulf
	AttackClaw
	AttackPeck
	AttackHeadbutt
	AttackPunch
	AttackKick
	AttackTentacleSlap
	AttackTailSlap
	AttackGore
	AttackConstrict
	AttackTrample
	AttackTrunkSlap
	AttackSnap
	AttackSplash
	AttackPounce
	AttackReachSting
	AttackClamp
	AttackRake
	AttackSlap
	// AttackWeaponOnly becomes AttackHit with a melee weapon and AttackNone without.
	AttackWeaponOnly
)

var attackTypeNames = map[AttackType]string{
	AttackNone:         "none",
	AttackHit:          "hit",
	AttackBite:         "bite",
	AttackSting:        "sting",
	AttackSpore:        "spore",
	AttackTouch:        "touch",
	AttackEngulf:       "engulf",
	AttackClaw:         "claw",
	AttackPeck:         "peck",
	AttackHeadbutt:     "headbutt",
	AttackPunch:        "punch",
	AttackKick:         "kick",
	AttackTentacleSlap: "tentacle_slap",
	AttackTailSlap:     "tail_slap",
	AttackGore:         "gore",
	AttackConstrict:    "constrict",
	AttackTrample:      "trample",
	AttackTrunkSlap:    "trunk_slap",
	AttackSnap:         "snap",
	AttackSplash:       "splash",
	AttackPounce:       "pounce",
	AttackReachSting:   "reach_sting",
	AttackClamp:        "clamp",
	AttackRake:         "rake",
	AttackSlap:         "slap",
	AttackWeaponOnly:   "weapon_only",
}

// String returns the content identifier of the attack type.
func (t AttackType) String() string {
	if s, ok := attackTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("attack_type(%d)", int(t))
}

// UnmarshalYAML decodes an attack type from its content identifier.
func (t *AttackType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for k, name := range attackTypeNames {
		if name == s {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown attack type %q", s)
}

// AttackFlavour is the intrinsic side effect a monster's natural attack carries.
type AttackFlavour int

const (
	FlavourPlain AttackFlavour = iota
	FlavourAcid
	FlavourBlink
	FlavourCold
	FlavourConfuse
	FlavourContam
	FlavourCorrode
	FlavourDistort
	FlavourDrainDex
	FlavourDrainInt
	FlavourDrainStr
	FlavourDrainXP
	FlavourElec
	FlavourFire
	FlavourHoly
	FlavourMutate
	FlavourPain
	FlavourPoison
	FlavourPoisonStrong
	FlavourPoisonStr
	FlavourRot
	FlavourVampiric
	FlavourDrainSpeed
	FlavourPureFire
	FlavourPurePoison
	FlavourEnsnare
	FlavourEngulf
	FlavourDrown
	FlavourCrush
	FlavourChaotic
	FlavourPureChaos
	FlavourAntimagic
	FlavourShadowstab
	FlavourSteal
	FlavourHunger
	FlavourWeakness
	FlavourTrample
	FlavourReachSting
	FlavourScarab
	FlavourMiasmata
	FlavourBarbs
	FlavourRage
	FlavourStickyFlame
	FlavourPoisonPetrify
	FlavourVuln
	FlavourSpiderMount
)

var flavourNames = map[AttackFlavour]string{
	FlavourPlain:         "plain",
	FlavourAcid:          "acid",
	FlavourBlink:         "blink",
	FlavourCold:          "cold",
	FlavourConfuse:       "confuse",
	FlavourContam:        "contam",
	FlavourCorrode:       "corrode",
	FlavourDistort:       "distort",
	FlavourDrainDex:      "drain_dex",
	FlavourDrainInt:      "drain_int",
	FlavourDrainStr:      "drain_str",
	FlavourDrainXP:       "drain_xp",
	FlavourElec:          "elec",
	FlavourFire:          "fire",
	FlavourHoly:          "holy",
	FlavourMutate:        "mutate",
	FlavourPain:          "pain",
	FlavourPoison:        "poison",
	FlavourPoisonStrong:  "poison_strong",
	FlavourPoisonStr:     "poison_str",
	FlavourRot:           "rot",
	FlavourVampiric:      "vampiric",
	FlavourDrainSpeed:    "drain_speed",
	FlavourPureFire:      "pure_fire",
	FlavourPurePoison:    "pure_poison",
	FlavourEnsnare:       "ensnare",
	FlavourEngulf:        "engulf",
	FlavourDrown:         "drown",
	FlavourCrush:         "crush",
	FlavourChaotic:       "chaotic",
	FlavourPureChaos:     "pure_chaos",
	FlavourAntimagic:     "antimagic",
	FlavourShadowstab:    "shadowstab",
	FlavourSteal:         "steal",
	FlavourHunger:        "hunger",
	FlavourWeakness:      "weakness",
	FlavourTrample:       "trample",
	FlavourReachSting:    "reach_sting",
	FlavourScarab:        "scarab",
	FlavourMiasmata:      "miasmata",
	FlavourBarbs:         "barbs",
	FlavourRage:          "rage",
	FlavourStickyFlame:   "sticky_flame",
	FlavourPoisonPetrify: "poison_petrify",
	FlavourVuln:          "vuln",
	FlavourSpiderMount:   "spider_mount",
}

// String returns the content identifier of the flavour.
func (f AttackFlavour) String() string {
	if s, ok := flavourNames[f]; ok {
		return s
	}
	return fmt.Sprintf("flavour(%d)", int(f))
}

// UnmarshalYAML decodes a flavour from its content identifier.
func (f *AttackFlavour) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*f = FlavourPlain
		return nil
	}
	for k, name := range flavourNames {
		if name == s {
			*f = k
			return nil
		}
	}
	return fmt.Errorf("unknown attack flavour %q", s)
}

// flavourTriggersDamageless reports whether the flavour's effect applies even
// when the hit deals no damage.
func flavourTriggersDamageless(f AttackFlavour) bool {
	switch f {
	case FlavourCrush, FlavourEngulf, FlavourPureFire, FlavourShadowstab,
		FlavourDrown, FlavourCorrode:
		return true
	}
	return false
}

// flavourHasReach reports whether the flavour lets the attack land from two cells.
func flavourHasReach(f AttackFlavour) bool {
	return f == FlavourReachSting
}
