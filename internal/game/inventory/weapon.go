// Package inventory provides definitions and loaders for the weapons and
// armour that feed melee formulas.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Unrandom artefact identifiers with engine-level behaviour.
const (
	UnrandWoe            = "woe"
	UnrandSniper         = "sniper"
	UnrandFinisher       = "finisher"
	UnrandWyrmbane       = "wyrmbane"
	UnrandVampiresTooth  = "vampires_tooth"
	UnrandLeech          = "leech"
	UnrandSpriggansKnife = "spriggans_knife"
)

// WeaponDef defines the static properties of a melee weapon loaded from YAML.
type WeaponDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Skill       Skill        `yaml:"skill"`
	Damage      int          `yaml:"damage"`
	Accuracy    int          `yaml:"accuracy"`
	Delay       int          `yaml:"delay"`
	DamageTypes []DamageType `yaml:"damage_types"`
	Brand       Brand        `yaml:"brand"`
	Plus        int          `yaml:"plus"`
	Reach       bool         `yaml:"reach"`
	Cleaves     bool         `yaml:"cleaves"`
	Katar       bool         `yaml:"katar"`
	MagicStaff  bool         `yaml:"magic_staff"`
	Element     StaffElement `yaml:"element"`
	Ward        int          `yaml:"ward"` // starting ward charges, magical staves only
	Unrand      string       `yaml:"unrand"`
}

// IsLongBlade reports whether the weapon grants riposte chances.
func (w *WeaponDef) IsLongBlade() bool {
	return w.Skill == SkillLongBlades
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validSkills[w.Skill] {
		errs = append(errs, fmt.Errorf("skill %q is not a melee skill", w.Skill))
	}
	if w.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if len(w.DamageTypes) == 0 {
		errs = append(errs, errors.New("damage_types must not be empty"))
	}
	for _, dt := range w.DamageTypes {
		if !validDamageTypes[dt] {
			errs = append(errs, fmt.Errorf("damage type %q is unknown", dt))
		}
	}
	if w.Element != ElementNone {
		if _, ok := w.Element.MagicSkill(); !ok || !w.MagicStaff {
			errs = append(errs, fmt.Errorf("element %q requires magic_staff and a known school", w.Element))
		}
	}
	if w.Ward < 0 || w.Ward > 0 && !w.MagicStaff {
		errs = append(errs, errors.New("ward must be >= 0 and is only valid on magic staves"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q validation failed: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// Weapon is a wielded instance of a WeaponDef. Plus, Brand and the ward
// charges start from the definition but may differ per instance.
type Weapon struct {
	Def         *WeaponDef
	Plus        int
	Brand       Brand
	WardCharges int
}

// NewWeapon instantiates def with its default enchantment and brand.
//
// Precondition: def must not be nil.
func NewWeapon(def *WeaponDef) *Weapon {
	if def == nil {
		panic("inventory: NewWeapon precondition violated: def must not be nil")
	}
	return &Weapon{Def: def, Plus: def.Plus, Brand: def.Brand, WardCharges: def.Ward}
}

// maxWardShield caps the shield class a ward grants.
const maxWardShield = 20

// Warding reports whether the weapon is a staff whose ward still holds.
func (w *Weapon) Warding() bool {
	return w != nil && w.Def.MagicStaff && w.WardCharges > 0
}

// WardShieldClass is the shield class the ward grants, zero once spent.
func (w *Weapon) WardShieldClass() int {
	if !w.Warding() {
		return 0
	}
	return min(w.WardCharges, maxWardShield)
}

// DrainWard removes up to n charges and reports whether the ward collapsed
// as a result.
//
// Postcondition: WardCharges >= 0.
func (w *Weapon) DrainWard(n int) bool {
	if !w.Warding() || n <= 0 {
		return false
	}
	w.WardCharges = max(0, w.WardCharges-n)
	return w.WardCharges == 0
}

// Name returns the display name including enchantment.
func (w *Weapon) Name() string {
	if w.Def.Unrand != "" {
		return w.Def.Name
	}
	return fmt.Sprintf("%+d %s", w.Plus, w.Def.Name)
}

// IsUnrand reports whether the weapon is the named unrandom artefact.
func (w *Weapon) IsUnrand(id string) bool {
	return w != nil && w.Def.Unrand == id
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	var weapons []*WeaponDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w WeaponDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}
