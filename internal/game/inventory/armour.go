package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ArmourSlot identifies where an armour piece is worn.
type ArmourSlot string

const (
	SlotBody   ArmourSlot = "body"
	SlotShield ArmourSlot = "shield"
	SlotHelmet ArmourSlot = "helmet"
	SlotBoots  ArmourSlot = "boots"
	SlotGloves ArmourSlot = "gloves"
	SlotCloak  ArmourSlot = "cloak"
)

var validArmourSlots = map[ArmourSlot]bool{
	SlotBody: true, SlotShield: true, SlotHelmet: true,
	SlotBoots: true, SlotGloves: true, SlotCloak: true,
}

// Armour egos with combat effects.
const (
	EgoSturdy = "sturdy" // boots: immune to trampling knockback
	EgoSkull  = "skull"  // helmet: suppresses headbutt retaliation
)

// ArmourDef defines the static properties of an armour piece loaded from YAML.
type ArmourDef struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	Slot         ArmourSlot `yaml:"slot"`
	AC           int        `yaml:"ac"`
	Encumbrance  int        `yaml:"encumbrance"`   // to-hit malus while worn
	ShieldBonus  int        `yaml:"shield_bonus"`  // shields only
	BlockPenalty int        `yaml:"block_penalty"` // shields only
	Ego          string     `yaml:"ego"`
}

// Validate reports an error if the ArmourDef is missing required fields or contains illegal values.
// Precondition: a is non-nil.
// Postcondition: Returns nil iff the def is well-formed.
func (a *ArmourDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validArmourSlots[a.Slot] {
		errs = append(errs, fmt.Errorf("slot %q is not a valid armour slot", a.Slot))
	}
	if a.AC < 0 || a.Encumbrance < 0 {
		errs = append(errs, errors.New("ac and encumbrance must be >= 0"))
	}
	if a.Slot != SlotShield && (a.ShieldBonus != 0 || a.BlockPenalty != 0) {
		errs = append(errs, errors.New("shield_bonus and block_penalty are only valid on shields"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armour %q validation failed: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

// LoadArmour reads all *.yaml files from dir and returns the validated ArmourDefs.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ArmourDefs or the first encountered error.
func LoadArmour(dir string) ([]*ArmourDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadArmour: cannot read directory %q: %w", dir, err)
	}
	var out []*ArmourDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadArmour: cannot read file %q: %w", path, err)
		}
		var a ArmourDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("LoadArmour: cannot parse file %q: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadArmour: invalid armour in %q: %w", path, err)
		}
		out = append(out, &a)
	}
	return out, nil
}
