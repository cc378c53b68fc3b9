// Package npc provides monster templates loaded from YAML and the live
// monster instances the melee engine fights.
package npc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// AttackSpec is one natural attack in a template.
type AttackSpec struct {
	Type    combat.AttackType    `yaml:"type"`
	Flavour combat.AttackFlavour `yaml:"flavour"`
	Damage  int                  `yaml:"damage"`
}

// WeaponSpec names the weapon a monster wields, with optional enchantment.
type WeaponSpec struct {
	ID    string           `yaml:"id"`
	Plus  int              `yaml:"plus"`
	Brand *inventory.Brand `yaml:"brand"`
}

// Template defines a monster species loaded from YAML.
type Template struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	// Unique monsters are named without an article.
	Unique        bool           `yaml:"unique"`
	Gender        string         `yaml:"gender"` // "it" | "male" | "female"
	// HitDice is the monster's level; attack damage scales with it.
	HitDice       int            `yaml:"hit_dice"`
	HP            string         `yaml:"hp"` // dice expression, e.g. "3d8+4"
	AC            int            `yaml:"ac"`
	EV            int            `yaml:"ev"`
	Shield        int            `yaml:"shield"`
	Inaccuracy    int            `yaml:"inaccuracy"`
	Slaying       int            `yaml:"slaying"`
	StrengthBonus int            `yaml:"strength_bonus"`
	Heads         int            `yaml:"heads"`
	MaxHeads      int            `yaml:"max_heads"`
	Holiness      []string       `yaml:"holiness"`
	Size          string         `yaml:"size"` // tiny | little | small | medium | large | big | giant
	Traits        []combat.Trait `yaml:"traits"`
	Resists       map[string]int `yaml:"resists"`
	Attacks       []AttackSpec   `yaml:"attacks"`
	Weapon        *WeaponSpec    `yaml:"weapon"`
	Offhand       *WeaponSpec    `yaml:"offhand"`
}

// maxAttacks is the most natural attacks a monster may have.
const maxAttacks = 4

// Validate checks the template's invariants and reports every violation.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff the template is usable by NewInstance.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.HitDice < 1 {
		errs = append(errs, errors.New("hit_dice must be >= 1"))
	}
	if hp, err := dice.Parse(t.HP); err != nil {
		errs = append(errs, fmt.Errorf("hp: %w", err))
	} else if hp.Min() < 1 {
		errs = append(errs, fmt.Errorf("hp: %q can roll below 1", t.HP))
	}
	if t.AC < 0 || t.EV < 0 || t.Shield < 0 {
		errs = append(errs, errors.New("ac, ev and shield must be >= 0"))
	}
	switch t.Gender {
	case "", "it", "male", "female":
	default:
		errs = append(errs, fmt.Errorf("gender must be one of [it, male, female], got %q", t.Gender))
	}
	if len(t.Attacks) == 0 || len(t.Attacks) > maxAttacks {
		errs = append(errs, fmt.Errorf("attacks: need between 1 and %d, got %d", maxAttacks, len(t.Attacks)))
	}
	if _, err := combat.ParseHoliness(t.Holiness...); err != nil {
		errs = append(errs, err)
	}
	if _, err := combat.ParseSize(t.Size); err != nil {
		errs = append(errs, err)
	}
	for name := range t.Resists {
		if _, err := combat.ParseBeamFlavour(name); err != nil {
			errs = append(errs, err)
		}
	}
	if t.Heads < 0 || t.MaxHeads < t.Heads {
		errs = append(errs, errors.New("heads must be >= 0 and <= max_heads"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	return nil
}

// LoadTemplateFromBytes parses a single template, rejecting unknown fields.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
