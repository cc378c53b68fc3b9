// Package ruleset loads the species and job definitions players are built from.
package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/melee/internal/game/combat"
)

// StatBlock holds strength, intelligence and dexterity values or modifiers.
type StatBlock struct {
	Str int `yaml:"str"`
	Int int `yaml:"int"`
	Dex int `yaml:"dex"`
}

// Species defines a playable species.
//
// Precondition: ID and Name must be non-empty after loading.
type Species struct {
	ID          string                  `yaml:"id"`
	Name        string                  `yaml:"name"`
	Article     string                  `yaml:"article"`
	Description string                  `yaml:"description"`
	Stats       StatBlock               `yaml:"stats"`
	// HPModifier scales hit points by (10+HPModifier)/10.
	HPModifier  int                     `yaml:"hp_modifier"`
	BaseAC      int                     `yaml:"base_ac"`
	Holiness    []string                `yaml:"holiness"`
	Traits      []combat.Trait          `yaml:"traits"`
	Mutations   map[combat.Mutation]int `yaml:"mutations"`
	Resists     map[string]int          `yaml:"resists"`
	// Form is the species' permanent shape, if not the default.
	Form        combat.Form             `yaml:"form"`
}

// DisplayName returns the species name with its grammatical article.
// If Article is empty, returns Name alone.
//
// Precondition: Name must be non-empty.
// Postcondition: Returns a non-empty string.
func (s *Species) DisplayName() string {
	if s.Article == "" {
		return s.Name
	}
	return s.Article + " " + s.Name
}

// Validate checks the species' invariants and reports every violation.
func (s *Species) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.HPModifier <= -10 {
		errs = append(errs, errors.New("hp_modifier must be > -10"))
	}
	if _, err := combat.ParseHoliness(s.Holiness...); err != nil {
		errs = append(errs, err)
	}
	for name := range s.Resists {
		if _, err := combat.ParseBeamFlavour(name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("species %q: %w", s.ID, err)
	}
	return nil
}

// LoadSpecies reads all .yaml files in dir and parses each as a Species.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed species (may be empty slice) or a non-nil error.
func LoadSpecies(dir string) ([]*Species, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]*Species, 0, len(files))
	for _, path := range files {
		var s Species
		if err := decodeFile(path, &s); err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, &s)
	}
	return out, nil
}

// decodeFile strictly decodes the YAML document at path into v.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
