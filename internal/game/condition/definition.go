// Package condition tracks timed statuses (haste, confusion, poison and the
// like) applied to creatures during combat.
package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Duration types.
const (
	DurationTurns     = "turns"
	DurationPermanent = "permanent"
)

// ConditionDef is the static definition of a status, loaded from YAML or built in.
type ConditionDef struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	DurationType  string `yaml:"duration_type"` // "turns" | "permanent"
	MaxStacks     int    `yaml:"max_stacks"`    // 0 = unstackable
	MaxDuration   int    `yaml:"max_duration"`  // 0 = uncapped
	Beneficial    bool   `yaml:"beneficial"`
	Incapacitates bool   `yaml:"incapacitates"`
	ApplyMessage  string `yaml:"apply_message"`
	ExpireMessage string `yaml:"expire_message"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff ID and Name are set and DurationType is known.
func (d *ConditionDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("condition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("condition %q: name must not be empty", d.ID)
	}
	if d.DurationType != DurationTurns && d.DurationType != DurationPermanent {
		return fmt.Errorf("condition %q: duration_type must be one of [turns, permanent], got %q", d.ID, d.DurationType)
	}
	if d.MaxStacks < 0 || d.MaxDuration < 0 {
		return fmt.Errorf("condition %q: max_stacks and max_duration must be >= 0", d.ID)
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// MustGet returns the definition for id.
//
// Precondition: id is registered; panics otherwise.
func (r *Registry) MustGet(id string) *ConditionDef {
	d, ok := r.defs[id]
	if !ok {
		panic("condition: MustGet: unknown condition " + id)
	}
	return d
}

// All returns a snapshot slice of all registered ConditionDefs ordered by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir and registers each definition on
// top of the built-in set, so content may override names and messages.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
