package ruleset

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// KitWeapon is a starting weapon, optionally enchanted or branded.
type KitWeapon struct {
	ID    string           `yaml:"id"`
	Plus  int              `yaml:"plus"`
	Brand *inventory.Brand `yaml:"brand"`
}

// KitMount is a mount the job starts riding.
type KitMount struct {
	Kind  combat.MountKind `yaml:"kind"`
	Power int              `yaml:"power"`
}

// Job defines a starting background: stat bonuses, trained skills and the
// kit the character fights with.
//
// Precondition: ID and Name must be non-empty after loading.
type Job struct {
	ID          string                  `yaml:"id"`
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Stats       StatBlock               `yaml:"stats"`
	Skills      map[inventory.Skill]int `yaml:"skills"`
	Weapon      *KitWeapon              `yaml:"weapon"`
	Offhand     *KitWeapon              `yaml:"offhand"`
	Armour      []string                `yaml:"armour"`
	Mount       *KitMount               `yaml:"mount"`
}

// Validate checks the job's invariants and reports every violation.
func (j *Job) Validate() error {
	var errs []error
	if j.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if j.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for s, lvl := range j.Skills {
		if lvl < 0 || lvl > MaxSkill {
			errs = append(errs, fmt.Errorf("skill %q: level must be in [0, %d], got %d", s, MaxSkill, lvl))
		}
	}
	if j.Mount != nil {
		switch j.Mount.Kind {
		case combat.MountDrake, combat.MountSpider, combat.MountHydra:
		default:
			errs = append(errs, fmt.Errorf("mount: unknown kind %q", j.Mount.Kind))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("job %q: %w", j.ID, err)
	}
	return nil
}

// MaxSkill is the highest trainable skill level.
const MaxSkill = 27

// LoadJobs reads all .yaml files in dir and parses each as a Job.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed jobs (may be empty slice) or a non-nil error.
func LoadJobs(dir string) ([]*Job, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	jobs := make([]*Job, 0, len(files))
	for _, path := range files {
		var j Job
		if err := decodeFile(path, &j); err != nil {
			return nil, err
		}
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, nil
}
