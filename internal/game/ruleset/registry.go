package ruleset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// Lookup errors.
var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrUnknownJob     = errors.New("unknown job")
)

// Registry provides lookup of species and jobs by ID.
type Registry struct {
	species map[string]*Species
	jobs    map[string]*Job
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{
		species: make(map[string]*Species),
		jobs:    make(map[string]*Job),
	}
}

// RegisterSpecies adds s to the registry.
//
// Precondition: s must be non-nil with a non-empty ID.
// Postcondition: Species(s.ID) returns s; if called multiple times with the
// same ID, the last call wins.
func (r *Registry) RegisterSpecies(s *Species) {
	if s == nil || s.ID == "" {
		panic("ruleset: RegisterSpecies precondition violated: species must be non-nil with an ID")
	}
	r.species[s.ID] = s
}

// RegisterJob adds j to the registry.
//
// Precondition: j must be non-nil with a non-empty ID.
// Postcondition: Job(j.ID) returns j; the last registration wins.
func (r *Registry) RegisterJob(j *Job) {
	if j == nil || j.ID == "" {
		panic("ruleset: RegisterJob precondition violated: job must be non-nil with an ID")
	}
	r.jobs[j.ID] = j
}

// Species returns the species with id.
//
// Postcondition: the error wraps ErrUnknownSpecies when id is not registered.
func (r *Registry) Species(id string) (*Species, error) {
	s, ok := r.species[id]
	if !ok {
		return nil, fmt.Errorf("species %q: %w", id, ErrUnknownSpecies)
	}
	return s, nil
}

// Job returns the job with id.
//
// Postcondition: the error wraps ErrUnknownJob when id is not registered.
func (r *Registry) Job(id string) (*Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %q: %w", id, ErrUnknownJob)
	}
	return j, nil
}

// SpeciesIDs returns every registered species ID in sorted order.
func (r *Registry) SpeciesIDs() []string {
	return sortedKeys(r.species)
}

// JobIDs returns every registered job ID in sorted order.
func (r *Registry) JobIDs() []string {
	return sortedKeys(r.jobs)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadRegistry loads species from dir/species and jobs from dir/jobs.
//
// Precondition: both subdirectories must be readable.
// Postcondition: Returns a populated Registry or the first load error.
func LoadRegistry(dir string) (*Registry, error) {
	species, err := LoadSpecies(filepath.Join(dir, "species"))
	if err != nil {
		return nil, err
	}
	jobs, err := LoadJobs(filepath.Join(dir, "jobs"))
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, s := range species {
		reg.RegisterSpecies(s)
	}
	for _, j := range jobs {
		reg.RegisterJob(j)
	}
	return reg, nil
}
