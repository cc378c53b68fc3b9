package condition

import "fmt"

// ActiveCondition tracks one applied status on a creature.
type ActiveCondition struct {
	Def               *ConditionDef
	Stacks            int
	DurationRemaining int // -1 = permanent
}

// ActiveSet tracks all statuses currently applied to one creature.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds or updates a status on this creature.
// If the status is already present, stacks are incremented (capped at MaxStacks).
// If MaxStacks == 0 (unstackable), stacks is always stored as 1.
// duration is turns remaining; use -1 for permanent. Durations are capped at
// MaxDuration when it is set.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true; DurationRemaining is max(existing, duration).
func (s *ActiveSet) Apply(def *ConditionDef, stacks, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if def.DurationType == DurationPermanent {
		duration = -1
	}
	duration = capDuration(def, duration)

	if existing, ok := s.conditions[def.ID]; ok {
		if def.MaxStacks > 0 {
			existing.Stacks = min(existing.Stacks+stacks, def.MaxStacks)
		}
		if duration > existing.DurationRemaining {
			existing.DurationRemaining = duration
		}
		return nil
	}

	effectiveStacks := stacks
	if def.MaxStacks == 0 {
		effectiveStacks = 1
	} else if effectiveStacks > def.MaxStacks {
		effectiveStacks = def.MaxStacks
	}
	s.conditions[def.ID] = &ActiveCondition{
		Def:               def,
		Stacks:            effectiveStacks,
		DurationRemaining: duration,
	}
	return nil
}

// Extend adds amount turns to the status duration, applying it first if absent.
// A positive cap bounds the resulting duration in addition to MaxDuration.
//
// Precondition: def must not be nil; amount >= 0.
// Postcondition: Duration(def.ID) >= min(previous+amount, cap).
func (s *ActiveSet) Extend(def *ConditionDef, amount, cap int) error {
	if def == nil {
		return fmt.Errorf("Extend: def must not be nil")
	}
	ac, ok := s.conditions[def.ID]
	if !ok {
		return s.Apply(def, 1, boundBy(amount, cap))
	}
	if ac.DurationRemaining < 0 {
		return nil
	}
	ac.DurationRemaining = capDuration(def, boundBy(ac.DurationRemaining+amount, cap))
	return nil
}

// SetStacks overwrites the stack count of a present status. A count <= 0 removes it.
func (s *ActiveSet) SetStacks(id string, stacks int) {
	ac, ok := s.conditions[id]
	if !ok {
		return
	}
	if stacks <= 0 {
		delete(s.conditions, id)
		return
	}
	if ac.Def.MaxStacks > 0 && stacks > ac.Def.MaxStacks {
		stacks = ac.Def.MaxStacks
	}
	ac.Stacks = stacks
}

// Remove deletes the status with the given ID from the set.
// If the status is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Tick decrements the DurationRemaining of all timed statuses by 1.
// Statuses that reach 0 are removed; permanent ones are not affected.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for id, ac := range s.conditions {
		if ac.DurationRemaining < 0 {
			continue
		}
		ac.DurationRemaining--
		if ac.DurationRemaining <= 0 {
			expired = append(expired, id)
			delete(s.conditions, id)
		}
	}
	return expired
}

// Has reports whether the status with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the current stack count for status id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.Stacks
	}
	return 0
}

// Duration returns the turns remaining for status id: 0 if absent, -1 if permanent.
func (s *ActiveSet) Duration(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.DurationRemaining
	}
	return 0
}

// All returns a slice of pointers to the active statuses.
// The slice itself is a new allocation, but the pointed-to ActiveCondition
// values are shared and callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, ac)
	}
	return out
}

func capDuration(def *ConditionDef, d int) int {
	if d < 0 || def.MaxDuration == 0 {
		return d
	}
	return min(d, def.MaxDuration)
}

func boundBy(d, cap int) int {
	if cap > 0 && d > cap {
		return cap
	}
	return d
}
