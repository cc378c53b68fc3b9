package condition

// IsIncapacitated reports whether any active status prevents the creature from
// acting or defending itself (sleep, paralysis, petrification).
func IsIncapacitated(s *ActiveSet) bool {
	for _, ac := range s.conditions {
		if ac.Def.Incapacitates {
			return true
		}
	}
	return false
}

// Beneficial returns the IDs of active statuses flagged as beneficial.
func Beneficial(s *ActiveSet) []string {
	var out []string
	for id, ac := range s.conditions {
		if ac.Def.Beneficial {
			out = append(out, id)
		}
	}
	return out
}

// HasHaste reports whether the creature is hasted and not simultaneously slowed.
func HasHaste(s *ActiveSet) bool {
	return s.Has(Haste) && !s.Has(Slow)
}

// MightOrBerserk reports whether the creature gains melee damage from might or berserk.
func MightOrBerserk(s *ActiveSet) bool {
	return s.Has(Might) || s.Has(Berserk)
}
