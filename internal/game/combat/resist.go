package combat

// ResistAdjustDamage scales raw damage of the given flavour by defender's
// resistance. Positive resistance divides the damage and three levels make
// monsters immune; negative resistance increases it.
//
// Postcondition: result >= 0 when raw >= 0.
func ResistAdjustDamage(defender Actor, flavour BeamFlavour, raw int) int {
	if defender == nil || raw <= 0 {
		return raw
	}
	res := defender.Resistance(flavour)
	if res == 0 {
		return raw
	}
	_, isMon := asMonster(defender)
	if res < 0 {
		if isMon {
			return raw * 5 / 2
		}
		return raw * 3 / 2
	}

	immuneAt3 := isMon || flavour == BeamNeg || flavour == BeamPoison || flavour == BeamElectricity
	if (immuneAt3 && res >= 3) || res > 3 {
		return 0
	}
	booleanRes := flavour == BeamElectricity || flavour == BeamPoison
	bonus := 0
	if isMon && !booleanRes {
		bonus = 1
	}
	switch {
	case isMon:
		return raw / (1 + bonus + res*res)
	case flavour == BeamNeg:
		return raw / (res * 2)
	default:
		return raw / ((3*res+1)/2 + bonus)
	}
}

// applyResists adjusts physical damage by the defender's resistance to the
// attack's damage type and records the message describing the adjustment.
func (m *MeleeAttack) applyResists(damage int) int {
	pre := damage
	name := Capitalise(m.defenderName(false))
	switch beamForDamageType(m.damageType) {
	case BeamSlash:
		damage = ResistAdjustDamage(m.defender, BeamSlash, damage)
		if pre < damage {
			m.resistMessage = " " + name + " " + m.defender.ConjVerb("are") + " lacerated severely!"
		}
	case BeamPierce:
		damage = ResistAdjustDamage(m.defender, BeamPierce, damage)
		if pre < damage {
			m.resistMessage = " " + name + " " + m.defender.ConjVerb("are") + " perforated ruthlessly!"
		}
	default:
		damage = ResistAdjustDamage(m.defender, BeamBludgeon, damage)
		if pre < damage {
			m.resistMessage = " " + name + " " + m.defender.ConjVerb("are") + " struck brutally!"
		}
	}
	if pre > damage {
		m.resistMessage = " " + name + " " + m.defender.ConjVerb("resist") + "."
	}
	return damage
}
