package inventory

import "errors"

// Hand identifies a weapon-holding position on a creature.
type Hand string

const (
	// HandPrimary is the main weapon hand.
	HandPrimary Hand = "primary"
	// HandOffhand is the off-hand, used by dual-wielding monsters.
	HandOffhand Hand = "offhand"
)

// Loadout tracks a creature's wielded weapons and worn armour.
// Invariant: each Hand and each ArmourSlot holds at most one item.
type Loadout struct {
	hands  map[Hand]*Weapon
	armour map[ArmourSlot]*ArmourDef
}

// NewLoadout returns an empty Loadout.
//
// Postcondition: all hands and slots are empty.
func NewLoadout() *Loadout {
	return &Loadout{
		hands:  make(map[Hand]*Weapon),
		armour: make(map[ArmourSlot]*ArmourDef),
	}
}

// Wield places w into hand, replacing anything already there.
//
// Precondition: w must not be nil and its Def must validate.
// Postcondition: on success Wielded(hand) returns w.
func (l *Loadout) Wield(hand Hand, w *Weapon) error {
	if w == nil || w.Def == nil {
		return errors.New("inventory: Loadout.Wield: weapon must not be nil")
	}
	if err := w.Def.Validate(); err != nil {
		return err
	}
	l.hands[hand] = w
	return nil
}

// Unwield empties hand and returns what it held, or nil.
func (l *Loadout) Unwield(hand Hand) *Weapon {
	w := l.hands[hand]
	delete(l.hands, hand)
	return w
}

// Wielded returns the weapon in hand, or nil.
func (l *Loadout) Wielded(hand Hand) *Weapon {
	return l.hands[hand]
}

// Wear puts a on in its slot.
//
// Precondition: a must not be nil and must validate.
func (l *Loadout) Wear(a *ArmourDef) error {
	if a == nil {
		return errors.New("inventory: Loadout.Wear: armour must not be nil")
	}
	if err := a.Validate(); err != nil {
		return err
	}
	l.armour[a.Slot] = a
	return nil
}

// Worn returns the armour in slot, or nil.
func (l *Loadout) Worn(slot ArmourSlot) *ArmourDef {
	return l.armour[slot]
}

// ArmourClass sums the AC of every worn piece except the shield.
//
// Postcondition: Returns >= 0.
func (l *Loadout) ArmourClass() int {
	total := 0
	for slot, a := range l.armour {
		if slot != SlotShield {
			total += a.AC
		}
	}
	return total
}

// ArmourPenalty returns the to-hit malus from body armour encumbrance.
func (l *Loadout) ArmourPenalty() int {
	if a := l.armour[SlotBody]; a != nil {
		return a.Encumbrance
	}
	return 0
}

// ShieldPenalty returns the to-hit malus from the shield's encumbrance.
func (l *Loadout) ShieldPenalty() int {
	if a := l.armour[SlotShield]; a != nil {
		return a.Encumbrance
	}
	return 0
}

// WearingEgo reports whether the piece in slot carries the given ego.
func (l *Loadout) WearingEgo(slot ArmourSlot, ego string) bool {
	a := l.armour[slot]
	return a != nil && a.Ego == ego
}
