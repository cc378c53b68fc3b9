package creature

import (
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
)

type mountStats struct {
	name   string
	baseHP int
	hpRoll int
	hd     int
	resist combat.BeamFlavour
}

var mountTable = map[combat.MountKind]mountStats{
	combat.MountDrake:  {name: "drake", baseHP: 28, hpRoll: 10, hd: 8, resist: combat.BeamFire},
	combat.MountSpider: {name: "spider", baseHP: 47, hpRoll: 9, hd: 10, resist: combat.BeamPoison},
	combat.MountHydra:  {name: "hydra", baseHP: 60, hpRoll: 12, hd: 12, resist: combat.BeamNone},
}

// mountStatuses are the debuffs that belong to the mount rather than the
// rider. They are cleared on dismount.
var mountStatuses = []string{
	condition.MountWretched,
	condition.MountPoisoned,
	condition.MountDrained,
	condition.MountCorroded,
	condition.MountSlowed,
}

// Mount is the creature a player rides. It fights with its own hit points
// but shares its rider's status set, armour and evasion.
type Mount struct {
	Body
	kind  combat.MountKind
	rider *Player
	power int
	stats mountStats
}

var _ combat.MountActor = (*Mount)(nil)

// Ride summons a mount of kind under p, replacing any current mount. Its hit
// points scale with power.
//
// Precondition: p and src must not be nil; kind must be drake, spider or hydra.
// Postcondition: p.Mount() is the returned mount.
func Ride(p *Player, kind combat.MountKind, power int, src dice.Source) *Mount {
	st, ok := mountTable[kind]
	if !ok || p == nil || src == nil {
		panic("creature: Ride precondition violated: known mount kind, rider and source are required")
	}
	if p.mount != nil {
		p.mount.Dismount()
	}
	hp := dice.DivRandRound(src, (st.baseHP+dice.Random2(src, st.hpRoll))*(100+power), 100)
	m := &Mount{
		Body:  NewBody(p.id+"/"+st.name, max(1, hp), combat.HolyNatural),
		kind:  kind,
		rider: p,
		power: power,
		stats: st,
	}
	m.statuses = p.statuses
	if st.resist != combat.BeamNone {
		m.SetResistance(st.resist, 1)
	}
	p.mount = m
	return m
}

func (m *Mount) IsPlayer() bool { return false }
func (m *Mount) Kind() combat.MountKind { return m.kind }
func (m *Mount) Power() int { return m.power }
func (m *Mount) HitDice() int { return m.stats.hd }

// Rider returns the player riding the mount, or nil once dismounted.
func (m *Mount) Rider() combat.PlayerActor {
	if m.rider == nil {
		return nil
	}
	return m.rider
}

// Alive reports whether the mount still has hit points and a rider.
func (m *Mount) Alive() bool {
	return m.hp > 0 && m.rider != nil && m.rider.mount == m
}

// Name always refers to the mount as the player's.
func (m *Mount) Name(desc combat.DescLevel) string {
	switch desc {
	case combat.DescPlain:
		return m.stats.name
	case combat.DescIts:
		return "your " + m.stats.name + "'s"
	}
	return "your " + m.stats.name
}

func (m *Mount) Pronoun(pr combat.Pronoun) string {
	switch pr {
	case combat.PronounPossessive:
		return "its"
	case combat.PronounReflexive:
		return "itself"
	}
	return "it"
}

func (m *Mount) ConjVerb(verb string) string { return combat.ThirdPerson(verb) }

// Hurt damages the mount and dismounts the rider when it dies.
func (m *Mount) Hurt(source combat.Actor, amount int, flavour combat.BeamFlavour) int {
	taken := m.Body.Hurt(source, amount, flavour)
	if m.hp <= 0 {
		m.Dismount()
	}
	return taken
}

// Dismount sends the mount away and clears its debuffs from the shared
// status set.
func (m *Mount) Dismount() {
	if m.rider == nil {
		return
	}
	for _, id := range mountStatuses {
		m.statuses.Remove(id)
	}
	if m.rider.mount == m {
		m.rider.mount = nil
	}
	m.rider = nil
}

// Pos is the rider's cell while ridden.
func (m *Mount) Pos() combat.Pos {
	if m.rider == nil {
		return m.Body.Pos()
	}
	return m.rider.Pos()
}

// SetPos moves the rider along with the mount.
func (m *Mount) SetPos(p combat.Pos) {
	m.Body.SetPos(p)
	if m.rider != nil {
		m.rider.SetPos(p)
	}
}

func (m *Mount) Visible() bool {
	if m.rider == nil {
		return m.Body.Visible()
	}
	return m.rider.Visible()
}

func (m *Mount) CanSee(other combat.Actor) bool {
	if m.rider == nil {
		return m.Body.CanSee(other)
	}
	return m.rider.CanSee(other)
}

func (m *Mount) Evasion() int {
	if m.rider == nil {
		return 0
	}
	return m.rider.Evasion()
}

func (m *Mount) ArmourClass() int {
	if m.rider == nil {
		return 0
	}
	return m.rider.ArmourClass()
}

// ApplyAC uses the rider's armour without its guaranteed reduction.
func (m *Mount) ApplyAC(src dice.Source, damage, _ int, rule combat.ACType, stabBypass int) int {
	return ApplyAC(src, m.ArmourClass(), 0, damage, 0, rule, stabBypass)
}

func (m *Mount) ShieldClass() int { return 0 }
func (m *Mount) ShieldBlockPenalty() int { return 0 }
func (m *Mount) ShieldBypass(toHit int) int { return 15 + toHit/2 }
func (m *Mount) ArmourToHitPenalty() int { return 0 }
func (m *Mount) ShieldToHitPenalty() int { return 0 }
