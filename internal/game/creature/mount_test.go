package creature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/creature"
)

func TestRide_RollsHitPoints(t *testing.T) {
	cases := []struct {
		kind combat.MountKind
		hp   int
		hd   int
	}{
		{combat.MountDrake, 28, 8},
		{combat.MountSpider, 47, 10},
		{combat.MountHydra, 60, 12},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			p := newPlayer(t)
			m := creature.Ride(p, tc.kind, 0, fixedSrc{val: 0})
			assert.Equal(t, tc.hp, m.MaxHP())
			assert.Equal(t, tc.hd, m.HitDice())
			assert.True(t, m.Alive())
			assert.Same(t, p, m.Rider())
		})
	}
}

func TestRide_PowerScalesHitPoints(t *testing.T) {
	p := newPlayer(t)
	m := creature.Ride(p, combat.MountHydra, 100, fixedSrc{val: 0})
	assert.Equal(t, 120, m.MaxHP())
}

func TestRide_Resistances(t *testing.T) {
	p := newPlayer(t)
	assert.Equal(t, 1, creature.Ride(p, combat.MountDrake, 0, fixedSrc{}).Resistance(combat.BeamFire))
	assert.Equal(t, 1, creature.Ride(p, combat.MountSpider, 0, fixedSrc{}).Resistance(combat.BeamPoison))
}

func TestRide_UnknownKindPanics(t *testing.T) {
	assert.Panics(t, func() { creature.Ride(newPlayer(t), combat.MountNone, 0, fixedSrc{}) })
}

func TestRide_ReplacesPreviousMount(t *testing.T) {
	p := newPlayer(t)
	first := creature.Ride(p, combat.MountDrake, 0, fixedSrc{})
	second := creature.Ride(p, combat.MountSpider, 0, fixedSrc{})
	assert.False(t, first.Alive())
	assert.Nil(t, first.Rider())
	assert.Equal(t, combat.MountActor(second), p.Mount())
}

func TestMount_SharesRiderStatuses(t *testing.T) {
	p := newPlayer(t)
	m := creature.Ride(p, combat.MountSpider, 0, fixedSrc{})
	assert.Same(t, p.Statuses(), m.Statuses())

	apply(t, m, condition.MountPoisoned, 3)
	assert.Equal(t, 3, p.Statuses().Stacks(condition.MountPoisoned))
}

func TestMount_DelegatesDefencesToRider(t *testing.T) {
	p := newPlayer(t)
	m := creature.Ride(p, combat.MountDrake, 0, fixedSrc{})
	assert.Equal(t, p.Evasion(), m.Evasion())
	assert.Equal(t, p.ArmourClass(), m.ArmourClass())
	assert.Zero(t, m.ShieldClass())
}

func TestMount_DeathDismountsAndClearsMountStatuses(t *testing.T) {
	p := newPlayer(t)
	m := creature.Ride(p, combat.MountDrake, 0, fixedSrc{})
	apply(t, m, condition.MountCorroded, 1)
	apply(t, p, condition.Might, 1)

	m.Hurt(nil, m.HP(), combat.BeamMissile)

	assert.False(t, m.Alive())
	assert.Nil(t, p.Mount())
	assert.False(t, p.Statuses().Has(condition.MountCorroded))
	assert.True(t, p.Statuses().Has(condition.Might), "rider statuses survive the dismount")
	assert.True(t, p.Alive())
}

func TestMount_Names(t *testing.T) {
	m := creature.Ride(newPlayer(t), combat.MountSpider, 0, fixedSrc{})
	assert.Equal(t, "spider", m.Name(combat.DescPlain))
	assert.Equal(t, "your spider", m.Name(combat.DescThe))
	assert.Equal(t, "your spider's", m.Name(combat.DescIts))
	assert.Equal(t, "is", m.ConjVerb("are"))
	require.False(t, m.IsPlayer())
}

func TestMount_MovesWithRider(t *testing.T) {
	p := newPlayer(t)
	m := creature.Ride(p, combat.MountHydra, 0, fixedSrc{})
	p.SetPos(combat.Pos{X: 3, Y: 4})
	assert.Equal(t, combat.Pos{X: 3, Y: 4}, m.Pos())

	m.SetPos(combat.Pos{X: 5, Y: 4})
	assert.Equal(t, combat.Pos{X: 5, Y: 4}, p.Pos())
}
