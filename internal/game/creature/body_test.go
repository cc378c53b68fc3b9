package creature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/creature"
	"github.com/cory-johannsen/melee/internal/game/dice"
)

func TestNewBody_Panics(t *testing.T) {
	assert.Panics(t, func() { creature.NewBody("", 10, combat.HolyNatural) })
	assert.Panics(t, func() { creature.NewBody("x", 0, combat.HolyNatural) })
}

func TestBody_HurtAndHeal(t *testing.T) {
	b := creature.NewBody("rat", 10, combat.HolyNatural)
	assert.Zero(t, b.Hurt(nil, -3, combat.BeamMissile))
	assert.Equal(t, 4, b.Hurt(nil, 4, combat.BeamMissile))
	assert.Equal(t, 6, b.HP())
	assert.Equal(t, 4, b.Heal(100))
	assert.Equal(t, 10, b.HP())

	b.Hurt(nil, 10, combat.BeamMissile)
	assert.False(t, b.Alive())
	assert.Zero(t, b.Heal(5), "the dead do not heal")
}

func TestBody_CanSee(t *testing.T) {
	a := newPlayer(t)
	b := creature.NewPlayer(creature.PlayerSpec{ID: "rival", XL: 1, MaxHP: 10})
	assert.True(t, a.CanSee(b))

	def := condition.DefaultRegistry().MustGet(condition.Invisible)
	assert.NoError(t, b.Statuses().Apply(def, 1, 5))
	assert.False(t, a.CanSee(b))

	a.SetTrait(combat.TraitSeeInvisible, true)
	assert.True(t, a.CanSee(b))

	blind := condition.DefaultRegistry().MustGet(condition.Blind)
	assert.NoError(t, a.Statuses().Apply(blind, 1, 5))
	assert.False(t, a.CanSee(b))
	assert.True(t, a.CanSee(a), "a creature always perceives itself")
}

func TestGuaranteedReduction(t *testing.T) {
	assert.Zero(t, creature.GuaranteedReduction(0))
	assert.Equal(t, 16, creature.GuaranteedReduction(1))
	assert.Equal(t, 32, creature.GuaranteedReduction(16))
}

func TestApplyAC_NoneIgnoresArmour(t *testing.T) {
	assert.Equal(t, 12, creature.ApplyAC(fixedSrc{val: 99}, 20, 30, 12, 12, combat.ACNone, 0))
}

func TestApplyAC_StabBypassStripsArmour(t *testing.T) {
	assert.Equal(t, 12, creature.ApplyAC(fixedSrc{val: 99}, 5, 0, 12, 12, combat.ACNormal, 5))
}

func TestApplyAC_GuaranteedReductionFloor(t *testing.T) {
	// The roll saves nothing, so the GDR floor of min(50% of 10, 10/2) applies.
	got := creature.ApplyAC(fixedSrc{val: 0}, 10, 50, 10, 10, combat.ACNormal, 0)
	assert.Equal(t, 5, got)
}

func TestApplyAC_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		ac := rapid.IntRange(0, 60).Draw(rt, "ac")
		gdr := rapid.IntRange(0, 40).Draw(rt, "gdr")
		dmg := rapid.IntRange(-5, 200).Draw(rt, "damage")
		rule := rapid.SampledFrom([]combat.ACType{combat.ACNone, combat.ACNormal, combat.ACHalf}).Draw(rt, "rule")
		got := creature.ApplyAC(src, ac, gdr, dmg, max(dmg, 0), rule, 0)
		if got < 0 || got > max(dmg, 0) {
			rt.Fatalf("ApplyAC = %d outside [0, %d]", got, max(dmg, 0))
		}
	})
}
