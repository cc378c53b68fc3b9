package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

func TestApplyBrand_Electrocution(t *testing.T) {
	// 2d4 rolls 8 at its maximum.
	cases := []struct {
		name    string
		resist  int
		hp      int
		message string
	}{
		{"plain", 0, 32, "Lightning courses through the orc"},
		{"vulnerable", -1, 20, "Lightning violently courses through the orc"},
		{"resistant", 1, 36, "Lightning weakly courses through the orc"},
		{"immune", 3, 40, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transcript := &combat.Transcript{}
			c := newContext(t, maxSrc)
			c.Messages = transcript
			mon := newMonster(t, "orc-1", withHP("40d1"), withResist("electricity", tc.resist))

			m := combat.NewMeleeAttack(c, newPlayer(t, longSword), mon, 0, 0, false)
			m.SetDamageDone(10)
			m.ApplyBrand(inventory.BrandElectrocution)
			assert.Equal(t, tc.hp, mon.HP())
			if tc.message == "" {
				assert.NotContains(t, transcript.String(), "Lightning")
			} else {
				assert.Contains(t, transcript.String(), tc.message)
			}
		})
	}
}

func TestApplyBrand_Draining(t *testing.T) {
	t.Run("drains a living monster", func(t *testing.T) {
		c := newContext(t, maxSrc)
		mon := newMonster(t, "orc-1", withHP("40d1"))
		m := combat.NewMeleeAttack(c, newPlayer(t, longSword), mon, 0, 0, false)
		m.SetDamageDone(10)
		m.ApplyBrand(inventory.BrandDraining)

		dmg, _ := m.SpecialDamageFlavour()
		assert.Equal(t, 5, dmg)
		assert.Equal(t, 35, mon.HP())
		assert.True(t, mon.Statuses().Has(condition.Drained))
	})

	t.Run("negative energy immunity", func(t *testing.T) {
		c := newContext(t, maxSrc)
		mon := newMonster(t, "orc-1", withHP("40d1"), withResist("negative energy", 3))
		m := combat.NewMeleeAttack(c, newPlayer(t, longSword), mon, 0, 0, false)
		m.SetDamageDone(10)
		m.ApplyBrand(inventory.BrandDraining)

		assert.Equal(t, 40, mon.HP())
		assert.False(t, mon.Statuses().Has(condition.Drained))
	})

	t.Run("monsters shrug it off half the time", func(t *testing.T) {
		c := newContext(t, fixedSrc{val: 0})
		mon := newMonster(t, "orc-1", withHP("40d1"))
		m := combat.NewMeleeAttack(c, newPlayer(t, longSword), mon, 0, 0, false)
		m.SetDamageDone(10)
		m.ApplyBrand(inventory.BrandDraining)
		assert.False(t, mon.Statuses().Has(condition.Drained))
	})
}

func TestApplyBrand_Pain(t *testing.T) {
	cases := []struct {
		name       string
		necromancy int
		hp         int
	}{
		{"untrained", 0, 40},
		{"trained", 9, 31},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transcript := &combat.Transcript{}
			c := newContext(t, maxSrc)
			c.Messages = transcript
			p := newPlayer(t, longSword)
			p.SetSkill(inventory.SkillNecromancy, tc.necromancy)
			mon := newMonster(t, "orc-1", withHP("40d1"))

			m := combat.NewMeleeAttack(c, p, mon, 0, 0, false)
			m.SetDamageDone(10)
			m.ApplyBrand(inventory.BrandPain)
			assert.Equal(t, tc.hp, mon.HP())
			if tc.hp < 40 {
				assert.Contains(t, transcript.String(), "The orc writhes in agony")
			}
		})
	}
}

func TestApplyBrand_Distortion(t *testing.T) {
	// Rolls index the distortion table: small bend, big warp, banish, blink,
	// instant teleport, delayed teleport, nothing.
	cases := []struct {
		name     string
		src      func() dice.Source
		banished bool
		hp       int
		effect   combat.EffectKind
		queued   bool
		message  string
	}{
		{name: "space bends", src: func() dice.Source { return fixedSrc{val: 0} }, hp: 39, message: "Space bends around the orc"},
		{name: "banish", src: func() dice.Source { return &seqSrc{vals: []int{55}} }, banished: true, hp: 40},
		{name: "blink", src: func() dice.Source { return &seqSrc{vals: []int{60}} }, hp: 40, effect: combat.EffectBlink, queued: true},
		{name: "teleport", src: func() dice.Source { return &seqSrc{vals: []int{75}} }, hp: 40, effect: combat.EffectTeleport, queued: true},
		{name: "nothing", src: func() dice.Source { return maxSrc }, hp: 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transcript := &combat.Transcript{}
			c := newContext(t, maxSrc)
			c.Messages = transcript
			w := &recordingWorld{}
			c.World = w
			mon := newMonster(t, "orc-1", withHP("40d1"))

			m := combat.NewMeleeAttack(c, newPlayer(t, longSword), mon, 0, 0, false)
			m.SetDamageDone(10)
			c.Src = tc.src()
			assert.Equal(t, tc.banished, m.ApplyBrand(inventory.BrandDistortion))
			assert.Equal(t, tc.hp, mon.HP())
			if tc.banished {
				assert.Equal(t, []string{"orc-1"}, w.banished)
			} else {
				assert.Empty(t, w.banished)
			}
			pending := m.PendingEffects()
			if tc.queued {
				require.Len(t, pending, 1)
				assert.Equal(t, tc.effect, pending[0].Kind)
				assert.Same(t, mon, pending[0].Target)
			} else {
				assert.Empty(t, pending)
			}
			if tc.message != "" {
				assert.Contains(t, transcript.String(), tc.message)
			}
		})
	}
}
