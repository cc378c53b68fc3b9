package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/creature"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

func TestTestHit_DeterministicUsesAverageEvasion(t *testing.T) {
	// (10-1)/2 = 4 is subtracted from the to-hit.
	assert.Equal(t, 46, combat.TestHit(maxSrc, 50, 10, false))
	assert.Equal(t, 47, combat.TestHit(fixedSrc{val: 3}, 50, 10, true))
	assert.Equal(t, 41, combat.TestHit(maxSrc, 50, 10, true))
}

func TestCalcToHit_UnrandsHitAutomatically(t *testing.T) {
	c := newContext(t, dice.NewSeededSource(1))
	sniper := &inventory.WeaponDef{
		ID: "sniper", Name: "Sniper", Skill: inventory.SkillMacesFlails, Damage: 1,
		DamageTypes: []inventory.DamageType{inventory.DamageCrushing}, Unrand: inventory.UnrandSniper,
	}
	for _, def := range []*inventory.WeaponDef{axeOfWoe, sniper} {
		p := newPlayer(t, nil)
		p.SetStarving(true)
		require.NoError(t, p.Statuses().Apply(condition.DefaultRegistry().MustGet(condition.Confused), 1, 5))
		mon := newMonster(t, "orc-1", withEV(200))
		assert.Equal(t, combat.AutomaticHit, combat.CalcToHit(c, p, mon, weapon(def), true, false), def.ID)
	}
}

func TestTestHit_AutomaticHitNeverMisses(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		ev := rapid.IntRange(0, 5000).Draw(rt, "ev")
		random := rapid.Bool().Draw(rt, "random")
		if margin := combat.TestHit(src, combat.AutomaticHit, ev, random); margin < 0 {
			rt.Fatalf("automatic hit missed with margin %d against ev %d", margin, ev)
		}
	})
}

func TestTohitPercent_MonotonicInToHit(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ev := rapid.IntRange(1, 200).Draw(rt, "ev")
		lo := rapid.IntRange(0, 400).Draw(rt, "lo")
		hi := lo + rapid.IntRange(0, 400).Draw(rt, "delta")
		if combat.TohitPercent(ev, lo) > combat.TohitPercent(ev, hi) {
			rt.Fatalf("TohitPercent(%d, %d)=%d > TohitPercent(%d, %d)=%d",
				ev, lo, combat.TohitPercent(ev, lo), ev, hi, combat.TohitPercent(ev, hi))
		}
	})
}

func TestCalcToHit_NeverNegative(t *testing.T) {
	statuses := []string{condition.Confused, condition.Vertigo, condition.Invisible, condition.Blind}
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		c := newContext(t, src)
		p := creature.NewPlayer(creature.PlayerSpec{
			ID:      "hero",
			XL:      rapid.IntRange(1, 27).Draw(rt, "xl"),
			MaxHP:   10,
			Stats:   creature.Stats{Str: rapid.IntRange(-10, 40).Draw(rt, "str"), Dex: rapid.IntRange(-10, 40).Draw(rt, "dex")},
			Slaying: rapid.IntRange(-60, 20).Draw(rt, "slaying"),
			Vision:  rapid.IntRange(-1, 1).Draw(rt, "vision"),
			Skills:  map[inventory.Skill]int{inventory.SkillFighting: rapid.IntRange(0, 27).Draw(rt, "fighting")},
		})
		p.SetStarving(rapid.Bool().Draw(rt, "starving"))
		for _, id := range statuses {
			if rapid.Bool().Draw(rt, id) {
				_ = p.Statuses().Apply(condition.DefaultRegistry().MustGet(id), 1, 5)
			}
		}
		var w *inventory.Weapon
		if rapid.Bool().Draw(rt, "armed") {
			w = weapon(dagger)
			w.Plus = rapid.IntRange(-9, 9).Draw(rt, "plus")
		}
		mon := newMonster(t, "orc-1")
		random := rapid.Bool().Draw(rt, "random")
		if got := combat.CalcToHit(c, p, mon, w, random, false); got < 0 {
			rt.Fatalf("CalcToHit = %d", got)
		}
		if got := combat.CalcToHit(c, mon, p, mon.Weapon(0), random, false); got < 0 {
			rt.Fatalf("monster CalcToHit = %d", got)
		}
	})
}

func TestCalcToHit_SkillNeverLowersAccuracy(t *testing.T) {
	c := newContext(t, maxSrc)
	mon := newMonster(t, "orc-1")
	prev := -1
	for lvl := 0; lvl <= 27; lvl++ {
		p := newPlayer(t, longSword)
		p.SetSkill(inventory.SkillLongBlades, lvl)
		got := combat.CalcToHit(c, p, mon, p.Weapon(0), false, false)
		assert.GreaterOrEqual(t, got, prev, "skill %d", lvl)
		prev = got
	}
}

func TestCalcToHit_NilAttackerPanics(t *testing.T) {
	assert.Panics(t, func() { combat.CalcToHit(newContext(t, maxSrc), nil, nil, nil, false, false) })
}

// backlitWorld outlines every defender.
type backlitWorld struct{ combat.OpenWorld }

func (backlitWorld) Backlit(combat.Actor) bool { return true }

func TestCalcToHit_BacklitDefenderIsHarderToHit(t *testing.T) {
	p := newPlayer(t, longSword)
	mon := newMonster(t, "orc-1")

	c := newContext(t, maxSrc)
	plain := combat.CalcToHit(c, p, mon, p.Weapon(0), false, false)
	c.World = backlitWorld{}
	lit := combat.CalcToHit(c, p, mon, p.Weapon(0), false, false)

	require.Positive(t, plain)
	assert.Less(t, lit, plain)
	assert.LessOrEqual(t, lit, plain*16/100+1)
}

func TestTohitPercent(t *testing.T) {
	cases := []struct {
		name      string
		ev, toHit int
		want      int
	}{
		{"no evasion no accuracy", 0, 0, 100},
		{"evasion beats zero accuracy", 5, 0, 0},
		{"negative accuracy without evasion", 0, -3, 100},
		{"negative accuracy with evasion", 10, -3, 0},
		{"evasion above accuracy", 10, 1, 10},
		{"accuracy above evasion", 1, 10, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, combat.TohitPercent(tc.ev, tc.toHit))
		})
	}
}

func TestTohitPercent_WithinPercentRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ev := rapid.IntRange(-50, 500).Draw(rt, "ev")
		toHit := rapid.IntRange(-50, 500).Draw(rt, "toHit")
		if got := combat.TohitPercent(ev, toHit); got < 0 || got > 100 {
			rt.Fatalf("TohitPercent(%d, %d) = %d", ev, toHit, got)
		}
	})
}
