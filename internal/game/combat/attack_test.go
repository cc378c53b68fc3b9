package combat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/creature"
	"github.com/cory-johannsen/melee/internal/game/dice"
)

func TestNewRiposte_NeverNested(t *testing.T) {
	c := newContext(t, maxSrc)
	p := newPlayer(t, longSword)
	mon := newMonster(t, "orc-1", withWeapon("long_sword"))
	m := combat.NewMeleeAttack(c, mon, p, 0, 0, false)

	r := m.NewRiposte(0)
	require.NotNil(t, r)
	assert.True(t, r.IsRiposte())
	assert.Equal(t, combat.KindRiposte, r.Kind)
	assert.Equal(t, m.ID, r.ParentID)
	assert.Nil(t, r.NewRiposte(0))
}

func TestAttack_RiposteChainsStopAtOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newContext(t, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		p := newPlayer(t, longSword)
		mon := newMonster(t, "orc-1", withHP("80d1"), withWeapon("long_sword"), withEV(rapid.IntRange(0, 30).Draw(rt, "ev")))

		var attacker, defender combat.Actor = mon, p
		if rapid.Bool().Draw(rt, "player swings") {
			attacker, defender = p, mon
		}
		m := combat.NewMeleeAttack(c, attacker, defender, 0, 0, false)
		m.Attack()

		recs := m.Records()
		kinds := make(map[string]string, len(recs))
		for _, r := range recs {
			kinds[r.ID.String()] = r.Kind
		}
		ripostes := 0
		for _, r := range recs {
			if r.Kind != string(combat.KindRiposte) {
				continue
			}
			ripostes++
			if kinds[r.ParentID.String()] == string(combat.KindRiposte) {
				rt.Fatalf("riposte %s answers another riposte", r.ID)
			}
		}
		if ripostes > 1 {
			rt.Fatalf("%d ripostes from a single swing", ripostes)
		}
	})
}

func TestRiposte_LeavesMiscastToTopLevelAttack(t *testing.T) {
	c := newContext(t, maxSrc)
	mis := &countingMiscaster{}
	c.Miscaster = mis
	p := newPlayer(t, longSword)
	mon := newMonster(t, "orc-1", withHP("200d1"), withWeapon("long_sword"))
	m := combat.NewMeleeAttack(c, mon, p, 0, 0, false)
	require.True(t, m.ScheduleMiscast(0, mon))

	r := m.NewRiposte(0)
	require.NotNil(t, r)
	r.Resolve()
	assert.Zero(t, mis.calls, "a player riposte must not run its parent's miscast")
	assert.True(t, m.MiscastPending())

	m.DoMiscast()
	assert.Equal(t, 1, mis.calls)
}

func TestRiposteChance_CountsLongBlades(t *testing.T) {
	assert.Equal(t, 1, combat.RiposteChance(newPlayer(t, longSword)))
	assert.Zero(t, combat.RiposteChance(newPlayer(t, dagger)))
	assert.Zero(t, combat.RiposteChance(newMonster(t, "orc-1")))
}

func TestPlayerStabWeaponBonus_SmallerDivisorNeverWorse(t *testing.T) {
	divisors := []int{6, 4, 2, 1}
	rapid.Check(t, func(rt *rapid.T) {
		sp := combat.StabParams{
			WeaponSkill: rapid.IntRange(0, 27).Draw(rt, "skill"),
			Stealth:     rapid.IntRange(0, 27).Draw(rt, "stealth"),
			Dexterity:   rapid.IntRange(1, 40).Draw(rt, "dex"),
			Good:        rapid.Bool().Draw(rt, "good"),
			Katar:       rapid.Bool().Draw(rt, "katar"),
		}
		damage := rapid.IntRange(0, 200).Draw(rt, "damage")
		for _, src := range []dice.Source{fixedSrc{val: 0}, maxSrc} {
			prev := -1
			for _, d := range divisors {
				got := combat.PlayerStabWeaponBonus(src, sp, d, damage)
				if got < prev {
					rt.Fatalf("divisor %d gave %d, less than %d", d, got, prev)
				}
				prev = got
			}
		}
	})
}

func TestPlayerStabWeaponBonus_RejectsZeroDivisor(t *testing.T) {
	assert.Panics(t, func() { combat.PlayerStabWeaponBonus(maxSrc, combat.StabParams{}, 0, 10) })
}

func TestStabDivisor(t *testing.T) {
	assert.Equal(t, 0, combat.StabDivisor(combat.StabNone))
	assert.Equal(t, 1, combat.StabDivisor(combat.StabSleeping))
	assert.Greater(t, combat.StabDivisor(combat.StabDistracted), combat.StabDivisor(combat.StabSleeping))
}

func TestAttack_CleaveHitsCapturedTargetsOnly(t *testing.T) {
	world := &cleaveWorld{}
	c := newContext(t, maxSrc)
	c.World = world
	p := newPlayer(t, axeOfWoe)

	a := newMonster(t, "orc-a")
	b := newMonster(t, "orc-b")
	b.SetPos(combat.Pos{X: 1, Y: 1})
	cc := newMonster(t, "orc-c")
	cc.SetPos(combat.Pos{X: 0, Y: 1})
	late := newMonster(t, "orc-late")
	late.SetPos(combat.Pos{X: -1, Y: 0})
	world.targets = []combat.Actor{b, cc}
	world.late = []combat.Actor{late}

	m := combat.NewMeleeAttack(c, p, a, 0, 0, false)
	require.NotPanics(t, func() { m.Attack() })

	defenders := map[string]string{}
	for _, r := range m.Records() {
		defenders[r.Defender] = r.Kind
	}
	assert.Equal(t, string(combat.KindMelee), defenders["orc-a"])
	assert.Equal(t, string(combat.KindCleave), defenders["orc-b"])
	assert.Equal(t, string(combat.KindCleave), defenders["orc-c"])
	assert.NotContains(t, defenders, "orc-late")
	assert.Equal(t, 1, world.scans)
	assert.Equal(t, 2, m.ChildAttacks())

	assert.False(t, a.Alive())
	assert.False(t, b.Alive())
	assert.False(t, cc.Alive())
	assert.True(t, late.Alive())
	assert.ElementsMatch(t, []string{"orc-a", "orc-b", "orc-c"}, world.killed)
}

func TestAttack_CleaveLimitedByTuning(t *testing.T) {
	world := &cleaveWorld{}
	c := newContext(t, maxSrc)
	c.World = world
	c.Tuning.MaxChildAttacks = 1
	p := newPlayer(t, axeOfWoe)

	a := newMonster(t, "orc-a")
	b := newMonster(t, "orc-b")
	b.SetPos(combat.Pos{X: 1, Y: 1})
	cc := newMonster(t, "orc-c")
	cc.SetPos(combat.Pos{X: 0, Y: 1})
	world.targets = []combat.Actor{b, cc}

	m := combat.NewMeleeAttack(c, p, a, 0, 0, false)
	m.Attack()
	assert.Equal(t, 1, m.ChildAttacks())
	assert.Len(t, m.Records(), 2)
}

func TestPlayerAuxUnarmed_StopsOnKill(t *testing.T) {
	transcript := &combat.Transcript{}
	c := newContext(t, maxSrc)
	c.Messages = transcript
	p := creature.NewPlayer(creature.PlayerSpec{
		ID:    "hero",
		XL:    12,
		MaxHP: 80,
		Stats: creature.Stats{Str: 30, Int: 10, Dex: 30},
	})
	p.SetMutation(combat.MutHooves, 3)
	p.SetMutation(combat.MutHorns, 3)
	mon := newMonster(t, "orc-1")

	m := combat.NewMeleeAttack(c, p, mon, 0, 0, false)
	assert.True(t, m.PlayerAuxUnarmed())
	assert.False(t, mon.Alive())

	out := transcript.String()
	assert.Contains(t, out, "You kick")
	assert.NotContains(t, out, "headbutt")
}

func TestPlayerAuxUnarmed_NothingWithoutMutations(t *testing.T) {
	transcript := &combat.Transcript{}
	c := newContext(t, maxSrc)
	c.Messages = transcript
	mon := newMonster(t, "orc-1")

	m := combat.NewMeleeAttack(c, newPlayer(t, nil), mon, 0, 0, false)
	assert.False(t, m.PlayerAuxUnarmed())
	assert.True(t, mon.Alive())
	assert.Empty(t, strings.TrimSpace(transcript.String()))
}
