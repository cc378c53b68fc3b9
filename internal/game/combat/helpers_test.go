package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/creature"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
)

// fixedSrc always returns val, clamped into range. A large val makes every
// roll its maximum and every "one chance in" fail.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

var maxSrc = fixedSrc{val: 1 << 30}

// seqSrc returns vals in order, each clamped into range, then falls back to
// the last value.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	v := s.vals[len(s.vals)-1]
	if s.i < len(s.vals) {
		v = s.vals[s.i]
		s.i++
	}
	return min(max(v, 0), n-1)
}

// countingMiscaster records every miscast it is asked to run.
type countingMiscaster struct {
	calls   int
	targets []combat.Actor
}

func (c *countingMiscaster) Miscast(target combat.Actor, _ int, _ combat.SpellSchool, _ combat.Actor, _ string) {
	c.calls++
	c.targets = append(c.targets, target)
}

// cleaveWorld is an open arena whose cleave targets are fixed up front.
type cleaveWorld struct {
	combat.OpenWorld
	targets []combat.Actor
	late    []combat.Actor
	scans   int
	killed  []string
}

func (w *cleaveWorld) CleaveTargets(_, _ combat.Actor) []combat.Actor {
	w.scans++
	if w.scans > 1 {
		return append(w.targets, w.late...)
	}
	return w.targets
}

func (w *cleaveWorld) Killed(victim, _ combat.Actor) {
	w.killed = append(w.killed, victim.ID())
}

// recordingWorld is an open arena that remembers the world-altering effects
// it is asked for.
type recordingWorld struct {
	combat.OpenWorld
	banished    []string
	blood       map[combat.Pos]int
	polymorphed []string
	occupied    map[combat.Pos]combat.Actor
}

func (w *recordingWorld) Banish(a, _ combat.Actor) { w.banished = append(w.banished, a.ID()) }

func (w *recordingWorld) Bleed(p combat.Pos, amount int) {
	if w.blood == nil {
		w.blood = map[combat.Pos]int{}
	}
	w.blood[p] += amount
}

func (w *recordingWorld) Polymorph(a combat.Actor) bool {
	w.polymorphed = append(w.polymorphed, a.ID())
	return true
}

func (w *recordingWorld) ActorAt(p combat.Pos) combat.Actor { return w.occupied[p] }

func newContext(t *testing.T, src dice.Source) *combat.Context {
	t.Helper()
	c := combat.NewContext(src)
	c.Logger = zaptest.NewLogger(t)
	return c
}

func weapon(def *inventory.WeaponDef) *inventory.Weapon {
	return inventory.NewWeapon(def)
}

var (
	axeOfWoe = &inventory.WeaponDef{
		ID: "axe_of_woe", Name: "Axe of Woe", Skill: inventory.SkillAxes, Damage: 20, Delay: 15,
		DamageTypes: []inventory.DamageType{inventory.DamageChopping}, Cleaves: true, Unrand: inventory.UnrandWoe,
	}
	longSword = &inventory.WeaponDef{
		ID: "long_sword", Name: "long sword", Skill: inventory.SkillLongBlades, Damage: 10, Delay: 14,
		DamageTypes: []inventory.DamageType{inventory.DamageSlicing},
	}
	dagger = &inventory.WeaponDef{
		ID: "dagger", Name: "dagger", Skill: inventory.SkillShortBlades, Damage: 4, Delay: 10, Accuracy: 6,
		DamageTypes: []inventory.DamageType{inventory.DamagePiercing},
	}
)

// staff builds a magical staff of element with ward charges.
func staff(element inventory.StaffElement, ward int) *inventory.WeaponDef {
	return &inventory.WeaponDef{
		ID: "staff_of_" + string(element), Name: "staff of " + string(element), Skill: inventory.SkillStaves,
		Damage: 5, Delay: 12, DamageTypes: []inventory.DamageType{inventory.DamageCrushing},
		MagicStaff: true, Element: element, Ward: ward,
	}
}

// wield puts def in a's primary hand.
func wield(t *testing.T, a combat.Actor, def *inventory.WeaponDef) *inventory.Weapon {
	t.Helper()
	w := weapon(def)
	require.NoError(t, a.Loadout().Wield(inventory.HandPrimary, w))
	return w
}

func newPlayer(t *testing.T, w *inventory.WeaponDef) *creature.Player {
	t.Helper()
	p := creature.NewPlayer(creature.PlayerSpec{
		ID:    "hero",
		XL:    12,
		MaxHP: 80,
		Stats: creature.Stats{Str: 16, Int: 10, Dex: 14},
		Skills: map[inventory.Skill]int{
			inventory.SkillFighting:    10,
			inventory.SkillAxes:        10,
			inventory.SkillLongBlades:  10,
			inventory.SkillShortBlades: 10,
			inventory.SkillStealth:     8,
		},
	})
	if w != nil {
		require.NoError(t, p.Loadout().Wield(inventory.HandPrimary, weapon(w)))
	}
	return p
}

type monsterOpt func(*npc.Template)

func withAC(ac int) monsterOpt { return func(t *npc.Template) { t.AC = ac } }
func withEV(ev int) monsterOpt { return func(t *npc.Template) { t.EV = ev } }
func withHP(expr string) monsterOpt { return func(t *npc.Template) { t.HP = expr } }
func withTraits(tr ...combat.Trait) monsterOpt {
	return func(t *npc.Template) { t.Traits = tr }
}
func withResist(name string, level int) monsterOpt {
	return func(t *npc.Template) {
		if t.Resists == nil {
			t.Resists = map[string]int{}
		}
		t.Resists[name] = level
	}
}
func withShield(sh int) monsterOpt { return func(t *npc.Template) { t.Shield = sh } }
func withSize(size string) monsterOpt { return func(t *npc.Template) { t.Size = size } }
func withAttack(f combat.AttackFlavour, damage int) monsterOpt {
	return func(t *npc.Template) {
		t.Attacks = []npc.AttackSpec{{Type: combat.AttackHit, Flavour: f, Damage: damage}}
	}
}
func withWeapon(id string) monsterOpt {
	return func(t *npc.Template) { t.Weapon = &npc.WeaponSpec{ID: id} }
}

func newMonster(t *testing.T, id string, opts ...monsterOpt) *npc.Instance {
	t.Helper()
	tmpl := &npc.Template{
		ID:      "orc",
		Name:    "orc",
		HitDice: 4,
		HP:      "1d1",
		Attacks: []npc.AttackSpec{{Type: combat.AttackHit, Flavour: combat.FlavourPlain, Damage: 5}},
	}
	for _, o := range opts {
		o(tmpl)
	}
	reg := inventory.NewRegistry()
	require.NoError(t, reg.RegisterWeapon(longSword))
	inst, err := npc.NewInstance(id, tmpl, reg, dice.NewLoggedRoller(maxSrc, zaptest.NewLogger(t)))
	require.NoError(t, err)
	inst.SetPos(combat.Pos{X: 1, Y: 0})
	return inst
}
