package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
)

// fixedSrc always returns val, clamped into range.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func orcTemplate() *npc.Template {
	return &npc.Template{
		ID:      "orc_warrior",
		Name:    "orc warrior",
		Gender:  "male",
		HitDice: 4,
		HP:      "4d8+2",
		AC:      6,
		EV:      10,
		Attacks: []npc.AttackSpec{
			{Type: combat.AttackHit, Flavour: combat.FlavourPlain, Damage: 10},
			{Type: combat.AttackBite, Flavour: combat.FlavourPlain, Damage: 4},
		},
		Weapon: &npc.WeaponSpec{ID: "falchion", Plus: 2},
	}
}

func weaponRegistry(t *testing.T) *inventory.Registry {
	t.Helper()
	reg := inventory.NewRegistry()
	require.NoError(t, reg.RegisterWeapon(&inventory.WeaponDef{
		ID:          "falchion",
		Name:        "falchion",
		Skill:       inventory.SkillLongBlades,
		Damage:      8,
		Delay:       13,
		DamageTypes: []inventory.DamageType{inventory.DamageSlicing},
	}))
	return reg
}

func newRoller(t *testing.T, src dice.Source) *dice.Roller {
	return dice.NewLoggedRoller(src, zaptest.NewLogger(t))
}

func TestNewInstance_RollsHPAndArms(t *testing.T) {
	inst, err := npc.NewInstance("orc-1", orcTemplate(), weaponRegistry(t), newRoller(t, fixedSrc{val: 0}))
	require.NoError(t, err)

	assert.Equal(t, 6, inst.MaxHP(), "4d8+2 with every die showing 1")
	assert.Equal(t, inst.MaxHP(), inst.HP())
	assert.True(t, inst.Alive())
	assert.False(t, inst.IsPlayer())
	assert.Equal(t, combat.HolyNatural, inst.Holiness())

	w := inst.Weapon(0)
	require.NotNil(t, w)
	assert.Equal(t, "falchion", w.Def.ID)
	assert.Equal(t, 2, w.Plus)
	assert.Nil(t, inst.Weapon(1), "a bite never uses a weapon")
}

func TestNewInstance_UnknownWeapon(t *testing.T) {
	tmpl := orcTemplate()
	tmpl.Weapon.ID = "bardiche"
	_, err := npc.NewInstance("orc-1", tmpl, weaponRegistry(t), newRoller(t, fixedSrc{}))
	require.ErrorIs(t, err, inventory.ErrUnknownWeapon)
}

func TestInstance_Names(t *testing.T) {
	inst, err := npc.NewInstance("orc-1", orcTemplate(), weaponRegistry(t), newRoller(t, fixedSrc{}))
	require.NoError(t, err)

	assert.Equal(t, "the orc warrior", inst.Name(combat.DescThe))
	assert.Equal(t, "an orc warrior", inst.Name(combat.DescA))
	assert.Equal(t, "orc warrior", inst.Name(combat.DescPlain))
	assert.Equal(t, "the orc warrior's", inst.Name(combat.DescIts))
	assert.Equal(t, "his", inst.Pronoun(combat.PronounPossessive))
	assert.Equal(t, "is shoved", inst.ConjVerb("are shoved"))
	assert.Equal(t, "hits", inst.ConjVerb("hit"))
}

func TestInstance_UniqueHasNoArticle(t *testing.T) {
	tmpl := orcTemplate()
	tmpl.Name, tmpl.Unique, tmpl.Weapon = "Sigmund", true, nil
	inst, err := npc.NewInstance("sigmund", tmpl, nil, newRoller(t, fixedSrc{}))
	require.NoError(t, err)
	assert.Equal(t, "Sigmund", inst.Name(combat.DescThe))
	assert.Equal(t, "Sigmund's", inst.Name(combat.DescIts))
}

func TestInstance_AttackPastEndIsNone(t *testing.T) {
	inst, err := npc.NewInstance("orc-1", orcTemplate(), weaponRegistry(t), newRoller(t, fixedSrc{}))
	require.NoError(t, err)
	assert.Equal(t, 2, inst.AttackCount())
	assert.Equal(t, combat.AttackNone, inst.Attack(2).Type)
	assert.Equal(t, combat.AttackNone, inst.Attack(-1).Type)
}

func TestInstance_CorrosionLowersAC(t *testing.T) {
	inst, err := npc.NewInstance("orc-1", orcTemplate(), weaponRegistry(t), newRoller(t, fixedSrc{}))
	require.NoError(t, err)
	def := condition.DefaultRegistry().MustGet(condition.Corroded)
	require.NoError(t, inst.Statuses().Apply(def, 1, 10))
	assert.Equal(t, 2, inst.ArmourClass())
}

func TestInstance_HealthDescription(t *testing.T) {
	inst, err := npc.NewInstance("orc-1", orcTemplate(), weaponRegistry(t), newRoller(t, fixedSrc{val: 7}))
	require.NoError(t, err)
	require.Equal(t, 34, inst.MaxHP())

	assert.Equal(t, "unharmed", inst.HealthDescription())
	inst.Hurt(nil, 20, combat.BeamNone)
	assert.Equal(t, "moderately wounded", inst.HealthDescription())
	inst.Hurt(nil, 14, combat.BeamNone)
	assert.Equal(t, "dead", inst.HealthDescription())
	assert.False(t, inst.Alive())
}

func TestInstance_BodySize(t *testing.T) {
	inst, err := npc.NewInstance("orc-1", orcTemplate(), weaponRegistry(t), newRoller(t, fixedSrc{val: 0}))
	require.NoError(t, err)
	assert.Equal(t, combat.SizeMedium, inst.BodySize(), "no size is medium")

	tmpl := orcTemplate()
	tmpl.Size = "large"
	inst, err = npc.NewInstance("ogre-1", tmpl, weaponRegistry(t), newRoller(t, fixedSrc{val: 0}))
	require.NoError(t, err)
	assert.Equal(t, combat.SizeLarge, inst.BodySize())

	tmpl.Size = "vast"
	_, err = npc.NewInstance("ogre-2", tmpl, weaponRegistry(t), newRoller(t, fixedSrc{val: 0}))
	assert.Error(t, err)
}

func TestInstance_ShieldClassIncludesWard(t *testing.T) {
	tmpl := orcTemplate()
	tmpl.Shield = 4
	tmpl.Weapon = &npc.WeaponSpec{ID: "staff_of_cold"}
	reg := weaponRegistry(t)
	require.NoError(t, reg.RegisterWeapon(&inventory.WeaponDef{
		ID: "staff_of_cold", Name: "staff of cold", Skill: inventory.SkillStaves, Damage: 5, Delay: 12,
		DamageTypes: []inventory.DamageType{inventory.DamageCrushing},
		MagicStaff:  true, Element: inventory.ElementCold, Ward: 30,
	}))
	inst, err := npc.NewInstance("orc-1", tmpl, reg, newRoller(t, fixedSrc{val: 0}))
	require.NoError(t, err)
	assert.Equal(t, 24, inst.ShieldClass(), "the ward's shield is capped at 20")

	inst.Weapon(0).DrainWard(30)
	assert.Equal(t, 4, inst.ShieldClass())
	assert.Equal(t, 0, inst.ShieldBlockPenalty())
	inst.ShieldBlockSucceeded(nil)
	inst.ShieldBlockSucceeded(nil)
	assert.Equal(t, 16, inst.ShieldBlockPenalty())
}
