package combat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

func TestAttackShieldBlocked_CountsBlocks(t *testing.T) {
	c := newContext(t, maxSrc)
	p := newPlayer(t, longSword)
	mon := newMonster(t, "orc-1", withShield(10))
	m := combat.NewMeleeAttack(c, p, mon, 0, 0, false)
	c.Src = fixedSrc{val: 0}

	require.True(t, m.AttackShieldBlocked())
	require.True(t, m.AttackShieldBlocked())
	assert.Equal(t, 2, mon.ShieldBlocks())
	assert.Equal(t, 16, mon.ShieldBlockPenalty())

	mon.ResetShieldBlocks()
	assert.Zero(t, mon.ShieldBlockPenalty())
}

func TestPlayer_ShieldBlockPenaltyGrowsQuadratically(t *testing.T) {
	p := newPlayer(t, nil)
	for _, want := range []int{5, 20, 45} {
		p.ShieldBlockSucceeded(nil)
		assert.Equal(t, want, p.ShieldBlockPenalty())
	}
	p.ResetShieldBlocks()
	assert.Zero(t, p.ShieldBlockPenalty())
}

func TestShieldClass_WardingStaff(t *testing.T) {
	p := newPlayer(t, nil)
	assert.Zero(t, p.ShieldClass())
	w := wield(t, p, staff(inventory.ElementFire, 30))
	assert.Equal(t, 20+p.Dexterity()/5, p.ShieldClass())
	w.DrainWard(30)
	assert.Zero(t, p.ShieldClass())

	mon := newMonster(t, "orc-1", withShield(3))
	wield(t, mon, staff(inventory.ElementCold, 7))
	assert.Equal(t, 10, mon.ShieldClass())
}

func TestHandlePhaseBlocked_StaffStrikeDrainsWard(t *testing.T) {
	transcript := &combat.Transcript{}
	c := newContext(t, maxSrc)
	c.Messages = transcript
	p := newPlayer(t, nil)
	p.SetSkill(inventory.SkillEvocations, 10)
	wield(t, p, staff(inventory.ElementCold, 0))
	mon := newMonster(t, "orc-1", withHP("40d1"))
	ward := wield(t, mon, staff(inventory.ElementFire, 24))
	require.Equal(t, 20, mon.ShieldClass())

	m := combat.NewMeleeAttack(c, p, mon, 0, 0, false)
	m.SetDamageDone(7)

	// Each blocked staff strike costs random2(evocations) charges.
	for _, want := range []int{15, 6, 0} {
		assert.True(t, m.HandlePhaseBlocked())
		assert.Equal(t, want, ward.WardCharges)
	}
	assert.Zero(t, mon.ShieldClass())
	assert.Equal(t, 1, strings.Count(transcript.String(), "The ward of the orc's staff of fire flickers out."))
	assert.Equal(t, 40, mon.HP(), "a block deals no damage")

	assert.True(t, m.HandlePhaseBlocked())
	assert.Zero(t, ward.WardCharges)
}

func TestHandlePhaseBlocked_FlavourDrainsOneCharge(t *testing.T) {
	cases := []struct {
		name    string
		flavour combat.AttackFlavour
		want    int
	}{
		{"fire", combat.FlavourFire, 4},
		{"poison", combat.FlavourPoisonStrong, 4},
		{"water", combat.FlavourDrown, 4},
		{"acid", combat.FlavourCorrode, 4},
		{"plain", combat.FlavourPlain, 5},
		{"pain", combat.FlavourPain, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newContext(t, maxSrc)
			p := newPlayer(t, nil)
			ward := wield(t, p, staff(inventory.ElementCold, 5))
			mon := newMonster(t, "orc-1", withAttack(tc.flavour, 5))

			m := combat.NewMeleeAttack(c, mon, p, 0, 0, false)
			m.HandlePhaseBlocked()
			assert.Equal(t, tc.want, ward.WardCharges)
		})
	}
}

func TestHandlePhaseBlocked_MagmaSplash(t *testing.T) {
	transcript := &combat.Transcript{}
	c := newContext(t, maxSrc)
	c.Messages = transcript
	p := newPlayer(t, nil)
	p.SetSkill(inventory.SkillFireMagic, 18)
	ward := wield(t, p, staff(inventory.ElementFire, 24))
	mon := newMonster(t, "orc-1", withHP("80d1"), withResist("fire", -1))

	m := combat.NewMeleeAttack(c, mon, p, 0, 0, false)
	m.HandlePhaseBlocked()

	// 1 + random2(18) = 18 lava damage, doubled and a half by the vulnerability.
	assert.Equal(t, 35, mon.HP())
	assert.Equal(t, 24, ward.WardCharges)
	out := transcript.String()
	assert.Contains(t, out, "A bit of lava splashes out of your protective magma ball and hits the orc")
	assert.Contains(t, out, "The lava burns it terribly.")
}

func TestHandlePhaseBlocked_NoSplashWithoutWard(t *testing.T) {
	c := newContext(t, maxSrc)
	p := newPlayer(t, nil)
	p.SetSkill(inventory.SkillFireMagic, 18)
	wield(t, p, staff(inventory.ElementFire, 0))
	mon := newMonster(t, "orc-1", withHP("80d1"))

	combat.NewMeleeAttack(c, mon, p, 0, 0, false).HandlePhaseBlocked()
	assert.Equal(t, 80, mon.HP())
}

func TestHandlePhaseBlocked_VampiricTendrils(t *testing.T) {
	transcript := &combat.Transcript{}
	c := newContext(t, maxSrc)
	c.Messages = transcript
	p := newPlayer(t, nil)
	wield(t, p, staff(inventory.ElementTransmutation, 0))
	mon := newMonster(t, "orc-1", withHP("40d1"), withAttack(combat.FlavourVampiric, 5))
	mon.SetHP(10)

	combat.NewMeleeAttack(c, mon, p, 0, 0, false).HandlePhaseBlocked()
	assert.Equal(t, 28, mon.HP())
	assert.Contains(t, transcript.String(), "The orc draws strength from your staff of transmutation's tendrils!")

	full := newMonster(t, "orc-2", withHP("40d1"), withAttack(combat.FlavourVampiric, 5))
	combat.NewMeleeAttack(c, full, p, 0, 0, false).HandlePhaseBlocked()
	assert.Equal(t, 40, full.HP())
}

func TestPlayerAuxUnarmed_TransmutationStaff(t *testing.T) {
	transcript := &combat.Transcript{}
	c := newContext(t, maxSrc)
	c.Messages = transcript
	p := newPlayer(t, nil)
	p.SetSkill(inventory.SkillEvocations, 10)
	p.SetSkill(inventory.SkillTransmutations, 10)
	wield(t, p, staff(inventory.ElementTransmutation, 0))
	mon := newMonster(t, "orc-1", withHP("80d1"))

	m := combat.NewMeleeAttack(c, p, mon, 0, 0, false)
	assert.False(t, m.PlayerAuxUnarmed())

	out := transcript.String()
	grab := strings.Index(out, "A tentacle from your staff of transmutation grabs the orc.")
	slap := strings.Index(out, "Your staff of transmutation pecks the orc")
	require.GreaterOrEqual(t, grab, 0, out)
	require.GreaterOrEqual(t, slap, 0, out)
	assert.Less(t, grab, slap, "the grab comes before the slap")
	assert.NotContains(t, out, "You kick")
	assert.Less(t, mon.HP(), 80)
}

func TestPlayerAuxUnarmed_StaffGrabLimitedBySize(t *testing.T) {
	transcript := &combat.Transcript{}
	c := newContext(t, maxSrc)
	c.Messages = transcript
	p := newPlayer(t, nil)
	p.SetSkill(inventory.SkillEvocations, 10)
	p.SetSkill(inventory.SkillTransmutations, 10)
	wield(t, p, staff(inventory.ElementTransmutation, 0))
	mon := newMonster(t, "ogre-1", withHP("80d1"), withSize("large"))

	combat.NewMeleeAttack(c, p, mon, 0, 0, false).PlayerAuxUnarmed()
	out := transcript.String()
	assert.NotContains(t, out, "grabs")
	assert.Contains(t, out, "Your staff of transmutation")
}
